package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You design visual IQ test puzzles for a general adult audience.

Rules:
- Every question depends on an accompanying image; the player cannot answer from the text alone.
- Cover a mix of logical reasoning, spatial awareness, and pattern recognition.
- Image prompts describe abstract, geometric, or symbolic scenes in enough detail for a text-to-image model to draw them unambiguously. Never ask for text or numbers inside the image unless the puzzle needs them.
- Give 4 short options per question unless the puzzle clearly needs fewer. Options must be distinct.
- correct_answer must be copied exactly from options.
- Questions must be unique within the set and challenging but fair.`

// buildUserMessage asks for count questions.
func buildUserMessage(count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d unique and challenging IQ test questions suitable for a general audience.\n", count)
	b.WriteString("Number the questions with sequential ids starting at 1.\n")
	b.WriteString("Return them in the \"questions\" array.")
	return b.String()
}
