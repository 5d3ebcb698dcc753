package quizgen

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/visiq/internal/llm"
)

// sampleBank backs the mock text provider so the quiz can run offline.
var sampleBank = []questionOutput{
	{
		Question:      "Which figure comes next in the sequence?",
		ImagePrompt:   "Four panels in a row: a square with one dot, a square with two dots, a square with three dots, and an empty square with a question mark. Flat black shapes on white.",
		Options:       []string{"Four dots", "Three dots", "Five dots", "Two dots"},
		CorrectAnswer: "Four dots",
	},
	{
		Question:      "The arrow rotates 90 degrees clockwise each step. Where does it point in the fourth panel?",
		ImagePrompt:   "Three panels of a single bold arrow: pointing up, pointing right, pointing down, then a blank fourth panel. Minimalist geometric style.",
		Options:       []string{"Left", "Up", "Right", "Down"},
		CorrectAnswer: "Left",
	},
	{
		Question:      "Which shape is the odd one out?",
		ImagePrompt:   "Five outlined shapes in a row: triangle, square, pentagon, circle, hexagon. Clean line art on a plain background.",
		Options:       []string{"Circle", "Triangle", "Square", "Hexagon"},
		CorrectAnswer: "Circle",
	},
	{
		Question:      "How many small cubes make up the stack shown?",
		ImagePrompt:   "An isometric stack of unit cubes arranged as a 2 by 2 base with one cube on top, all edges visible, flat pastel shading.",
		Options:       []string{"5", "4", "6", "8"},
		CorrectAnswer: "5",
	},
	{
		Question:      "Which net folds into a closed cube?",
		ImagePrompt:   "Three flat paper nets labeled A, B and C. A is a cross shape of six squares, B is a straight strip of six squares, C is an L shape of five squares. Simple technical drawing.",
		Options:       []string{"A", "B", "C"},
		CorrectAnswer: "A",
	},
	{
		Question:      "Each row follows the same rule. Which symbol fills the gap?",
		ImagePrompt:   "A 3 by 3 grid: row one circle, square, triangle; row two square, triangle, circle; row three triangle, circle, empty cell with a question mark. Bold monochrome symbols.",
		Options:       []string{"Square", "Circle", "Triangle", "Star"},
		CorrectAnswer: "Square",
	},
	{
		Question:      "Which image is the mirror reflection of the top shape?",
		ImagePrompt:   "A letter-like abstract glyph shaped like an F at the top, and below it four candidate glyphs labeled A to D, one of which is its horizontal mirror image. Black on white.",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: "C",
	},
	{
		Question:      "The dark segment moves around the circle. How many segments does it skip each step?",
		ImagePrompt:   "Four circles each divided into eight pie segments; in each successive circle a single dark segment jumps forward by two positions clockwise.",
		Options:       []string{"1", "2", "3", "4"},
		CorrectAnswer: "2",
	},
	{
		Question:      "Which two pieces fit together to form a perfect square?",
		ImagePrompt:   "Four irregular puzzle pieces labeled 1 to 4 scattered on a grid, two of which are complementary halves of a square. Flat colors, top-down view.",
		Options:       []string{"1 and 3", "1 and 2", "2 and 4", "3 and 4"},
		CorrectAnswer: "1 and 3",
	},
	{
		Question:      "How many triangles are in the figure?",
		ImagePrompt:   "A large triangle subdivided by one line from the apex to the base midpoint and one horizontal line halfway up. Thin black lines on white.",
		Options:       []string{"6", "4", "5", "8"},
		CorrectAnswer: "6",
	},
	{
		Question:      "Which gear turns in the same direction as the red gear?",
		ImagePrompt:   "A chain of five interlocking gears in a row, the first one red, the others grey and numbered 2 to 5. Clean mechanical illustration.",
		Options:       []string{"Gear 3", "Gear 2", "Gear 4", "None of them"},
		CorrectAnswer: "Gear 3",
	},
	{
		Question:      "Which tile completes the pattern?",
		ImagePrompt:   "A checkerboard-like tiling of diagonal stripes with one tile missing, and four candidate tiles below it with stripes at different angles. Geometric, high contrast.",
		Options:       []string{"Diagonal up-right", "Diagonal up-left", "Horizontal", "Vertical"},
		CorrectAnswer: "Diagonal up-right",
	},
}

// SampleQuestions returns count questions from the built-in bank in
// response format. Beyond the bank size it cycles with distinct wording.
func SampleQuestions(count int) json.RawMessage {
	out := quizOutput{Questions: make([]questionOutput, count)}
	for i := range count {
		q := sampleBank[i%len(sampleBank)]
		q.ID = i + 1
		if round := i / len(sampleBank); round > 0 {
			q.Question = fmt.Sprintf("%s (round %d)", q.Question, round+1)
		}
		out.Questions[i] = q
	}
	b, _ := json.Marshal(out)
	return b
}

// SampleResponder answers every request with count sample questions. It is
// the llm.Config.MockResponder for offline play.
func SampleResponder(count int) func(llm.Request) llm.MockResponse {
	return func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: SampleQuestions(count)}
	}
}
