package quizgen

import "github.com/abhisek/visiq/internal/llm"

// questionDefinition is the JSON schema of one puzzle.
var questionDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{
			"type":        "integer",
			"description": "Sequential identifier starting at 1",
		},
		"question": map[string]any{
			"type":        "string",
			"description": "The question shown to the player; it must refer to the image",
		},
		"image_prompt": map[string]any{
			"type":        "string",
			"description": "A detailed, descriptive prompt for a text-to-image model to generate a visual puzzle that is essential to solving the question. The image should be abstract, geometric, or symbolic.",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Between 2 and 6 distinct answer choices in display order, usually 4",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "Exactly one of the options, copied verbatim",
		},
	},
	"required":             []any{"id", "question", "image_prompt", "options", "correct_answer"},
	"additionalProperties": false,
}

// QuizSchema is the structured output schema for a batch of puzzles.
var QuizSchema = &llm.Schema{
	Name:        "iq-quiz",
	Description: "A set of visual IQ test questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionDefinition,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
