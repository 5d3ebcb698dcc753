package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/visiq/internal/quiz"
)

// Validator checks a generated batch of questions.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in errors and logs.
	Name() string

	// Validate returns nil if the batch passes. want is the number of
	// questions the caller asked for.
	Validate(qs []quiz.Question, want int) *ValidationError
}

// ValidationError describes why a batch was rejected.
type ValidationError struct {
	Validator  string
	QuestionID int // 0 when the failure is about the batch as a whole
	Message    string
}

func (e *ValidationError) Error() string {
	if e.QuestionID != 0 {
		return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.QuestionID, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// CountValidator rejects empty or undersized batches.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(qs []quiz.Question, want int) *ValidationError {
	if len(qs) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "no questions returned"}
	}
	if len(qs) < want {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("got %d questions, need %d", len(qs), want),
		}
	}
	return nil
}

// StructuralValidator checks required text fields.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []quiz.Question, _ int) *ValidationError {
	for _, q := range qs {
		switch {
		case strings.TrimSpace(q.Question) == "":
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: "question is empty"}
		case len(q.Question) > 600:
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: "question exceeds 600 characters"}
		case strings.TrimSpace(q.ImagePrompt) == "":
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: "image_prompt is empty"}
		}
	}
	return nil
}

// OptionsValidator checks the option list and that the correct answer is
// one of the options, compared exactly.
type OptionsValidator struct {
	MinOptions int
	MaxOptions int
}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(qs []quiz.Question, _ int) *ValidationError {
	for _, q := range qs {
		n := len(q.Options)
		if n < v.MinOptions || (v.MaxOptions > 0 && n > v.MaxOptions) {
			return &ValidationError{
				Validator:  v.Name(),
				QuestionID: q.ID,
				Message:    fmt.Sprintf("has %d options, want %d-%d", n, v.MinOptions, v.MaxOptions),
			}
		}
		seen := make(map[string]bool, n)
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: "empty option"}
			}
			if seen[opt] {
				return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: fmt.Sprintf("duplicate option %q", opt)}
			}
			seen[opt] = true
		}
		if !seen[q.CorrectAnswer] {
			return &ValidationError{
				Validator:  v.Name(),
				QuestionID: q.ID,
				Message:    fmt.Sprintf("correct_answer %q is not one of the options", q.CorrectAnswer),
			}
		}
	}
	return nil
}

// UniqueValidator rejects repeated ids or repeated question text.
type UniqueValidator struct{}

func (v *UniqueValidator) Name() string { return "unique" }

func (v *UniqueValidator) Validate(qs []quiz.Question, _ int) *ValidationError {
	ids := make(map[int]bool, len(qs))
	texts := make(map[string]bool, len(qs))
	for _, q := range qs {
		if ids[q.ID] {
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: "duplicate id"}
		}
		ids[q.ID] = true

		key := strings.ToLower(strings.Join(strings.Fields(q.Question), " "))
		if texts[key] {
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: "duplicate question text"}
		}
		texts[key] = true
	}
	return nil
}
