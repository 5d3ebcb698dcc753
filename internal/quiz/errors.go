package quiz

import (
	"errors"
	"fmt"
)

// Misuse of the state machine. None of these change state.
var (
	ErrNotPlaying      = errors.New("quiz is not in progress")
	ErrImagePending    = errors.New("question visual is still loading")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrUnknownOption   = errors.New("option is not one of the current choices")
	ErrNotAnswered     = errors.New("answer the question before moving on")
)

// ErrInsufficientData is wrapped by DataGenerationError when the provider
// returned fewer questions than the session needs.
var ErrInsufficientData = errors.New("insufficient data")

// DataGenerationError means the quiz questions could not be produced.
type DataGenerationError struct {
	Err error
}

func (e *DataGenerationError) Error() string {
	return "Could not generate the quiz. Please try again."
}

func (e *DataGenerationError) Unwrap() error { return e.Err }

// Detail returns the underlying cause for logs.
func (e *DataGenerationError) Detail() string {
	return fmt.Sprintf("quiz data generation: %v", e.Err)
}

// ImageGenerationError means the visual for the current question could not
// be produced.
type ImageGenerationError struct {
	QuestionID int
	Err        error
}

func (e *ImageGenerationError) Error() string {
	return "Could not generate the visual for the question."
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }

// Detail returns the underlying cause for logs.
func (e *ImageGenerationError) Detail() string {
	return fmt.Sprintf("image generation for question %d: %v", e.QuestionID, e.Err)
}
