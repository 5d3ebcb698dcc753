// Package quiz is the session state machine behind a visual IQ quiz.
//
// A Machine never performs I/O itself. Transitions that need a provider
// call return a Task; the caller runs it (typically off the UI goroutine)
// and feeds the resulting Outcome back through Apply.
package quiz

import "slices"

// DefaultTotal is the number of questions in a session unless configured.
const DefaultTotal = 10

// Question is a single multiple-choice puzzle. Immutable once loaded.
type Question struct {
	ID            int
	Question      string
	ImagePrompt   string
	Options       []string // display order
	CorrectAnswer string   // one of Options
}

// HasOption reports whether opt is one of the question's options.
func (q Question) HasOption(opt string) bool {
	return slices.Contains(q.Options, opt)
}

// QuestionWithImage is the current question once its visual is ready.
type QuestionWithImage struct {
	Question

	// ImageURL is a data:<mime>;base64,... reference.
	ImageURL string
}

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StateFinished
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// Mark classifies an option for display after an answer.
type Mark int

const (
	MarkNeutral Mark = iota
	MarkCorrect
	MarkWrong
)
