package play

import "github.com/abhisek/visiq/internal/quiz"

// outcomeMsg carries the result of a quiz task back to the update loop.
type outcomeMsg struct {
	Outcome quiz.Outcome
}
