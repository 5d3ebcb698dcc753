package quiz

import "context"

// Task is a deferred provider call returned by a transition. Running it
// performs the I/O; the Outcome must be passed back to Machine.Apply.
type Task func(ctx context.Context) Outcome

// Outcome is the tagged result of a Task.
type Outcome interface {
	outcome()
}

// QuestionsLoaded carries the result of the once-per-session data call.
type QuestionsLoaded struct {
	Epoch     int
	Questions []Question
	Err       error
}

// ImageLoaded carries the result of the image call for question Index.
type ImageLoaded struct {
	Epoch int
	Index int
	URL   string
	Err   error
}

func (QuestionsLoaded) outcome() {}
func (ImageLoaded) outcome()     {}

// Drive runs t and every follow-up task to completion on the calling
// goroutine. Line-mode front ends use it; the TUI runs tasks as commands.
func Drive(ctx context.Context, m *Machine, t Task) {
	for t != nil {
		t = m.Apply(t(ctx))
	}
}
