package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/visiq/internal/llm"
)

// QuestionSource produces the questions for a session.
type QuestionSource interface {
	Generate(ctx context.Context, count int) ([]Question, error)
}

// ImageSource produces the visual for a question as a data URL.
type ImageSource interface {
	ImageURL(ctx context.Context, prompt string) (string, error)
}

// Config configures a Machine.
type Config struct {
	// Total is the number of questions per session. Must be positive.
	Total int
}

// DefaultConfig returns a Config with DefaultTotal questions.
func DefaultConfig() Config {
	return Config{Total: DefaultTotal}
}

// Machine is the quiz session state machine. It is not safe for concurrent
// use; callers serialize access (the TUI does so through its update loop).
type Machine struct {
	total     int
	questions QuestionSource
	images    ImageSource
	logger    logrus.FieldLogger

	state     State
	epoch     int
	sessionID string

	loaded       []Question
	index        int
	score        int
	current      *QuestionWithImage
	imageLoading bool
	answered     bool
	chosen       string
	err          error
}

// New creates an idle Machine.
func New(cfg Config, questions QuestionSource, images ImageSource, logger logrus.FieldLogger) (*Machine, error) {
	if cfg.Total <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", cfg.Total)
	}
	if questions == nil || images == nil {
		return nil, errors.New("question and image sources are required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Machine{
		total:     cfg.Total,
		questions: questions,
		images:    images,
		logger:    logger,
	}, nil
}

// Start begins a new session from any state and returns the task that
// fetches the questions.
func (m *Machine) Start() Task {
	m.reset()
	m.epoch++
	m.sessionID = uuid.NewString()
	m.state = StateLoading
	m.log().Info("quiz session started")

	epoch, sessionID, total, src := m.epoch, m.sessionID, m.total, m.questions
	return func(ctx context.Context) Outcome {
		qs, err := src.Generate(llm.WithSession(ctx, sessionID), total)
		return QuestionsLoaded{Epoch: epoch, Questions: qs, Err: err}
	}
}

// Restart abandons the current session and returns to Idle. Late outcomes
// from the abandoned session are discarded.
func (m *Machine) Restart() {
	m.log().Info("quiz session restarted")
	m.reset()
	m.epoch++
	m.sessionID = ""
	m.state = StateIdle
}

// Apply feeds a task outcome back into the machine and returns the next
// task to run, if any. Outcomes from an older epoch, or for a question that
// is no longer current, are ignored.
func (m *Machine) Apply(o Outcome) Task {
	switch o := o.(type) {
	case QuestionsLoaded:
		return m.applyQuestions(o)
	case ImageLoaded:
		m.applyImage(o)
	}
	return nil
}

func (m *Machine) applyQuestions(o QuestionsLoaded) Task {
	if o.Epoch != m.epoch || m.state != StateLoading {
		m.log().WithField("outcome_epoch", o.Epoch).Debug("discarding stale questions")
		return nil
	}

	if o.Err != nil {
		m.fail(&DataGenerationError{Err: o.Err})
		return nil
	}
	if len(o.Questions) < m.total {
		m.fail(&DataGenerationError{
			Err: fmt.Errorf("%w: got %d of %d questions", ErrInsufficientData, len(o.Questions), m.total),
		})
		return nil
	}

	m.loaded = append([]Question(nil), o.Questions[:m.total]...)
	m.index = 0
	m.score = 0
	m.state = StatePlaying
	m.log().Info("questions loaded")
	return m.enterQuestion()
}

func (m *Machine) applyImage(o ImageLoaded) {
	if o.Epoch != m.epoch || m.state != StatePlaying || o.Index != m.index || !m.imageLoading {
		m.log().WithFields(logrus.Fields{
			"outcome_epoch": o.Epoch,
			"outcome_index": o.Index,
		}).Debug("discarding stale image")
		return
	}

	m.imageLoading = false
	q := m.loaded[m.index]
	if o.Err != nil {
		m.fail(&ImageGenerationError{QuestionID: q.ID, Err: o.Err})
		return
	}
	m.current = &QuestionWithImage{Question: q, ImageURL: o.URL}
	m.log().Debug("question visual ready")
}

// enterQuestion makes loaded[index] current and returns its image task.
func (m *Machine) enterQuestion() Task {
	m.current = nil
	m.imageLoading = true
	m.answered = false
	m.chosen = ""

	epoch, index, sessionID, src := m.epoch, m.index, m.sessionID, m.images
	prompt := m.loaded[index].ImagePrompt
	return func(ctx context.Context) Outcome {
		url, err := src.ImageURL(llm.WithSession(ctx, sessionID), prompt)
		return ImageLoaded{Epoch: epoch, Index: index, URL: url, Err: err}
	}
}

// SubmitAnswer records the player's choice for the current question and
// reports whether it was correct. Only the first valid answer counts.
func (m *Machine) SubmitAnswer(option string) (bool, error) {
	if m.state != StatePlaying {
		return false, ErrNotPlaying
	}
	if m.answered {
		return false, ErrAlreadyAnswered
	}
	if m.imageLoading || m.current == nil {
		return false, ErrImagePending
	}
	if !m.current.HasOption(option) {
		return false, ErrUnknownOption
	}

	m.answered = true
	m.chosen = option
	correct := option == m.current.CorrectAnswer
	if correct {
		m.score++
	}
	m.log().WithField("correct", correct).Info("answer submitted")
	return correct, nil
}

// Mark classifies option for display: the correct option and a wrongly
// chosen option are marked once the question is answered.
func (m *Machine) Mark(option string) Mark {
	if !m.answered || m.current == nil {
		return MarkNeutral
	}
	switch {
	case option == m.current.CorrectAnswer:
		return MarkCorrect
	case option == m.chosen:
		return MarkWrong
	}
	return MarkNeutral
}

// Advance moves past an answered question. It returns the image task for
// the next question, or nil after the last question when the session
// becomes Finished.
func (m *Machine) Advance() (Task, error) {
	if m.state != StatePlaying {
		return nil, ErrNotPlaying
	}
	if !m.answered {
		return nil, ErrNotAnswered
	}

	if m.index == m.total-1 {
		m.state = StateFinished
		m.current = nil
		m.log().Info("quiz finished")
		return nil, nil
	}

	m.index++
	m.log().Debug("advanced to next question")
	return m.enterQuestion(), nil
}

func (m *Machine) fail(err error) {
	m.state = StateErrored
	m.err = err
	m.current = nil
	m.imageLoading = false

	entry := m.log()
	var detailed interface{ Detail() string }
	if errors.As(err, &detailed) {
		entry = entry.WithField("detail", detailed.Detail())
	}
	entry.WithError(errors.Unwrap(err)).Error("quiz session failed")
}

func (m *Machine) reset() {
	m.loaded = nil
	m.index = 0
	m.score = 0
	m.current = nil
	m.imageLoading = false
	m.answered = false
	m.chosen = ""
	m.err = nil
}

func (m *Machine) log() logrus.FieldLogger {
	return m.logger.WithFields(logrus.Fields{
		"session_id": m.sessionID,
		"epoch":      m.epoch,
		"state":      m.state.String(),
		"index":      m.index,
		"score":      m.score,
	})
}

// State returns the lifecycle state.
func (m *Machine) State() State { return m.state }

// Index returns the zero-based index of the current question.
func (m *Machine) Index() int { return m.index }

// Score returns the number of correct answers so far.
func (m *Machine) Score() int { return m.score }

// Total returns the configured number of questions per session.
func (m *Machine) Total() int { return m.total }

// Current returns the current question with its visual, or nil while the
// visual is loading or no question is active.
func (m *Machine) Current() *QuestionWithImage { return m.current }

// ImageLoading reports whether the current question's visual is in flight.
func (m *Machine) ImageLoading() bool { return m.imageLoading }

// Answered reports whether the current question has been answered.
func (m *Machine) Answered() bool { return m.answered }

// Chosen returns the option picked for the current question, or "".
func (m *Machine) Chosen() string { return m.chosen }

// Err returns the error that moved the session to Errored.
func (m *Machine) Err() error { return m.err }

// Epoch returns the session generation counter.
func (m *Machine) Epoch() int { return m.epoch }

// SessionID returns the current session's ID, or "" when idle.
func (m *Machine) SessionID() string { return m.sessionID }

// IsLast reports whether the current question is the final one.
func (m *Machine) IsLast() bool { return m.index == m.total-1 }

// Result scores the session so far.
func (m *Machine) Result() Result { return NewResult(m.score, m.total) }
