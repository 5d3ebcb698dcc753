package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/visiq/internal/llm"
)

type fakeQuestions struct {
	questions []Question
	err       error
	calls     int
	lastCount int
	sessionID string
}

func (f *fakeQuestions) Generate(ctx context.Context, count int) ([]Question, error) {
	f.calls++
	f.lastCount = count
	f.sessionID = llm.SessionFrom(ctx)
	return f.questions, f.err
}

type fakeImages struct {
	failOn  map[string]error
	prompts []string
}

func (f *fakeImages) ImageURL(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if err := f.failOn[prompt]; err != nil {
		return "", err
	}
	return "data:image/png;base64," + prompt, nil
}

func makeQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:            i + 1,
			Question:      fmt.Sprintf("Which shape completes pattern %d?", i+1),
			ImagePrompt:   fmt.Sprintf("p%d", i),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
		}
	}
	return qs
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newMachine(t *testing.T, total int, qs *fakeQuestions, imgs *fakeImages) *Machine {
	t.Helper()
	m, err := New(Config{Total: total}, qs, imgs, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// startPlaying runs Start and the first image task.
func startPlaying(t *testing.T, m *Machine) {
	t.Helper()
	Drive(context.Background(), m, m.Start())
	if m.State() != StatePlaying {
		t.Fatalf("state = %s, want playing (err: %v)", m.State(), m.Err())
	}
}

func answerAndAdvance(t *testing.T, m *Machine, option string) {
	t.Helper()
	if _, err := m.SubmitAnswer(option); err != nil {
		t.Fatalf("SubmitAnswer(%q): %v", option, err)
	}
	next, err := m.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	Drive(context.Background(), m, next)
}

func TestNew_RejectsZeroTotal(t *testing.T) {
	if _, err := New(Config{Total: 0}, &fakeQuestions{}, &fakeImages{}, nil); err == nil {
		t.Fatal("expected error for zero total")
	}
	if _, err := New(Config{Total: 3}, nil, &fakeImages{}, nil); err == nil {
		t.Fatal("expected error for missing question source")
	}
}

func TestNew_Idle(t *testing.T) {
	m := newMachine(t, 10, &fakeQuestions{}, &fakeImages{})
	if m.State() != StateIdle || m.Score() != 0 || m.Index() != 0 || m.Current() != nil {
		t.Fatalf("fresh machine not idle: state=%s score=%d index=%d", m.State(), m.Score(), m.Index())
	}
	if m.Total() != 10 {
		t.Fatalf("Total = %d", m.Total())
	}
}

func TestStart_LoadsAndFetchesFirstImage(t *testing.T) {
	qs := &fakeQuestions{questions: makeQuestions(10)}
	imgs := &fakeImages{}
	m := newMachine(t, 10, qs, imgs)

	task := m.Start()
	if m.State() != StateLoading {
		t.Fatalf("state after Start = %s, want loading", m.State())
	}
	if m.SessionID() == "" {
		t.Fatal("expected a session ID")
	}

	imageTask := m.Apply(task(context.Background()))
	if qs.calls != 1 || qs.lastCount != 10 {
		t.Fatalf("provider called %d times with count %d", qs.calls, qs.lastCount)
	}
	if qs.sessionID != m.SessionID() {
		t.Fatalf("session ID not propagated: %q vs %q", qs.sessionID, m.SessionID())
	}
	if m.State() != StatePlaying || m.Index() != 0 || m.Score() != 0 {
		t.Fatalf("unexpected playing entry: state=%s index=%d score=%d", m.State(), m.Index(), m.Score())
	}
	if !m.ImageLoading() || m.Current() != nil {
		t.Fatal("expected the first image to be in flight with no current question")
	}
	if imageTask == nil {
		t.Fatal("expected an image task on playing entry")
	}

	m.Apply(imageTask(context.Background()))
	if m.ImageLoading() {
		t.Fatal("image still loading after outcome")
	}
	cur := m.Current()
	if cur == nil || cur.ID != 1 || cur.ImageURL != "data:image/png;base64,p0" {
		t.Fatalf("unexpected current question: %+v", cur)
	}
	if len(imgs.prompts) != 1 || imgs.prompts[0] != "p0" {
		t.Fatalf("image prompts = %v", imgs.prompts)
	}
}

func TestStart_InsufficientQuestions(t *testing.T) {
	m := newMachine(t, 10, &fakeQuestions{questions: makeQuestions(7)}, &fakeImages{})
	Drive(context.Background(), m, m.Start())

	if m.State() != StateErrored {
		t.Fatalf("state = %s, want errored", m.State())
	}
	var dataErr *DataGenerationError
	if !errors.As(m.Err(), &dataErr) {
		t.Fatalf("expected DataGenerationError, got %T", m.Err())
	}
	if !errors.Is(m.Err(), ErrInsufficientData) {
		t.Fatalf("expected insufficient data cause, got %v", dataErr.Err)
	}
}

func TestStart_ProviderFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	m := newMachine(t, 3, &fakeQuestions{err: cause}, &fakeImages{})
	Drive(context.Background(), m, m.Start())

	if m.State() != StateErrored {
		t.Fatalf("state = %s, want errored", m.State())
	}
	if !errors.Is(m.Err(), cause) {
		t.Fatalf("error does not wrap cause: %v", m.Err())
	}
	if m.Err().Error() == "" {
		t.Fatal("expected a human-readable message")
	}
}

func TestStart_UsesFirstNInOrder(t *testing.T) {
	m := newMachine(t, 3, &fakeQuestions{questions: makeQuestions(5)}, &fakeImages{})
	startPlaying(t, m)

	var ids []int
	for range 3 {
		ids = append(ids, m.Current().ID)
		answerAndAdvance(t, m, "A")
	}
	if fmt.Sprint(ids) != "[1 2 3]" {
		t.Fatalf("question order = %v", ids)
	}
	if m.State() != StateFinished {
		t.Fatalf("state = %s, want finished after 3 of 5", m.State())
	}
}

func TestStart_ClearsPreviousError(t *testing.T) {
	qs := &fakeQuestions{err: errors.New("boom")}
	m := newMachine(t, 2, qs, &fakeImages{})
	Drive(context.Background(), m, m.Start())
	if m.Err() == nil {
		t.Fatal("expected error")
	}

	qs.err = nil
	qs.questions = makeQuestions(2)
	task := m.Start()
	if m.Err() != nil {
		t.Fatalf("Start did not clear the error: %v", m.Err())
	}
	Drive(context.Background(), m, task)
	if m.State() != StatePlaying {
		t.Fatalf("state = %s, want playing", m.State())
	}
}

func TestSubmitAnswer_Scoring(t *testing.T) {
	m := newMachine(t, 2, &fakeQuestions{questions: makeQuestions(2)}, &fakeImages{})
	startPlaying(t, m)

	correct, err := m.SubmitAnswer("B")
	if err != nil || !correct {
		t.Fatalf("SubmitAnswer(B) = %v, %v", correct, err)
	}
	if m.Score() != 1 || m.Chosen() != "B" || !m.Answered() {
		t.Fatalf("score=%d chosen=%q answered=%v", m.Score(), m.Chosen(), m.Answered())
	}
}

func TestSubmitAnswer_OncePerQuestion(t *testing.T) {
	m := newMachine(t, 2, &fakeQuestions{questions: makeQuestions(2)}, &fakeImages{})
	startPlaying(t, m)

	if correct, _ := m.SubmitAnswer("A"); correct {
		t.Fatal("A should be wrong")
	}
	_, err := m.SubmitAnswer("B")
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second answer err = %v, want ErrAlreadyAnswered", err)
	}
	if m.Score() != 0 || m.Chosen() != "A" {
		t.Fatalf("second answer changed state: score=%d chosen=%q", m.Score(), m.Chosen())
	}
}

func TestSubmitAnswer_ExactMatch(t *testing.T) {
	qs := makeQuestions(1)
	qs[0].Options = []string{"Triangle", "triangle", "Square"}
	qs[0].CorrectAnswer = "Triangle"
	m := newMachine(t, 1, &fakeQuestions{questions: qs}, &fakeImages{})
	startPlaying(t, m)

	correct, err := m.SubmitAnswer("triangle")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if correct || m.Score() != 0 {
		t.Fatal("comparison must be case-sensitive")
	}
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	m := newMachine(t, 2, &fakeQuestions{questions: makeQuestions(2)}, &fakeImages{})

	if _, err := m.SubmitAnswer("B"); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("idle answer err = %v, want ErrNotPlaying", err)
	}

	imageTask := m.Apply(m.Start()(context.Background()))
	if _, err := m.SubmitAnswer("B"); !errors.Is(err, ErrImagePending) {
		t.Fatalf("answer during image load err = %v, want ErrImagePending", err)
	}

	m.Apply(imageTask(context.Background()))
	if _, err := m.SubmitAnswer("Z"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("unknown option err = %v, want ErrUnknownOption", err)
	}
	if m.Answered() {
		t.Fatal("rejected answer locked the question")
	}
}

func TestMark(t *testing.T) {
	m := newMachine(t, 1, &fakeQuestions{questions: makeQuestions(1)}, &fakeImages{})
	startPlaying(t, m)

	for _, opt := range []string{"A", "B", "C"} {
		if got := m.Mark(opt); got != MarkNeutral {
			t.Fatalf("Mark(%q) before answer = %v", opt, got)
		}
	}

	m.SubmitAnswer("C")
	want := map[string]Mark{"A": MarkNeutral, "B": MarkCorrect, "C": MarkWrong, "D": MarkNeutral}
	for opt, w := range want {
		if got := m.Mark(opt); got != w {
			t.Errorf("Mark(%q) = %v, want %v", opt, got, w)
		}
	}
}

func TestAdvance_RequiresAnswer(t *testing.T) {
	m := newMachine(t, 2, &fakeQuestions{questions: makeQuestions(2)}, &fakeImages{})
	if _, err := m.Advance(); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("idle advance err = %v", err)
	}
	startPlaying(t, m)
	if _, err := m.Advance(); !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("advance before answer err = %v, want ErrNotAnswered", err)
	}
	if m.Index() != 0 {
		t.Fatalf("index moved to %d", m.Index())
	}
}

func TestAdvance_NTimesFinishes(t *testing.T) {
	for _, total := range []int{1, 2, 10} {
		t.Run(fmt.Sprint(total), func(t *testing.T) {
			imgs := &fakeImages{}
			m := newMachine(t, total, &fakeQuestions{questions: makeQuestions(total)}, imgs)
			startPlaying(t, m)

			prevScore := 0
			for i := range total {
				if m.Index() != i {
					t.Fatalf("index = %d, want %d", m.Index(), i)
				}
				opt := "A"
				if i%2 == 0 {
					opt = "B"
				}
				answerAndAdvance(t, m, opt)
				if m.Score() < prevScore || m.Score() > total {
					t.Fatalf("score %d out of bounds or decreased from %d", m.Score(), prevScore)
				}
				prevScore = m.Score()
			}

			if m.State() != StateFinished {
				t.Fatalf("state = %s, want finished", m.State())
			}
			if m.Index() != total-1 {
				t.Fatalf("index = %d, want %d", m.Index(), total-1)
			}
			if len(imgs.prompts) != total {
				t.Fatalf("image fetched %d times, want %d", len(imgs.prompts), total)
			}
			if want := (total + 1) / 2; m.Score() != want {
				t.Fatalf("score = %d, want %d", m.Score(), want)
			}
		})
	}
}

func TestAdvance_LastReturnsNilTask(t *testing.T) {
	m := newMachine(t, 1, &fakeQuestions{questions: makeQuestions(1)}, &fakeImages{})
	startPlaying(t, m)
	if !m.IsLast() {
		t.Fatal("single question should be last")
	}
	m.SubmitAnswer("B")
	task, err := m.Advance()
	if err != nil || task != nil {
		t.Fatalf("Advance on last = %v, %v; want nil task", task, err)
	}
	if r := m.Result(); r.Score != 1 || r.Percent != 100 || r.Tier != TierTop {
		t.Fatalf("result = %+v", r)
	}
}

func TestImageFailure_FreezesSession(t *testing.T) {
	cause := errors.New("safety filter")
	imgs := &fakeImages{failOn: map[string]error{"p2": cause}}
	m := newMachine(t, 10, &fakeQuestions{questions: makeQuestions(10)}, imgs)
	startPlaying(t, m)

	answerAndAdvance(t, m, "B")
	answerAndAdvance(t, m, "A")

	if m.State() != StateErrored {
		t.Fatalf("state = %s, want errored", m.State())
	}
	if m.Index() != 2 {
		t.Fatalf("index = %d, want 2", m.Index())
	}
	if m.Score() != 1 {
		t.Fatalf("score = %d, want 1", m.Score())
	}
	var imgErr *ImageGenerationError
	if !errors.As(m.Err(), &imgErr) || imgErr.QuestionID != 3 {
		t.Fatalf("expected ImageGenerationError for question 3, got %v", m.Err())
	}
	if !errors.Is(m.Err(), cause) {
		t.Fatal("image error does not wrap cause")
	}
	if m.Current() != nil || m.ImageLoading() {
		t.Fatal("errored session should expose no current question")
	}
	if _, err := m.SubmitAnswer("B"); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("answer after error = %v", err)
	}
}

func assertFreshIdle(t *testing.T, m *Machine) {
	t.Helper()
	if m.State() != StateIdle {
		t.Fatalf("state = %s, want idle", m.State())
	}
	if m.Score() != 0 || m.Index() != 0 || m.Current() != nil || m.ImageLoading() ||
		m.Answered() || m.Chosen() != "" || m.Err() != nil || m.SessionID() != "" {
		t.Fatalf("restart leaked state: score=%d index=%d answered=%v chosen=%q err=%v",
			m.Score(), m.Index(), m.Answered(), m.Chosen(), m.Err())
	}
}

func TestRestart_FromAnyState(t *testing.T) {
	t.Run("playing", func(t *testing.T) {
		m := newMachine(t, 3, &fakeQuestions{questions: makeQuestions(3)}, &fakeImages{})
		startPlaying(t, m)
		m.SubmitAnswer("B")
		m.Restart()
		assertFreshIdle(t, m)
	})

	t.Run("finished", func(t *testing.T) {
		m := newMachine(t, 1, &fakeQuestions{questions: makeQuestions(1)}, &fakeImages{})
		startPlaying(t, m)
		answerAndAdvance(t, m, "B")
		m.Restart()
		assertFreshIdle(t, m)
	})

	t.Run("errored", func(t *testing.T) {
		m := newMachine(t, 1, &fakeQuestions{err: errors.New("x")}, &fakeImages{})
		Drive(context.Background(), m, m.Start())
		m.Restart()
		assertFreshIdle(t, m)
	})

	t.Run("loading", func(t *testing.T) {
		m := newMachine(t, 1, &fakeQuestions{questions: makeQuestions(1)}, &fakeImages{})
		m.Start()
		m.Restart()
		assertFreshIdle(t, m)
	})
}

func TestStaleOutcomesDiscarded(t *testing.T) {
	t.Run("questions after restart", func(t *testing.T) {
		m := newMachine(t, 2, &fakeQuestions{questions: makeQuestions(2)}, &fakeImages{})
		task := m.Start()
		m.Restart()

		if next := m.Apply(task(context.Background())); next != nil {
			t.Fatal("stale questions produced a follow-up task")
		}
		assertFreshIdle(t, m)
	})

	t.Run("image after restart and new start", func(t *testing.T) {
		qs := &fakeQuestions{questions: makeQuestions(2)}
		m := newMachine(t, 2, qs, &fakeImages{failOn: map[string]error{"p0": errors.New("late failure")}})
		oldImage := m.Apply(m.Start()(context.Background()))

		m.Restart()
		newImage := m.Apply(m.Start()(context.Background()))

		m.Apply(oldImage(context.Background()))
		if m.State() != StatePlaying || !m.ImageLoading() {
			t.Fatalf("stale image failure applied: state=%s err=%v", m.State(), m.Err())
		}
		_ = newImage
	})

	t.Run("image for another index", func(t *testing.T) {
		m := newMachine(t, 3, &fakeQuestions{questions: makeQuestions(3)}, &fakeImages{})
		startPlaying(t, m)
		m.SubmitAnswer("B")
		m.Advance()

		m.Apply(ImageLoaded{Epoch: m.Epoch(), Index: 0, URL: "data:old"})
		if m.Current() != nil || !m.ImageLoading() {
			t.Fatal("image for a previous question was attached")
		}
	})

	t.Run("duplicate questions outcome", func(t *testing.T) {
		m := newMachine(t, 2, &fakeQuestions{questions: makeQuestions(2)}, &fakeImages{})
		startPlaying(t, m)
		m.SubmitAnswer("B")

		if next := m.Apply(QuestionsLoaded{Epoch: m.Epoch(), Questions: makeQuestions(2)}); next != nil {
			t.Fatal("questions outcome while playing was applied")
		}
		if m.Score() != 1 || !m.Answered() {
			t.Fatal("playing state was reset by a duplicate outcome")
		}
	})
}

func TestStart_FromPlayingBeginsNewSession(t *testing.T) {
	m := newMachine(t, 2, &fakeQuestions{questions: makeQuestions(2)}, &fakeImages{})
	startPlaying(t, m)
	m.SubmitAnswer("B")
	firstSession, firstEpoch := m.SessionID(), m.Epoch()

	m.Start()
	if m.State() != StateLoading || m.Score() != 0 || m.Answered() {
		t.Fatalf("Start did not reset: state=%s score=%d", m.State(), m.Score())
	}
	if m.SessionID() == firstSession || m.Epoch() <= firstEpoch {
		t.Fatal("expected a new session identity")
	}
}
