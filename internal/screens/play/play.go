// Package play is the quiz screen. It renders a quiz.Machine and runs the
// machine's provider calls as Bubble Tea commands.
package play

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/visiq/internal/quiz"
	"github.com/abhisek/visiq/internal/screen"
	"github.com/abhisek/visiq/internal/ui/components"
	"github.com/abhisek/visiq/internal/ui/layout"
	"github.com/abhisek/visiq/internal/ui/theme"
)

// PlayScreen implements screen.Screen for a quiz session.
type PlayScreen struct {
	ctx     context.Context
	machine *quiz.Machine
	spinner spinner.Model

	shown    *quiz.QuestionWithImage
	image    *components.ImageView
	options  components.OptionList
	feedback string
	notice   string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)
var _ screen.Leaver = (*PlayScreen)(nil)

// New creates a PlayScreen. Provider calls run with ctx.
func New(ctx context.Context, machine *quiz.Machine) *PlayScreen {
	return &PlayScreen{
		ctx:     ctx,
		machine: machine,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	return s.start()
}

func (s *PlayScreen) Title() string {
	return "Visual IQ Quiz"
}

func (s *PlayScreen) Status() string {
	if s.machine.State() != quiz.StatePlaying {
		return ""
	}
	return fmt.Sprintf("Q %d/%d  ★ %d", s.machine.Index()+1, s.machine.Total(), s.machine.Score())
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	restart := layout.KeyHint{Key: "R", Description: "Restart"}
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}

	switch s.machine.State() {
	case quiz.StatePlaying:
		if s.machine.Answered() {
			label := "Next Question"
			if s.machine.IsLast() {
				label = "Finish Quiz"
			}
			return []layout.KeyHint{{Key: "Enter", Description: label}, restart, quit}
		}
		if s.machine.Current() != nil {
			return []layout.KeyHint{
				{Key: "1-" + fmt.Sprint(len(s.options.Options)), Description: "Answer"},
				{Key: "↑↓ Enter", Description: "Select"},
				restart, quit,
			}
		}
	case quiz.StateFinished:
		return []layout.KeyHint{{Key: "Enter", Description: "Play Again"}, {Key: "Esc", Description: "Back"}, quit}
	case quiz.StateErrored:
		return []layout.KeyHint{{Key: "Enter", Description: "Try Again"}, {Key: "Esc", Description: "Back"}, quit}
	}
	return []layout.KeyHint{restart, quit}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		next := s.machine.Apply(msg.Outcome)
		s.sync()
		return s, s.run(next)

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case components.OptionChosenMsg:
		return s.submit(msg.Option)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "r" || key == "R" {
		return s, s.start()
	}

	switch s.machine.State() {
	case quiz.StatePlaying:
		if s.machine.Current() == nil {
			return s, nil
		}
		if !s.machine.Answered() {
			var cmd tea.Cmd
			s.options, cmd = s.options.Update(msg)
			return s, cmd
		}
		if key == "enter" || key == "space" || key == "n" {
			return s.advance()
		}

	case quiz.StateIdle, quiz.StateFinished, quiz.StateErrored:
		if key == "enter" {
			return s, s.start()
		}
	}
	return s, nil
}

// Leave abandons the session when the player backs out of the quiz.
func (s *PlayScreen) Leave() {
	s.machine.Restart()
	s.sync()
}

// start begins a new session from any state.
func (s *PlayScreen) start() tea.Cmd {
	task := s.machine.Start()
	s.notice = ""
	s.sync()
	return tea.Batch(s.run(task), s.spinner.Tick)
}

func (s *PlayScreen) submit(option string) (screen.Screen, tea.Cmd) {
	correct, err := s.machine.SubmitAnswer(option)
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.notice = ""
	s.options.Locked = true
	if correct {
		s.feedback = "Correct!"
	} else {
		s.feedback = "Not quite"
	}
	return s, nil
}

func (s *PlayScreen) advance() (screen.Screen, tea.Cmd) {
	task, err := s.machine.Advance()
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.sync()
	if task == nil {
		return s, nil
	}
	return s, tea.Batch(s.run(task), s.spinner.Tick)
}

// run turns a task into a command. The outcome comes back as outcomeMsg.
func (s *PlayScreen) run(task quiz.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx := s.ctx
	return func() tea.Msg {
		return outcomeMsg{Outcome: task(ctx)}
	}
}

// sync rebuilds per-question view state when the current question changes.
func (s *PlayScreen) sync() {
	cur := s.machine.Current()
	if cur == s.shown {
		return
	}
	s.shown = cur
	s.feedback = ""
	s.notice = ""
	if cur == nil {
		s.image = nil
		s.options = components.OptionList{}
		return
	}
	s.image = components.NewImageView(cur.ImageURL)
	s.options = components.NewOptionList(cur.Options)
}

func (s *PlayScreen) busy() bool {
	switch s.machine.State() {
	case quiz.StateLoading:
		return true
	case quiz.StatePlaying:
		return s.machine.ImageLoading()
	}
	return false
}
