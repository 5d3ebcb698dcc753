// Package start is the landing screen.
package start

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/visiq/internal/router"
	"github.com/abhisek/visiq/internal/screen"
	"github.com/abhisek/visiq/internal/ui/components"
	"github.com/abhisek/visiq/internal/ui/layout"
	"github.com/abhisek/visiq/internal/ui/theme"
)

const banner = `█ █ █ █▀▀ █ █▀█
▀▄▀ █ ▀▀█ █ █▄█
 ▀  ▀ ▀▀▀ ▀  ▀▀`

const blurb = "Test your logic, spatial awareness and pattern recognition\nwith freshly generated visual puzzles."

// Info describes the session the start screen is about to launch.
type Info struct {
	Questions     int
	TextModel     string
	ImageProvider string
}

// StartScreen shows the title and launches a quiz.
type StartScreen struct {
	info    Info
	menu    components.Menu
	newQuiz func() screen.Screen
}

var _ screen.Screen = (*StartScreen)(nil)
var _ screen.KeyHintProvider = (*StartScreen)(nil)

// New creates a StartScreen. newQuiz builds a fresh quiz screen each time
// the player starts.
func New(info Info, newQuiz func() screen.Screen) *StartScreen {
	s := &StartScreen{info: info, newQuiz: newQuiz}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start Quiz", Action: s.start},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *StartScreen) start() tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s.newQuiz()}
	}
}

func (s *StartScreen) Init() tea.Cmd { return nil }

func (s *StartScreen) Title() string { return "" }

func (s *StartScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *StartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *StartScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Title.Render(banner)))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Subtitle, width, "Visual IQ Quiz"))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Body, width, blurb))
	b.WriteString("\n\n")

	details := fmt.Sprintf("%d questions", s.info.Questions)
	if s.info.TextModel != "" {
		details += " · puzzles by " + s.info.TextModel
	}
	if s.info.ImageProvider != "" {
		details += " · visuals by " + s.info.ImageProvider
	}
	b.WriteString(layout.Centered(theme.Hint, width, details))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}
