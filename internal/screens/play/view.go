package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/visiq/internal/quiz"
	"github.com/abhisek/visiq/internal/ui/components"
	"github.com/abhisek/visiq/internal/ui/layout"
	"github.com/abhisek/visiq/internal/ui/theme"
)

// Rows reserved around the image: info line, rule, question, feedback
// and button.
const chromeRows = 12

func (s *PlayScreen) View(width, height int) string {
	switch s.machine.State() {
	case quiz.StateLoading:
		return s.renderWaiting(width, "Preparing your challenge...")
	case quiz.StatePlaying:
		if s.machine.Current() == nil {
			return s.renderInfoLine(width) + s.renderWaiting(width, "Generating visual...")
		}
		return s.renderQuestion(width, height)
	case quiz.StateFinished:
		return s.renderResult(width)
	case quiz.StateErrored:
		return s.renderError(width)
	}
	return layout.Centered(theme.Hint, width, "\n\n\nPress Enter to start.")
}

func (s *PlayScreen) renderWaiting(width int, label string) string {
	return "\n\n\n" + layout.Centered(theme.Body, width, s.spinner.View()+" "+label)
}

// renderInfoLine renders the question counter, score and a progress rule.
func (s *PlayScreen) renderInfoLine(width int) string {
	m := s.machine
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", m.Index()+1, m.Total()))
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Score %d  ", m.Score()))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}

	bar := components.NewProgressBar("", float64(m.Index())/float64(m.Total()), false, width-4)
	return line + "\n  " + bar.View() + "\n"
}

func (s *PlayScreen) renderQuestion(width, height int) string {
	m := s.machine
	cur := m.Current()

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")

	imgRows := height - chromeRows - len(cur.Options)
	if layout.IsCompactHeight(height) {
		imgRows = min(imgRows, 10)
	}
	if imgRows >= 4 && s.image != nil {
		img := s.image.View(width-4, imgRows)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, img))
		b.WriteString("\n\n")
	}

	textWidth := min(width-8, 80)
	question := lipgloss.NewStyle().
		Width(textWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(cur.Question.Question)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, question))
	b.WriteString("\n\n")

	var mark func(string) quiz.Mark
	if m.Answered() {
		mark = m.Mark
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View(mark)))

	switch {
	case s.notice != "":
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Hint, width, s.notice))
	case m.Answered():
		style := theme.Correct
		if s.feedback != "Correct!" {
			style = theme.Incorrect
		}
		b.WriteString("\n")
		b.WriteString(layout.Centered(style, width, s.feedback))
		b.WriteString("\n\n")
		label := "Next Question"
		if m.IsLast() {
			label = "Finish Quiz"
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.NewButton(label, true).View()))
	default:
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Hint, width,
			fmt.Sprintf("Select (1-%d) or use arrows + Enter", len(cur.Options))))
	}
	return b.String()
}

func (s *PlayScreen) renderResult(width int) string {
	r := s.machine.Result()

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Title, width, "Quiz Complete!"))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Body, width, fmt.Sprintf("You scored %d out of %d", r.Score, r.Total)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", float64(r.Percent)/100, true, min(width-8, 50))
	switch r.Tier {
	case quiz.TierTop:
		bar.Fill = lipgloss.NewStyle().Background(theme.Success)
	case quiz.TierMid:
		bar.Fill = lipgloss.NewStyle().Background(theme.Accent)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), width, r.Message()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.NewButton("Play Again", true).View()))
	return b.String()
}

func (s *PlayScreen) renderError(width int) string {
	msg := "Something went wrong."
	if err := s.machine.Err(); err != nil {
		msg = err.Error()
	}

	card := theme.ErrorCard.Render(
		theme.Incorrect.Render("An Error Occurred") + "\n\n" +
			theme.Body.Render(msg) + "\n\n" +
			components.NewButton("Try Again", true).View(),
	)
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
