package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/visiq/internal/quiz"
	"github.com/abhisek/visiq/internal/ui/theme"
)

// OptionChosenMsg is emitted when the player picks an option.
type OptionChosenMsg struct {
	Option string
}

// OptionList is a numbered answer selector. Number keys pick an option
// directly; arrows move the cursor and Enter picks it.
type OptionList struct {
	Options []string
	Cursor  int
	Locked  bool
}

// NewOptionList creates an option list with the cursor on the first option.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options}
}

// Update handles keyboard navigation and selection.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Locked || len(o.Options) == 0 {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, nil
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, nil
	case "enter":
		return o, o.choose(o.Cursor)
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(o.Options) {
		o.Cursor = n - 1
		return o, o.choose(o.Cursor)
	}
	return o, nil
}

func (o OptionList) choose(i int) tea.Cmd {
	opt := o.Options[i]
	return func() tea.Msg { return OptionChosenMsg{Option: opt} }
}

// View renders the options. mark classifies each option once the question
// has been answered; pass nil before that.
func (o OptionList) View(mark func(option string) quiz.Mark) string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case mark != nil && mark(opt) == quiz.MarkCorrect:
			style = theme.Correct
			line += "  ✓"
		case mark != nil && mark(opt) == quiz.MarkWrong:
			style = theme.Incorrect
			line += "  ✗"
		case o.Locked:
			style = theme.Dimmed
		case i == o.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
