package components

import (
	"image"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/visiq/internal/imagegen"
	"github.com/abhisek/visiq/internal/quiz"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func chosen(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(OptionChosenMsg)
	if !ok {
		t.Fatalf("expected OptionChosenMsg, got %T", cmd())
	}
	return msg.Option
}

func TestOptionList_NumberKeyChooses(t *testing.T) {
	o := NewOptionList([]string{"A", "B", "C"})
	o, cmd := o.Update(keyPress('2'))
	if got := chosen(t, cmd); got != "B" {
		t.Fatalf("chose %q, want B", got)
	}
	if o.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", o.Cursor)
	}
}

func TestOptionList_OutOfRangeNumberIgnored(t *testing.T) {
	o := NewOptionList([]string{"A", "B"})
	if _, cmd := o.Update(keyPress('3')); cmd != nil {
		t.Fatal("expected no command for an out-of-range digit")
	}
	if _, cmd := o.Update(keyPress('0')); cmd != nil {
		t.Fatal("expected no command for 0")
	}
}

func TestOptionList_ArrowsAndEnter(t *testing.T) {
	o := NewOptionList([]string{"A", "B", "C"})
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if o.Cursor != 2 {
		t.Fatalf("cursor = %d, want clamped at 2", o.Cursor)
	}
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	_, cmd := o.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := chosen(t, cmd); got != "B" {
		t.Fatalf("chose %q, want B", got)
	}
}

func TestOptionList_LockedIgnoresKeys(t *testing.T) {
	o := NewOptionList([]string{"A", "B"})
	o.Locked = true
	if _, cmd := o.Update(keyPress('1')); cmd != nil {
		t.Fatal("locked list must not choose")
	}
}

func TestOptionList_ViewMarks(t *testing.T) {
	o := NewOptionList([]string{"Square", "Circle"})
	o.Locked = true
	out := o.View(func(opt string) quiz.Mark {
		if opt == "Square" {
			return quiz.MarkCorrect
		}
		return quiz.MarkWrong
	})
	if !strings.Contains(out, "1)  Square  ✓") || !strings.Contains(out, "2)  Circle  ✗") {
		t.Fatalf("unexpected view:\n%s", out)
	}
}

func TestProgressBar_Width(t *testing.T) {
	for _, pct := range []float64{0, 0.5, 1, 1.5} {
		bar := NewProgressBar("", pct, false, 20).View()
		if w := lipgloss.Width(bar); w != 20 {
			t.Fatalf("percent %v: width = %d, want 20", pct, w)
		}
	}
}

func TestFitCells(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		cols, rows int
	}{
		{"square limited by height", 100, 100, 80, 20, 40, 20},
		{"square limited by width", 100, 100, 20, 40, 20, 10},
		{"wide", 200, 100, 40, 40, 40, 10},
		{"empty", 0, 0, 10, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := fitCells(image.Rect(0, 0, tt.w, tt.h), tt.maxW, tt.maxH)
			if tt.w == 0 {
				if cols != 0 {
					t.Fatalf("cols = %d, want 0", cols)
				}
				return
			}
			if cols != tt.cols || rows != tt.rows {
				t.Fatalf("got %dx%d, want %dx%d", cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestImageView_RendersDataURL(t *testing.T) {
	url := imagegen.PatternImage("rotating squares", 32).DataURL()
	v := NewImageView(url)
	if v.Err() != nil {
		t.Fatalf("decode: %v", v.Err())
	}
	out := v.View(16, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d rows, want 8", len(lines))
	}
	if w := lipgloss.Width(lines[0]); w != 16 {
		t.Fatalf("row width = %d, want 16", w)
	}
	if v.View(16, 8) != out {
		t.Fatal("expected cached output for the same size")
	}
}

func TestImageView_BadURL(t *testing.T) {
	v := NewImageView("https://example.com/x.png")
	if v.Err() == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(v.View(10, 10), "visual unavailable") {
		t.Fatal("expected placeholder")
	}
}
