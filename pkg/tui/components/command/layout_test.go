package command

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func newBar(width, height int) *Model {
	cmd := NewModel(Options{
		ID:           "test-command",
		PromptPrefix: ":",
		StatusText:   "Ready",
		HintText:     "? help",
		Styles:       theme.Default().Footer,
	})
	cmd.SetSuggestions([]SuggestionOption{
		{Name: "new", Description: "Create an event"},
		{Name: "bookmarks", Description: "Show my bookmarks"},
		{Name: "help", Description: "Show help"},
	})
	cmd.SetSize(width, height)
	return cmd
}

func TestCommandBarAnchorsBelowContent(t *testing.T) {
	width, height := 80, 24
	contentHeight := height - 1
	cmd := newBar(width, height)

	rows := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		rows = append(rows, fmt.Sprintf("Event %02d", i))
	}
	cmd.SetContent(strings.Join(rows, "\n"), nil)
	cmd.BeginInput("")

	view, _ := cmd.View()
	rendered := strings.Split(view, "\n")
	if len(rendered) != height {
		t.Fatalf("expected %d lines, got %d", height, len(rendered))
	}
	if !strings.Contains(view, "bookmarks") {
		t.Fatalf("expected suggestion overlay in view, got:\n%s", view)
	}
	if last := rendered[len(rendered)-1]; !strings.HasPrefix(last, ":") {
		t.Fatalf("expected command prompt on last line, got %q", last)
	}
	if first := strings.TrimSpace(rendered[0]); !strings.HasPrefix(first, fmt.Sprintf("Event %02d", 40-contentHeight)) {
		t.Fatalf("expected the tail of the content on top, got %q", rendered[0])
	}
}

func TestCommandSubmitAndCancel(t *testing.T) {
	cmd := newBar(60, 10)
	_, c := cmd.Update(tea.KeyPressMsg{Text: ":", Code: ':'})
	if !cmd.InInputMode() || c == nil {
		t.Fatalf("colon should open the prompt")
	}
	for _, r := range "bo" {
		cmd.Update(tea.KeyPressMsg{Text: string(r), Code: r})
	}
	cmd.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd.Value() != "bookmarks" {
		t.Fatalf("tab should complete the first match, got %q", cmd.Value())
	}
	_, c = cmd.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd.InInputMode() {
		t.Fatalf("enter should close the prompt")
	}
	if !containsMsg(c, func(msg tea.Msg) bool {
		sub, ok := msg.(events.CommandSubmitMsg)
		return ok && sub.Value == "bookmarks"
	}) {
		t.Fatalf("expected a submit message")
	}

	cmd.BeginInput("he")
	_, c = cmd.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd.InInputMode() {
		t.Fatalf("esc should cancel")
	}
	if !containsMsg(c, func(msg tea.Msg) bool { _, ok := msg.(events.CommandCancelMsg); return ok }) {
		t.Fatalf("expected a cancel message")
	}
}

func TestPassiveBarShowsHintAndStatus(t *testing.T) {
	cmd := newBar(40, 4)
	cmd.SetStatus("3 events")
	view, _ := cmd.View()
	lines := strings.Split(view, "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "? help") || !strings.Contains(last, "3 events") {
		t.Fatalf("unexpected bar %q", last)
	}
}

func containsMsg(cmd tea.Cmd, match func(tea.Msg) bool) bool {
	if cmd == nil {
		return false
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if containsMsg(c, match) {
				return true
			}
		}
		return false
	}
	return match(msg)
}

func TestCommandCompletesArguments(t *testing.T) {
	cmd := newBar(60, 10)
	cmd.SetSuggestions([]SuggestionOption{
		{Name: "view", Args: []string{"grid", "map", "bookmarks", "my-events"}},
		{Name: "lang", Args: []string{"en", "ar", "ku"}},
	})
	cmd.BeginInput("view m")
	cmd.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd.Value() != "view map" {
		t.Fatalf("expected the first prefix match, got %q", cmd.Value())
	}
	cmd.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd.Value() != "view my-events" {
		t.Fatalf("expected the next match, got %q", cmd.Value())
	}
	cmd.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !cmd.InInputMode() || cmd.Value() != "view m" {
		t.Fatalf("esc should restore the typed text first, got %q", cmd.Value())
	}

	cmd.BeginInput("lang ")
	view, _ := cmd.View()
	if !strings.Contains(view, "lang ku") || strings.Contains(view, "grid") {
		t.Fatalf("expected only the lang arguments:\n%s", view)
	}
}
