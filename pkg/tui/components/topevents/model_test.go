package topevents

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func featured(n int) []event.Event {
	out := make([]event.Event, n)
	for i := range out {
		out[i] = event.Event{
			ID:    string(rune('a' + i)),
			Title: event.Text("Top " + string(rune('A'+i))),
			Date:  time.Date(2026, time.Month(1+i), 10, 20, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func newModel(n int) *Model {
	m := New(events.ComponentID("top"), theme.Default().Carousel)
	m.SetSize(80, 6)
	m.SetEvents(featured(n))
	m.Focus()
	return m
}

func TestKeepsFirstFive(t *testing.T) {
	m := newModel(7)
	m.Select(6)
	if m.Selected() != 0 {
		t.Fatalf("selecting past the limit should be ignored")
	}
	m.Select(4)
	if e, _ := m.Current(); e.ID != "e" {
		t.Fatalf("expected the fifth event, got %s", e.ID)
	}
}

func TestDotKeysAndArrows(t *testing.T) {
	m := newModel(3)
	m.Update(tea.KeyPressMsg{Text: "3", Code: '3'})
	if m.Selected() != 2 {
		t.Fatalf("expected index 2, got %d", m.Selected())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if m.Selected() != 2 {
		t.Fatalf("selector should not wrap, got %d", m.Selected())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if m.Selected() != 1 {
		t.Fatalf("expected index 1, got %d", m.Selected())
	}
}

func TestEnterOpensSelected(t *testing.T) {
	m := newModel(3)
	m.Select(1)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter should open the event")
	}
	if sel, ok := cmd().(events.EventSelectMsg); !ok || sel.Event.ID != "b" {
		t.Fatalf("unexpected select message %#v", sel)
	}
}

func TestShrinkResetsSelection(t *testing.T) {
	m := newModel(5)
	m.Select(4)
	m.SetEvents(featured(2))
	if m.Selected() != 0 {
		t.Fatalf("selection should reset when it falls off the list")
	}
}

func TestViewShowsShortMonth(t *testing.T) {
	m := newModel(3)
	m.Select(1)
	view := m.View()
	if !strings.Contains(view, "Top Events") || !strings.Contains(view, "Top B") {
		t.Fatalf("unexpected view %q", view)
	}
	if !strings.Contains(view, "Feb") || strings.Contains(view, "Jan ") {
		t.Fatalf("only the selected dot is labelled; view=%q", view)
	}
	m.SetEvents(nil)
	if m.View() != "" {
		t.Fatalf("empty selector renders nothing")
	}
}
