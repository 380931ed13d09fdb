package filterbar

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func newBar() *Model {
	m := New(events.ComponentID("filter"), theme.Default().Filter)
	m.SetSize(100, 4)
	return m
}

func intentOf(t *testing.T, cmd tea.Cmd) events.FilterIntentMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if in, ok := c().(events.FilterIntentMsg); ok {
				return in
			}
		}
		t.Fatalf("no filter intent in batch")
	}
	in, ok := msg.(events.FilterIntentMsg)
	if !ok {
		t.Fatalf("expected FilterIntentMsg, got %T", msg)
	}
	return in
}

func TestTypingEmitsQueryIntent(t *testing.T) {
	m := newBar()
	m.FocusQuery()
	_, cmd := m.Update(tea.KeyPressMsg{Text: "j", Code: 'j'})
	in := intentOf(t, cmd)
	if in.Field != events.FilterQuery || in.Value != "j" {
		t.Fatalf("unexpected intent %#v", in)
	}
}

func TestMonthCyclesThroughAny(t *testing.T) {
	m := newBar()
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	in := intentOf(t, cmd)
	if in.Field != events.FilterMonth || in.Month != time.December {
		t.Fatalf("left from any month should pick December, got %#v", in)
	}
	m.SetFilter(viewmodel.Filter{Month: time.December})
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if in := intentOf(t, cmd); in.Month != 0 {
		t.Fatalf("right from December should return to any month, got %v", in.Month)
	}
}

func TestCategoryChipSelection(t *testing.T) {
	m := newBar()
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	in := intentOf(t, cmd)
	if in.Field != events.FilterCategory || in.Value != "cat-1" {
		t.Fatalf("unexpected intent %#v", in)
	}
}

func TestCitySelectionWraps(t *testing.T) {
	m := newBar()
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	in := intentOf(t, cmd)
	if in.Field != events.FilterCity || in.Value != "city-al-kut" {
		t.Fatalf("left from the first city should wrap to the last, got %#v", in)
	}
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := newBar()
	if _, cmd := m.Update(tea.KeyPressMsg{Text: "x", Code: 'x'}); cmd != nil {
		t.Fatalf("unfocused bar emitted a command")
	}
}

func TestViewMirrorsFilter(t *testing.T) {
	m := newBar()
	m.SetFilter(viewmodel.Filter{Query: "jazz", Month: time.March, City: "city-erbil"})
	view := m.View()
	for _, want := range []string{"jazz", "March", "Erbil", "All Events"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view=%q", want, view)
		}
	}
}
