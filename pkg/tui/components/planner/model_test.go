package planner

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func newPlanner() *Model {
	m := New(events.ComponentID("planner"), event.English, theme.Default())
	m.Init()
	return m
}

func enter(m *Model) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func plan() assistant.Itinerary {
	return assistant.Itinerary{
		Title: event.Text("Erbil Weekend"),
		Plan: []assistant.Step{
			{Day: "Day 1", Title: "Citadel walk", Description: "Morning stroll."},
			{Day: "Day 1", Title: "Concert", Description: "Evening music.", EventID: "e1"},
			{Day: "Day 2", Title: "Market", Description: "Qaysari bazaar."},
			{Day: "Day 2", Title: "Food fair", Description: "Lunch.", EventID: "e2"},
		},
	}
}

func known() []event.Event {
	return []event.Event{
		{ID: "e1", Title: event.Text("Erbil Symphony")},
		{ID: "e2", Title: event.Text("Kurdish Food Fair")},
	}
}

func TestEmptyPromptRejected(t *testing.T) {
	m := newPlanner()
	if cmd := enter(m); cmd != nil {
		t.Fatalf("empty prompt must not be sent")
	}
	if m.errorMsg == "" {
		t.Fatalf("expected a hint to describe the plan")
	}
}

func TestExampleAndGenerate(t *testing.T) {
	m := newPlanner()
	m.Update(tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl})
	if m.prompt.Value() != examples[event.English][0] {
		t.Fatalf("expected the first example, got %q", m.prompt.Value())
	}
	m.Update(tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl})
	if m.prompt.Value() != examples[event.English][1] {
		t.Fatalf("expected the second example, got %q", m.prompt.Value())
	}
	cmd := enter(m)
	if cmd == nil {
		t.Fatalf("expected a plan request")
	}
	if msg, ok := cmd().(PlanMsg); !ok || msg.Prompt != examples[event.English][1] {
		t.Fatalf("unexpected plan message %#v", msg)
	}
	if !m.Loading() {
		t.Fatalf("planner should be loading")
	}
	if next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); next == nil {
		t.Fatalf("cannot close while generating")
	}
}

func TestLinkedStepsOpenEvents(t *testing.T) {
	m := newPlanner()
	m.loading = true
	m.SetItinerary(plan(), known())
	view, _ := m.View()
	if !strings.Contains(view, "Erbil Weekend") || !strings.Contains(view, "Erbil Symphony") {
		t.Fatalf("unexpected view %q", view)
	}
	cmd := enter(m)
	if sel, ok := cmd().(events.EventSelectMsg); !ok || sel.Event.ID != "e1" {
		t.Fatalf("expected the first linked event, got %#v", sel)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	cmd = enter(m)
	if sel, ok := cmd().(events.EventSelectMsg); !ok || sel.Event.ID != "e2" {
		t.Fatalf("cursor should clamp at the last link, got %#v", sel)
	}
}

func TestStartOverAndError(t *testing.T) {
	m := newPlanner()
	m.SetItinerary(plan(), nil)
	if cmd := enter(m); cmd != nil {
		t.Fatalf("plan without known events has nothing to open")
	}
	m.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if m.itinerary != nil {
		t.Fatalf("ctrl+r should start over")
	}
	m.loading = true
	m.SetError(errors.New("assistant: unavailable"))
	view, _ := m.View()
	if m.Loading() || !strings.Contains(view, "assistant: unavailable") {
		t.Fatalf("expected the error in view %q", view)
	}
}
