package eventform

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Text: string(r), Code: r})
	}
}

func key(m *Model, code rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func focusField(t *testing.T, m *Model, f fieldKey) {
	t.Helper()
	for i := 0; i < int(fieldCount) && m.focus != f; i++ {
		key(m, tea.KeyTab)
	}
	if m.focus != f {
		t.Fatalf("could not reach field %d", f)
	}
	m.updateInputFocus()
}

func newForm(t *testing.T, ai bool) *Model {
	t.Helper()
	m := New(events.ComponentID("form"), "", event.Draft{}, ai, theme.Default())
	m.Init()
	return m
}

func TestSubmitRequiresFields(t *testing.T) {
	m := newForm(t, false)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if cmd != nil {
		t.Fatalf("an empty form must not submit")
	}
	if !strings.Contains(m.errorMsg, "title") || !strings.Contains(m.errorMsg, "venue") {
		t.Fatalf("expected the missing fields in the error, got %q", m.errorMsg)
	}
}

func TestSubmitBuildsDraft(t *testing.T) {
	m := newForm(t, false)
	if m.focus != fieldTitleEn {
		t.Fatalf("without AI the form starts on the title, got %d", m.focus)
	}
	typeText(m, "Citadel Jazz")
	focusField(t, m, fieldCategory)
	key(m, tea.KeyRight)
	focusField(t, m, fieldCity)
	key(m, tea.KeyRight)
	focusField(t, m, fieldDate)
	typeText(m, "2026-07-01 20:30")
	focusField(t, m, fieldVenue)
	typeText(m, "Erbil Citadel")
	focusField(t, m, fieldCoords)
	typeText(m, "36.19, 44.01")

	cmd := key(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatalf("enter on the last field should submit; error=%q", m.errorMsg)
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected a submit message")
	}
	d := msg.Draft
	if d.Title.Get(event.English) != "Citadel Jazz" || d.Venue != "Erbil Citadel" {
		t.Fatalf("unexpected draft %+v", d)
	}
	if d.CategoryID != m.categories[0].ID || d.CityID != m.cities[0].ID {
		t.Fatalf("pickers not applied: %s %s", d.CategoryID, d.CityID)
	}
	want := time.Date(2026, 7, 1, 20, 30, 0, 0, time.Local)
	if !d.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", d.Date, want)
	}
	if d.Coordinates == nil || d.Coordinates.Lat != 36.19 {
		t.Fatalf("coordinates not parsed: %v", d.Coordinates)
	}
	if m.busy == "" {
		t.Fatalf("form should be busy while saving")
	}
	if cmd := key(m, tea.KeyEnter); cmd != nil {
		t.Fatalf("busy form must ignore input")
	}
	m.SetError(errTest("boom"))
	if m.busy != "" || m.errorMsg != "boom" {
		t.Fatalf("SetError should clear busy and show the error")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestBadDateRejected(t *testing.T) {
	m := newForm(t, false)
	focusField(t, m, fieldDate)
	typeText(m, "next friday")
	_, cmd := m.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if cmd != nil || !strings.Contains(m.errorMsg, DateLayout) {
		t.Fatalf("expected a date error, got %q", m.errorMsg)
	}
}

func TestEditPrefills(t *testing.T) {
	draft := event.Draft{
		Title:      event.Text("Old"),
		CategoryID: "cat-1",
		CityID:     "city-erbil",
		Date:       time.Date(2026, 5, 2, 18, 0, 0, 0, time.Local),
		Venue:      "Hall",
	}
	m := New(events.ComponentID("form"), "evt-9", draft, false, theme.Default())
	got, err := m.Draft()
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if got.Title.Get(event.English) != "Old" || got.CityID != "city-erbil" || got.CategoryID != "cat-1" || !got.Date.Equal(draft.Date) {
		t.Fatalf("prefill mismatch %+v", got)
	}
	view, _ := m.View()
	if !strings.Contains(view, "Edit Event") {
		t.Fatalf("expected the edit title; view=%q", view)
	}
}

func TestPromptSuggests(t *testing.T) {
	m := newForm(t, true)
	if m.focus != fieldPrompt {
		t.Fatalf("with AI the form starts on the prompt")
	}
	if cmd := key(m, tea.KeyEnter); cmd != nil {
		t.Fatalf("an empty prompt must not be sent")
	}
	typeText(m, "folk night")
	cmd := key(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatalf("expected a suggestion request")
	}
	if msg, ok := cmd().(SuggestMsg); !ok || msg.Prompt != "folk night" {
		t.Fatalf("unexpected message %#v", msg)
	}
	m.ApplyDraft(event.Draft{Title: event.Text("Folk Night"), CityID: "city-duhok"})
	if m.value(fieldTitleEn) != "Folk Night" || m.focus != fieldTitleEn || m.busy != "" {
		t.Fatalf("suggestion not applied")
	}
}

func TestEscConfirmsBeforeClosing(t *testing.T) {
	m := newForm(t, false)
	key(m, tea.KeyEscape)
	if !m.confirmClose {
		t.Fatalf("esc should ask for confirmation")
	}
	key(m, 'n')
	if m.confirmClose {
		t.Fatalf("n should keep editing")
	}
	key(m, tea.KeyEscape)
	next, _ := m.Update(tea.KeyPressMsg{Text: "y", Code: 'y'})
	if next != nil {
		t.Fatalf("y should close the form")
	}
}
