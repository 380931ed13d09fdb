package detail

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sample() event.Event {
	return event.Event{
		ID:            "evt-1",
		Title:         event.Text("Nowruz Festival"),
		Description:   event.Text("Fires on the mountain."),
		OrganizerID:   "org-1",
		OrganizerName: "Zagros Events",
		CategoryID:    "cat-1",
		CityID:        "city-duhok",
		Venue:         "Akre",
		Date:          time.Date(2026, 3, 20, 19, 0, 0, 0, time.UTC),
		Reviews: []event.Review{
			{ID: "r1", User: event.User{ID: "u2", Name: "Shilan"}, Rating: 4, Comment: "Unforgettable."},
		},
	}
}

func newDetail(t *testing.T) *Model {
	t.Helper()
	m := New(events.ComponentID("detail"), sample(), theme.Default())
	m.SetSize(100, 40)
	return m
}

func press(m *Model, s string) (*Model, tea.Cmd) {
	var msg tea.KeyPressMsg
	switch s {
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "right":
		msg = tea.KeyPressMsg{Code: tea.KeyRight}
	case "left":
		msg = tea.KeyPressMsg{Code: tea.KeyLeft}
	default:
		r := []rune(s)[0]
		msg = tea.KeyPressMsg{Text: s, Code: r}
	}
	next, cmd := m.Update(msg)
	if next == nil {
		return nil, cmd
	}
	return next.(*Model), cmd
}

func TestViewShowsEventAndReviews(t *testing.T) {
	m := newDetail(t)
	view, _ := m.View()
	plain := stripANSIString(view)
	for _, want := range []string{"Nowruz Festival", "Akre, Duhok", "Zagros Events", "Fires on the mountain.", "Shilan", "Unforgettable.", "4.0 (1)"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("expected %q in view:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "e edit") {
		t.Fatalf("anonymous users cannot edit")
	}
}

func TestReviewNeedsLogin(t *testing.T) {
	m := newDetail(t)
	_, cmd := press(m, "r")
	if cmd == nil {
		t.Fatalf("expected a login request")
	}
	if _, ok := cmd().(events.LoginRequiredMsg); !ok {
		t.Fatalf("expected LoginRequiredMsg")
	}
	if m.Reviewing() {
		t.Fatalf("review form must stay closed when anonymous")
	}
}

func TestReviewSubmitFlow(t *testing.T) {
	m := newDetail(t)
	m.SetUser(&event.User{ID: "u1", Name: "Aram"})
	press(m, "r")
	if !m.Reviewing() {
		t.Fatalf("r should open the review form")
	}
	press(m, "3")
	press(m, "right")
	for _, r := range "Great" {
		press(m, string(r))
	}
	_, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatalf("enter should submit the review")
	}
	sub, ok := cmd().(ReviewSubmitMsg)
	if !ok || sub.EventID != "evt-1" || sub.Draft.Rating != 4 || sub.Draft.Comment != "Great" {
		t.Fatalf("unexpected submit %#v", sub)
	}
	if _, cmd := press(m, "enter"); cmd != nil {
		t.Fatalf("busy form must not resubmit")
	}

	ev := sample().WithReview(event.Review{ID: "r2", User: event.User{ID: "u1", Name: "Aram"}, Rating: 4, Comment: "Great"})
	m.SetEvent(ev)
	m.ReviewSaved()
	if m.Reviewing() {
		t.Fatalf("form should close after saving")
	}
	view, _ := m.View()
	if !strings.Contains(stripANSIString(view), "4.0 (2)") {
		t.Fatalf("expected the new review count:\n%s", stripANSIString(view))
	}
}

func TestReviewFailureKeepsForm(t *testing.T) {
	m := newDetail(t)
	m.SetUser(&event.User{ID: "u1"})
	press(m, "r")
	press(m, "enter")
	m.SetError(errString("Failed to submit review."))
	if !m.Reviewing() {
		t.Fatalf("form should stay open after a failure")
	}
	view, _ := m.View()
	if !strings.Contains(stripANSIString(view), "Failed to submit review.") {
		t.Fatalf("expected the error in view")
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestOrganizerCanEdit(t *testing.T) {
	m := newDetail(t)
	if _, cmd := press(m, "e"); cmd != nil {
		t.Fatalf("anonymous edit must be ignored")
	}
	m.SetUser(&event.User{ID: "org-1"})
	_, cmd := press(m, "e")
	if cmd == nil {
		t.Fatalf("organizer should be able to edit")
	}
	if req, ok := cmd().(EditRequestMsg); !ok || req.Event.ID != "evt-1" {
		t.Fatalf("unexpected edit request %#v", req)
	}
}

func TestProfileBookmarkAndClose(t *testing.T) {
	m := newDetail(t)
	_, cmd := press(m, "o")
	if req, ok := cmd().(events.ProfileRequestMsg); !ok || req.UserID != "org-1" {
		t.Fatalf("unexpected profile request %#v", req)
	}
	_, cmd = press(m, "b")
	if req, ok := cmd().(events.BookmarkRequestMsg); !ok || req.Event.ID != "evt-1" {
		t.Fatalf("unexpected bookmark request %#v", req)
	}
	next, _ := press(m, "esc")
	if next != nil {
		t.Fatalf("esc should close the overlay")
	}
}
