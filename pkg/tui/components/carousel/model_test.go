package carousel

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func slides(n int) []event.Event {
	out := make([]event.Event, n)
	for i := range out {
		out[i] = event.Event{
			ID:    string(rune('a' + i)),
			Title: event.Text("Slide " + string(rune('A'+i))),
			Date:  time.Date(2026, 5, 1+i, 18, 0, 0, 0, time.UTC),
			Venue: "Venue",
		}
	}
	return out
}

func newModel(t *testing.T, n int) *Model {
	t.Helper()
	m := New(events.ComponentID("featured"), theme.Default().Carousel)
	m.SetSize(60, 5)
	if cmd := m.SetSlides(slides(n)); cmd == nil {
		t.Fatalf("expected the timer to start when slides arrive")
	}
	return m
}

func tick(m *Model) TickMsg {
	return TickMsg{Component: m.id, Gen: m.gen}
}

func TestTickAdvancesAndWraps(t *testing.T) {
	m := newModel(t, 3)
	for want := 1; want <= 3; want++ {
		_, cmd := m.Update(tick(m))
		if cmd == nil {
			t.Fatalf("expected the timer to be re-armed after tick %d", want)
		}
		if got := m.Index(); got != want%3 {
			t.Fatalf("tick %d: index = %d, want %d", want, got, want%3)
		}
	}
}

func TestStaleTickIgnoredAfterManualChange(t *testing.T) {
	m := newModel(t, 3)
	stale := tick(m)
	if cmd := m.GoTo(2); cmd == nil {
		t.Fatalf("expected the timer to restart on a dot jump")
	}
	m.Update(stale)
	if m.Index() != 2 {
		t.Fatalf("stale tick moved the carousel to %d", m.Index())
	}
	m.Update(tick(m))
	if m.Index() != 0 {
		t.Fatalf("fresh tick should wrap to 0, got %d", m.Index())
	}
}

func TestGoToSameSlideKeepsTimer(t *testing.T) {
	m := newModel(t, 3)
	gen := m.gen
	if cmd := m.GoTo(0); cmd != nil {
		t.Fatalf("jumping to the current slide should not restart the timer")
	}
	if m.gen != gen {
		t.Fatalf("generation changed without an index change")
	}
}

func TestSwipeThresholdAndClamp(t *testing.T) {
	m := newModel(t, 3)

	m.BeginDrag(40)
	m.DragTo(40 - SwipeThreshold)
	m.EndDrag()
	if m.Index() != 0 {
		t.Fatalf("a drag at the threshold must not change slides, got %d", m.Index())
	}

	m.BeginDrag(40)
	m.DragTo(40 - SwipeThreshold - 1)
	m.EndDrag()
	if m.Index() != 1 {
		t.Fatalf("swipe left should advance, got %d", m.Index())
	}

	m.GoTo(2)
	m.BeginDrag(10)
	m.DragTo(0)
	m.EndDrag()
	if m.Index() != 2 {
		t.Fatalf("swipe left on the last slide must clamp, got %d", m.Index())
	}

	m.GoTo(0)
	m.BeginDrag(0)
	m.DragTo(20)
	m.EndDrag()
	if m.Index() != 0 {
		t.Fatalf("swipe right on the first slide must clamp, got %d", m.Index())
	}
}

func TestTimerSuspendedWhileDragging(t *testing.T) {
	m := newModel(t, 3)
	pending := tick(m)
	m.BeginDrag(5)
	m.Update(pending)
	m.Update(tick(m))
	if m.Index() != 0 {
		t.Fatalf("ticks must not advance during a drag, got %d", m.Index())
	}
	if cmd := m.EndDrag(); cmd == nil {
		t.Fatalf("the timer restarts when the drag ends")
	}
}

func TestMouseDragSwipes(t *testing.T) {
	m := newModel(t, 2)
	m.Update(tea.MouseClickMsg{X: 30, Y: 1})
	m.Update(tea.MouseMotionMsg{X: 10, Y: 1})
	_, cmd := m.Update(tea.MouseReleaseMsg{X: 10, Y: 1})
	if cmd == nil {
		t.Fatalf("release should restart the timer")
	}
	if m.Index() != 1 {
		t.Fatalf("expected swipe to slide 1, got %d", m.Index())
	}
}

func TestKeysNeedFocus(t *testing.T) {
	m := newModel(t, 3)
	m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if m.Index() != 0 {
		t.Fatalf("unfocused carousel reacted to keys")
	}
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if m.Index() != 1 {
		t.Fatalf("right arrow should advance, got %d", m.Index())
	}
	m.Update(tea.KeyPressMsg{Text: "3", Code: '3'})
	if m.Index() != 2 {
		t.Fatalf("digit should jump to its dot, got %d", m.Index())
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter should open the event")
	}
	sel, ok := cmd().(events.EventSelectMsg)
	if !ok || sel.Event.ID != "c" {
		t.Fatalf("unexpected select message %#v", sel)
	}
}

func TestViewShowsSlideAndDots(t *testing.T) {
	m := newModel(t, 3)
	m.SetBookmarks(map[string]struct{}{"a": {}})
	view := m.View()
	if !strings.Contains(view, "Slide A") {
		t.Fatalf("expected the first slide title; view=%q", view)
	}
	if !strings.Contains(view, "★") {
		t.Fatalf("expected the bookmark marker; view=%q", view)
	}
	if strings.Count(view, "○") != 2 || strings.Count(view, "●") != 1 {
		t.Fatalf("expected one active dot of three; view=%q", view)
	}
}

func TestEmptyCarouselStops(t *testing.T) {
	m := newModel(t, 2)
	if cmd := m.SetSlides(nil); cmd != nil {
		t.Fatalf("no timer without slides")
	}
	if m.View() != "" {
		t.Fatalf("empty carousel renders nothing")
	}
}
