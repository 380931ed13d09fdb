package eventlist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func rows(n int) []event.Event {
	out := make([]event.Event, n)
	for i := range out {
		out[i] = event.Event{
			ID:         string(rune('a' + i)),
			Title:      event.Text("Event " + string(rune('A'+i))),
			CityID:     "city-erbil",
			CategoryID: "cat-1",
			Date:       time.Date(2026, 6, 1+i, 19, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func newList(t *testing.T, n int) *Model {
	t.Helper()
	m := New(events.ComponentID("list"), theme.Default().List)
	m.SetSize(80, 9)
	m.SetItems(rows(n))
	m.Focus()
	return m
}

func press(m *Model, code rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestCursorMovesAndHighlights(t *testing.T) {
	m := newList(t, 3)
	cmd := press(m, tea.KeyDown)
	if cmd == nil {
		t.Fatalf("moving down should emit a highlight")
	}
	hl, ok := cmd().(events.EventHighlightMsg)
	if !ok || hl.Event.ID != "b" {
		t.Fatalf("unexpected highlight %#v", hl)
	}
	if cmd := press(m, tea.KeyUp); cmd == nil {
		t.Fatalf("moving up should emit a highlight")
	}
	if cmd := press(m, tea.KeyUp); cmd != nil {
		t.Fatalf("cursor at the top should not move")
	}
}

func TestEnterSelectsAndBBookmarks(t *testing.T) {
	m := newList(t, 2)
	press(m, tea.KeyDown)
	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatalf("enter should open the event")
	}
	sel, ok := cmd().(events.EventSelectMsg)
	if !ok || sel.Event.ID != "b" {
		t.Fatalf("unexpected select message %#v", sel)
	}
	_, cmd = m.Update(tea.KeyPressMsg{Text: "b", Code: 'b'})
	if cmd == nil {
		t.Fatalf("b should request a bookmark toggle")
	}
	req, ok := cmd().(events.BookmarkRequestMsg)
	if !ok || req.Event.ID != "b" {
		t.Fatalf("unexpected bookmark request %#v", req)
	}
}

func TestKeysIgnoredWithoutFocus(t *testing.T) {
	m := newList(t, 3)
	m.Blur()
	if cmd := press(m, tea.KeyDown); cmd != nil {
		t.Fatalf("blurred list should ignore keys")
	}
	if e, _ := m.Current(); e.ID != "a" {
		t.Fatalf("cursor moved while blurred: %s", e.ID)
	}
}

func TestSetItemsKeepsHighlightedEvent(t *testing.T) {
	m := newList(t, 4)
	press(m, tea.KeyDown)
	press(m, tea.KeyDown)
	items := rows(4)
	m.SetItems([]event.Event{items[2], items[0]})
	if e, _ := m.Current(); e.ID != "c" {
		t.Fatalf("expected the cursor to follow c, got %s", e.ID)
	}
	m.SetItems(items[:1])
	if e, _ := m.Current(); e.ID != "a" {
		t.Fatalf("expected the cursor to reset, got %s", e.ID)
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	m := newList(t, 10)
	for i := 0; i < 9; i++ {
		press(m, tea.KeyDown)
	}
	view := m.View()
	if !strings.Contains(view, "Event J") {
		t.Fatalf("expected the last row to be visible; view=%q", view)
	}
	if strings.Contains(view, "Event A") {
		t.Fatalf("expected the first row to scroll out; view=%q", view)
	}
}

func TestViewTitlesAndEmptyText(t *testing.T) {
	m := New(events.ComponentID("list"), theme.Default().List)
	m.SetSize(80, 10)
	cases := []struct {
		view  View
		title string
		empty string
	}{
		{ViewGrid, "Upcoming Events", "No events match your criteria."},
		{ViewBookmarks, "My Bookmarks", "You have no bookmarked events."},
		{ViewMyEvents, "My Events", "You haven't created any events yet."},
	}
	for _, tc := range cases {
		m.SetView(tc.view)
		view := m.View()
		if !strings.Contains(view, tc.title) || !strings.Contains(view, tc.empty) {
			t.Fatalf("%s: unexpected view %q", tc.view, view)
		}
	}
}

func TestRowShowsBookmarkAndRating(t *testing.T) {
	m := newList(t, 1)
	items := rows(1)
	items[0].Reviews = []event.Review{{ID: "r1", Rating: 4}, {ID: "r2", Rating: 5}}
	m.SetItems(items)
	m.SetBookmarks(map[string]struct{}{"a": {}})
	view := m.View()
	if !strings.Contains(view, "★ 4.5 (2)") {
		t.Fatalf("expected the rating summary; view=%q", view)
	}
	if !strings.Contains(view, "★") || !strings.Contains(view, "Erbil") {
		t.Fatalf("expected the bookmark marker and city; view=%q", view)
	}
}
