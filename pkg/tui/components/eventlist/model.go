// Package eventlist renders the derived event list for the grid, map,
// bookmarks and my events views.
package eventlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/i18n"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// View names the list flavour. It mirrors the controller's view modes.
type View string

const (
	ViewGrid      View = "grid"
	ViewMap       View = "map"
	ViewBookmarks View = "bookmarks"
	ViewMyEvents  View = "my-events"
)

// Model is a scrolling list with a cursor.
type Model struct {
	id        events.ComponentID
	items     []event.Event
	bookmarks map[string]struct{}
	view      View
	lang      event.Language
	loading   bool

	cursor int
	offset int

	focused bool
	width   int
	height  int
	styles  theme.ListTheme
}

var _ ui.Component = (*Model)(nil)

// New builds an empty list.
func New(id events.ComponentID, styles theme.ListTheme) *Model {
	return &Model{id: id, styles: styles, view: ViewGrid, lang: event.English}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

func (m *Model) Init() tea.Cmd { return nil }

// SetItems replaces the rows. The cursor follows the highlighted event when
// it is still listed.
func (m *Model) SetItems(items []event.Event) {
	current := ""
	if e, ok := m.Current(); ok {
		current = e.ID
	}
	m.items = items
	m.cursor = 0
	if i := event.Index(items, current); i >= 0 {
		m.cursor = i
	}
	m.clampOffset()
}

// SetView changes the title and empty text.
func (m *Model) SetView(v View) {
	if v != m.view {
		m.cursor, m.offset = 0, 0
	}
	m.view = v
}

// SetLanguage changes the display language.
func (m *Model) SetLanguage(lang event.Language) { m.lang = lang }

// SetBookmarks sets the bookmark markers.
func (m *Model) SetBookmarks(b map[string]struct{}) { m.bookmarks = b }

// SetLoading shows a loading line instead of the empty text.
func (m *Model) SetLoading(loading bool) { m.loading = loading }

// Len is the number of rows.
func (m *Model) Len() int { return len(m.items) }

// Current returns the highlighted event.
func (m *Model) Current() (event.Event, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return event.Event{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return events.FocusCmd(m.id)
}

func (m *Model) Blur() { m.focused = false }

func (m *Model) Focused() bool { return m.focused }

func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !m.focused || len(m.items) == 0 {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		return m, m.move(-1)
	case "down", "j":
		return m, m.move(1)
	case "pgup":
		return m, m.move(-m.pageSize())
	case "pgdown":
		return m, m.move(m.pageSize())
	case "home", "g":
		return m, m.move(-len(m.items))
	case "end", "G":
		return m, m.move(len(m.items))
	case "enter":
		e, _ := m.Current()
		return m, events.EventSelectCmd(m.id, events.RefOf(e, m.lang))
	case "b":
		e, _ := m.Current()
		return m, events.BookmarkRequestCmd(m.id, events.RefOf(e, m.lang))
	}
	return m, nil
}

func (m *Model) move(delta int) tea.Cmd {
	next := max(0, min(len(m.items)-1, m.cursor+delta))
	if next == m.cursor {
		return nil
	}
	m.cursor = next
	m.clampOffset()
	e := m.items[m.cursor]
	id := m.id
	ref := events.RefOf(e, m.lang)
	return func() tea.Msg { return events.EventHighlightMsg{Component: id, Event: ref} }
}

// rowsPerItem is two lines per event: title and details.
const rowsPerItem = 2

func (m *Model) pageSize() int {
	return max(1, (m.height-1)/rowsPerItem)
}

func (m *Model) clampOffset() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	m.offset = max(0, min(m.offset, max(0, len(m.items)-page)))
}

func (m *Model) SetSize(width, height int) {
	m.width = max(20, width)
	m.height = max(3, height)
	m.clampOffset()
}

func (m *Model) title() string {
	switch m.view {
	case ViewBookmarks:
		return i18n.T(i18n.MyBookmarks, m.lang)
	case ViewMyEvents:
		return i18n.T(i18n.MyEvents, m.lang)
	case ViewMap:
		return i18n.T(i18n.OnTheMap, m.lang)
	}
	return i18n.T(i18n.Upcoming, m.lang)
}

func (m *Model) emptyText() string {
	if m.loading {
		return "Loading events…"
	}
	switch m.view {
	case ViewBookmarks:
		return i18n.T(i18n.NoBookmarks, m.lang)
	case ViewMyEvents:
		return i18n.T(i18n.NoMyEvents, m.lang)
	case ViewMap:
		return i18n.T(i18n.NoLocated, m.lang)
	}
	return i18n.T(i18n.NoEvents, m.lang)
}

func (m *Model) View() string {
	header := m.styles.Title.Render(fmt.Sprintf("%s (%d)", m.title(), len(m.items)))
	lines := []string{header}
	if len(m.items) == 0 {
		lines = append(lines, m.styles.Empty.Render(m.emptyText()))
		return m.align(lines)
	}
	end := min(len(m.items), m.offset+m.pageSize())
	for i := m.offset; i < end; i++ {
		title, meta := m.renderRow(m.items[i])
		if i == m.cursor && m.focused {
			title = m.styles.Selected.Render(title)
		} else {
			title = m.styles.Row.Render(title)
		}
		lines = append(lines, title, m.styles.Meta.Render(meta))
	}
	return m.align(lines)
}

func (m *Model) renderRow(e event.Event) (string, string) {
	mark := "  "
	if _, ok := m.bookmarks[e.ID]; ok {
		mark = m.styles.Bookmarked.Render("★") + " "
	}
	title := mark + e.Title.Get(m.lang)

	parts := []string{
		e.Date.Format("Mon Jan 2 15:04"),
		catalog.CityName(e.CityID, m.lang),
		catalog.CategoryName(e.CategoryID, m.lang),
	}
	if avg, n := e.AverageRating(); n > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f (%d)", avg, n))
	}
	if m.view == ViewMap && e.Coordinates != nil {
		parts = append(parts, "⌖ "+e.Coordinates.String())
	}
	meta := "   " + strings.Join(parts, " · ")
	w := uint(m.width)
	return truncate.StringWithTail(title, w, "…"), truncate.StringWithTail(meta, w, "…")
}

func (m *Model) align(lines []string) string {
	if !m.lang.RTL() {
		return strings.Join(lines, "\n")
	}
	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(strings.Join(lines, "\n"))
}
