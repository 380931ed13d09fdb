// Package topevents is the timeline selector over the first few featured
// events.
package topevents

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/i18n"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// Limit caps how many featured events the selector shows.
const Limit = 5

type Model struct {
	id        events.ComponentID
	items     []event.Event
	selected  int
	bookmarks map[string]struct{}
	lang      event.Language
	focused   bool
	width     int
	styles    theme.CarouselTheme
}

var _ ui.Component = (*Model)(nil)

func New(id events.ComponentID, styles theme.CarouselTheme) *Model {
	return &Model{id: id, styles: styles, lang: event.English}
}

func (m *Model) Init() tea.Cmd { return nil }

// SetEvents keeps the first Limit featured events.
func (m *Model) SetEvents(featured []event.Event) {
	if len(featured) > Limit {
		featured = featured[:Limit]
	}
	m.items = featured
	if m.selected >= len(m.items) {
		m.selected = 0
	}
}

func (m *Model) SetLanguage(lang event.Language) { m.lang = lang }

func (m *Model) SetBookmarks(b map[string]struct{}) { m.bookmarks = b }

func (m *Model) Selected() int { return m.selected }

// Current returns the selected event.
func (m *Model) Current() (event.Event, bool) {
	if len(m.items) == 0 {
		return event.Event{}, false
	}
	return m.items[m.selected], true
}

// Select moves to index i; out of range is ignored.
func (m *Model) Select(i int) {
	if i >= 0 && i < len(m.items) {
		m.selected = i
	}
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
	case "left", "h":
		m.Select(m.selected - 1)
	case "right", "l":
		m.Select(m.selected + 1)
	case "enter":
		e, _ := m.Current()
		return m, events.EventSelectCmd(m.id, events.RefOf(e, m.lang))
	case "b":
		e, _ := m.Current()
		return m, events.BookmarkRequestCmd(m.id, events.RefOf(e, m.lang))
	default:
		if r := key.Text; len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
			m.Select(int(r[0] - '1'))
		}
	}
	return m, nil
}

func (m *Model) SetSize(width, _ int) { m.width = max(20, width) }

// View renders nothing when there are no featured events.
func (m *Model) View() string {
	e, ok := m.Current()
	if !ok {
		return ""
	}
	mark := "☆"
	if _, ok := m.bookmarks[e.ID]; ok {
		mark = "★"
	}
	w := uint(m.width)
	lines := []string{
		m.styles.Title.Render(i18n.T(i18n.TopEvents, m.lang)),
		truncate.StringWithTail(mark+" "+e.Title.Get(m.lang), w, "…"),
		m.styles.Meta.Render(e.Date.Format("January 2") + "  [enter] " + i18n.T(i18n.SeeDetails, m.lang)),
		m.timeline(),
	}
	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// timeline draws a dot per event, labelling the selected one with its short month.
func (m *Model) timeline() string {
	parts := make([]string, len(m.items))
	for i, e := range m.items {
		if i == m.selected {
			parts[i] = m.styles.ActiveDot.Render("● " + e.Date.Format("Jan"))
			continue
		}
		parts[i] = m.styles.Dot.Render("○")
	}
	return strings.Join(parts, " ─── ")
}
