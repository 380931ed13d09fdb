// Package filterbar is the discovery bar: free text search, month, category
// chips and city selection.
package filterbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

type row int

const (
	rowQuery row = iota
	rowMonth
	rowCategory
	rowCity
	rowCount
)

// Model mirrors the controller's filter and turns keys into filter intents.
type Model struct {
	id     events.ComponentID
	filter viewmodel.Filter
	lang   event.Language

	query      textinput.Model
	row        row
	categories []catalog.Category
	cities     []catalog.City
	catCursor  int
	cityCursor int

	focused bool
	width   int
	styles  theme.FilterTheme
}

var _ ui.Component = (*Model)(nil)

// New builds the discovery bar.
func New(id events.ComponentID, styles theme.FilterTheme) *Model {
	q := textinput.New()
	q.Prompt = ""
	q.Placeholder = "Search events"
	q.CharLimit = 128
	return &Model{
		id:         id,
		lang:       event.English,
		query:      q,
		categories: catalog.Categories(),
		cities:     catalog.Cities(),
		styles:     styles,
	}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

func (m *Model) Init() tea.Cmd { return nil }

// SetFilter mirrors the controller's active filter.
func (m *Model) SetFilter(f viewmodel.Filter) {
	m.filter = f
	if m.query.Value() != f.Query {
		m.query.SetValue(f.Query)
		m.query.CursorEnd()
	}
	if i := m.categoryIndex(f.Category); i >= 0 {
		m.catCursor = i
	}
	if i := m.cityIndex(f.City); i >= 0 {
		m.cityCursor = i
	}
}

// SetLanguage changes the display language of the chips.
func (m *Model) SetLanguage(lang event.Language) { m.lang = lang }

// FocusQuery focuses the bar with the search input active.
func (m *Model) FocusQuery() tea.Cmd {
	m.row = rowQuery
	return m.Focus()
}

func (m *Model) Focus() tea.Cmd {
	m.focused = true
	cmds := []tea.Cmd{events.FocusCmd(m.id)}
	if m.row == rowQuery {
		cmds = append(cmds, m.query.Focus())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Blur() {
	m.focused = false
	m.query.Blur()
}

func (m *Model) Focused() bool { return m.focused }

// Editing reports whether typed keys go to the search input.
func (m *Model) Editing() bool { return m.focused && m.row == rowQuery }

func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !m.focused {
		return m, nil
	}
	switch key.String() {
	case "up":
		return m, m.moveRow(-1)
	case "down":
		return m, m.moveRow(1)
	case "ctrl+x":
		return m, m.intent(events.FilterIntentMsg{Field: events.FilterClear})
	}
	switch m.row {
	case rowQuery:
		prev := m.query.Value()
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		if v := m.query.Value(); v != prev {
			return m, tea.Batch(cmd, m.intent(events.FilterIntentMsg{Field: events.FilterQuery, Value: v}))
		}
		return m, cmd
	case rowMonth:
		switch key.String() {
		case "left", "h":
			return m, m.intent(events.FilterIntentMsg{Field: events.FilterMonth, Month: (m.filter.Month + 12) % 13})
		case "right", "l":
			return m, m.intent(events.FilterIntentMsg{Field: events.FilterMonth, Month: (m.filter.Month + 1) % 13})
		}
	case rowCategory:
		switch key.String() {
		case "left", "h":
			m.catCursor = wrap(m.catCursor-1, len(m.categories))
		case "right", "l":
			m.catCursor = wrap(m.catCursor+1, len(m.categories))
		case "enter", "space":
			return m, m.intent(events.FilterIntentMsg{Field: events.FilterCategory, Value: m.categories[m.catCursor].ID})
		}
	case rowCity:
		switch key.String() {
		case "left", "h":
			m.cityCursor = wrap(m.cityCursor-1, len(m.cities))
		case "right", "l":
			m.cityCursor = wrap(m.cityCursor+1, len(m.cities))
		case "enter", "space":
			return m, m.intent(events.FilterIntentMsg{Field: events.FilterCity, Value: m.cities[m.cityCursor].ID})
		}
	}
	return m, nil
}

func (m *Model) moveRow(delta int) tea.Cmd {
	m.row = row(wrap(int(m.row)+delta, int(rowCount)))
	if m.row == rowQuery {
		return m.query.Focus()
	}
	m.query.Blur()
	return nil
}

func (m *Model) intent(msg events.FilterIntentMsg) tea.Cmd {
	msg.Component = m.id
	return events.FilterIntentCmd(msg)
}

func (m *Model) SetSize(width, height int) {
	m.width = max(20, width)
	m.query.SetWidth(max(10, m.width-12))
}

func (m *Model) View() string {
	label := func(r row, text string) string {
		s := m.styles.Label.Render(text)
		if m.focused && m.row == r {
			s = m.styles.Focused.Render(text)
		}
		return s
	}
	month := "Any month"
	if m.filter.Month != 0 {
		month = m.filter.Month.String()
	}
	lines := []string{
		label(rowQuery, "Search   ") + m.query.View(),
		label(rowMonth, "Month    ") + "‹ " + month + " ›",
		label(rowCategory, "Category ") + m.categoryChips(),
		label(rowCity, "City     ") + m.cityChips(),
	}
	for i, l := range lines {
		lines[i] = truncate.StringWithTail(l, uint(m.width), "…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Cursor places the terminal cursor in the search input while editing.
func (m *Model) Cursor() *tea.Cursor {
	if !m.Editing() {
		return nil
	}
	c := m.query.Cursor()
	if c == nil {
		return nil
	}
	cp := *c
	cp.X += len("Search   ")
	return &cp
}

func (m *Model) categoryChips() string {
	parts := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		name := c.Name.Get(m.lang)
		if c.Icon != "" {
			name = c.Icon + " " + name
		}
		active := m.filter.Category == c.ID || (m.filter.Category == "" && c.ID == catalog.AllCategoryID)
		parts = append(parts, m.chip(name, active, m.row == rowCategory && i == m.catCursor))
	}
	return strings.Join(parts, "")
}

// cityChips shows a window of cities around the cursor.
func (m *Model) cityChips() string {
	const window = 5
	start := max(0, m.cityCursor-window/2)
	end := min(len(m.cities), start+window)
	start = max(0, end-window)
	parts := []string{}
	if start > 0 {
		parts = append(parts, "‹")
	}
	for i := start; i < end; i++ {
		c := m.cities[i]
		parts = append(parts, m.chip(c.Name.Get(m.lang), m.filter.City == c.ID, m.row == rowCity && i == m.cityCursor))
	}
	if end < len(m.cities) {
		parts = append(parts, "›")
	}
	return strings.Join(parts, "")
}

func (m *Model) chip(text string, active, cursor bool) string {
	style := m.styles.Chip
	if active {
		style = m.styles.ActiveChip
	}
	if cursor && m.focused {
		style = style.Inherit(m.styles.Focused)
	}
	return style.Render(text)
}

func (m *Model) categoryIndex(id string) int {
	if id == "" {
		id = catalog.AllCategoryID
	}
	for i, c := range m.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) cityIndex(id string) int {
	for i, c := range m.cities {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

