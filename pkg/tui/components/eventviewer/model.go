// Package eventviewer is the debug pane listing the messages the UI handled,
// newest first. Identical consecutive messages are folded into one row.
package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/iqevents/pkg/tui/ui"
)

// Level is the severity of a logged message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is one handled message.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

type row struct {
	Entry
	repeats int
}

func (r row) same(e Entry) bool {
	return r.Source == e.Source && r.Summary == e.Summary && r.Detail == e.Detail && r.Level == e.Level
}

// Styles controls the pane's presentation.
type Styles struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Frame:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Model keeps at most limit rows, oldest at index 0.
type Model struct {
	vp     viewport.Model
	rows   []row
	limit  int
	warns  int
	errs   int
	pinned bool

	width  int
	height int
	styles Styles
}

// NewModel returns a pane holding at most limit rows, 200 when limit <= 0.
func NewModel(limit int) *Model {
	if limit <= 0 {
		limit = 200
	}
	return &Model{
		vp:     viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		limit:  limit,
		pinned: true,
		styles: DefaultStyles(),
	}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update scrolls. The pane stays pinned to the newest row only while
// scrolled to the top.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyPressMsg, tea.MouseWheelMsg:
	default:
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	m.pinned = m.vp.AtTop()
	return m, cmd
}

// Len is the number of rows kept.
func (m *Model) Len() int { return len(m.rows) }

func (m *Model) SetSize(width, height int) {
	width, height = max(4, width), max(3, height)
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height
	m.vp.SetWidth(max(1, width-2))
	// border plus the header row
	m.vp.SetHeight(max(1, height-3))
	m.render()
}

// Append records e, folding it into the newest row when they match.
func (m *Model) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Source == "" {
		e.Source = "tea"
	}
	if e.Summary == "" {
		e.Summary = "event"
	}
	switch e.Level {
	case LevelWarn:
		m.warns++
	case LevelError:
		m.errs++
	}

	if n := len(m.rows); n > 0 && m.rows[n-1].same(e) {
		m.rows[n-1].repeats++
		m.rows[n-1].Timestamp = e.Timestamp
	} else {
		m.rows = append(m.rows, row{Entry: e, repeats: 1})
		if over := len(m.rows) - m.limit; over > 0 {
			m.rows = append(m.rows[:0], m.rows[over:]...)
		}
	}
	m.render()
	if m.pinned {
		m.vp.SetYOffset(0)
	}
}

// Clear drops every row and resets the counters.
func (m *Model) Clear() {
	m.rows = nil
	m.warns, m.errs = 0, 0
	m.render()
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	title := fmt.Sprintf("Debug log (%d)", len(m.rows))
	if m.warns > 0 || m.errs > 0 {
		title += fmt.Sprintf(" · %d warn · %d err", m.warns, m.errs)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.styles.Header.Render(title), m.vp.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
}

func (m *Model) render() {
	if len(m.rows) == 0 {
		m.vp.SetContent(m.styles.Timestamp.Render("No events yet"))
		return
	}
	lines := make([]string, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		lines = append(lines, m.line(m.rows[i]))
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) line(r row) string {
	text := r.Summary
	if r.Detail != "" {
		text += " " + r.Detail
	}
	if r.repeats > 1 {
		text += fmt.Sprintf(" ×%d", r.repeats)
	}
	style := m.styles.Info
	switch r.Level {
	case LevelWarn:
		style = m.styles.Warn
	case LevelError:
		style = m.styles.Error
	}
	return m.styles.Timestamp.Render(r.Timestamp.Format("15:04:05.000")) + " " +
		m.styles.Source.Render("["+r.Source+"]") + " " + style.Render(text)
}
