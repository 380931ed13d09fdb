// Package calendar renders a month grid with the days that hold events
// marked, and lets the user move a day cursor across months.
package calendar

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// Day describes a single day rendered in the calendar.
type Day struct {
	Day        int
	Events     int
	IsToday    bool
	IsSelected bool
}

// Options controls calendar styling.
type Options struct {
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	EventStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowHeader    bool
}

// DefaultOptions returns the styling used for calendar rendering.
func DefaultOptions() Options {
	title := lipgloss.NewStyle().Bold(true)
	header := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	marked := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	today := lipgloss.NewStyle().Underline(true)
	selected := lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0"))
	return Options{
		TitleStyle:    title,
		HeaderStyle:   header,
		EmptyStyle:    empty,
		EventStyle:    marked,
		TodayStyle:    today,
		SelectedStyle: selected,
		ShowHeader:    true,
	}
}

// Render produces a multi-line calendar string for the given month.
func Render(month time.Time, days []Day, opts Options) string {
	if month.IsZero() {
		return ""
	}

	first := FirstOf(month)
	daysInMonth := DaysIn(month)

	byDay := make(map[int]Day, len(days))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= daysInMonth {
			byDay[d.Day] = d
		}
	}

	var lines []string
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render("Su Mo Tu We Th Fr Sa"))
	}

	startOffset := int(first.Weekday())
	totalCells := startOffset + daysInMonth
	rows := (totalCells + 6) / 7

	for row := 0; row < rows; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			cellIdx := row*7 + col
			day := cellIdx - startOffset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			cells = append(cells, renderDay(byDay[day], day, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(info Day, day int, opts Options) string {
	text := fmt.Sprintf("%2d", day)

	style := opts.EmptyStyle
	if info.Events > 0 {
		style = opts.EventStyle
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsSelected {
		style = opts.SelectedStyle.Inherit(style)
	}
	return style.Render(text)
}

// DaysIn returns the number of days in a month.
func DaysIn(month time.Time) int {
	return FirstOf(month).AddDate(0, 1, -1).Day()
}

// FirstOf returns midnight on the first day of t's month.
func FirstOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Model is a month calendar with a day cursor. Moving the cursor past
// either end of the month turns the page.
type Model struct {
	month    time.Time
	selected int
	counts   map[int]int
	now      time.Time
	opts     Options
}

// New opens the calendar on now's month with today selected.
func New(now time.Time) *Model {
	return &Model{
		month:    FirstOf(now),
		selected: now.Day(),
		now:      now,
		opts:     DefaultOptions(),
	}
}

// Update handles navigation keys. It reports whether the key moved the
// cursor.
func (m *Model) Update(msg tea.Msg) (*Model, bool) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, false
	}
	switch key.String() {
	case "left", "h":
		m.moveSelection(-1)
	case "right", "l":
		m.moveSelection(1)
	case "up", "k":
		m.moveSelection(-7)
	case "down", "j":
		m.moveSelection(7)
	case "[", "pgup":
		m.turn(-1)
	case "]", "pgdown":
		m.turn(1)
	case "t":
		m.SetSelected(m.now)
	default:
		return m, false
	}
	return m, true
}

// Month is the first day of the shown month.
func (m *Model) Month() time.Time { return m.month }

// Selected is midnight of the highlighted day.
func (m *Model) Selected() time.Time {
	return m.month.AddDate(0, 0, m.selected-1)
}

// SetSelected moves the cursor, turning to t's month.
func (m *Model) SetSelected(t time.Time) {
	m.month = FirstOf(t)
	m.selected = t.Day()
}

// SetCounts sets how many events fall on each day of the shown month.
func (m *Model) SetCounts(counts map[int]int) {
	m.counts = counts
}

// SetNow updates the reference time used to mark today.
func (m *Model) SetNow(now time.Time) {
	m.now = now
}

func (m *Model) moveSelection(delta int) {
	m.SetSelected(m.Selected().AddDate(0, 0, delta))
}

func (m *Model) turn(delta int) {
	month := m.month.AddDate(0, delta, 0)
	m.month = month
	m.selected = min(m.selected, DaysIn(month))
}

// View renders the month title and grid.
func (m *Model) View() string {
	days := make([]Day, 0, DaysIn(m.month))
	sameMonth := m.now.Year() == m.month.Year() && m.now.Month() == m.month.Month()
	for d := 1; d <= DaysIn(m.month); d++ {
		days = append(days, Day{
			Day:        d,
			Events:     m.counts[d],
			IsToday:    sameMonth && m.now.Day() == d,
			IsSelected: d == m.selected,
		})
	}
	title := m.opts.TitleStyle.Render(m.month.Format("January 2006"))
	return title + "\n" + Render(m.month, days, m.opts)
}
