package teaui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/components/calendar"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

const calendarID = events.ComponentID("calendar")

// calendarOverlay shows the current view's events on a month grid. The
// events on the highlighted day are listed under it.
type calendarOverlay struct {
	cal    *calendar.Model
	evs    []event.Event
	lang   event.Language
	cursor int

	width  int
	height int
	styles theme.ModalTheme
	list   theme.ListTheme
}

var _ ui.Overlay = (*calendarOverlay)(nil)

// newCalendarOverlay opens on on's month. The month filter is ignored so
// every month can be browsed.
func newCalendarOverlay(snap app.Snapshot, on, now time.Time, t theme.Theme) *calendarOverlay {
	f := snap.Filter
	f.Month = 0
	o := &calendarOverlay{
		cal:    calendar.New(now),
		evs:    snap.Derive(f, snap.View, snap.Language),
		lang:   snap.Language,
		styles: t.Modal,
		list:   t.List,
		width:  50,
		height: 20,
	}
	if on.Month() != now.Month() || on.Year() != now.Year() {
		o.cal.SetSelected(on)
	}
	o.recount()
	return o
}

func (o *calendarOverlay) Init() tea.Cmd { return events.FocusCmd(calendarID) }

func (o *calendarOverlay) recount() {
	month := o.cal.Month()
	counts := map[int]int{}
	for _, e := range o.evs {
		if e.Date.Year() == month.Year() && e.Date.Month() == month.Month() {
			counts[e.Date.Day()]++
		}
	}
	o.cal.SetCounts(counts)
}

// onDay lists the events starting on the highlighted day, earliest first.
func (o *calendarOverlay) onDay() []event.Event {
	y, m, d := o.cal.Selected().Date()
	var out []event.Event
	for _, e := range o.evs {
		ey, em, ed := e.Date.Date()
		if ey == y && em == m && ed == d {
			out = append(out, e)
		}
	}
	return out
}

func (o *calendarOverlay) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}
	day := o.onDay()
	switch key.String() {
	case "esc", "q":
		return nil, events.BlurCmd(calendarID)
	case "J", "tab":
		if o.cursor < len(day)-1 {
			o.cursor++
		}
		return o, nil
	case "K", "shift+tab":
		if o.cursor > 0 {
			o.cursor--
		}
		return o, nil
	case "enter":
		if o.cursor < len(day) {
			return o, events.EventSelectCmd(calendarID, events.RefOf(day[o.cursor], o.lang))
		}
		return o, nil
	}
	if _, moved := o.cal.Update(key); moved {
		o.cursor = 0
		o.recount()
	}
	return o, nil
}

func (o *calendarOverlay) SetSize(width, height int) {
	o.width = max(30, min(width, 60))
	o.height = max(12, height)
}

func (o *calendarOverlay) View() (string, *tea.Cursor) {
	inner := max(10, o.width-o.styles.Frame.GetHorizontalFrameSize())
	lines := []string{
		o.styles.Title.Render("Calendar"),
		o.cal.View(),
		"",
	}
	day := o.onDay()
	lines = append(lines, fmt.Sprintf("%s · %d", o.cal.Selected().Format("Mon Jan 2"), len(day)))
	room := max(1, o.height-len(strings.Split(o.cal.View(), "\n"))-8)
	if len(day) == 0 {
		lines = append(lines, o.list.Meta.Render("  No events on this day."))
	}
	for i, e := range day {
		if i >= room {
			lines = append(lines, "  …")
			break
		}
		row := fmt.Sprintf("%s %s · %s", e.Date.Format("15:04"), e.Title.Get(o.lang), catalog.CityName(e.CityID, o.lang))
		row = truncate.StringWithTail(row, uint(max(1, inner-2)), "…")
		if i == o.cursor {
			lines = append(lines, o.list.Selected.Render("> "+row))
			continue
		}
		lines = append(lines, "  "+row)
	}
	lines = append(lines, "", o.list.Meta.Render("←↑↓→ day · [ ] month · t today · J/K pick · enter open · esc close"))
	body := lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
	return o.styles.Frame.Render(body), nil
}
