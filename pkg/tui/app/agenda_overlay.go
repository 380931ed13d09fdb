package teaui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/timeutil"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

const agendaID = events.ComponentID("agenda")

type agendaLoadedMsg struct {
	result app.AgendaResult
}

func newAgendaOverlay(ctrl *app.Controller, window time.Duration, label string, lang event.Language, styles theme.ModalTheme) *agendaOverlay {
	if window <= 0 {
		if dur, _, err := timeutil.ParseWindow(timeutil.DefaultWindow); err == nil {
			window = dur
		} else {
			window = 7 * 24 * time.Hour
		}
	}
	if label == "" {
		label = timeutil.DefaultWindow
	}
	return &agendaOverlay{
		ctrl:        ctrl,
		loading:     true,
		window:      window,
		windowLabel: label,
		lang:        lang,
		styles:      styles,
		now:         time.Now,
	}
}

// agendaOverlay lists the events starting within the next window, grouped
// by city.
type agendaOverlay struct {
	ctrl   *app.Controller
	width  int
	height int
	lang   event.Language
	styles theme.ModalTheme
	now    func() time.Time

	loading     bool
	result      app.AgendaResult
	window      time.Duration
	windowLabel string
}

var _ ui.Overlay = (*agendaOverlay)(nil)

func (o *agendaOverlay) Init() tea.Cmd {
	o.loading = true
	return o.load()
}

func (o *agendaOverlay) load() tea.Cmd {
	ctrl := o.ctrl
	since := timeutil.StartOfDay(o.now())
	until := o.now().Add(o.window)
	return func() tea.Msg {
		return agendaLoadedMsg{result: ctrl.Agenda(since, until)}
	}
}

func (o *agendaOverlay) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	switch v := msg.(type) {
	case agendaLoadedMsg:
		o.loading = false
		o.result = v.result
	case tea.KeyPressMsg:
		switch v.String() {
		case "esc", "q":
			return nil, events.BlurCmd(agendaID)
		}
	}
	return o, nil
}

func (o *agendaOverlay) View() (string, *tea.Cursor) {
	b := &strings.Builder{}
	b.WriteString(o.styles.Title.Render("Agenda · next " + o.windowLabel))
	b.WriteString("\n")
	if !o.result.Since.IsZero() && !o.result.Until.IsZero() {
		fmt.Fprintf(b, "Window: %s → %s\n", o.result.Since.Format("2006-01-02"), o.result.Until.Format("2006-01-02"))
	}

	switch {
	case o.loading:
		b.WriteString("Loading agenda…")
	case len(o.result.Sections) == 0:
		b.WriteString("No events in the selected window.")
	default:
		fmt.Fprintf(b, "Total events: %d\n", o.result.Total)
		rows := 2
		for _, section := range o.result.Sections {
			if o.height > 0 && rows >= o.height-4 {
				b.WriteString("…\n")
				break
			}
			fmt.Fprintf(b, "\n%s (%d)\n", section.City, len(section.Items))
			rows += 2
			for i, item := range section.Items {
				if i >= 10 {
					b.WriteString("  …\n")
					rows++
					break
				}
				line := fmt.Sprintf("  - %s (%s)", item.Event.Title.Get(o.lang), item.Event.Date.Format("Jan 2 15:04"))
				if item.Reviews > 0 {
					line += fmt.Sprintf(" ★ %.1f", item.Rating)
				}
				b.WriteString(line + "\n")
				rows++
			}
		}
	}
	body := strings.TrimRight(b.String(), "\n")
	return o.styles.Frame.Width(o.width).Render(body), nil
}

func (o *agendaOverlay) SetSize(width, height int) {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 10
	}
	o.width = min(width, 80)
	o.height = height
}
