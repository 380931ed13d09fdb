// Package carousel renders the featured events one slide at a time. Slides
// advance on a timer, wrap at the end, and can be swiped with a mouse drag.
package carousel

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

const (
	// Interval is the auto-advance period.
	Interval = 5 * time.Second
	// SwipeThreshold is how many cells a drag must travel to change slides.
	SwipeThreshold = 6
)

// TickMsg advances the carousel. Ticks from an older generation are stale.
type TickMsg struct {
	Component events.ComponentID
	Gen       int
}

func (m TickMsg) Describe() string {
	return fmt.Sprintf(`gen:%d`, m.Gen)
}

// Model is the featured carousel.
type Model struct {
	id        events.ComponentID
	slides    []event.Event
	index     int
	lang      event.Language
	bookmarks map[string]struct{}

	gen        int
	interval   time.Duration
	dragging   bool
	dragStartX int
	dragOffset int

	focused bool
	width   int
	height  int
	styles  theme.CarouselTheme
}

var _ ui.Component = (*Model)(nil)

// New builds an empty carousel.
func New(id events.ComponentID, styles theme.CarouselTheme) *Model {
	return &Model{id: id, styles: styles, interval: Interval, lang: event.English}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// SetInterval overrides Interval.
func (m *Model) SetInterval(d time.Duration) { m.interval = d }

// Init starts the timer when there is something to show.
func (m *Model) Init() tea.Cmd {
	if len(m.slides) == 0 {
		return nil
	}
	return m.schedule()
}

// schedule invalidates any pending tick and starts a new one.
func (m *Model) schedule() tea.Cmd {
	m.gen++
	gen, id := m.gen, m.id
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return TickMsg{Component: id, Gen: gen}
	})
}

// SetSlides replaces the featured events. The current slide is kept when it
// is still in range.
func (m *Model) SetSlides(slides []event.Event) tea.Cmd {
	wasEmpty := len(m.slides) == 0
	m.slides = slides
	if m.index >= len(slides) {
		m.index = 0
	}
	if len(slides) == 0 {
		m.gen++
		return nil
	}
	if wasEmpty {
		return m.schedule()
	}
	return nil
}

// SetLanguage changes the display language.
func (m *Model) SetLanguage(lang event.Language) { m.lang = lang }

// SetBookmarks sets the bookmark set used for the bookmark marker.
func (m *Model) SetBookmarks(b map[string]struct{}) { m.bookmarks = b }

// Index returns the current slide.
func (m *Model) Index() int { return m.index }

// Dragging reports whether a swipe is in progress.
func (m *Model) Dragging() bool { return m.dragging }

// Current returns the event on the current slide.
func (m *Model) Current() (event.Event, bool) {
	if len(m.slides) == 0 {
		return event.Event{}, false
	}
	return m.slides[m.index], true
}

// GoTo jumps to slide i, as the dots do. The timer restarts when the slide
// changes.
func (m *Model) GoTo(i int) tea.Cmd {
	if i < 0 || i >= len(m.slides) || i == m.index {
		return nil
	}
	m.index = i
	return m.schedule()
}

// BeginDrag starts a swipe at column x and suspends the timer.
func (m *Model) BeginDrag(x int) {
	if len(m.slides) == 0 {
		return
	}
	m.gen++
	m.dragging = true
	m.dragStartX = x
	m.dragOffset = 0
}

// DragTo records the pointer position during a swipe.
func (m *Model) DragTo(x int) {
	if !m.dragging {
		return
	}
	m.dragOffset = x - m.dragStartX
}

// EndDrag finishes a swipe. Past the threshold it moves one slide, clamped at
// both ends. The timer restarts either way.
func (m *Model) EndDrag() tea.Cmd {
	if !m.dragging {
		return nil
	}
	m.dragging = false
	switch {
	case m.dragOffset < -SwipeThreshold && m.index < len(m.slides)-1:
		m.index++
	case m.dragOffset > SwipeThreshold && m.index > 0:
		m.index--
	}
	m.dragOffset = 0
	return m.schedule()
}

func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return events.FocusCmd(m.id)
}

func (m *Model) Blur() { m.focused = false }

func (m *Model) Focused() bool { return m.focused }

func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.Component != m.id || msg.Gen != m.gen || m.dragging || len(m.slides) == 0 {
			return m, nil
		}
		m.index = (m.index + 1) % len(m.slides)
		return m, m.schedule()
	case tea.MouseClickMsg:
		m.BeginDrag(msg.Mouse().X)
	case tea.MouseMotionMsg:
		m.DragTo(msg.Mouse().X)
	case tea.MouseReleaseMsg:
		return m, m.EndDrag()
	case tea.KeyPressMsg:
		if !m.focused {
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "left", "h":
		if m.index > 0 {
			return m.GoTo(m.index - 1)
		}
	case "right", "l":
		if m.index < len(m.slides)-1 {
			return m.GoTo(m.index + 1)
		}
	case "enter":
		if e, ok := m.Current(); ok {
			return events.EventSelectCmd(m.id, events.RefOf(e, m.lang))
		}
	case "b":
		if e, ok := m.Current(); ok {
			return events.BookmarkRequestCmd(m.id, events.RefOf(e, m.lang))
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			return m.GoTo(int(key[0] - '1'))
		}
	}
	return nil
}

func (m *Model) SetSize(width, height int) {
	m.width = max(10, width)
	m.height = max(5, height)
}

func (m *Model) View() string {
	if len(m.slides) == 0 {
		return ""
	}
	e := m.slides[m.index]
	inner := m.width - m.styles.Frame.GetHorizontalFrameSize()

	mark := "☆"
	if _, ok := m.bookmarks[e.ID]; ok {
		mark = "★"
	}
	title := m.styles.Title.Render(truncate.StringWithTail(e.Title.Get(m.lang), uint(max(1, inner-2)), "…"))
	meta := fmt.Sprintf("%s at %s · %s", e.Date.Format("Monday, January 2, 2006"), e.Venue, catalog.CityName(e.CityID, m.lang))
	lines := []string{
		mark + " " + title,
		m.styles.Meta.Render(truncate.StringWithTail(meta, uint(max(1, inner)), "…")),
		m.dots(),
	}
	align := lipgloss.Left
	if m.lang.RTL() {
		align = lipgloss.Right
	}
	body := lipgloss.NewStyle().Width(inner).Align(align).Render(strings.Join(lines, "\n"))
	return m.styles.Frame.Width(m.width).Render(body)
}

func (m *Model) dots() string {
	parts := make([]string, len(m.slides))
	for i := range m.slides {
		if i == m.index {
			parts[i] = m.styles.ActiveDot.Render("●")
		} else {
			parts[i] = m.styles.Dot.Render("○")
		}
	}
	return strings.Join(parts, " ")
}
