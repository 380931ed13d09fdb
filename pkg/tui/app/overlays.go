package teaui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/components/authform"
	"tableflip.dev/iqevents/pkg/tui/components/detail"
	"tableflip.dev/iqevents/pkg/tui/components/eventform"
	"tableflip.dev/iqevents/pkg/tui/components/help"
	"tableflip.dev/iqevents/pkg/tui/components/planner"
	"tableflip.dev/iqevents/pkg/timeutil"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

const (
	detailID  = events.ComponentID("event-detail")
	formID    = events.ComponentID("event-form")
	authID    = events.ComponentID("auth")
	plannerID = events.ComponentID("planner")
	profileID = events.ComponentID("profile")
)

// show replaces the current overlay. A replaced detail view gives up the
// selection.
func (m *Model) show(o ui.Overlay) tea.Cmd {
	if _, ok := m.overlay.(*detail.Model); ok {
		if _, next := o.(*detail.Model); !next {
			m.ctrl.Select("")
		}
	}
	m.overlay = o
	if m.width > 0 {
		w, h := m.overlaySize(max(1, m.height-1))
		o.SetSize(w, h)
	}
	return o.Init()
}

// updateOverlay forwards msg and handles the overlay closing itself.
func (m *Model) updateOverlay(msg tea.Msg) tea.Cmd {
	current := m.overlay
	next, cmd := current.Update(msg)
	if next == nil {
		if _, ok := current.(*detail.Model); ok {
			m.ctrl.Select("")
		}
		if m.overlay == current {
			m.overlay = nil
		}
		return cmd
	}
	if m.overlay == current {
		m.overlay = next
	}
	return cmd
}

// followSelection opens or closes the detail view to match the controller.
func (m *Model) followSelection(ref *events.EventRef) tea.Cmd {
	if ref == nil {
		if _, ok := m.overlay.(*detail.Model); ok {
			m.overlay = nil
		}
		return nil
	}
	if d, ok := m.overlay.(*detail.Model); ok && d.EventID() == ref.ID {
		return nil
	}
	ev, found := m.ctrl.Event(ref.ID)
	if !found {
		return nil
	}
	d := detail.New(detailID, ev, m.theme)
	d.SetUser(m.snap.User)
	d.SetBookmarked(m.snap.Bookmarked(ev.ID))
	d.SetLanguage(m.snap.Language)
	return m.show(d)
}

func (m *Model) openHelp() tea.Cmd {
	return m.show(help.New(60, 20, m.theme.Modal))
}

// openAuth shows the account form unless it is already open.
func (m *Model) openAuth(mode authform.Mode, reason string) tea.Cmd {
	if a, ok := m.overlay.(*authform.Model); ok {
		if a.Mode() != mode {
			return a.SetMode(mode)
		}
		return nil
	}
	return m.show(authform.New(authID, mode, reason, m.theme))
}

func (m *Model) openNewEvent() tea.Cmd {
	if err := m.ctrl.RequireLogin("create an event"); err != nil {
		return nil
	}
	return m.show(eventform.New(formID, "", event.Draft{}, m.snap.AIEnabled, m.theme))
}

func (m *Model) openEditEvent(id string) tea.Cmd {
	ev, found := m.ctrl.Event(id)
	if !found {
		m.command.SetStatus("Event not found")
		return nil
	}
	u := m.ctrl.CurrentUser()
	if u == nil || u.ID != ev.OrganizerID {
		m.command.SetStatus("Only the organizer can edit this event")
		return nil
	}
	return m.show(eventform.New(formID, id, ev.Draft(), false, m.theme))
}

func (m *Model) openPlanner() tea.Cmd {
	if !m.ctrl.AIEnabled() {
		m.command.SetStatus("The AI planner needs an API key")
		return nil
	}
	return m.show(planner.New(plannerID, m.snap.Language, m.theme))
}

func (m *Model) openProfile(u event.User, organized []event.Event) tea.Cmd {
	return m.show(newProfileOverlay(u, organized, m.snap.Language, m.theme))
}

// openCalendar shows the month grid. Zero opens on the current month.
func (m *Model) openCalendar(month time.Month) tea.Cmd {
	now := time.Now()
	return m.show(newCalendarOverlay(m.snap, timeutil.UpcomingMonth(now, month), now, m.theme))
}
