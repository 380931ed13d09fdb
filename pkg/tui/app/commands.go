package teaui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/timeutil"
	"tableflip.dev/iqevents/pkg/tui/components/authform"
	"tableflip.dev/iqevents/pkg/tui/components/command"
)

const commandsHint = "Commands: :login :logout :new :plan :agenda :calendar :reload :view :lang :clear :debug :help :quit"

var commandSuggestions = []command.SuggestionOption{
	{Name: "login", Description: "Log in (login signup | login reset)", Args: []string{"signup", "reset"}},
	{Name: "logout", Description: "Sign out"},
	{Name: "new", Description: "Create an event"},
	{Name: "plan", Description: "Plan a trip with the AI planner"},
	{Name: "agenda", Description: "Events starting soon, by city (agenda 3d)", Args: []string{"1d", "3d", "1w", "2w"}},
	{Name: "calendar", Description: "Month grid of events (calendar april)", Args: monthNames()},
	{Name: "reload", Description: "Fetch the events again"},
	{Name: "view", Description: "grid, map, bookmarks or my-events", Args: []string{"grid", "map", "bookmarks", "my-events"}},
	{Name: "lang", Description: "en, ar or ku", Args: []string{"en", "ar", "ku"}},
	{Name: "clear", Description: "Clear every filter"},
	{Name: "debug", Description: "Toggle debug event viewer"},
	{Name: "help", Description: "Show key bindings"},
	{Name: "quit", Description: "Exit iqevents"},
}

func monthNames() []string {
	names := make([]string, 0, 12)
	for mo := time.January; mo <= time.December; mo++ {
		names = append(names, strings.ToLower(mo.String()))
	}
	return names
}

// runCommand executes a submitted ":" command.
func (m *Model) runCommand(raw string) tea.Cmd {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) == 0 {
		m.command.SetStatus(commandsHint)
		return nil
	}
	name := strings.ToLower(parts[0])
	arg := strings.Join(parts[1:], " ")
	ctx, ctrl := m.ctx, m.ctrl

	switch name {
	case "quit", "exit", "q":
		m.shutdown()
		return tea.Quit
	case "help":
		m.command.SetStatus(commandsHint)
		return m.openHelp()
	case "debug":
		m.toggleDebug()
	case "login":
		mode := authform.ModeLogin
		switch strings.ToLower(arg) {
		case "signup", "sign-up", "register":
			mode = authform.ModeSignUp
		case "reset":
			mode = authform.ModeReset
		}
		return m.openAuth(mode, "")
	case "logout":
		if ctrl.CurrentUser() == nil {
			m.command.SetStatus("Not signed in")
			return nil
		}
		return func() tea.Msg { return loggedOutMsg{err: ctrl.Logout(ctx)} }
	case "new":
		return m.openNewEvent()
	case "plan":
		return m.openPlanner()
	case "agenda":
		window, label, err := timeutil.ParseWindow(strings.ReplaceAll(arg, " ", ""))
		if err != nil {
			m.command.SetStatus("Agenda: " + err.Error())
			return nil
		}
		return m.show(newAgendaOverlay(ctrl, window, label, m.snap.Language, m.theme.Modal))
	case "calendar", "cal":
		month, err := timeutil.ParseMonth(arg)
		if err != nil {
			m.command.SetStatus("Calendar: " + err.Error())
			return nil
		}
		return m.openCalendar(month)
	case "reload":
		m.command.SetStatus("Reloading…")
		return func() tea.Msg { return reloadedMsg{err: ctrl.Reload(ctx)} }
	case "view":
		v, ok := app.ParseViewMode(arg)
		if !ok {
			m.command.SetStatus("Unknown view: " + arg)
			return nil
		}
		if err := ctrl.SetView(v); err != nil {
			m.command.SetStatus("Log in to see " + string(v))
		}
	case "lang", "language":
		lang, err := event.ParseLanguage(arg)
		if err != nil {
			m.command.SetStatus(err.Error())
			return nil
		}
		ctrl.SetLanguage(lang)
	case "clear":
		ctrl.SetFilter(viewmodel.Filter{})
		m.command.SetStatus("Filters cleared")
	default:
		m.command.SetStatus("Unhandled command: " + name)
	}
	return nil
}

func nextLanguage(current event.Language) event.Language {
	for i, l := range event.Languages {
		if l == current {
			return event.Languages[(i+1)%len(event.Languages)]
		}
	}
	return event.English
}
