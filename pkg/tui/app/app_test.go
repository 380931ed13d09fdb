package teaui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/backend/memory"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/store"
	"tableflip.dev/iqevents/pkg/tui/components/authform"
	"tableflip.dev/iqevents/pkg/tui/components/detail"
	"tableflip.dev/iqevents/pkg/tui/components/eventform"
	"tableflip.dev/iqevents/pkg/tui/events"
)

func newTestModel(t *testing.T, opts Options, ctrlOpts ...app.Option) (*Model, *memory.Gateway) {
	t.Helper()
	gw := memory.NewDemo(time.Now())
	ctrl := app.New(gw, ctrlOpts...)
	t.Cleanup(ctrl.Close)
	opts.Controller = ctrl
	m := New(opts)
	t.Cleanup(m.shutdown)
	m.Update(tea.WindowSizeMsg{Width: 110, Height: 48})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	pump(m)
	return m, gw
}

// pump feeds the controller's pending change messages into the model.
func pump(m *Model) {
	for {
		select {
		case msg := <-m.ctrl.Events():
			m.Update(controllerMsg{msg: msg})
		default:
			return
		}
	}
}

// run executes a request command and feeds its result back.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(m, c)
		}
		return
	}
	if msg != nil {
		m.Update(msg)
	}
}

func key(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Text: s, Code: r}
}

func view(m *Model) string {
	v, _ := m.View()
	return v
}

func login(t *testing.T, m *Model) {
	t.Helper()
	if _, err := m.ctrl.Login(context.Background(), backend.Credentials{Email: memory.DemoEmail, Password: memory.DemoPassword}); err != nil {
		t.Fatalf("login: %v", err)
	}
	pump(m)
}

func submit(m *Model, value string) tea.Cmd {
	_, cmd := m.Update(events.CommandSubmitMsg{Component: commandID, Value: value})
	return cmd
}

func TestLayoutShowsHeaderListAndStatus(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	out := view(m)
	for _, want := range []string{"iqevents", "EN · guest", "Upcoming Events", "Erbil Citadel Jazz Night", "Top Events"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if m.list.Len() == 0 {
		t.Fatalf("expected the list to be filled from the controller")
	}
}

func TestSelectOpensAndClosesDetail(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.Update(events.EventSelectMsg{Component: listID, Event: events.EventRef{ID: "demo-1"}})
	pump(m)
	d, ok := m.overlay.(*detail.Model)
	if !ok || d.EventID() != "demo-1" {
		t.Fatalf("expected the detail overlay for demo-1, got %T", m.overlay)
	}
	if sel := m.ctrl.Snapshot().Selected; sel == nil || sel.ID != "demo-1" {
		t.Fatalf("controller selection not set")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	pump(m)
	if m.overlay != nil {
		t.Fatalf("esc should close the detail overlay")
	}
	if m.ctrl.Snapshot().Selected != nil {
		t.Fatalf("closing the detail should clear the selection")
	}
}

func TestBookmarkWhileSignedOutAsksForLogin(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	_, cmd := m.Update(events.BookmarkRequestMsg{Component: listID, Event: events.EventRef{ID: "demo-1"}})
	run(m, cmd)
	pump(m)
	if _, ok := m.overlay.(*authform.Model); !ok {
		t.Fatalf("expected the login form, got %T", m.overlay)
	}
	if m.ctrl.Snapshot().Bookmarked("demo-1") {
		t.Fatalf("anonymous bookmark must not change state")
	}
}

func TestLoginThroughForm(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.Update(key("u"))
	if _, ok := m.overlay.(*authform.Model); !ok {
		t.Fatalf("u should open the account form, got %T", m.overlay)
	}

	_, cmd := m.Update(authform.SubmitMsg{Component: authID, Mode: authform.ModeLogin, Email: memory.DemoEmail, Password: "wrong"})
	run(m, cmd)
	if _, ok := m.overlay.(*authform.Model); !ok {
		t.Fatalf("a failed login keeps the form open")
	}
	if !strings.Contains(view(m), "Invalid login credentials") {
		t.Fatalf("expected the backend message in the form:\n%s", view(m))
	}

	_, cmd = m.Update(authform.SubmitMsg{Component: authID, Mode: authform.ModeLogin, Email: memory.DemoEmail, Password: memory.DemoPassword})
	run(m, cmd)
	pump(m)
	if m.overlay != nil {
		t.Fatalf("a successful login closes the form, got %T", m.overlay)
	}
	if m.snap.User == nil || m.snap.User.Name != "Demo User" {
		t.Fatalf("expected the signed in user in the snapshot")
	}
	if !strings.Contains(view(m), "Demo User") {
		t.Fatalf("header should show the user:\n%s", view(m))
	}
}

func TestViewCommandNeedsLoginForBookmarks(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	submit(m, "view map")
	pump(m)
	if m.snap.View != app.ViewMap {
		t.Fatalf("expected the map view, got %q", m.snap.View)
	}
	if !strings.Contains(view(m), "Events on the Map") {
		t.Fatalf("expected the map title:\n%s", view(m))
	}

	submit(m, "view bookmarks")
	pump(m)
	if m.snap.View != app.ViewMap {
		t.Fatalf("bookmarks need a user, view = %q", m.snap.View)
	}
	if m.command.Status() != "Log in to see bookmarks" {
		t.Fatalf("unexpected status %q", m.command.Status())
	}
	if _, ok := m.overlay.(*authform.Model); !ok {
		t.Fatalf("expected the login form, got %T", m.overlay)
	}
}

func TestLanguageKeyCycles(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.Update(key("L"))
	pump(m)
	if m.snap.Language != event.Arabic {
		t.Fatalf("expected Arabic, got %q", m.snap.Language)
	}
	if !strings.Contains(view(m), "الفعاليات القادمة") {
		t.Fatalf("expected the Arabic list title:\n%s", view(m))
	}
	submit(m, "lang en")
	pump(m)
	if m.snap.Language != event.English {
		t.Fatalf("expected English, got %q", m.snap.Language)
	}
}

func TestFilterIntentNarrowsList(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	all := m.list.Len()
	m.Update(events.FilterIntentMsg{Component: filterID, Field: events.FilterQuery, Value: "citadel jazz"})
	pump(m)
	if m.list.Len() != 1 || all <= 1 {
		t.Fatalf("expected one match of %d, got %d", all, m.list.Len())
	}
	submit(m, "clear")
	pump(m)
	if m.list.Len() != all {
		t.Fatalf("clear should restore %d rows, got %d", all, m.list.Len())
	}
}

func TestNewEventNeedsLoginAndSaveClosesForm(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.Update(key("n"))
	pump(m)
	if _, ok := m.overlay.(*authform.Model); !ok {
		t.Fatalf("creating an event while signed out should ask for login, got %T", m.overlay)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	login(t, m)
	m.Update(key("n"))
	if _, ok := m.overlay.(*eventform.Model); !ok {
		t.Fatalf("expected the event form, got %T", m.overlay)
	}

	m.Update(savedMsg{err: errors.New("backend down")})
	if _, ok := m.overlay.(*eventform.Model); !ok {
		t.Fatalf("a failed save keeps the form open")
	}
	if !strings.Contains(view(m), "backend down") {
		t.Fatalf("expected the error in the form:\n%s", view(m))
	}

	m.Update(savedMsg{saved: event.Event{Title: event.Localized{event.English: "Book Fair"}}})
	if m.overlay != nil {
		t.Fatalf("a successful save closes the form")
	}
	if m.command.Status() != "Saved Book Fair" {
		t.Fatalf("unexpected status %q", m.command.Status())
	}
}

func TestSessionChangeReloadsStoredSession(t *testing.T) {
	calls := 0
	m, _ := newTestModel(t, Options{ReloadSession: func() error {
		calls++
		return nil
	}})
	_, cmd := m.Update(watchEventMsg{event: store.Event{Type: store.EventSessionChanged}})
	run(m, cmd)
	if calls != 1 {
		t.Fatalf("expected one session reload, got %d", calls)
	}
	_, cmd = m.Update(watchEventMsg{event: store.Event{Type: store.EventPrefsChanged}})
	run(m, cmd)
	if calls != 1 {
		t.Fatalf("a prefs change must not reload the session")
	}
}

type stubPrefs struct{ p store.Prefs }

func (s *stubPrefs) LoadPrefs() (store.Prefs, error) { return s.p, nil }
func (s *stubPrefs) SavePrefs(p store.Prefs) error   { s.p = p; return nil }

func TestPrefsChangeFromOtherProcessReachesTheScreen(t *testing.T) {
	prefs := &stubPrefs{}
	m, _ := newTestModel(t, Options{}, app.WithPrefs(prefs))
	if m.snap.Language != event.English {
		t.Fatalf("expected english, got %q", m.snap.Language)
	}

	prefs.p = store.Prefs{Language: event.Kurdish}
	_, cmd := m.Update(watchEventMsg{event: store.Event{Type: store.EventPrefsChanged}})
	run(m, cmd)
	pump(m)
	if m.snap.Language != event.Kurdish {
		t.Fatalf("expected kurdish after the reload, got %q", m.snap.Language)
	}
}

func TestDebugCommandDocksEventLog(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	submit(m, "debug")
	if m.eventViewer == nil {
		t.Fatalf("expected the event viewer")
	}
	m.Update(events.EventHighlightMsg{Component: listID, Event: events.EventRef{ID: "demo-1", Title: "Jazz"}})
	out := view(m)
	if !strings.Contains(out, "Debug log") || !strings.Contains(out, "[events]") {
		t.Fatalf("expected the log with the list entry:\n%s", out)
	}
	submit(m, "debug")
	if m.eventViewer != nil {
		t.Fatalf("debug should toggle off")
	}
}

func TestAgendaCommandGroupsByCity(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	cmd := submit(m, "agenda 4w")
	if _, ok := m.overlay.(*agendaOverlay); !ok {
		t.Fatalf("expected the agenda overlay, got %T", m.overlay)
	}
	run(m, cmd)
	out := view(m)
	if !strings.Contains(out, "Agenda · next 4w") || !strings.Contains(out, "Erbil") {
		t.Fatalf("unexpected agenda:\n%s", out)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.overlay != nil {
		t.Fatalf("esc closes the agenda")
	}

	submit(m, "agenda soon")
	if m.overlay != nil || !strings.HasPrefix(m.command.Status(), "Agenda:") {
		t.Fatalf("a bad window reports an error, status %q", m.command.Status())
	}
}

func TestProfileOverlayOpensOrganizedEvent(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	_, cmd := m.Update(events.ProfileRequestMsg{Component: detailID, UserID: "demo-organizer"})
	run(m, cmd)
	p, ok := m.overlay.(*profileOverlay)
	if !ok {
		t.Fatalf("expected the profile overlay, got %T", m.overlay)
	}
	if len(p.organized) == 0 || !strings.Contains(view(m), "Zagros Events") {
		t.Fatalf("expected the organizer and their events:\n%s", view(m))
	}
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(m, cmd)
	pump(m)
	if _, ok := m.overlay.(*detail.Model); !ok {
		t.Fatalf("enter should open the event, got %T", m.overlay)
	}
}

func TestFocusCycleAndSearchKey(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusTop || !m.top.Focused() || m.list.Focused() {
		t.Fatalf("tab should move focus from the list to top events")
	}
	m.Update(key("/"))
	if m.focus != focusFilter || !m.filter.Editing() {
		t.Fatalf("/ should focus the search input")
	}
	m.Update(key("v"))
	if m.snap.View != app.ViewGrid {
		t.Fatalf("typing in the search input must not trigger shortcuts")
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.focus != focusList {
		t.Fatalf("esc should return focus to the list")
	}
}

func TestCalendarOverlayOpensEventOnDay(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	run(m, m.handleKey(key("c")))
	c, ok := m.overlay.(*calendarOverlay)
	if !ok {
		t.Fatalf("c should open the calendar, got %T", m.overlay)
	}
	if out := view(m); !strings.Contains(out, "Calendar") || !strings.Contains(out, time.Now().Format("January 2006")) {
		t.Fatalf("expected the current month:\n%s", out)
	}

	ev, ok := m.ctrl.Event("demo-1")
	if !ok {
		t.Fatalf("demo-1 missing")
	}
	c.cal.SetSelected(ev.Date)
	c.recount()
	if day := c.onDay(); len(day) != 1 || day[0].ID != "demo-1" {
		t.Fatalf("expected demo-1 on its day, got %v", day)
	}
	if !strings.Contains(view(m), "Erbil Citadel Jazz Night") {
		t.Fatalf("expected the day's events listed:\n%s", view(m))
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(m, cmd)
	pump(m)
	if _, ok := m.overlay.(*detail.Model); !ok {
		t.Fatalf("enter should open the event, got %T", m.overlay)
	}
}

func TestCalendarCommand(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	run(m, submit(m, "calendar smarch"))
	if m.overlay != nil || !strings.HasPrefix(m.command.Status(), "Calendar:") {
		t.Fatalf("a bad month should only set the status, got %T %q", m.overlay, m.command.Status())
	}
	run(m, submit(m, "calendar december"))
	c, ok := m.overlay.(*calendarOverlay)
	if !ok {
		t.Fatalf("expected the calendar, got %T", m.overlay)
	}
	if c.cal.Month().Month() != time.December {
		t.Fatalf("expected December, got %v", c.cal.Month())
	}
}
