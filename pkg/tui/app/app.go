// Package teaui hosts the Bubble Tea program for the iqevents TUI.
package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/store"
	"tableflip.dev/iqevents/pkg/toast"
	"tableflip.dev/iqevents/pkg/tui/components/authform"
	"tableflip.dev/iqevents/pkg/tui/components/carousel"
	"tableflip.dev/iqevents/pkg/tui/components/command"
	"tableflip.dev/iqevents/pkg/tui/components/detail"
	"tableflip.dev/iqevents/pkg/tui/components/eventlist"
	"tableflip.dev/iqevents/pkg/tui/components/eventviewer"
	"tableflip.dev/iqevents/pkg/tui/components/filterbar"
	"tableflip.dev/iqevents/pkg/tui/components/toasts"
	"tableflip.dev/iqevents/pkg/tui/components/topevents"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
	overlaymgr "tableflip.dev/iqevents/pkg/tui/ui/overlay"
)

const (
	commandID  = events.ComponentID("root-command")
	carouselID = events.ComponentID("featured")
	filterID   = events.ComponentID("filters")
	listID     = events.ComponentID("events")
	topID      = events.ComponentID("top-events")

	readyStatus = "Ready"
	hintText    = "? help · : commands · tab focus · ctrl+c quit"
)

// focusArea is a region of the main layout that receives keys.
type focusArea int

const (
	focusCarousel focusArea = iota
	focusFilter
	focusList
	focusTop
	focusCount
)

// Options wires the program to the application.
type Options struct {
	Controller *app.Controller
	// Toasts feeds the notification stack. Optional.
	Toasts *toast.Queue
	// Watch streams changes other processes make to the local store.
	// Optional.
	Watch func(ctx context.Context) (<-chan store.Event, error)
	// ReloadSession re-reads the stored session after Watch reports that it
	// changed. Optional.
	ReloadSession func() error
	// Debug docks the event log from the start.
	Debug bool
}

// Model is the root of the TUI. The main layout is hosted by the command
// bar; overlays and toasts are composed on top of it.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	ctrl          *app.Controller
	toastQueue    *toast.Queue
	watch         func(ctx context.Context) (<-chan store.Event, error)
	reloadSession func() error
	watchCh       <-chan store.Event
	watchCancel   context.CancelFunc

	theme theme.Theme
	snap  app.Snapshot

	width  int
	height int

	command  *command.Model
	carousel *carousel.Model
	filter   *filterbar.Model
	list     *eventlist.Model
	top      *topevents.Model
	toasts   *toasts.Model
	focus    focusArea

	carouselTop  int
	carouselRows int

	overlay ui.Overlay

	debugEnabled bool
	eventViewer  *eventviewer.Model
}

// New constructs the root model over the controller.
func New(opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	th := theme.Default()

	cmd := command.NewModel(command.Options{
		ID:           commandID,
		PromptPrefix: ":",
		StatusText:   readyStatus,
		HintText:     hintText,
		Styles:       th.Footer,
	})
	cmd.SetSuggestions(commandSuggestions)

	m := &Model{
		ctx:           ctx,
		cancel:        cancel,
		ctrl:          opts.Controller,
		toastQueue:    opts.Toasts,
		watch:         opts.Watch,
		reloadSession: opts.ReloadSession,
		theme:         th,
		command:       cmd,
		carousel:      carousel.New(carouselID, th.Carousel),
		filter:        filterbar.New(filterID, th.Filter),
		list:          eventlist.New(listID, th.List),
		top:           topevents.New(topID, th.Carousel),
		toasts:        toasts.New(th.Toast),
		focus:         focusList,
	}
	if opts.Debug {
		m.debugEnabled = true
		m.eventViewer = eventviewer.NewModel(400)
	}
	m.list.Focus()
	m.applySnapshot()
	return m
}

// Run launches the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.shutdown()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m *Model) shutdown() {
	m.stopWatch()
	m.cancel()
}

// Init starts the controller and the subscriptions.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startCmd(),
		waitForController(m.ctrl.Events()),
		m.waitForToasts(),
		startWatchCmd(m.ctx, m.watch),
		m.carousel.Init(),
	)
}

// Update routes messages to the controller, the overlay and the focused
// component.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	var cmds []tea.Cmd
	add := func(cmd tea.Cmd) {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
	case tea.KeyPressMsg:
		if v.String() == "ctrl+c" {
			m.shutdown()
			return m, tea.Quit
		}
		add(m.handleKey(v))
	case tea.MouseWheelMsg:
		switch {
		case m.overlay != nil:
			add(m.updateOverlay(v))
		case m.eventViewer != nil:
			_, cmd := m.eventViewer.Update(v)
			add(cmd)
		}
	case tea.MouseClickMsg:
		if m.overlay == nil && m.inCarousel(v.Mouse().Y) {
			_, cmd := m.carousel.Update(v)
			add(cmd)
		}
	case tea.MouseMotionMsg, tea.MouseReleaseMsg:
		if m.carousel.Dragging() {
			_, cmd := m.carousel.Update(v)
			add(cmd)
		}
	case agendaLoadedMsg:
		if m.overlay != nil {
			add(m.updateOverlay(v))
		}
	case carousel.TickMsg:
		_, cmd := m.carousel.Update(v)
		add(cmd)
	case toasts.ChangeMsg:
		m.toasts.Update(v)
		add(m.waitForToasts())
	case controllerMsg:
		add(m.handleController(v.msg))
		add(waitForController(m.ctrl.Events()))
	case startedMsg:
		if v.err != nil {
			m.command.SetStatus("Could not load events")
		} else {
			m.command.SetStatus(fmt.Sprintf("%d events", len(m.ctrl.Snapshot().Events)))
		}
	case watchStartedMsg:
		if v.err != nil {
			log.Warn().Err(v.err).Msg("store watch unavailable")
			break
		}
		m.stopWatch()
		m.watchCh = v.ch
		m.watchCancel = v.cancel
		add(m.waitForWatch())
	case watchEventMsg:
		add(m.handleStoreEvent(v.event))
		add(m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		if m.ctx.Err() == nil {
			add(startWatchCmd(m.ctx, m.watch))
		}
	case events.CommandSubmitMsg:
		if v.Component == m.command.ID() {
			add(m.runCommand(v.Value))
		}
	case events.CommandCancelMsg:
		if v.Component == m.command.ID() {
			m.command.SetStatus(readyStatus)
		}
	default:
		add(m.handleRequest(msg))
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

// View renders the composed UI.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width == 0 || m.height == 0 {
		return "loading…", nil
	}
	return m.command.View()
}

func (m *Model) handleKey(key tea.KeyPressMsg) tea.Cmd {
	if m.command.InInputMode() {
		_, cmd := m.command.Update(key)
		return cmd
	}
	if m.overlay != nil {
		return m.updateOverlay(key)
	}

	s := key.String()
	if m.focus == focusFilter && m.filter.Editing() {
		switch s {
		case "esc":
			return m.setFocus(focusList)
		case "tab":
			return m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab":
			return m.setFocus((m.focus + focusCount - 1) % focusCount)
		}
		_, cmd := m.filter.Update(key)
		return cmd
	}

	switch s {
	case ":":
		_, cmd := m.command.Update(key)
		return cmd
	case "?":
		return m.openHelp()
	case "tab":
		return m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "/":
		m.setFocus(focusFilter)
		return m.filter.FocusQuery()
	case "L":
		m.ctrl.SetLanguage(nextLanguage(m.snap.Language))
		return nil
	case "v":
		m.cycleView()
		return nil
	case "n":
		return m.openNewEvent()
	case "a":
		return m.openPlanner()
	case "c":
		return m.openCalendar(0)
	case "u":
		return m.openAuth(authform.ModeLogin, "")
	case "x":
		m.dismissToast()
		return nil
	case "esc":
		if m.focus != focusList {
			return m.setFocus(focusList)
		}
		return nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusCarousel:
		_, cmd = m.carousel.Update(key)
	case focusFilter:
		_, cmd = m.filter.Update(key)
	case focusList:
		_, cmd = m.list.Update(key)
	case focusTop:
		_, cmd = m.top.Update(key)
	}
	return cmd
}

func (m *Model) focusables() []ui.Focusable {
	return []ui.Focusable{m.carousel, m.filter, m.list, m.top}
}

func (m *Model) setFocus(area focusArea) tea.Cmd {
	all := m.focusables()
	for i, f := range all {
		if focusArea(i) != area {
			f.Blur()
		}
	}
	m.focus = area
	return all[area].Focus()
}

// handleController applies a change reported by the controller.
func (m *Model) handleController(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v := msg.(type) {
	case events.LoadedMsg:
		if v.Err != nil {
			m.command.SetStatus("Could not load events")
		} else {
			m.command.SetStatus(fmt.Sprintf("%d events", v.Events))
		}
	case events.SelectionChangeMsg:
		cmd = m.followSelection(v.Event)
	case events.LoginRequiredMsg:
		cmd = m.openAuth(authform.ModeLogin, v.Reason)
	case events.AuthChangeMsg:
		if v.User != nil {
			m.command.SetStatus("Signed in as " + v.User.Name)
			if _, ok := m.overlay.(*authform.Model); ok {
				m.overlay = nil
			}
		} else {
			m.command.SetStatus("Signed out")
		}
	case events.BookmarkChangeMsg:
		if v.RolledBack {
			m.command.SetStatus("Bookmark reverted")
		}
	}
	return tea.Batch(cmd, m.applySnapshot())
}

// applySnapshot pushes the controller state into every component.
func (m *Model) applySnapshot() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	snap := m.ctrl.Snapshot()
	m.snap = snap

	m.carousel.SetLanguage(snap.Language)
	m.carousel.SetBookmarks(snap.Bookmarks)
	cmd := m.carousel.SetSlides(snap.Featured)

	m.filter.SetLanguage(snap.Language)
	m.filter.SetFilter(snap.Filter)

	m.list.SetLanguage(snap.Language)
	m.list.SetView(eventlist.View(snap.View))
	m.list.SetBookmarks(snap.Bookmarks)
	m.list.SetLoading(snap.Loading && !snap.Loaded)
	m.list.SetItems(snap.Visible)

	m.top.SetLanguage(snap.Language)
	m.top.SetBookmarks(snap.Bookmarks)
	m.top.SetEvents(snap.Top)

	if d, ok := m.overlay.(*detail.Model); ok {
		if ev, found := m.ctrl.Event(d.EventID()); found {
			d.SetEvent(ev)
		}
		d.SetUser(snap.User)
		d.SetBookmarked(snap.Bookmarked(d.EventID()))
		d.SetLanguage(snap.Language)
	}
	return cmd
}

func (m *Model) cycleView() {
	views := []app.ViewMode{app.ViewGrid, app.ViewMap}
	if m.snap.User != nil {
		views = append(views, app.ViewBookmarks, app.ViewMyEvents)
	}
	next := views[0]
	for i, v := range views {
		if v == m.snap.View {
			next = views[(i+1)%len(views)]
			break
		}
	}
	if err := m.ctrl.SetView(next); err != nil {
		m.command.SetStatus(err.Error())
	}
}

func (m *Model) dismissToast() {
	if m.toastQueue == nil {
		return
	}
	if t, ok := m.toasts.Newest(); ok {
		m.toastQueue.Dismiss(t.ID)
	}
}

func (m *Model) inCarousel(y int) bool {
	return m.carouselRows > 0 && y >= m.carouselTop && y < m.carouselTop+m.carouselRows
}

func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.command.SetSize(m.width, m.height)

	totalRows := max(1, m.height-1)
	debugRows := 0
	if m.debugEnabled {
		if m.eventViewer == nil {
			m.eventViewer = eventviewer.NewModel(400)
		}
		debugRows = computeDebugHeight(totalRows)
		if debugRows > 0 {
			m.eventViewer.SetSize(m.width, debugRows)
		}
	} else {
		m.eventViewer = nil
	}

	body, cursor := m.composeBody(totalRows, debugRows)
	m.command.SetContent(body, cursor)
}

func (m *Model) composeBody(totalRows, debugRows int) (string, *tea.Cursor) {
	mainRows := totalRows
	if debugRows > 0 && debugRows < totalRows {
		mainRows = max(1, totalRows-debugRows)
	}

	m.carousel.SetSize(m.width, 5)
	m.top.SetSize(m.width, 4)
	m.filter.SetSize(m.width, 4)

	sections := []string{m.renderHeader()}
	used := 1
	m.carouselTop, m.carouselRows = used, 0
	if v := m.carousel.View(); v != "" {
		m.carouselRows = lipgloss.Height(v)
		sections = append(sections, v)
		used += m.carouselRows
	}
	if v := m.top.View(); v != "" {
		sections = append(sections, v)
		used += lipgloss.Height(v)
	}
	filterTop := used
	filterView := m.filter.View()
	sections = append(sections, filterView)
	used += lipgloss.Height(filterView)

	m.list.SetSize(m.width, max(3, mainRows-used))
	sections = append(sections, m.list.View())

	main := overlaymgr.Compose(strings.Join(sections, "\n"), m.width, mainRows, "", overlaymgr.Placement{})

	var cursor *tea.Cursor
	if m.focus == focusFilter {
		if c := m.filter.Cursor(); c != nil {
			cp := *c
			cp.Y += filterTop
			cursor = &cp
		}
	}

	if m.toasts.Len() > 0 {
		m.toasts.SetSize(min(40, m.width-2), mainRows-1)
		main = overlaymgr.Compose(main, m.width, mainRows, m.toasts.View(), overlaymgr.TopRight(1, 1))
	}

	if m.overlay != nil {
		w, h := m.overlaySize(mainRows)
		m.overlay.SetSize(w, h)
		fg, oc := m.overlay.View()
		ow, oh := min(lipgloss.Width(fg), m.width), min(lipgloss.Height(fg), mainRows)
		place := overlaymgr.Centered(ow, oh)
		main = overlaymgr.Compose(main, m.width, mainRows, fg, place)
		cursor = nil
		if oc != nil {
			x, y := overlaymgr.Offsets(m.width, mainRows, ow, oh, place)
			cp := *oc
			cp.X += x
			cp.Y += y
			cursor = &cp
		}
	}

	if debugRows > 0 && m.eventViewer != nil {
		return main + "\n" + m.eventViewer.View(), cursor
	}
	return main, cursor
}

// overlaySize leaves a margin around centered overlays.
func (m *Model) overlaySize(rows int) (int, int) {
	w := m.width * 9 / 10
	if w < 20 {
		w = min(20, m.width)
	}
	h := rows * 9 / 10
	if h < 5 {
		h = min(5, rows)
	}
	return min(w, 90), h
}

func (m *Model) renderHeader() string {
	title := m.theme.Header.Title.Render("iqevents")
	lang := strings.ToUpper(m.snap.Language.String())
	who := "guest"
	if m.snap.User != nil {
		who = m.snap.User.Name
	}
	info := m.theme.Header.Info.Render(lang + " · " + who)
	if m.snap.AIEnabled {
		info = m.theme.Header.Badge.Render("AI") + " " + info
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(info)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + info
}

func (m *Model) toggleDebug() {
	if m.debugEnabled {
		m.debugEnabled = false
		m.eventViewer = nil
		m.command.SetStatus("Debug log hidden")
		return
	}
	m.debugEnabled = true
	if m.eventViewer == nil {
		m.eventViewer = eventviewer.NewModel(400)
	}
	m.eventViewer.Append(eventviewer.Entry{
		Summary: "debug",
		Detail:  "Debug window enabled",
		Source:  "ui",
	})
	m.command.SetStatus("Debug log visible")
}

func (m *Model) noteEvent(msg tea.Msg) {
	if m.eventViewer == nil {
		return
	}
	if cm, ok := msg.(controllerMsg); ok {
		msg = cm.msg
	}
	if _, ok := msg.(carousel.TickMsg); ok {
		return
	}

	source := "tea"
	if s, ok := eventSource(msg); ok && s != "" {
		source = s
	}
	entry := eventviewer.Entry{
		Timestamp: time.Now(),
		Source:    source,
		Summary:   fmt.Sprintf("%T", msg),
		Detail:    describeMsg(msg),
		Level:     eventviewer.LevelInfo,
	}
	if lm, ok := msg.(events.LoadedMsg); ok && lm.Err != nil {
		entry.Level = eventviewer.LevelError
	}
	if bm, ok := msg.(events.BookmarkChangeMsg); ok && bm.RolledBack {
		entry.Level = eventviewer.LevelWarn
	}
	m.eventViewer.Append(entry)
}

func computeDebugHeight(totalRows int) int {
	if totalRows <= 4 {
		return 0
	}
	minHeight := 5
	maxHeight := totalRows - 1
	if maxHeight < minHeight {
		return maxHeight
	}
	return clamp(totalRows/3, minHeight, min(12, maxHeight))
}

func describeMsg(msg tea.Msg) string {
	if d, ok := msg.(interface{ Describe() string }); ok {
		return d.Describe()
	}
	switch v := msg.(type) {
	case tea.KeyMsg:
		return fmt.Sprintf("key=%q", v.String())
	case tea.WindowSizeMsg:
		return fmt.Sprintf("size=%dx%d", v.Width, v.Height)
	case tea.MouseMsg:
		return fmt.Sprintf("mouse=%s", v)
	default:
		return ""
	}
}

// eventSource reads the Component field every component message carries.
func eventSource(msg tea.Msg) (string, bool) {
	switch v := msg.(type) {
	case events.LoadedMsg:
		return string(v.Component), true
	case events.EventChangeMsg:
		return string(v.Component), true
	case events.ReviewAddedMsg:
		return string(v.Component), true
	case events.BookmarkChangeMsg:
		return string(v.Component), true
	case events.BookmarksSyncedMsg:
		return string(v.Component), true
	case events.AuthChangeMsg:
		return string(v.Component), true
	case events.LoginRequiredMsg:
		return string(v.Component), true
	case events.FilterChangeMsg:
		return string(v.Component), true
	case events.FilterIntentMsg:
		return string(v.Component), true
	case events.ViewChangeMsg:
		return string(v.Component), true
	case events.EventHighlightMsg:
		return string(v.Component), true
	case events.EventSelectMsg:
		return string(v.Component), true
	case events.SelectionChangeMsg:
		return string(v.Component), true
	case events.BookmarkRequestMsg:
		return string(v.Component), true
	case events.ProfileRequestMsg:
		return string(v.Component), true
	case events.CommandChangeMsg:
		return string(v.Component), true
	case events.CommandSubmitMsg:
		return string(v.Component), true
	case events.CommandCancelMsg:
		return string(v.Component), true
	case events.FocusMsg:
		return string(v.Component), true
	case events.BlurMsg:
		return string(v.Component), true
	case events.DebugMsg:
		return string(v.Component), true
	default:
		return "", false
	}
}

func clamp(value, lower, upper int) int {
	if upper <= 0 {
		return lower
	}
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
