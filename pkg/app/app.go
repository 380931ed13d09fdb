// Package app is the application state controller. It owns the event list,
// the featured list, the bookmark set, the identity and the UI selections,
// and is the only place that merges gateway results into that state.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/store"
	"tableflip.dev/iqevents/pkg/toast"
	"tableflip.dev/iqevents/pkg/tui/events"
)

// ViewMode selects which derived list the UI shows.
type ViewMode string

const (
	ViewGrid      ViewMode = "grid"
	ViewMap       ViewMode = "map"
	ViewBookmarks ViewMode = "bookmarks"
	ViewMyEvents  ViewMode = "my-events"
)

// ViewModes lists every view in cycling order.
var ViewModes = []ViewMode{ViewGrid, ViewMap, ViewBookmarks, ViewMyEvents}

// ParseViewMode maps a stored or typed name to a ViewMode.
func ParseViewMode(s string) (ViewMode, bool) {
	for _, v := range ViewModes {
		if string(v) == s {
			return v, true
		}
	}
	return ViewGrid, false
}

// NeedsLogin reports whether the view only makes sense for a signed in user.
func (v ViewMode) NeedsLogin() bool {
	return v == ViewBookmarks || v == ViewMyEvents
}

// TopEventsLimit is how many featured events the top events selector shows.
const TopEventsLimit = 5

const loadFailedMessage = "Failed to load event data. Please refresh the page."

// Assistant is the generative assistant as the controller uses it.
type Assistant interface {
	Available() bool
	GenerateEventDetails(ctx context.Context, prompt string, cities []catalog.City, categories []catalog.Category) (assistant.Suggestion, error)
	GenerateItinerary(ctx context.Context, prompt string, evs []event.Event, lang event.Language) (assistant.Itinerary, error)
}

// PrefsStore persists preferences between runs.
type PrefsStore interface {
	LoadPrefs() (store.Prefs, error)
	SavePrefs(store.Prefs) error
}

// Snapshot is a consistent copy of the controller state. Callers own it.
type Snapshot struct {
	Events    []event.Event
	Featured  []event.Event
	Visible   []event.Event
	Top       []event.Event
	Bookmarks map[string]struct{}
	User      *event.User
	Filter    viewmodel.Filter
	Language  event.Language
	View      ViewMode
	Selected  *event.Event
	Loading   bool
	Loaded    bool
	AIEnabled bool
}

// Bookmarked reports whether id is in the bookmark set.
func (s Snapshot) Bookmarked(id string) bool {
	_, ok := s.Bookmarks[id]
	return ok
}

// Controller is safe for concurrent use. It never holds its lock across a
// gateway call.
type Controller struct {
	component events.ComponentID
	gateway   backend.Gateway
	assistant Assistant
	toasts    toast.Publisher
	prefs     PrefsStore

	mu         sync.Mutex
	ctx        context.Context
	evs        []event.Event
	featured   []event.Event
	bookmarks  map[string]struct{}
	bursts     map[string]*toggleBurst
	user       *event.User
	filter     viewmodel.Filter
	lang       event.Language
	view       ViewMode
	selectedID string
	loading    bool
	loaded     bool

	unsubscribe func()
	closeOnce   sync.Once

	eventCh chan tea.Msg
}

// Option configures a Controller.
type Option func(*Controller)

// WithAssistant enables the AI features.
func WithAssistant(a Assistant) Option {
	return func(c *Controller) { c.assistant = a }
}

// WithToasts sets where notifications go.
func WithToasts(p toast.Publisher) Option {
	return func(c *Controller) { c.toasts = p }
}

// WithPrefs restores and persists language, view and filter.
func WithPrefs(p PrefsStore) Option {
	return func(c *Controller) { c.prefs = p }
}

// WithComponent sets the component id stamped on emitted messages.
func WithComponent(id events.ComponentID) Option {
	return func(c *Controller) { c.component = id }
}

// New creates a controller over gateway. Call Start before use.
func New(gateway backend.Gateway, opts ...Option) *Controller {
	c := &Controller{
		component: events.ComponentID("controller"),
		gateway:   gateway,
		bookmarks: map[string]struct{}{},
		bursts:    map[string]*toggleBurst{},
		lang:      event.English,
		view:      ViewGrid,
		ctx:       context.Background(),
		eventCh:   make(chan tea.Msg, 64),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.toasts == nil {
		c.toasts = discard{}
	}
	if c.prefs != nil {
		if p, err := c.prefs.LoadPrefs(); err != nil {
			log.Warn().Err(err).Msg("could not load preferences")
		} else {
			c.applyPrefs(p)
		}
	}
	return c
}

type discard struct{}

func (discard) Publish(message string, severity toast.Severity) toast.Toast {
	return toast.Toast{Message: message, Severity: severity}
}

// Events exposes the change channel for Bubble Tea subscriptions. Slow
// readers miss intermediate messages, never the current state.
func (c *Controller) Events() <-chan tea.Msg {
	return c.eventCh
}

func (c *Controller) emit(msg tea.Msg) {
	select {
	case c.eventCh <- msg:
	default:
	}
}

// Start subscribes to identity changes and performs the initial load.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	// Subscribing delivers INITIAL_SESSION synchronously, so the lock must
	// not be held here.
	unsubscribe := c.gateway.OnAuthStateChange(c.onAuthChange)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	return c.Reload(ctx)
}

// Close releases the auth subscription. It is safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		unsubscribe := c.unsubscribe
		c.unsubscribe = nil
		c.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

// Reload fetches the event list and the featured list concurrently and
// replaces both when both succeed. On failure the lists are left as they
// were and a toast is published.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	var all, featured []event.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = c.gateway.FetchEvents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		featured, err = c.gateway.FetchFeaturedEvents(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.evs = all
		c.featured = featured
		c.loaded = true
	}
	c.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("initial load failed")
		c.toasts.Publish(loadFailedMessage, toast.Error)
		c.emit(events.LoadedMsg{Component: c.component, Err: err})
		return err
	}
	c.emit(events.LoadedMsg{Component: c.component, Events: len(all), Featured: len(featured)})
	c.emit(events.EventChangeMsg{Component: c.component, Action: events.ChangeReload})
	return nil
}

// Snapshot returns a copy of the state with the derived lists filled in.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Events:    event.CloneAll(c.evs),
		Featured:  event.CloneAll(c.featured),
		Bookmarks: make(map[string]struct{}, len(c.bookmarks)),
		Filter:    c.filter,
		Language:  c.lang,
		View:      c.view,
		Loading:   c.loading,
		Loaded:    c.loaded,
		AIEnabled: c.assistant != nil && c.assistant.Available(),
	}
	for id := range c.bookmarks {
		s.Bookmarks[id] = struct{}{}
	}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	if i := event.Index(c.evs, c.selectedID); i >= 0 {
		sel := c.evs[i].Clone()
		s.Selected = &sel
	} else if i := event.Index(c.featured, c.selectedID); i >= 0 {
		sel := c.featured[i].Clone()
		s.Selected = &sel
	}
	s.Top = viewmodel.Top(s.Featured, TopEventsLimit)
	s.Visible = c.visibleLocked(s.Events)
	return s
}

func (c *Controller) visibleLocked(all []event.Event) []event.Event {
	return visible(all, c.filter, c.lang, c.view, c.bookmarks, c.user)
}

// Derive applies f and view v to the held events without changing the
// controller, for one-shot listings.
func (s Snapshot) Derive(f viewmodel.Filter, v ViewMode, lang event.Language) []event.Event {
	return visible(s.Events, f, lang, v, s.Bookmarks, s.User)
}

func visible(all []event.Event, f viewmodel.Filter, lang event.Language, v ViewMode, bookmarks map[string]struct{}, user *event.User) []event.Event {
	derived := viewmodel.Derive(all, f, lang)
	switch v {
	case ViewBookmarks:
		return viewmodel.Bookmarked(derived, bookmarks)
	case ViewMyEvents:
		if user == nil {
			return []event.Event{}
		}
		return viewmodel.OrganizedBy(derived, user.ID)
	case ViewMap:
		return viewmodel.Located(derived)
	}
	return derived
}

// Event returns an event by id from the event list or the featured list.
func (c *Controller) Event(id string) (event.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := event.Index(c.evs, id); i >= 0 {
		return c.evs[i].Clone(), true
	}
	if i := event.Index(c.featured, id); i >= 0 {
		return c.featured[i].Clone(), true
	}
	return event.Event{}, false
}

// CurrentUser returns the signed in user or nil.
func (c *Controller) CurrentUser() *event.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// RequireLogin returns ErrAuthRequired and asks the UI for the login form
// when nobody is signed in.
func (c *Controller) RequireLogin(reason string) error {
	if c.CurrentUser() != nil {
		return nil
	}
	c.emit(events.LoginRequiredMsg{Component: c.component, Reason: reason})
	return backend.ErrAuthRequired
}

// Select opens the detail view for id. An empty id closes it.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	found := id == "" || event.Index(c.evs, id) >= 0 || event.Index(c.featured, id) >= 0
	if found {
		c.selectedID = id
	}
	var ref *events.EventRef
	if id != "" && found {
		ref = c.refLocked(id)
	}
	c.mu.Unlock()
	if found {
		c.emit(events.SelectionChangeMsg{Component: c.component, Event: ref})
	}
	return found
}

func (c *Controller) refLocked(id string) *events.EventRef {
	if i := event.Index(c.evs, id); i >= 0 {
		r := events.RefOf(c.evs[i], c.lang)
		return &r
	}
	if i := event.Index(c.featured, id); i >= 0 {
		r := events.RefOf(c.featured[i], c.lang)
		return &r
	}
	return &events.EventRef{ID: id}
}

// SetFilter replaces the active filter.
func (c *Controller) SetFilter(f viewmodel.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	c.savePrefs()
	c.emit(events.FilterChangeMsg{Component: c.component, Filter: f})
}

// UpdateFilter applies fn to the active filter.
func (c *Controller) UpdateFilter(fn func(viewmodel.Filter) viewmodel.Filter) viewmodel.Filter {
	c.mu.Lock()
	c.filter = fn(c.filter)
	f := c.filter
	c.mu.Unlock()
	c.savePrefs()
	c.emit(events.FilterChangeMsg{Component: c.component, Filter: f})
	return f
}

// ToggleCategory applies a discovery bar category selection.
func (c *Controller) ToggleCategory(id string) viewmodel.Filter {
	return c.UpdateFilter(func(f viewmodel.Filter) viewmodel.Filter { return f.ToggleCategory(id) })
}

// ToggleCity applies a discovery bar city selection.
func (c *Controller) ToggleCity(id string) viewmodel.Filter {
	return c.UpdateFilter(func(f viewmodel.Filter) viewmodel.Filter { return f.ToggleCity(id) })
}

// SetLanguage changes the display language.
func (c *Controller) SetLanguage(lang event.Language) {
	c.mu.Lock()
	c.lang = lang
	view := c.view
	c.mu.Unlock()
	c.savePrefs()
	c.emit(events.ViewChangeMsg{Component: c.component, View: string(view), Language: lang})
}

// SetView switches the list view. Bookmarks and my events need a user.
func (c *Controller) SetView(v ViewMode) error {
	if v.NeedsLogin() {
		if err := c.RequireLogin("view " + string(v)); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.view = v
	lang := c.lang
	c.mu.Unlock()
	c.savePrefs()
	c.emit(events.ViewChangeMsg{Component: c.component, View: string(v), Language: lang})
	return nil
}

// ReloadPrefs re-reads preferences another process wrote and applies them
// without saving them back. Only what changed is announced.
func (c *Controller) ReloadPrefs() error {
	if c.prefs == nil {
		return nil
	}
	p, err := c.prefs.LoadPrefs()
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	c.mu.Lock()
	display, filter := c.applyPrefs(p)
	lang, view, f := c.lang, c.view, c.filter
	c.mu.Unlock()

	if filter {
		c.emit(events.FilterChangeMsg{Component: c.component, Filter: f})
	}
	if display {
		c.emit(events.ViewChangeMsg{Component: c.component, View: string(view), Language: lang})
	}
	return nil
}

// applyPrefs copies p into the controller. Views that need a user are kept
// only while one is signed in. The caller holds c.mu or owns c exclusively.
func (c *Controller) applyPrefs(p store.Prefs) (display, filter bool) {
	if p.Language != "" && p.Language != c.lang {
		c.lang = p.Language
		display = true
	}
	if v, ok := ParseViewMode(p.View); ok && v != c.view && (!v.NeedsLogin() || c.user != nil) {
		c.view = v
		display = true
	}
	if p.Filter != c.filter {
		c.filter = p.Filter
		filter = true
	}
	return display, filter
}

func (c *Controller) savePrefs() {
	if c.prefs == nil {
		return
	}
	c.mu.Lock()
	p := store.Prefs{Language: c.lang, View: string(c.view), Filter: c.filter}
	c.mu.Unlock()
	if err := c.prefs.SavePrefs(p); err != nil {
		log.Warn().Err(err).Msg("could not save preferences")
	}
}

// onAuthChange is the gateway listener. It runs on the gateway's goroutine
// and never with the controller lock held by the caller.
func (c *Controller) onAuthChange(change backend.AuthChange) {
	c.mu.Lock()
	c.user = change.User
	ctx := c.ctx
	viewReset := false
	if change.User == nil {
		c.bookmarks = map[string]struct{}{}
		c.bursts = map[string]*toggleBurst{}
		if c.view.NeedsLogin() {
			c.view = ViewGrid
			viewReset = true
		}
	}
	view, lang := c.view, c.lang
	c.mu.Unlock()

	log.Debug().Str("kind", string(change.Type)).Bool("signed_in", change.User != nil).Msg("auth state changed")
	c.emit(events.AuthChangeMsg{Component: c.component, Kind: string(change.Type), User: change.User})
	if viewReset {
		c.emit(events.ViewChangeMsg{Component: c.component, View: string(view), Language: lang})
	}

	if change.User == nil {
		c.emit(events.BookmarksSyncedMsg{Component: c.component})
		return
	}
	if change.Type == backend.TokenRefreshed {
		return
	}
	if err := c.SyncBookmarks(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("could not load bookmarks")
	}
}
