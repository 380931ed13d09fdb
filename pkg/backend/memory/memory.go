// Package memory is an in-process Gateway used by the demo mode and by tests.
// It follows the same ownership and auth rules as the hosted backend.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
)

// Op names a gateway operation for failure injection.
type Op string

const (
	OpFetchEvents   Op = "fetchEvents"
	OpFetchFeatured Op = "fetchFeaturedEvents"
	OpFetchUser     Op = "fetchUser"
	OpCreateEvent   Op = "createEvent"
	OpUpdateEvent   Op = "updateEvent"
	OpAddReview     Op = "addReview"
	OpBookmarks     Op = "getBookmarkedEventIds"
	OpToggle        Op = "toggleBookmark"
	OpLogin         Op = "login"
	OpSignUp        Op = "signUp"
	OpLogout        Op = "logout"
	OpReset         Op = "resetPassword"
)

type account struct {
	password string
	user     event.User
}

// Gateway stores everything in maps guarded by one mutex.
type Gateway struct {
	mu        sync.Mutex
	events    []event.Event
	profiles  map[string]event.User
	accounts  map[string]account
	bookmarks map[string]map[string]struct{}
	current   *event.User
	failures  map[Op]error
	calls     map[Op]int
	// gates block an operation until the channel is closed.
	gates         map[Op]chan struct{}
	featuredLimit int
	now           func() time.Time

	listeners backend.Listeners
}

var _ backend.Gateway = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*Gateway)

// WithEvents seeds the event list.
func WithEvents(events ...event.Event) Option {
	return func(g *Gateway) {
		g.events = append(g.events, event.CloneAll(events)...)
	}
}

// WithAccount registers an email/password account and its profile.
func WithAccount(email, password string, user event.User) Option {
	return func(g *Gateway) {
		g.accounts[strings.ToLower(email)] = account{password: password, user: user}
		g.profiles[user.ID] = user
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// New builds an empty Gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		profiles:      map[string]event.User{},
		accounts:      map[string]account{},
		bookmarks:     map[string]map[string]struct{}{},
		failures:      map[Op]error{},
		calls:         map[Op]int{},
		gates:         map[Op]chan struct{}{},
		featuredLimit: 4,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fail makes calls of op started from now on return err, until cleared
// with Fail(op, nil).
func (g *Gateway) Fail(op Op, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failures, op)
		return
	}
	g.failures[op] = err
}

// Hold blocks calls of op started from now on until the returned release
// func is called. A later Hold does not affect calls already waiting.
func (g *Gateway) Hold(op Op) (release func()) {
	ch := make(chan struct{})
	g.mu.Lock()
	g.gates[op] = ch
	g.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			if g.gates[op] == ch {
				delete(g.gates, op)
			}
			g.mu.Unlock()
			close(ch)
		})
	}
}

// Calls reports how many times op was invoked.
func (g *Gateway) Calls(op Op) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

// SetBookmarks replaces the stored bookmark set for userID.
func (g *Gateway) SetBookmarks(userID string, ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	set := map[string]struct{}{}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	g.bookmarks[userID] = set
}

// enter records the call, captures the failure injected at call time and
// waits on any gate.
func (g *Gateway) enter(ctx context.Context, op Op) error {
	g.mu.Lock()
	g.calls[op]++
	gate := g.gates[op]
	failure := g.failures[op]
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failure != nil {
		return &backend.Error{Op: string(op), Message: failure.Error(), Err: failure}
	}
	return nil
}

// FetchEvents returns every event, newest first.
func (g *Gateway) FetchEvents(ctx context.Context) ([]event.Event, error) {
	if err := g.enter(ctx, OpFetchEvents); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sortedLocked(), nil
}

// FetchFeaturedEvents returns the newest events without reviews.
func (g *Gateway) FetchFeaturedEvents(ctx context.Context) ([]event.Event, error) {
	if err := g.enter(ctx, OpFetchFeatured); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	all := g.sortedLocked()
	if len(all) > g.featuredLimit {
		all = all[:g.featuredLimit]
	}
	for i := range all {
		all[i].Reviews = []event.Review{}
		all[i].ImageURL = strings.Replace(all[i].ImageURL, "/800/600", "/1200/800", 1)
	}
	return all, nil
}

func (g *Gateway) sortedLocked() []event.Event {
	out := event.CloneAll(g.events)
	if out == nil {
		out = []event.Event{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// FetchUser looks up a profile.
func (g *Gateway) FetchUser(ctx context.Context, id string) (event.User, bool, error) {
	if err := g.enter(ctx, OpFetchUser); err != nil {
		return event.User{}, false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.profiles[id]
	return u, ok, nil
}

func (g *Gateway) requireUser() (event.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return event.User{}, backend.ErrAuthRequired
	}
	return *g.current, nil
}

// CreateEvent stores a new event owned by the current user.
func (g *Gateway) CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error) {
	u, err := g.requireUser()
	if err != nil {
		return event.Event{}, err
	}
	if err := g.enter(ctx, OpCreateEvent); err != nil {
		return event.Event{}, err
	}
	e := fromDraft(uuid.NewString(), u.ID, draft)
	g.mu.Lock()
	g.events = append(g.events, e.Clone())
	g.mu.Unlock()
	return e, nil
}

// UpdateEvent replaces the writable fields of an event the current user organizes.
func (g *Gateway) UpdateEvent(ctx context.Context, id string, draft event.Draft) (event.Event, error) {
	u, err := g.requireUser()
	if err != nil {
		return event.Event{}, err
	}
	if err := g.enter(ctx, OpUpdateEvent); err != nil {
		return event.Event{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := event.Index(g.events, id)
	if idx < 0 || g.events[idx].OrganizerID != u.ID {
		return event.Event{}, &backend.Error{
			Op:      string(OpUpdateEvent),
			Status:  404,
			Message: "event not found or not organized by the current user",
			Err:     backend.ErrNotFound,
		}
	}
	updated := fromDraft(id, u.ID, draft)
	updated.Reviews = g.events[idx].Reviews
	g.events[idx] = updated
	out := updated.Clone()
	// The hosted backend does not embed reviews on update.
	out.Reviews = []event.Review{}
	return out, nil
}

// AddReview stores a review by the current user.
func (g *Gateway) AddReview(ctx context.Context, eventID string, draft event.ReviewDraft) (event.Review, error) {
	u, err := g.requireUser()
	if err != nil {
		return event.Review{}, err
	}
	if err := g.enter(ctx, OpAddReview); err != nil {
		return event.Review{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := event.Index(g.events, eventID)
	if idx < 0 {
		return event.Review{}, &backend.Error{Op: string(OpAddReview), Status: 409, Message: "event does not exist", Err: backend.ErrNotFound}
	}
	r := event.Review{
		ID:        uuid.NewString(),
		User:      u,
		Rating:    draft.Rating,
		Comment:   draft.Comment,
		Timestamp: g.now(),
	}
	g.events[idx] = g.events[idx].WithReview(r)
	return r, nil
}

// BookmarkedEventIDs lists the current user's bookmarks, or nothing when anonymous.
func (g *Gateway) BookmarkedEventIDs(ctx context.Context) ([]string, error) {
	u, err := g.requireUser()
	if err != nil {
		return []string{}, nil
	}
	if err := g.enter(ctx, OpBookmarks); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.bookmarks[u.ID]))
	for id := range g.bookmarks[u.ID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ToggleBookmark flips membership of eventID in the current user's set.
func (g *Gateway) ToggleBookmark(ctx context.Context, eventID string) error {
	u, err := g.requireUser()
	if err != nil {
		return err
	}
	if err := g.enter(ctx, OpToggle); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	set := g.bookmarks[u.ID]
	if set == nil {
		set = map[string]struct{}{}
		g.bookmarks[u.ID] = set
	}
	if _, ok := set[eventID]; ok {
		delete(set, eventID)
	} else {
		set[eventID] = struct{}{}
	}
	return nil
}

// Login checks the registered accounts.
func (g *Gateway) Login(ctx context.Context, creds backend.Credentials) (event.User, error) {
	if err := g.enter(ctx, OpLogin); err != nil {
		return event.User{}, err
	}
	g.mu.Lock()
	acct, ok := g.accounts[strings.ToLower(strings.TrimSpace(creds.Email))]
	if !ok || acct.password != creds.Password {
		g.mu.Unlock()
		return event.User{}, &backend.Error{Op: string(OpLogin), Status: 400, Code: "invalid_credentials", Message: "Invalid login credentials"}
	}
	u := acct.user
	if p, ok := g.profiles[u.ID]; ok {
		u = p
	}
	g.current = backend.UserPtr(u)
	g.mu.Unlock()

	g.listeners.Notify(backend.AuthChange{Type: backend.SignedIn, User: backend.UserPtr(u)})
	return u, nil
}

// SignUp registers and signs in a new account.
func (g *Gateway) SignUp(ctx context.Context, req backend.SignUpRequest) (event.User, error) {
	if err := g.enter(ctx, OpSignUp); err != nil {
		return event.User{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	g.mu.Lock()
	if _, exists := g.accounts[email]; exists {
		g.mu.Unlock()
		return event.User{}, &backend.Error{Op: string(OpSignUp), Status: 422, Code: "user_already_exists", Message: "User already registered"}
	}
	id := uuid.NewString()
	u := event.NewUser(id, []string{req.Name}, nil)
	g.accounts[email] = account{password: req.Password, user: u}
	g.profiles[id] = u
	g.current = backend.UserPtr(u)
	g.mu.Unlock()

	g.listeners.Notify(backend.AuthChange{Type: backend.SignedIn, User: backend.UserPtr(u)})
	return u, nil
}

// Logout signs the current user out.
func (g *Gateway) Logout(ctx context.Context) error {
	if err := g.enter(ctx, OpLogout); err != nil {
		return err
	}
	g.mu.Lock()
	had := g.current != nil
	g.current = nil
	g.mu.Unlock()
	if had {
		g.listeners.Notify(backend.AuthChange{Type: backend.SignedOut})
	}
	return nil
}

// ResetPassword accepts any address.
func (g *Gateway) ResetPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return &backend.Error{Op: string(OpReset), Message: "email is required"}
	}
	return g.enter(ctx, OpReset)
}

// SignInWithOAuth is not available offline.
func (g *Gateway) SignInWithOAuth(provider string) (string, error) {
	return "", &backend.Error{Op: "signInWithOAuth", Message: "oauth is not available in demo mode"}
}

// CurrentUser returns the signed in user or nil.
func (g *Gateway) CurrentUser() *event.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	return backend.UserPtr(*g.current)
}

// OnAuthStateChange registers fn and delivers INITIAL_SESSION to it.
func (g *Gateway) OnAuthStateChange(fn backend.AuthListener) func() {
	unsubscribe := g.listeners.Add(fn)
	fn(backend.AuthChange{Type: backend.InitialSession, User: g.CurrentUser()})
	return unsubscribe
}

// Listeners reports the number of auth subscriptions.
func (g *Gateway) Listeners() int {
	return g.listeners.Len()
}

func fromDraft(id, organizerID string, d event.Draft) event.Event {
	return event.Event{
		ID:             id,
		Title:          d.Title.Clone(),
		Description:    d.Description.Clone(),
		OrganizerID:    organizerID,
		OrganizerName:  d.OrganizerName,
		CategoryID:     d.CategoryID,
		CityID:         d.CityID,
		Date:           d.Date,
		Venue:          d.Venue,
		OrganizerPhone: d.OrganizerPhone,
		WhatsappNumber: d.WhatsappNumber,
		ImageURL:       d.ImageURL,
		Coordinates:    d.Coordinates,
		TicketInfo:     d.TicketInfo,
		Reviews:        []event.Review{},
	}
}
