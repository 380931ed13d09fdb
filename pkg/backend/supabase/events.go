package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
)

const (
	eventsTable    = "events"
	reviewsTable   = "reviews"
	profilesTable  = "profiles"
	bookmarksTable = "user_bookmarked_events"

	returnRepresentation = "return=representation"
)

// token returns the access token for reads, refreshing an expiring session
// first. "" falls back to the anon key.
func (c *Client) token(ctx context.Context) string {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return ""
	}
	if !c.expiring(s) {
		return s.AccessToken
	}
	next, err := c.refresh(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session refresh failed, reading anonymously")
		return ""
	}
	return next.AccessToken
}

// FetchEvents lists every event with its reviews and their authors,
// newest first.
func (c *Client) FetchEvents(ctx context.Context) ([]event.Event, error) {
	var rows []eventRow
	err := c.do(ctx, request{
		op:     "fetchEvents",
		method: http.MethodGet,
		path:   restPath + eventsTable,
		query: url.Values{
			"select": {"*,reviews(*,profiles(*))"},
			"order":  {"date.desc"},
		},
		token: c.token(ctx),
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]event.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, eventFromRow(r))
	}
	return out, nil
}

// FetchFeaturedEvents returns the most recent events with banner sized images.
func (c *Client) FetchFeaturedEvents(ctx context.Context) ([]event.Event, error) {
	var rows []eventRow
	err := c.do(ctx, request{
		op:     "fetchFeaturedEvents",
		method: http.MethodGet,
		path:   restPath + eventsTable,
		query: url.Values{
			"select": {"*"},
			"order":  {"date.desc"},
			"limit":  {strconv.Itoa(c.featuredLimit)},
		},
		token: c.token(ctx),
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]event.Event, 0, len(rows))
	for _, r := range rows {
		e := eventFromRow(r)
		e.ImageURL = featuredImage(e.ImageURL)
		out = append(out, e)
	}
	return out, nil
}

// FetchUser loads a public profile.
func (c *Client) FetchUser(ctx context.Context, id string) (event.User, bool, error) {
	return c.fetchUser(ctx, id, c.token(ctx))
}

func (c *Client) fetchUser(ctx context.Context, id, token string) (event.User, bool, error) {
	var rows []profileRow
	err := c.do(ctx, request{
		op:     "fetchUser",
		method: http.MethodGet,
		path:   restPath + profilesTable,
		query:  url.Values{"select": {"*"}, "id": {eq(id)}},
		token:  token,
	}, &rows)
	if err != nil {
		return event.User{}, false, err
	}
	if len(rows) == 0 {
		return event.User{}, false, nil
	}
	return userFromProfile(rows[0]), true, nil
}

// CreateEvent inserts an event owned by the signed in user.
func (c *Client) CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error) {
	s, err := c.ensureSession(ctx)
	if err != nil {
		return event.Event{}, err
	}
	var rows []eventRow
	err = c.do(ctx, request{
		op:     "createEvent",
		method: http.MethodPost,
		path:   restPath + eventsTable,
		query:  url.Values{"select": {"*"}},
		body:   rowFromDraft(draft, s.User.ID),
		prefer: returnRepresentation,
		token:  s.AccessToken,
	}, &rows)
	if err != nil {
		return event.Event{}, err
	}
	if len(rows) == 0 {
		return event.Event{}, &backend.Error{Op: "createEvent", Message: "insert returned no row"}
	}
	return eventFromRow(rows[0]), nil
}

// UpdateEvent replaces the writable fields of an event the signed in user
// organizes. Matching no row is reported as backend.ErrNotFound.
func (c *Client) UpdateEvent(ctx context.Context, id string, draft event.Draft) (event.Event, error) {
	s, err := c.ensureSession(ctx)
	if err != nil {
		return event.Event{}, err
	}
	var rows []eventRow
	err = c.do(ctx, request{
		op:     "updateEvent",
		method: http.MethodPatch,
		path:   restPath + eventsTable,
		query: url.Values{
			"select":       {"*"},
			"id":           {eq(id)},
			"organizer_id": {eq(s.User.ID)},
		},
		body:   rowFromDraft(draft, s.User.ID),
		prefer: returnRepresentation,
		token:  s.AccessToken,
	}, &rows)
	if err != nil {
		return event.Event{}, err
	}
	if len(rows) == 0 {
		log.Warn().Str("op", "updateEvent").Str("event_id", id).Msg("no row matched")
		return event.Event{}, &backend.Error{
			Op:      "updateEvent",
			Status:  http.StatusNotFound,
			Message: "event not found or not organized by the current user",
			Err:     backend.ErrNotFound,
		}
	}
	return eventFromRow(rows[0]), nil
}

// AddReview inserts a review by the signed in user and returns it with the
// author's profile.
func (c *Client) AddReview(ctx context.Context, eventID string, draft event.ReviewDraft) (event.Review, error) {
	s, err := c.ensureSession(ctx)
	if err != nil {
		return event.Review{}, err
	}
	var rows []reviewRow
	err = c.do(ctx, request{
		op:     "addReview",
		method: http.MethodPost,
		path:   restPath + reviewsTable,
		query:  url.Values{"select": {"*,profiles(*)"}},
		body: reviewRow{
			EventID: eventID,
			UserID:  s.User.ID,
			Rating:  draft.Rating,
			Comment: draft.Comment,
		},
		prefer: returnRepresentation,
		token:  s.AccessToken,
	}, &rows)
	if err != nil {
		return event.Review{}, err
	}
	if len(rows) == 0 {
		return event.Review{}, &backend.Error{Op: "addReview", Message: "insert returned no row"}
	}
	r := reviewFromRow(rows[0])
	if r.Timestamp.IsZero() {
		r.Timestamp = c.now()
	}
	return r, nil
}

// BookmarkedEventIDs lists the signed in user's bookmarks.
func (c *Client) BookmarkedEventIDs(ctx context.Context) ([]string, error) {
	s, err := c.ensureSession(ctx)
	if errors.Is(err, backend.ErrAuthRequired) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []bookmarkRow
	err = c.do(ctx, request{
		op:     "getBookmarkedEventIds",
		method: http.MethodGet,
		path:   restPath + bookmarksTable,
		query:  url.Values{"select": {"event_id"}, "user_id": {eq(s.User.ID)}},
		token:  s.AccessToken,
	}, &rows)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.EventID)
	}
	return ids, nil
}

// ToggleBookmark flips the bookmark with a read then a delete or insert.
// The two requests are not atomic.
func (c *Client) ToggleBookmark(ctx context.Context, eventID string) error {
	s, err := c.ensureSession(ctx)
	if err != nil {
		return err
	}
	filter := url.Values{"user_id": {eq(s.User.ID)}, "event_id": {eq(eventID)}}

	var existing []bookmarkRow
	query := url.Values{"select": {"*"}}
	for k, v := range filter {
		query[k] = v
	}
	if err := c.do(ctx, request{
		op:     "toggleBookmark (select)",
		method: http.MethodGet,
		path:   restPath + bookmarksTable,
		query:  query,
		token:  s.AccessToken,
	}, &existing); err != nil {
		return err
	}

	if len(existing) > 0 {
		return c.do(ctx, request{
			op:     "toggleBookmark (delete)",
			method: http.MethodDelete,
			path:   restPath + bookmarksTable,
			query:  filter,
			token:  s.AccessToken,
		}, nil)
	}
	return c.do(ctx, request{
		op:     "toggleBookmark (insert)",
		method: http.MethodPost,
		path:   restPath + bookmarksTable,
		body:   bookmarkRow{UserID: s.User.ID, EventID: eventID},
		token:  s.AccessToken,
	}, nil)
}
