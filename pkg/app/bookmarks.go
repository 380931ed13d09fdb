package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/toast"
	"tableflip.dev/iqevents/pkg/tui/events"
)

// toggleBurst tracks the toggles of one event that are still in flight.
type toggleBurst struct {
	inflight int
	started  int
	failed   bool
	snapshot bool
}

// SyncBookmarks replaces the bookmark set with the backend's.
func (c *Controller) SyncBookmarks(ctx context.Context) error {
	ids, err := c.gateway.BookmarkedEventIDs(ctx)
	if err != nil {
		return err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	c.mu.Lock()
	if c.user == nil {
		// Signed out while the request was in flight.
		c.mu.Unlock()
		return nil
	}
	for id := range c.bursts {
		// Leave events with toggles in flight as they are optimistically.
		_, on := c.bookmarks[id]
		if on {
			set[id] = struct{}{}
		} else {
			delete(set, id)
		}
	}
	c.bookmarks = set
	c.mu.Unlock()
	c.emit(events.BookmarksSyncedMsg{Component: c.component, Count: len(set)})
	return nil
}

// ToggleBookmark flips the bookmark of id optimistically and confirms it with
// the backend.
//
// Toggles of the same event may overlap. Nothing is settled until the last
// one in flight returns: if every toggle of the burst succeeded the optimistic
// state stands; if a lone toggle failed its snapshot is restored; if a toggle
// failed inside a longer burst the membership is re-read from the backend,
// since relative toggles cannot be replayed.
func (c *Controller) ToggleBookmark(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		c.emit(events.LoginRequiredMsg{Component: c.component, Reason: "bookmark"})
		return backend.ErrAuthRequired
	}
	_, was := c.bookmarks[id]
	b := c.bursts[id]
	if b == nil {
		b = &toggleBurst{snapshot: was}
		c.bursts[id] = b
	}
	b.inflight++
	b.started++
	c.setBookmarkLocked(id, !was)
	c.mu.Unlock()
	c.emit(events.BookmarkChangeMsg{Component: c.component, EventID: id, Bookmarked: !was, Pending: true})

	err := c.gateway.ToggleBookmark(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("event_id", id).Msg("failed to toggle bookmark")
		c.toasts.Publish("Failed to update bookmark. Please try again.", toast.Error)
	} else if was {
		c.toasts.Publish("Bookmark removed.", toast.Success)
	} else {
		c.toasts.Publish("Event bookmarked!", toast.Success)
	}

	c.mu.Lock()
	b.inflight--
	if err != nil {
		b.failed = true
	}
	settle := b.inflight == 0
	rollback, resync := false, false
	if settle {
		if c.bursts[id] == b {
			delete(c.bursts, id)
		}
		switch {
		case !b.failed:
		case b.started == 1 && c.user != nil:
			rollback = true
			c.setBookmarkLocked(id, b.snapshot)
		default:
			resync = c.user != nil
		}
	}
	_, now := c.bookmarks[id]
	c.mu.Unlock()

	switch {
	case rollback:
		c.emit(events.BookmarkChangeMsg{Component: c.component, EventID: id, Bookmarked: now, RolledBack: true})
	case resync:
		if serr := c.SyncBookmarks(ctx); serr != nil && !errors.Is(serr, context.Canceled) {
			log.Warn().Err(serr).Msg("could not re-sync bookmarks")
		}
	case settle:
		c.emit(events.BookmarkChangeMsg{Component: c.component, EventID: id, Bookmarked: now})
	}
	return err
}

func (c *Controller) setBookmarkLocked(id string, on bool) {
	if on {
		c.bookmarks[id] = struct{}{}
		return
	}
	delete(c.bookmarks, id)
}
