// Package events contains the runners behind `iqevents events`.
package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/printers"
)

// ErrNotFound is returned for an id the backend does not list.
var ErrNotFound = errors.New("event not found")

// List prints the events a view would show.
type List struct {
	Controller *app.Controller
	Filter     viewmodel.Filter
	View       app.ViewMode
	// Featured lists the featured events instead of the view.
	Featured bool
	// Upcoming drops events that already started.
	Upcoming bool
	Lang     event.Language
	ShowID   bool
	JSON     bool
	Out      io.Writer
	Now      func() time.Time
}

// Do executes the listing against an already started controller. The
// controller's own filter and view are left alone.
func (l *List) Do(ctx context.Context) error {
	if l.Controller == nil {
		return errors.New("can not list, no controller")
	}
	snap := l.Controller.Snapshot()
	lang := l.lang(snap)
	view := l.View
	if view == "" {
		view = app.ViewGrid
	}
	if view.NeedsLogin() && snap.User == nil {
		return fmt.Errorf("view %s: %w", view, backend.ErrAuthRequired)
	}

	title := titles[view]
	var evs []event.Event
	if l.Featured {
		title = "Featured"
		evs = viewmodel.Derive(snap.Featured, l.Filter, lang)
	} else {
		evs = snap.Derive(l.Filter, view, lang)
	}
	if l.Upcoming {
		evs = upcoming(evs, l.now())
	}

	pp := printers.PrettyPrint{Out: l.Out, Lang: lang, ShowID: l.ShowID}
	if l.JSON {
		return pp.JSON(evs)
	}
	pp.TitleWithCount(title, len(evs))
	pp.Events(evs, snap.Bookmarks)
	return nil
}

var titles = map[app.ViewMode]string{
	app.ViewGrid:      "Upcoming Events",
	app.ViewMap:       "Events on the Map",
	app.ViewBookmarks: "Bookmarked Events",
	app.ViewMyEvents:  "My Events",
}

func (l *List) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *List) lang(snap app.Snapshot) event.Language {
	if l.Lang != "" {
		return l.Lang
	}
	return snap.Language
}

func upcoming(evs []event.Event, now time.Time) []event.Event {
	out := make([]event.Event, 0, len(evs))
	for _, e := range evs {
		if e.Upcoming(now) {
			out = append(out, e)
		}
	}
	return out
}

// Show prints one event with its reviews.
type Show struct {
	Controller *app.Controller
	ID         string
	Lang       event.Language
	ShowID     bool
	JSON       bool
	Out        io.Writer
}

func (s *Show) Do(ctx context.Context) error {
	ev, ok := s.Controller.Event(s.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	snap := s.Controller.Snapshot()
	lang := s.Lang
	if lang == "" {
		lang = snap.Language
	}
	pp := printers.PrettyPrint{Out: s.Out, Lang: lang, ShowID: s.ShowID}
	if s.JSON {
		return pp.JSON(ev)
	}
	pp.Event(ev, snap.Bookmarked(ev.ID))
	return nil
}

// Save creates an event, or updates the one with ID.
type Save struct {
	Controller *app.Controller
	ID         string
	// Edit fills in the draft: empty for a new event, the stored listing
	// for an update.
	Edit func(event.Draft) (event.Draft, error)
	Lang event.Language
	JSON bool
	Out  io.Writer
}

func (s *Save) Do(ctx context.Context) error {
	ctrl := s.Controller
	if err := ctrl.RequireLogin("save event"); err != nil {
		return err
	}
	var draft event.Draft
	if s.ID != "" {
		ev, ok := ctrl.Event(s.ID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
		}
		if u := ctrl.CurrentUser(); u == nil || u.ID != ev.OrganizerID {
			return fmt.Errorf("only the organizer can edit %s", s.ID)
		}
		draft = ev.Draft()
	} else if u := ctrl.CurrentUser(); u != nil {
		draft.OrganizerName = u.Name
	}
	if s.Edit != nil {
		var err error
		if draft, err = s.Edit(draft); err != nil {
			return err
		}
	}

	saved, err := ctrl.SaveEvent(ctx, s.ID, draft)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: s.Out, Lang: s.Lang, ShowID: true}
	if s.JSON {
		return pp.JSON(saved)
	}
	pp.Event(saved, false)
	return nil
}

// Calendar prints a month grid of the filtered events.
type Calendar struct {
	Controller *app.Controller
	Filter     viewmodel.Filter
	Month      time.Time
	Lang       event.Language
	Out        io.Writer
}

func (c *Calendar) Do(ctx context.Context) error {
	snap := c.Controller.Snapshot()
	lang := c.Lang
	if lang == "" {
		lang = snap.Language
	}
	f := c.Filter
	f.Month = c.Month.Month()
	evs := viewmodel.Derive(snap.Events, f, lang)
	pp := printers.PrettyPrint{Out: c.Out, Lang: lang}
	pp.Calendar(c.Month, evs)
	return nil
}
