// Package bookmarks contains the runners behind `iqevents bookmarks`.
package bookmarks

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/printers"
)

// List prints the signed in user's bookmarked events.
type List struct {
	Controller *app.Controller
	Lang       event.Language
	ShowID     bool
	JSON       bool
	Out        io.Writer
}

func (l *List) Do(ctx context.Context) error {
	ctrl := l.Controller
	if err := ctrl.RequireLogin("bookmarks"); err != nil {
		return err
	}
	snap := ctrl.Snapshot()
	lang := l.Lang
	if lang == "" {
		lang = snap.Language
	}
	evs := snap.Derive(viewmodel.Filter{}, app.ViewBookmarks, lang)
	pp := printers.PrettyPrint{Out: l.Out, Lang: lang, ShowID: l.ShowID}
	if l.JSON {
		return pp.JSON(evs)
	}
	pp.TitleWithCount("Bookmarked Events", len(evs))
	pp.Events(evs, snap.Bookmarks)
	return nil
}

// Toggle adds or removes a bookmark and reports the new state.
type Toggle struct {
	Controller *app.Controller
	ID         string
	Out        io.Writer
}

func (t *Toggle) Do(ctx context.Context) error {
	ctrl := t.Controller
	ev, ok := ctrl.Event(t.ID)
	if !ok {
		return fmt.Errorf("event not found: %s", t.ID)
	}
	if err := ctrl.ToggleBookmark(ctx, t.ID); err != nil {
		return err
	}
	snap := ctrl.Snapshot()
	verb := "Removed bookmark for"
	if snap.Bookmarked(t.ID) {
		verb = "Bookmarked"
	}
	pp := printers.PrettyPrint{Out: t.Out, Lang: snap.Language}
	pp.Title(fmt.Sprintf("%s %s", verb, ev.Title.Get(snap.Language)))
	return nil
}
