// Package review contains the runner behind `iqevents review add`.
package review

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/printers"
)

// Add submits a review and prints the event's reviews afterwards.
type Add struct {
	Controller *app.Controller
	EventID    string
	Rating     int
	Comment    string
	JSON       bool
	Out        io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	ctrl := a.Controller
	if _, ok := ctrl.Event(a.EventID); !ok {
		return fmt.Errorf("event not found: %s", a.EventID)
	}
	r, err := ctrl.AddReview(ctx, a.EventID, event.ReviewDraft{Rating: a.Rating, Comment: a.Comment})
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: a.Out}
	if a.JSON {
		return pp.JSON(r)
	}
	ev, _ := ctrl.Event(a.EventID)
	pp.Reviews(ev.Reviews)
	return nil
}
