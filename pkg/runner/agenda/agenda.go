// Package agenda contains the runner behind `iqevents agenda`.
package agenda

import (
	"context"
	"io"
	"time"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/printers"
	"tableflip.dev/iqevents/pkg/timeutil"
)

// Agenda prints the events starting between today and the end of the window.
type Agenda struct {
	Controller *app.Controller
	Window     time.Duration
	Label      string
	Lang       event.Language
	JSON       bool
	Out        io.Writer
	Now        func() time.Time
}

func (a *Agenda) Do(ctx context.Context) error {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	result := a.Controller.Agenda(timeutil.StartOfDay(now), now.Add(a.Window))
	pp := printers.PrettyPrint{Out: a.Out, Lang: a.Lang}
	if a.JSON {
		return pp.JSON(result)
	}
	pp.Agenda(result, a.Label)
	return nil
}
