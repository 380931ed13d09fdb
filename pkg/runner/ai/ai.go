// Package ai contains the runners behind `iqevents ai`.
package ai

import (
	"context"
	"errors"
	"io"
	"strings"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/printers"
)

var errPrompt = errors.New("a prompt is required")

// Suggest drafts an event listing from a short idea.
type Suggest struct {
	Controller *app.Controller
	Prompt     string
	Lang       event.Language
	JSON       bool
	Out        io.Writer
}

func (s *Suggest) Do(ctx context.Context) error {
	prompt := strings.TrimSpace(s.Prompt)
	if prompt == "" {
		return errPrompt
	}
	suggestion, err := s.Controller.SuggestEvent(ctx, prompt)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: s.Out, Lang: s.Lang}
	if s.JSON {
		return pp.JSON(suggestion)
	}
	pp.Suggestion(suggestion)
	return nil
}

// Itinerary plans a trip around the listed events.
type Itinerary struct {
	Controller *app.Controller
	Prompt     string
	Lang       event.Language
	JSON       bool
	Out        io.Writer
}

func (i *Itinerary) Do(ctx context.Context) error {
	prompt := strings.TrimSpace(i.Prompt)
	if prompt == "" {
		return errPrompt
	}
	snap := i.Controller.Snapshot()
	lang := i.Lang
	if lang == "" {
		lang = snap.Language
	}
	it, err := i.Controller.PlanItineraryIn(ctx, prompt, lang)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: i.Out, Lang: lang}
	if i.JSON {
		return pp.JSON(it)
	}
	pp.Itinerary(it, snap.Events)
	return nil
}
