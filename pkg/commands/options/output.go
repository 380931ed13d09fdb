package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/runner/events"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// IDOptions
type IDOptions struct {
	ShowID bool
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each event.")
}

// jsonError is what a failed command prints in JSON mode.
type jsonError struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Status int    `json:"status,omitempty"`
}

// ErrorCode classifies err for scripts reading --json output.
func ErrorCode(err error) string {
	var be *backend.Error
	var ge *assistant.GenerationError
	var se *assistant.SchemaError
	switch {
	case errors.Is(err, backend.ErrAuthRequired):
		return "auth_required"
	case errors.Is(err, backend.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, backend.ErrNotFound), errors.Is(err, events.ErrNotFound):
		return "not_found"
	case errors.Is(err, assistant.ErrUnavailable):
		return "ai_unavailable"
	case errors.Is(err, event.ErrInvalidDraft), errors.Is(err, event.ErrInvalidRating), errors.Is(err, assistant.ErrEmptyPrompt):
		return "invalid"
	case errors.As(err, &ge), errors.As(err, &se):
		return "ai_failed"
	case errors.As(err, &be):
		return "backend"
	}
	return "error"
}

// HandleError prints err as {"error": "...", "code": "..."} in JSON mode and
// swallows it.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	out := jsonError{Error: err.Error(), Code: ErrorCode(err)}
	var be *backend.Error
	if errors.As(err, &be) {
		out.Status = be.Status
	}
	b, merr := json.Marshal(out)
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
