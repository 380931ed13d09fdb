package teaui

import (
	"context"

	"tableflip.dev/iqevents/pkg/runner/client"
	"tableflip.dev/iqevents/pkg/toast"
	tuiapp "tableflip.dev/iqevents/pkg/tui/app"
)

// UI launches the Bubble Tea interface over an opened, not yet started,
// client. The UI starts the controller itself so the first paint shows the
// loading state.
type UI struct {
	Client *client.Client
	Toasts *toast.Queue
	Debug  bool
}

func (u *UI) Do(ctx context.Context) error {
	return tuiapp.Run(tuiapp.Options{
		Controller:    u.Client.Controller,
		Toasts:        u.Toasts,
		Watch:         u.Client.Watch,
		ReloadSession: u.Client.ReloadSession,
		Debug:         u.Debug,
	})
}
