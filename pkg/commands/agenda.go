package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/commands/options"
	"tableflip.dev/iqevents/pkg/runner/agenda"
	"tableflip.dev/iqevents/pkg/runner/client"
	"tableflip.dev/iqevents/pkg/timeutil"
)

func addAgenda(topLevel *cobra.Command) {
	window := timeutil.DefaultWindow
	lo := &options.LanguageOptions{}

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "events from today to the end of a window, grouped by city",
		Example: `
iqevents agenda
iqevents agenda --window 2w
iqevents agenda --window 3d --lang ku
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, label, err := timeutil.ParseWindow(window)
			if err != nil {
				return oo.HandleError(err)
			}
			lang, err := lo.Language("")
			if err != nil {
				return oo.HandleError(err)
			}
			return runWithClient(cmd, false, func(ctx context.Context, c *client.Client) error {
				a := agenda.Agenda{Controller: c.Controller, Window: d, Label: label, Lang: lang, JSON: oo.JSON}
				return a.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&window, "window", "w", timeutil.DefaultWindow, "How far ahead to look, for example 3d, 2w or 1w2d.")
	options.AddLanguageArg(cmd, lo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
