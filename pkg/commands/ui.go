package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/runner/client"
	teaui "tableflip.dev/iqevents/pkg/runner/tea"
	"tableflip.dev/iqevents/pkg/toast"
)

func addUI(topLevel *cobra.Command) {
	debug := false

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
iqevents ui
iqevents ui --demo
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			queue := toast.New()
			c, err := client.Open(cmd.Context(), client.Options{
				LogToFile: true,
				Toasts:    queue,
			})
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			i := teaui.UI{Client: c, Toasts: queue, Debug: debug}
			return i.Do(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Show the debug log pane.")

	topLevel.AddCommand(cmd)
}
