package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/commands/options"
	"tableflip.dev/iqevents/pkg/runner/catalog"
)

func addCities(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "cities",
		Short:     "list the cities events can be filtered by",
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c := catalog.Cities{JSON: oo.JSON}
			return oo.HandleError(c.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addCategories(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "categories",
		Short:     "list the event categories",
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c := catalog.Categories{JSON: oo.JSON}
			return oo.HandleError(c.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
