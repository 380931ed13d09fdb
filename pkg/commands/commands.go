package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/iqevents/pkg/commands/options"
	"tableflip.dev/iqevents/pkg/runner/client"
)

var (
	oo = &options.OutputOptions{}

	demo     bool
	logLevel string
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "iqevents",
		Short: base.Wrap80("Discover, bookmark, review and publish events across Iraq and Kurdistan from the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&demo, "demo", false,
		"Use the built-in demo events instead of the hosted backend.")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn or error.")
	_ = viper.BindPFlag("demo", cmd.PersistentFlags().Lookup("demo"))
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addEvents(topLevel)
	addFeatured(topLevel)
	addCalendar(topLevel)
	addAgenda(topLevel)
	addBookmarks(topLevel)
	addReview(topLevel)
	addAuth(topLevel)
	addAI(topLevel)
	addCities(topLevel)
	addCategories(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}

// withClient opens a client, loads the events and hands it to fn. When
// lenient is set a failed load is logged and fn still runs, so account
// commands keep working while the event tables are unreachable.
func withClient(ctx context.Context, lenient bool, fn func(*client.Client) error) error {
	c, err := client.Open(ctx, client.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close client")
		}
	}()

	if err := c.Start(ctx); err != nil {
		if !lenient {
			return err
		}
		log.Warn().Err(err).Msg("continuing without events")
	}
	if c.Demo() {
		log.Debug().Msg("using the demo backend")
	}
	return fn(c)
}
