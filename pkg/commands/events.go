package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/commands/options"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/runner/client"
	"tableflip.dev/iqevents/pkg/runner/events"
	"tableflip.dev/iqevents/pkg/timeutil"
)

func errUnknownView(v string) error {
	return fmt.Errorf("unknown view %q, expected grid, map, bookmarks or my-events", v)
}

func addEvents(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event", "e"},
		Short:   "list, show, create and update events",
	}

	addEventsList(cmd)
	addEventsShow(cmd)
	addEventsCreate(cmd)
	addEventsUpdate(cmd)

	topLevel.AddCommand(cmd)
}

func addEventsList(parent *cobra.Command) {
	fo := &options.FilterOptions{}
	lo := &options.LanguageOptions{}
	io := &options.IDOptions{}
	view := ""
	upcoming := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list the events matching the filters",
		Example: `
iqevents events list
iqevents events list --city erbil --month march
iqevents events list -q jazz --upcoming
iqevents events list --view bookmarks
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			f, err := fo.Filter()
			if err != nil {
				return oo.HandleError(err)
			}
			lang, err := lo.Language("")
			if err != nil {
				return oo.HandleError(err)
			}
			v := app.ViewGrid
			if view != "" {
				var ok bool
				if v, ok = app.ParseViewMode(view); !ok {
					return oo.HandleError(errUnknownView(view))
				}
			}
			err = withClient(cmd.Context(), false, func(c *client.Client) error {
				l := events.List{
					Controller: c.Controller,
					Filter:     f,
					View:       v,
					Upcoming:   upcoming,
					Lang:       lang,
					ShowID:     io.ShowID,
					JSON:       oo.JSON,
				}
				return l.Do(cmd.Context())
			})
			return oo.HandleError(err)
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddLanguageArg(cmd, lo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&view, "view", "", "View to list: grid, map, bookmarks or my-events.")
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Hide events that already started.")

	parent.AddCommand(cmd)
}

func addFeatured(topLevel *cobra.Command) {
	lo := &options.LanguageOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "list the featured events",
		Example: `
iqevents featured
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			lang, err := lo.Language("")
			if err != nil {
				return oo.HandleError(err)
			}
			err = withClient(cmd.Context(), false, func(c *client.Client) error {
				l := events.List{
					Controller: c.Controller,
					Featured:   true,
					Lang:       lang,
					ShowID:     io.ShowID,
					JSON:       oo.JSON,
				}
				return l.Do(cmd.Context())
			})
			return oo.HandleError(err)
		},
	}

	options.AddLanguageArg(cmd, lo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addEventsShow(parent *cobra.Command) {
	lo := &options.LanguageOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "show an event with its reviews",
		Example: `
iqevents events show 3f1c
iqevents events show 3f1c --lang ar
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			lang, err := lo.Language("")
			if err != nil {
				return oo.HandleError(err)
			}
			err = withClient(cmd.Context(), false, func(c *client.Client) error {
				s := events.Show{
					Controller: c.Controller,
					ID:         args[0],
					Lang:       lang,
					ShowID:     io.ShowID,
					JSON:       oo.JSON,
				}
				return s.Do(cmd.Context())
			})
			return oo.HandleError(err)
		},
	}

	options.AddLanguageArg(cmd, lo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addEventsCreate(parent *cobra.Command) {
	eo := &options.EventOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "publish a new event",
		Long: `Publish a new event. Requires a signed in user (see iqevents auth login).

The English title and description, a category, a city, a date and a venue
are required. Arabic and Kurdish text is optional.`,
		Example: `
iqevents events create --title "Kite Day" --description "Kites over the citadel." \
  --category cat-2 --city kirkuk --on "2026-5-1 10:00" --venue "Kirkuk Citadel"
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withClient(cmd.Context(), false, func(c *client.Client) error {
				return saveEvent(cmd, c, "", eo)
			})
			return oo.HandleError(err)
		},
	}

	options.AddEventArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addEventsUpdate(parent *cobra.Command) {
	eo := &options.EventOptions{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "update an event you organize",
		Long: `Update an event you organize. Only the flags given change, the rest of the
listing and its reviews stay as they are.`,
		Example: `
iqevents events update 3f1c --venue "Sami Abdulrahman Park"
iqevents events update 3f1c --title-ar "ليلة الجاز"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withClient(cmd.Context(), false, func(c *client.Client) error {
				return saveEvent(cmd, c, args[0], eo)
			})
			return oo.HandleError(err)
		},
	}

	options.AddEventArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func saveEvent(cmd *cobra.Command, c *client.Client, id string, eo *options.EventOptions) error {
	s := events.Save{
		Controller: c.Controller,
		ID:         id,
		Edit: func(d event.Draft) (event.Draft, error) {
			return eo.Apply(cmd, d, time.Now())
		},
		JSON: oo.JSON,
	}
	return s.Do(cmd.Context())
}

func addCalendar(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	lo := &options.LanguageOptions{}

	cmd := &cobra.Command{
		Use:   "calendar [month]",
		Short: "print a month of events as a calendar",
		Example: `
iqevents calendar
iqevents calendar april --city erbil
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			var month time.Month
			if len(args) == 1 {
				m, err := timeutil.ParseMonth(args[0])
				if err != nil {
					return err
				}
				month = m
			}
			on := timeutil.UpcomingMonth(time.Now(), month)
			f, err := fo.Filter()
			if err != nil {
				return err
			}
			lang, err := lo.Language("")
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), false, func(c *client.Client) error {
				cal := events.Calendar{Controller: c.Controller, Filter: f, Month: on, Lang: lang}
				return cal.Do(cmd.Context())
			})
		},
	}

	options.AddFilterArgs(cmd, fo)
	_ = cmd.Flags().MarkHidden("month")
	options.AddLanguageArg(cmd, lo)

	topLevel.AddCommand(cmd)
}

func runWithClient(cmd *cobra.Command, lenient bool, fn func(ctx context.Context, c *client.Client) error) error {
	cmd.SilenceUsage = true
	err := withClient(cmd.Context(), lenient, func(c *client.Client) error {
		return fn(cmd.Context(), c)
	})
	return oo.HandleError(err)
}
