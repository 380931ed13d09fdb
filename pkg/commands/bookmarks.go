package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/commands/options"
	"tableflip.dev/iqevents/pkg/runner/bookmarks"
	"tableflip.dev/iqevents/pkg/runner/client"
	"tableflip.dev/iqevents/pkg/runner/review"
)

func addBookmarks(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bookmark", "b"},
		Short:   "list and toggle bookmarked events",
	}

	lo := &options.LanguageOptions{}
	io := &options.IDOptions{}
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list your bookmarked events",
		Example: `
iqevents bookmarks list
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := lo.Language("")
			if err != nil {
				return oo.HandleError(err)
			}
			return runWithClient(cmd, false, func(ctx context.Context, c *client.Client) error {
				l := bookmarks.List{Controller: c.Controller, Lang: lang, ShowID: io.ShowID, JSON: oo.JSON}
				return l.Do(ctx)
			})
		},
	}
	options.AddLanguageArg(list, lo)
	options.AddShowIDArgs(list, io)
	options.AddOutputArg(list, oo)

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "bookmark an event, or remove the bookmark",
		Example: `
iqevents bookmarks toggle 3f1c
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, false, func(ctx context.Context, c *client.Client) error {
				t := bookmarks.Toggle{Controller: c.Controller, ID: args[0]}
				return t.Do(ctx)
			})
		},
	}

	cmd.AddCommand(list, toggle)
	topLevel.AddCommand(cmd)
}

func addReview(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "review events",
	}

	rating := 0
	comment := ""
	add := &cobra.Command{
		Use:   "add <event-id>",
		Short: "rate an event from 1 to 5 stars",
		Example: `
iqevents review add 3f1c --rating 5 --comment "Magical setting."
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, false, func(ctx context.Context, c *client.Client) error {
				a := review.Add{
					Controller: c.Controller,
					EventID:    args[0],
					Rating:     rating,
					Comment:    comment,
					JSON:       oo.JSON,
				}
				return a.Do(ctx)
			})
		},
	}
	add.Flags().IntVarP(&rating, "rating", "r", 0, "Stars from 1 to 5.")
	add.Flags().StringVarP(&comment, "comment", "c", "", "Optional comment.")
	_ = add.MarkFlagRequired("rating")
	options.AddOutputArg(add, oo)

	cmd.AddCommand(add)
	topLevel.AddCommand(cmd)
}
