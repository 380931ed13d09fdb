package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/commands/options"
	"tableflip.dev/iqevents/pkg/runner/ai"
	"tableflip.dev/iqevents/pkg/runner/client"
)

func addAI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "draft listings and plan trips with the AI assistant",
		Long: `Draft event listings and plan trips with the AI assistant. These commands
need API_KEY (or GEMINI_API_KEY) in the environment or ai.api_key in the
config file.`,
	}

	lo := &options.LanguageOptions{}
	suggest := &cobra.Command{
		Use:   "suggest <idea...>",
		Short: "draft a listing in English, Arabic and Kurdish from a short idea",
		Example: `
iqevents ai suggest an open air jazz night at the Erbil citadel
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := lo.Language("")
			if err != nil {
				return oo.HandleError(err)
			}
			return runWithClient(cmd, false, func(ctx context.Context, c *client.Client) error {
				s := ai.Suggest{Controller: c.Controller, Prompt: strings.Join(args, " "), Lang: lang, JSON: oo.JSON}
				return s.Do(ctx)
			})
		},
	}
	options.AddLanguageArg(suggest, lo)
	options.AddOutputArg(suggest, oo)

	ilo := &options.LanguageOptions{}
	itinerary := &cobra.Command{
		Use:   "itinerary <request...>",
		Short: "plan a day by day trip around upcoming events",
		Example: `
iqevents ai itinerary a music weekend in Kurdistan
iqevents ai itinerary --lang ar three days in Baghdad
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := ilo.Language("")
			if err != nil {
				return oo.HandleError(err)
			}
			return runWithClient(cmd, false, func(ctx context.Context, c *client.Client) error {
				i := ai.Itinerary{Controller: c.Controller, Prompt: strings.Join(args, " "), Lang: lang, JSON: oo.JSON}
				return i.Do(ctx)
			})
		},
	}
	options.AddLanguageArg(itinerary, ilo)
	options.AddOutputArg(itinerary, oo)

	cmd.AddCommand(suggest, itinerary)
	topLevel.AddCommand(cmd)
}
