package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/event"
)

// LanguageOptions selects the language text is printed in.
type LanguageOptions struct {
	Lang string
}

func AddLanguageArg(cmd *cobra.Command, o *LanguageOptions) {
	cmd.Flags().StringVarP(&o.Lang, "lang", "l", "",
		"Language to print in: en, ar or ku. Defaults to the saved preference.")
}

// Language returns the chosen language, or fallback when none was given.
func (o *LanguageOptions) Language(fallback event.Language) (event.Language, error) {
	if o.Lang == "" {
		return fallback, nil
	}
	return event.ParseLanguage(o.Lang)
}
