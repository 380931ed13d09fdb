package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO          = "2006-1-2"
	layoutISOTime      = "2006-1-2 15:04"
	layoutISOShort     = "1/2"
	layoutISOShortTime = "1/2 15:04"

	defaultHour = 19
)

// OnOptions is the date and time of an event.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date and time, example: --on="2026-3-14 20:00" or --on="3/14". Without a time the event starts at 19:00.`)
}

// GetOn parses the date in local time. It returns nil when the flag is unset.
func (o *OnOptions) GetOn(now time.Time) (*time.Time, error) {
	s := strings.Join(strings.Fields(o.OnString), " ")
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{layoutISOTime, layoutISO} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			t = withDefaultHour(t, layout == layoutISO)
			return &t, nil
		}
	}
	for _, layout := range []string{layoutISOShortTime, layoutISOShort} {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		// Let the year be the same.
		t = t.AddDate(now.Year(), 0, 0)
		t = withDefaultHour(t, layout == layoutISOShort)
		// Assume a date already past this year means next year.
		if t.Before(now) {
			t = t.AddDate(1, 0, 0)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date %q, expected 2026-3-14 20:00 or 3/14", o.OnString)
}

func withDefaultHour(t time.Time, dateOnly bool) time.Time {
	if !dateOnly {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), defaultHour, 0, 0, 0, t.Location())
}
