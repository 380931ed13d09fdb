package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/timeutil"
)

// FilterOptions narrow an event listing the way the discovery bar does.
type FilterOptions struct {
	Query    string
	Month    string
	Category string
	City     string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Query, "query", "q", "",
		"Only events whose title or description contains this text.")
	cmd.Flags().StringVarP(&o.Month, "month", "m", "",
		"Only events in this month (1-12, march, mar).")
	cmd.Flags().StringVar(&o.Category, "category", "",
		"Only events of this category (id or English name).")
	cmd.Flags().StringVar(&o.City, "city", "",
		"Only events in this city (id or English name).")
}

// Filter validates the flags and builds the filter.
func (o *FilterOptions) Filter() (viewmodel.Filter, error) {
	month, err := timeutil.ParseMonth(o.Month)
	if err != nil {
		return viewmodel.Filter{}, err
	}
	f := viewmodel.Filter{Query: strings.TrimSpace(o.Query), Month: month}
	if o.Category != "" {
		if f.Category, err = CategoryID(o.Category); err != nil {
			return viewmodel.Filter{}, err
		}
	}
	if o.City != "" {
		if f.City, err = CityID(o.City); err != nil {
			return viewmodel.Filter{}, err
		}
	}
	return f, nil
}

// CityID resolves a city id or English name.
func CityID(s string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, c := range catalog.Cities() {
		if strings.ToLower(c.ID) == want || strings.ToLower(c.Name.Get(event.English)) == want {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown city %q (see `iqevents cities`)", s)
}

// CategoryID resolves a category id or English name.
func CategoryID(s string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, c := range catalog.Categories() {
		if strings.ToLower(c.ID) == want || strings.ToLower(c.Name.Get(event.English)) == want {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (see `iqevents categories`)", s)
}
