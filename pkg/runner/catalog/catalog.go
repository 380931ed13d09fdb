// Package catalog prints the fixed city and category lists.
package catalog

import (
	"context"
	"io"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/printers"
)

// Cities prints every selectable city.
type Cities struct {
	JSON bool
	Out  io.Writer
}

func (c *Cities) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{Out: c.Out}
	if c.JSON {
		return pp.JSON(catalog.Cities())
	}
	pp.NewLine()
	pp.Cities(catalog.Cities())
	return nil
}

// Categories prints every selectable category.
type Categories struct {
	JSON bool
	Out  io.Writer
}

func (c *Categories) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{Out: c.Out}
	if c.JSON {
		return pp.JSON(catalog.SelectableCategories())
	}
	pp.NewLine()
	pp.Categories(catalog.SelectableCategories())
	return nil
}
