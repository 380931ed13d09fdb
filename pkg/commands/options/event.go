package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/event"
)

// EventOptions are the writable fields of an event listing.
type EventOptions struct {
	Title         string
	TitleAR       string
	TitleKU       string
	Description   string
	DescriptionAR string
	DescriptionKU string
	Category      string
	City          string
	Venue         string
	Organizer     string
	Phone         string
	Whatsapp      string
	Image         string
	Coordinates   string
	Tickets       string
	On            OnOptions
}

func AddEventArgs(cmd *cobra.Command, o *EventOptions) {
	f := cmd.Flags()
	f.StringVar(&o.Title, "title", "", "Title in English.")
	f.StringVar(&o.TitleAR, "title-ar", "", "Title in Arabic.")
	f.StringVar(&o.TitleKU, "title-ku", "", "Title in Kurdish.")
	f.StringVar(&o.Description, "description", "", "Description in English.")
	f.StringVar(&o.DescriptionAR, "description-ar", "", "Description in Arabic.")
	f.StringVar(&o.DescriptionKU, "description-ku", "", "Description in Kurdish.")
	f.StringVar(&o.Category, "category", "", "Category id or English name.")
	f.StringVar(&o.City, "city", "", "City id or English name.")
	f.StringVar(&o.Venue, "venue", "", "Where the event takes place.")
	f.StringVar(&o.Organizer, "organizer", "", "Organizer name shown on the listing.")
	f.StringVar(&o.Phone, "phone", "", "Organizer phone number.")
	f.StringVar(&o.Whatsapp, "whatsapp", "", "WhatsApp number.")
	f.StringVar(&o.Image, "image", "", "Cover image URL.")
	f.StringVar(&o.Coordinates, "coords", "", `Location as "lat,lng".`)
	f.StringVar(&o.Tickets, "tickets", "", "Ticket information.")
	AddOnArgs(cmd, &o.On)
}

// Apply copies every flag the user set onto d. Unset flags leave d alone,
// so the same options serve create and update.
func (o *EventOptions) Apply(cmd *cobra.Command, d event.Draft, now time.Time) (event.Draft, error) {
	changed := cmd.Flags().Changed
	setText := func(l *event.Localized, lang event.Language, flag, v string) {
		if !changed(flag) {
			return
		}
		if *l == nil {
			*l = event.Localized{}
		}
		(*l)[lang] = v
	}
	setText(&d.Title, event.English, "title", o.Title)
	setText(&d.Title, event.Arabic, "title-ar", o.TitleAR)
	setText(&d.Title, event.Kurdish, "title-ku", o.TitleKU)
	setText(&d.Description, event.English, "description", o.Description)
	setText(&d.Description, event.Arabic, "description-ar", o.DescriptionAR)
	setText(&d.Description, event.Kurdish, "description-ku", o.DescriptionKU)

	var err error
	if changed("category") {
		if d.CategoryID, err = CategoryID(o.Category); err != nil {
			return d, err
		}
	}
	if changed("city") {
		if d.CityID, err = CityID(o.City); err != nil {
			return d, err
		}
	}
	set := func(dst *string, flag, v string) {
		if changed(flag) {
			*dst = v
		}
	}
	set(&d.Venue, "venue", o.Venue)
	set(&d.OrganizerName, "organizer", o.Organizer)
	set(&d.OrganizerPhone, "phone", o.Phone)
	set(&d.WhatsappNumber, "whatsapp", o.Whatsapp)
	set(&d.ImageURL, "image", o.Image)
	set(&d.TicketInfo, "tickets", o.Tickets)

	if changed("coords") {
		d.Coordinates = nil
		if o.Coordinates != "" {
			if d.Coordinates, err = event.ParseCoordinates(o.Coordinates); err != nil {
				return d, err
			}
		}
	}
	on, err := o.On.GetOn(now)
	if err != nil {
		return d, err
	}
	if on != nil {
		d.Date = *on
	}
	return d, nil
}
