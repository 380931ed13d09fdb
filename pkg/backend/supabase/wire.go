package supabase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/iqevents/pkg/event"
)

// wireTime accepts the timestamp shapes PostgREST emits for date and
// timestamptz columns.
type wireTime struct {
	time.Time
}

var wireLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range wireLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("supabase: unrecognized timestamp %q", s)
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

type profileRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type authUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

type reviewRow struct {
	ID        string      `json:"id,omitempty"`
	EventID   string      `json:"event_id"`
	UserID    string      `json:"user_id"`
	Rating    int         `json:"rating"`
	Comment   string      `json:"comment"`
	CreatedAt *wireTime   `json:"created_at,omitempty"`
	Profiles  *profileRow `json:"profiles,omitempty"`
}

type eventRow struct {
	ID             string             `json:"id,omitempty"`
	Title          event.Localized    `json:"title"`
	Description    event.Localized    `json:"description"`
	OrganizerID    string             `json:"organizer_id"`
	OrganizerName  string             `json:"organizer_name"`
	CategoryID     string             `json:"category_id"`
	CityID         string             `json:"city_id"`
	Date           wireTime           `json:"date"`
	Venue          string             `json:"venue"`
	OrganizerPhone string             `json:"organizer_phone"`
	WhatsappNumber string             `json:"whatsapp_number"`
	ImageURL       string             `json:"image_url"`
	TicketInfo     string             `json:"ticket_info"`
	Coordinates    *event.Coordinates `json:"coordinates"`
	Reviews        []reviewRow        `json:"reviews,omitempty"`
}

type bookmarkRow struct {
	UserID  string `json:"user_id,omitempty"`
	EventID string `json:"event_id"`
}

func userFromProfile(p profileRow) event.User {
	return event.NewUser(p.ID, []string{p.Name}, []string{p.AvatarURL})
}

func userFromAuth(u authUser) event.User {
	return event.NewUser(u.ID, []string{u.UserMetadata.Name}, []string{u.UserMetadata.AvatarURL})
}

func reviewFromRow(r reviewRow) event.Review {
	rv := event.Review{
		ID:      r.ID,
		Rating:  r.Rating,
		Comment: r.Comment,
	}
	if r.CreatedAt != nil {
		rv.Timestamp = r.CreatedAt.Time
	}
	if r.Profiles != nil {
		rv.User = userFromProfile(*r.Profiles)
	} else {
		rv.User = event.NewUser(r.UserID, nil, nil)
	}
	return rv
}

func eventFromRow(r eventRow) event.Event {
	e := event.Event{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		OrganizerID:    r.OrganizerID,
		OrganizerName:  r.OrganizerName,
		CategoryID:     r.CategoryID,
		CityID:         r.CityID,
		Date:           r.Date.Time,
		Venue:          r.Venue,
		OrganizerPhone: r.OrganizerPhone,
		WhatsappNumber: r.WhatsappNumber,
		ImageURL:       r.ImageURL,
		TicketInfo:     r.TicketInfo,
		Coordinates:    r.Coordinates,
		Reviews:        make([]event.Review, 0, len(r.Reviews)),
	}
	if e.Title == nil {
		e.Title = event.Localized{}
	}
	if e.Description == nil {
		e.Description = event.Localized{}
	}
	for _, rv := range r.Reviews {
		e.Reviews = append(e.Reviews, reviewFromRow(rv))
	}
	event.SortReviews(e.Reviews)
	return e
}

func rowFromDraft(d event.Draft, organizerID string) eventRow {
	return eventRow{
		Title:          d.Title,
		Description:    d.Description,
		OrganizerID:    organizerID,
		OrganizerName:  d.OrganizerName,
		CategoryID:     d.CategoryID,
		CityID:         d.CityID,
		Date:           wireTime{Time: d.Date},
		Venue:          d.Venue,
		OrganizerPhone: d.OrganizerPhone,
		WhatsappNumber: d.WhatsappNumber,
		ImageURL:       d.ImageURL,
		TicketInfo:     d.TicketInfo,
		Coordinates:    d.Coordinates,
	}
}

// featuredImage swaps the card sized placeholder for the banner size.
func featuredImage(url string) string {
	return strings.Replace(url, "/800/600", "/1200/800", 1)
}
