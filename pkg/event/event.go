// Package event holds the client-side domain model: events, reviews, users
// and the localized strings they carry.
package event

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidRating is returned when a review rating falls outside 1..5.
	ErrInvalidRating = errors.New("event: rating must be between 1 and 5")
	// ErrInvalidDraft is returned when an event draft is missing required fields.
	ErrInvalidDraft = errors.New("event: draft is incomplete")
)

const (
	// MinRating is the lowest accepted review rating.
	MinRating = 1
	// MaxRating is the highest accepted review rating.
	MaxRating = 5
)

// Coordinates is an optional map location.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c *Coordinates) String() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}

// ParseCoordinates reads "lat, lng". An empty string is no location.
func ParseCoordinates(s string) (*Coordinates, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("event: coordinates %q: want \"lat, lng\"", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, fmt.Errorf("event: latitude: %w", err)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return nil, fmt.Errorf("event: longitude: %w", err)
	}
	if la < -90 || la > 90 || ln < -180 || ln > 180 {
		return nil, fmt.Errorf("event: coordinates %q out of range", s)
	}
	return &Coordinates{Lat: la, Lng: ln}, nil
}

// Review is an immutable rating attached to an event.
type Review struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewDraft is the user supplied part of a review.
type ReviewDraft struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate checks the rating range.
func (d ReviewDraft) Validate() error {
	if d.Rating < MinRating || d.Rating > MaxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, d.Rating)
	}
	return nil
}

// Event is a single listing as the client sees it.
type Event struct {
	ID             string       `json:"id"`
	Title          Localized    `json:"title"`
	Description    Localized    `json:"description"`
	OrganizerID    string       `json:"organizerId"`
	OrganizerName  string       `json:"organizerName"`
	CategoryID     string       `json:"categoryId"`
	CityID         string       `json:"cityId"`
	Date           time.Time    `json:"date"`
	Venue          string       `json:"venue"`
	OrganizerPhone string       `json:"organizerPhone"`
	WhatsappNumber string       `json:"whatsappNumber"`
	ImageURL       string       `json:"imageUrl"`
	Reviews        []Review     `json:"reviews"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	TicketInfo     string       `json:"ticketInfo,omitempty"`
}

// Draft is the writable subset of an Event used for create and update.
type Draft struct {
	Title          Localized    `json:"title"`
	Description    Localized    `json:"description"`
	OrganizerName  string       `json:"organizerName"`
	CategoryID     string       `json:"categoryId"`
	CityID         string       `json:"cityId"`
	Date           time.Time    `json:"date"`
	Venue          string       `json:"venue"`
	OrganizerPhone string       `json:"organizerPhone"`
	WhatsappNumber string       `json:"whatsappNumber"`
	ImageURL       string       `json:"imageUrl"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	TicketInfo     string       `json:"ticketInfo,omitempty"`
}

// Validate reports the first missing required field.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title.Get(English)) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(d.CityID) == "" {
		missing = append(missing, "city")
	}
	if d.Date.IsZero() {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(d.Venue) == "" {
		missing = append(missing, "venue")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDraft, strings.Join(missing, ", "))
	}
	return nil
}

// Draft returns the writable projection of e.
func (e Event) Draft() Draft {
	return Draft{
		Title:          e.Title.Clone(),
		Description:    e.Description.Clone(),
		OrganizerName:  e.OrganizerName,
		CategoryID:     e.CategoryID,
		CityID:         e.CityID,
		Date:           e.Date,
		Venue:          e.Venue,
		OrganizerPhone: e.OrganizerPhone,
		WhatsappNumber: e.WhatsappNumber,
		ImageURL:       e.ImageURL,
		Coordinates:    cloneCoordinates(e.Coordinates),
		TicketInfo:     e.TicketInfo,
	}
}

// Clone returns a deep copy so callers can mutate it freely.
func (e Event) Clone() Event {
	out := e
	out.Title = e.Title.Clone()
	out.Description = e.Description.Clone()
	out.Coordinates = cloneCoordinates(e.Coordinates)
	if e.Reviews != nil {
		out.Reviews = append([]Review(nil), e.Reviews...)
	}
	return out
}

// WithReview returns a copy of e with r prepended to its reviews.
func (e Event) WithReview(r Review) Event {
	out := e.Clone()
	out.Reviews = append([]Review{r}, e.Reviews...)
	return out
}

// AverageRating returns the mean rating and the number of reviews.
func (e Event) AverageRating() (float64, int) {
	if len(e.Reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range e.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(e.Reviews)), len(e.Reviews)
}

// Upcoming reports whether the event falls on or after the start of now's day.
func (e Event) Upcoming(now time.Time) bool {
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return !e.Date.Before(startOfDay)
}

// SortReviews orders reviews newest first.
func SortReviews(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Timestamp.After(reviews[j].Timestamp)
	})
}

// CloneAll deep copies a list of events.
func CloneAll(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

// Index returns the position of the event with id, or -1.
func Index(events []Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneCoordinates(c *Coordinates) *Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
