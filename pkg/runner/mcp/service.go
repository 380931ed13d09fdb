// Package mcp provides the Model Context Protocol server integration for iqevents.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/timeutil"
)

// Service answers MCP requests from a started controller.
type Service struct {
	Controller *app.Controller
	now        func() time.Time
}

// ErrEventNotFound is returned when the backend does not list an event.
var ErrEventNotFound = errors.New("event not found")

// SearchOptions captures the parameters of an event search.
type SearchOptions struct {
	Query    string
	Month    string
	Category string
	City     string
	Upcoming bool
	Limit    int
	Lang     event.Language
}

// EventDTO is a transport-friendly projection of an event in one language.
type EventDTO struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	CategoryID    string   `json:"categoryId"`
	Category      string   `json:"category"`
	CityID        string   `json:"cityId"`
	City          string   `json:"city"`
	Venue         string   `json:"venue"`
	DateISO       string   `json:"date"`
	DateUnix      int64    `json:"dateUnix"`
	Upcoming      bool     `json:"upcoming"`
	OrganizerID   string   `json:"organizerId"`
	OrganizerName string   `json:"organizerName"`
	Phone         string   `json:"phone,omitempty"`
	Whatsapp      string   `json:"whatsapp,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	TicketInfo    string   `json:"ticketInfo,omitempty"`
	Latitude      *float64 `json:"lat,omitempty"`
	Longitude     *float64 `json:"lng,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	Featured      bool     `json:"featured"`
}

// EventDetailDTO adds the reviews to an EventDTO.
type EventDetailDTO struct {
	EventDTO
	Reviews []ReviewDTO `json:"reviews"`
}

// ReviewDTO is a transport-friendly projection of a review.
type ReviewDTO struct {
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
	DateISO string `json:"date"`
}

// NamedDTO is a city or category in one language plus its id.
type NamedDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// StepDTO is one itinerary step with the linked event resolved.
type StepDTO struct {
	Day         string `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	EventID     string `json:"eventId,omitempty"`
	EventTitle  string `json:"eventTitle,omitempty"`
}

// ItineraryDTO is a generated plan.
type ItineraryDTO struct {
	Title string    `json:"title"`
	Plan  []StepDTO `json:"plan"`
}

// NewService builds a service over ctrl.
func NewService(ctrl *app.Controller) *Service {
	return &Service{Controller: ctrl, now: time.Now}
}

func (s *Service) lang(l event.Language) event.Language {
	if l != "" {
		return l
	}
	return s.Controller.Snapshot().Language
}

// SearchEvents filters the held events the way the discovery bar does.
func (s *Service) SearchEvents(ctx context.Context, opts SearchOptions) ([]EventDTO, error) {
	if s.Controller == nil {
		return nil, errors.New("controller is not configured")
	}
	month, err := timeutil.ParseMonth(opts.Month)
	if err != nil {
		return nil, err
	}
	f := viewmodel.Filter{
		Query:    strings.TrimSpace(opts.Query),
		Month:    month,
		Category: strings.TrimSpace(opts.Category),
		City:     strings.TrimSpace(opts.City),
	}
	if f.Category != "" {
		if _, ok := catalog.CategoryByID(f.Category); !ok {
			return nil, fmt.Errorf("unknown category %q", f.Category)
		}
	}
	if f.City != "" {
		if _, ok := catalog.CityByID(f.City); !ok {
			return nil, fmt.Errorf("unknown city %q", f.City)
		}
	}

	snap := s.Controller.Snapshot()
	lang := s.lang(opts.Lang)
	now := s.now()
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	results := make([]EventDTO, 0, limit)
	for _, e := range viewmodel.Derive(snap.Events, f, lang) {
		if opts.Upcoming && !e.Upcoming(now) {
			continue
		}
		results = append(results, s.toDTO(e, lang, snap.Featured))
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Featured returns the featured events.
func (s *Service) Featured(ctx context.Context, lang event.Language) []EventDTO {
	snap := s.Controller.Snapshot()
	lang = s.lang(lang)
	out := make([]EventDTO, 0, len(snap.Featured))
	for _, e := range snap.Featured {
		out = append(out, s.toDTO(e, lang, snap.Featured))
	}
	return out
}

// EventByID returns one event with its reviews.
func (s *Service) EventByID(ctx context.Context, id string, lang event.Language) (EventDetailDTO, error) {
	e, ok := s.Controller.Event(strings.TrimSpace(id))
	if !ok {
		return EventDetailDTO{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	snap := s.Controller.Snapshot()
	lang = s.lang(lang)
	dto := EventDetailDTO{EventDTO: s.toDTO(e, lang, snap.Featured), Reviews: make([]ReviewDTO, 0, len(e.Reviews))}
	for _, r := range e.Reviews {
		dto.Reviews = append(dto.Reviews, ReviewDTO{
			Author:  r.User.Name,
			Rating:  r.Rating,
			Comment: r.Comment,
			DateISO: r.Timestamp.Format(time.RFC3339),
		})
	}
	return dto, nil
}

// Cities lists the selectable cities.
func (s *Service) Cities(lang event.Language) []NamedDTO {
	lang = s.lang(lang)
	cities := catalog.Cities()
	out := make([]NamedDTO, 0, len(cities))
	for _, c := range cities {
		out = append(out, NamedDTO{ID: c.ID, Name: c.Name.Get(lang)})
	}
	return out
}

// Categories lists the selectable categories.
func (s *Service) Categories(lang event.Language) []NamedDTO {
	lang = s.lang(lang)
	cats := catalog.SelectableCategories()
	out := make([]NamedDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, NamedDTO{ID: c.ID, Name: c.Name.Get(lang), Icon: c.Icon})
	}
	return out
}

// PlanItinerary asks the assistant for a trip plan around the held events.
func (s *Service) PlanItinerary(ctx context.Context, prompt string, lang event.Language) (ItineraryDTO, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ItineraryDTO{}, errors.New("prompt is required")
	}
	lang = s.lang(lang)
	it, err := s.Controller.PlanItineraryIn(ctx, prompt, lang)
	if err != nil {
		return ItineraryDTO{}, err
	}
	dto := ItineraryDTO{Title: it.Title.Get(lang), Plan: make([]StepDTO, 0, len(it.Plan))}
	for _, step := range it.Plan {
		sd := StepDTO{Day: step.Day, Title: step.Title, Description: step.Description, EventID: step.EventID}
		if e, ok := s.Controller.Event(step.EventID); ok && step.EventID != "" {
			sd.EventTitle = e.Title.Get(lang)
		}
		dto.Plan = append(dto.Plan, sd)
	}
	return dto, nil
}

func (s *Service) toDTO(e event.Event, lang event.Language, featured []event.Event) EventDTO {
	avg, n := e.AverageRating()
	dto := EventDTO{
		ID:            e.ID,
		Title:         e.Title.Get(lang),
		Description:   e.Description.Get(lang),
		CategoryID:    e.CategoryID,
		Category:      catalog.CategoryName(e.CategoryID, lang),
		CityID:        e.CityID,
		City:          catalog.CityName(e.CityID, lang),
		Venue:         e.Venue,
		DateISO:       e.Date.Format(time.RFC3339),
		DateUnix:      e.Date.Unix(),
		Upcoming:      e.Upcoming(s.now()),
		OrganizerID:   e.OrganizerID,
		OrganizerName: e.OrganizerName,
		Phone:         e.OrganizerPhone,
		Whatsapp:      e.WhatsappNumber,
		TicketInfo:    e.TicketInfo,
		Rating:        avg,
		ReviewCount:   n,
		Featured:      event.Index(featured, e.ID) >= 0,
	}
	// Generated covers are inline data URLs, too large to hand to a model.
	if strings.HasPrefix(e.ImageURL, "http") {
		dto.ImageURL = e.ImageURL
	}
	if e.Coordinates != nil {
		lat, lng := e.Coordinates.Lat, e.Coordinates.Lng
		dto.Latitude, dto.Longitude = &lat, &lng
	}
	return dto
}
