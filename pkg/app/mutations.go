package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/toast"
	"tableflip.dev/iqevents/pkg/tui/events"
)

// SaveEvent creates the event when id is empty and updates it otherwise.
// The result is merged into the list only after the backend accepted it: a
// new event goes to the front, an updated one replaces the old entry in place
// and keeps its reviews.
func (c *Controller) SaveEvent(ctx context.Context, id string, draft event.Draft) (event.Event, error) {
	if err := c.RequireLogin("save event"); err != nil {
		return event.Event{}, err
	}
	if err := draft.Validate(); err != nil {
		return event.Event{}, err
	}

	if id == "" {
		created, err := c.gateway.CreateEvent(ctx, draft)
		if err != nil {
			log.Error().Err(err).Msg("failed to create event")
			c.toasts.Publish("Failed to save event. Please try again.", toast.Error)
			return event.Event{}, err
		}
		c.mu.Lock()
		c.evs = append([]event.Event{created.Clone()}, c.evs...)
		ref := events.RefOf(created, c.lang)
		c.mu.Unlock()
		c.toasts.Publish("Event created successfully!", toast.Success)
		c.emit(events.EventChangeMsg{Component: c.component, Action: events.ChangeCreate, Current: ref})
		return created, nil
	}

	updated, err := c.gateway.UpdateEvent(ctx, id, draft)
	if err != nil {
		log.Error().Err(err).Str("event_id", id).Msg("failed to update event")
		c.toasts.Publish("Failed to save event. Please try again.", toast.Error)
		return event.Event{}, err
	}
	c.mu.Lock()
	updated = c.replaceLocked(updated)
	ref := events.RefOf(updated, c.lang)
	c.mu.Unlock()
	c.toasts.Publish("Event updated successfully!", toast.Success)
	c.emit(events.EventChangeMsg{Component: c.component, Action: events.ChangeUpdate, Current: ref})
	return updated, nil
}

// replaceLocked swaps updated into both lists by id. The update response
// carries no reviews, so the ones already held are kept.
func (c *Controller) replaceLocked(updated event.Event) event.Event {
	if i := event.Index(c.evs, updated.ID); i >= 0 {
		if len(updated.Reviews) == 0 {
			updated.Reviews = append([]event.Review(nil), c.evs[i].Reviews...)
		}
		c.evs[i] = updated.Clone()
	}
	if i := event.Index(c.featured, updated.ID); i >= 0 {
		f := updated.Clone()
		if len(f.Reviews) == 0 {
			f.Reviews = append([]event.Review(nil), c.featured[i].Reviews...)
		}
		c.featured[i] = f
	}
	return updated
}

// AddReview validates and submits a review, then prepends it to the owning
// event wherever that event is held.
func (c *Controller) AddReview(ctx context.Context, eventID string, draft event.ReviewDraft) (event.Review, error) {
	if err := c.RequireLogin("review"); err != nil {
		return event.Review{}, err
	}
	if err := draft.Validate(); err != nil {
		return event.Review{}, err
	}

	review, err := c.gateway.AddReview(ctx, eventID, draft)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("failed to add review")
		c.toasts.Publish("Failed to submit review. Please try again.", toast.Error)
		return event.Review{}, err
	}

	c.mu.Lock()
	ref := events.EventRef{ID: eventID}
	if i := event.Index(c.evs, eventID); i >= 0 {
		c.evs[i] = c.evs[i].WithReview(review)
		ref = events.RefOf(c.evs[i], c.lang)
	}
	if i := event.Index(c.featured, eventID); i >= 0 {
		c.featured[i] = c.featured[i].WithReview(review)
	}
	c.mu.Unlock()

	c.toasts.Publish("Review submitted successfully!", toast.Success)
	c.emit(events.ReviewAddedMsg{Component: c.component, Event: ref, Review: review})
	return review, nil
}

// ViewProfile loads a public profile. A missing profile is found=false.
func (c *Controller) ViewProfile(ctx context.Context, userID string) (event.User, bool, error) {
	u, found, err := c.gateway.FetchUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to fetch user profile")
		c.toasts.Publish("Could not load user profile.", toast.Error)
		return event.User{}, false, err
	}
	return u, found, nil
}

// AIEnabled reports whether the assistant is configured.
func (c *Controller) AIEnabled() bool {
	return c.assistant != nil && c.assistant.Available()
}

func (c *Controller) requireAssistant() error {
	if !c.AIEnabled() {
		return assistant.ErrUnavailable
	}
	return nil
}

// SuggestEvent drafts an event listing from a rough idea. It needs a signed
// in user because the only use of a suggestion is creating an event.
func (c *Controller) SuggestEvent(ctx context.Context, prompt string) (assistant.Suggestion, error) {
	if err := c.RequireLogin("ai assistant"); err != nil {
		return assistant.Suggestion{}, err
	}
	if err := c.requireAssistant(); err != nil {
		return assistant.Suggestion{}, err
	}
	s, err := c.assistant.GenerateEventDetails(ctx, prompt, catalog.Cities(), catalog.Categories())
	if err != nil {
		return assistant.Suggestion{}, fmt.Errorf("suggest event: %w", err)
	}
	return s, nil
}

// PlanItinerary plans a trip around the events currently held, in the
// current language.
func (c *Controller) PlanItinerary(ctx context.Context, prompt string) (assistant.Itinerary, error) {
	c.mu.Lock()
	lang := c.lang
	c.mu.Unlock()
	return c.PlanItineraryIn(ctx, prompt, lang)
}

// PlanItineraryIn is PlanItinerary with the answer language chosen by the
// caller.
func (c *Controller) PlanItineraryIn(ctx context.Context, prompt string, lang event.Language) (assistant.Itinerary, error) {
	if err := c.requireAssistant(); err != nil {
		return assistant.Itinerary{}, err
	}
	c.mu.Lock()
	evs := event.CloneAll(c.evs)
	c.mu.Unlock()
	it, err := c.assistant.GenerateItinerary(ctx, prompt, evs, lang)
	if err != nil {
		return assistant.Itinerary{}, fmt.Errorf("plan itinerary: %w", err)
	}
	return it, nil
}

// ApplySuggestion folds an AI suggestion into a draft for the event form.
func ApplySuggestion(d event.Draft, s assistant.Suggestion) event.Draft {
	d.Title = s.Title.Clone()
	d.Description = s.Description.Clone()
	d.CategoryID = s.CategoryID
	d.CityID = s.CityID
	if url := s.ImageDataURL(); url != "" {
		d.ImageURL = url
	}
	return d
}
