// Package assistant is the generative assistant gateway: it drafts event
// listings and plans itineraries through a hosted LLM and validates what
// comes back before the rest of the client sees it.
package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"

	placeholderKey     = "REPLACE_WITH_YOUR_GEMINI_API_KEY"
	descriptionPreview = 100
)

// Suggestion is a drafted event listing.
type Suggestion struct {
	Title       event.Localized `json:"title"`
	Description event.Localized `json:"description"`
	CategoryID  string          `json:"suggestedCategoryId"`
	CityID      string          `json:"suggestedCityId"`
	ImageBase64 string          `json:"generatedImageBase64"`
}

// ImageDataURL renders the generated image as a data URL usable as an image_url.
func (s Suggestion) ImageDataURL() string {
	if s.ImageBase64 == "" {
		return ""
	}
	return "data:image/png;base64," + s.ImageBase64
}

// Step is one entry of an itinerary. EventID is empty for general activities.
type Step struct {
	Day         string `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventID     string `json:"eventId,omitempty"`
}

// Itinerary is a generated trip plan.
type Itinerary struct {
	Title event.Localized `json:"itineraryTitle"`
	Plan  []Step          `json:"plan"`
}

// Config configures an Assistant built from settings.
type Config struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	Temperature float32
}

// Assistant talks to the model. The zero value, or one built without a key,
// reports ErrUnavailable from every operation.
type Assistant struct {
	model       Model
	textModel   string
	imageModel  string
	temperature float32
	now         func() time.Time
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithClock overrides the clock used to decide which events are upcoming.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// WithModels overrides the text and image model names.
func WithModels(text, image string) Option {
	return func(a *Assistant) {
		if text != "" {
			a.textModel = text
		}
		if image != "" {
			a.imageModel = image
		}
	}
}

// WithTemperature sets the sampling temperature for text generation.
func WithTemperature(t float32) Option {
	return func(a *Assistant) { a.temperature = t }
}

// New wraps model. A nil model yields an unavailable Assistant.
func New(model Model, opts ...Option) *Assistant {
	a := &Assistant{
		model:      model,
		textModel:  DefaultTextModel,
		imageModel: DefaultImageModel,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig connects to the Gemini API. A blank or placeholder key is not
// an error: the returned Assistant is simply unavailable.
func NewFromConfig(ctx context.Context, cfg Config) (*Assistant, error) {
	opts := []Option{WithModels(cfg.TextModel, cfg.ImageModel), WithTemperature(cfg.Temperature)}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" || key == placeholderKey {
		log.Warn().Msg("Gemini API key is not set, AI features are disabled")
		return New(nil, opts...), nil
	}
	model, err := NewGenAIModel(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("assistant: create client: %w", err)
	}
	return New(model, opts...), nil
}

// Available reports whether a model is configured.
func (a *Assistant) Available() bool {
	return a != nil && a.model != nil
}

type namedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type suggestionPayload struct {
	Title               event.Localized `json:"title"`
	Description         event.Localized `json:"description"`
	SuggestedCategoryID string          `json:"suggestedCategoryId"`
	SuggestedCityID     string          `json:"suggestedCityId"`
	ImagePrompt         string          `json:"imagePrompt"`
}

// GenerateEventDetails turns a rough idea into a trilingual listing with a
// generated cover image. The suggested city and category must come from the
// supplied lists.
func (a *Assistant) GenerateEventDetails(ctx context.Context, prompt string, cities []catalog.City, categories []catalog.Category) (Suggestion, error) {
	const op = "generateEventDetails"
	if !a.Available() {
		return Suggestion{}, ErrUnavailable
	}
	if strings.TrimSpace(prompt) == "" {
		return Suggestion{}, ErrEmptyPrompt
	}

	cityCtx := make([]namedRef, 0, len(cities))
	cityIDs := map[string]bool{}
	for _, c := range cities {
		cityCtx = append(cityCtx, namedRef{ID: c.ID, Name: c.Name.Get(event.English)})
		cityIDs[c.ID] = true
	}
	catCtx := make([]namedRef, 0, len(categories))
	catIDs := map[string]bool{}
	for _, c := range categories {
		if c.ID == catalog.AllCategoryID {
			continue
		}
		catCtx = append(catCtx, namedRef{ID: c.ID, Name: c.Label()})
		catIDs[c.ID] = true
	}
	cityJSON, _ := json.Marshal(cityCtx)
	catJSON, _ := json.Marshal(catCtx)

	system := fmt.Sprintf(`You are an expert event planner for Iraq and the Kurdistan Region. Your task is to take a user's rough idea and transform it into a structured event object.
- Generate a compelling, professional-sounding title and a detailed, engaging description.
- You MUST provide the title and description in three languages: English (en), Arabic (ar), and Kurdish (ku).
- Based on the user's prompt, select the most appropriate cityId and categoryId from the provided lists.
- Create a simple, descriptive prompt suitable for an AI image generator to create a cover photo for the event.
- Respond ONLY with a valid JSON object that adheres to the provided schema.

Available cities: %s
Available categories: %s`, cityJSON, catJSON)

	text, err := a.model.GenerateJSON(ctx, a.textModel, system, fmt.Sprintf("User's event idea: %q", prompt), suggestionSchema(), a.temperature)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("text generation failed")
		return Suggestion{}, &GenerationError{Op: op, Err: err}
	}

	var p suggestionPayload
	if err := decode(op, text, &p); err != nil {
		return Suggestion{}, err
	}
	if err := requireLocalized(op, "title", text, p.Title); err != nil {
		return Suggestion{}, err
	}
	if err := requireLocalized(op, "description", text, p.Description); err != nil {
		return Suggestion{}, err
	}
	if !catIDs[p.SuggestedCategoryID] {
		return Suggestion{}, &SchemaError{Op: op, Field: "suggestedCategoryId", Reason: fmt.Sprintf("unknown category %q", p.SuggestedCategoryID), Payload: text}
	}
	if !cityIDs[p.SuggestedCityID] {
		return Suggestion{}, &SchemaError{Op: op, Field: "suggestedCityId", Reason: fmt.Sprintf("unknown city %q", p.SuggestedCityID), Payload: text}
	}
	if strings.TrimSpace(p.ImagePrompt) == "" {
		return Suggestion{}, &SchemaError{Op: op, Field: "imagePrompt", Reason: "missing", Payload: text}
	}

	img, err := a.model.GenerateImage(ctx, a.imageModel, p.ImagePrompt)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("image generation failed")
		return Suggestion{}, &GenerationError{Op: op, Err: err}
	}
	if len(img) == 0 {
		return Suggestion{}, &GenerationError{Op: op, Err: fmt.Errorf("image generation failed")}
	}

	return Suggestion{
		Title:       p.Title,
		Description: p.Description,
		CategoryID:  p.SuggestedCategoryID,
		CityID:      p.SuggestedCityID,
		ImageBase64: base64.StdEncoding.EncodeToString(img),
	}, nil
}

type eventContext struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CityID      string `json:"cityId"`
	CategoryID  string `json:"categoryId"`
}

// Preview truncates s to n runes and appends an ellipsis.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

// GenerateItinerary plans a trip around the upcoming events. Steps that cite
// an event outside that list keep their text but lose the reference.
func (a *Assistant) GenerateItinerary(ctx context.Context, prompt string, events []event.Event, lang event.Language) (Itinerary, error) {
	const op = "generateItinerary"
	if !a.Available() {
		return Itinerary{}, ErrUnavailable
	}
	if strings.TrimSpace(prompt) == "" {
		return Itinerary{}, ErrEmptyPrompt
	}

	now := a.now()
	known := map[string]bool{}
	ctxEvents := make([]eventContext, 0, len(events))
	for _, e := range events {
		if !e.Upcoming(now) {
			continue
		}
		known[e.ID] = true
		ctxEvents = append(ctxEvents, eventContext{
			ID:          e.ID,
			Title:       e.Title.Get(lang),
			Description: Preview(e.Description.Get(lang), descriptionPreview),
			Date:        e.Date.Format(time.RFC3339),
			CityID:      e.CityID,
			CategoryID:  e.CategoryID,
		})
	}
	eventsJSON, _ := json.Marshal(ctxEvents)

	system := fmt.Sprintf(`You are a helpful and creative travel planner for Iraq. Your task is to generate a personalized itinerary based on the user's request and a provided list of upcoming events.
- Analyze the user's prompt to understand their interests, duration, location, and vibe (e.g., family-friendly, adventurous, relaxed).
- Create a logical and engaging plan. You can suggest general activities (like visiting a bazaar or a park) but you MUST incorporate at least one, and preferably more, events from the provided list if they are relevant.
- When you include an event from the list, you MUST include its 'eventId' in the corresponding plan item. For general activities without a matching event, omit the 'eventId'.
- Structure the output as a JSON object that strictly follows the provided schema.
- Provide the 'itineraryTitle' in English (en), Arabic (ar), and Kurdish (ku).
- The 'plan' items should be ordered chronologically.

Available Events: %s`, eventsJSON)

	text, err := a.model.GenerateJSON(ctx, a.textModel, system, fmt.Sprintf("User's itinerary request: %q", prompt), itinerarySchema(), a.temperature)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("itinerary generation failed")
		return Itinerary{}, &GenerationError{Op: op, Err: err}
	}

	var it Itinerary
	if err := decode(op, text, &it); err != nil {
		return Itinerary{}, err
	}
	if err := requireLocalized(op, "itineraryTitle", text, it.Title); err != nil {
		return Itinerary{}, err
	}
	if len(it.Plan) == 0 {
		return Itinerary{}, &SchemaError{Op: op, Field: "plan", Reason: "empty", Payload: text}
	}
	for i, step := range it.Plan {
		for field, v := range map[string]string{"day": step.Day, "title": step.Title, "description": step.Description} {
			if strings.TrimSpace(v) == "" {
				return Itinerary{}, &SchemaError{Op: op, Field: fmt.Sprintf("plan[%d].%s", i, field), Reason: "missing", Payload: text}
			}
		}
		if step.EventID != "" && !known[step.EventID] {
			log.Warn().Str("op", op).Str("event_id", step.EventID).Msg("dropping reference to unknown event")
			it.Plan[i].EventID = ""
		}
	}
	return it, nil
}

// decode parses the model JSON, tolerating a markdown code fence around it.
func decode(op, text string, v any) error {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &SchemaError{Op: op, Reason: "not valid JSON", Payload: text, Err: err}
	}
	return nil
}

func requireLocalized(op, field, payload string, l event.Localized) error {
	if missing := l.Missing(); len(missing) > 0 {
		langs := make([]string, len(missing))
		for i, m := range missing {
			langs[i] = string(m)
		}
		return &SchemaError{Op: op, Field: field, Reason: "missing languages " + strings.Join(langs, ", "), Payload: payload}
	}
	return nil
}
