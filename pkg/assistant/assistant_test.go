package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
)

type fakeModel struct {
	text     string
	textErr  error
	image    []byte
	imageErr error

	system     string
	prompt     string
	textCalls  int
	imageCalls int
}

func (f *fakeModel) GenerateJSON(_ context.Context, _, system, prompt string, _ *genai.Schema, _ float32) (string, error) {
	f.textCalls++
	f.system = system
	f.prompt = prompt
	return f.text, f.textErr
}

func (f *fakeModel) GenerateImage(context.Context, string, string) ([]byte, error) {
	f.imageCalls++
	return f.image, f.imageErr
}

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

const goodSuggestion = `{
  "title": {"en": "Jazz Night", "ar": "ليلة الجاز", "ku": "شەوی جاز"},
  "description": {"en": "Live jazz", "ar": "جاز حي", "ku": "جازی زیندوو"},
  "suggestedCategoryId": "cat-1",
  "suggestedCityId": "city-erbil",
  "imagePrompt": "saxophone on a stage"
}`

func TestUnavailableMakesNoCalls(t *testing.T) {
	a := New(nil)
	assert.False(t, a.Available())

	_, err := a.GenerateEventDetails(context.Background(), "jazz", catalog.Cities(), catalog.Categories())
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = a.GenerateItinerary(context.Background(), "weekend", nil, event.English)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewFromConfigPlaceholderKey(t *testing.T) {
	a, err := NewFromConfig(context.Background(), Config{APIKey: "REPLACE_WITH_YOUR_GEMINI_API_KEY"})
	require.NoError(t, err)
	assert.False(t, a.Available())
}

func TestEmptyPrompt(t *testing.T) {
	m := &fakeModel{}
	a := New(m)
	_, err := a.GenerateEventDetails(context.Background(), "   ", catalog.Cities(), catalog.Categories())
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, m.textCalls)
}

func TestGenerateEventDetails(t *testing.T) {
	m := &fakeModel{text: "```json\n" + goodSuggestion + "\n```", image: []byte("png-bytes")}
	a := New(m)

	s, err := a.GenerateEventDetails(context.Background(), "jazz evening in erbil", catalog.Cities(), catalog.Categories())
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", s.Title.Get(event.English))
	assert.Equal(t, "cat-1", s.CategoryID)
	assert.Equal(t, "city-erbil", s.CityID)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), s.ImageBase64)
	assert.True(t, strings.HasPrefix(s.ImageDataURL(), "data:image/png;base64,"))

	assert.Contains(t, m.prompt, `"jazz evening in erbil"`)
	assert.Contains(t, m.system, "city-erbil")
	assert.NotContains(t, m.system, `"id":"all"`)
	assert.Equal(t, 1, m.imageCalls)
}

func TestGenerateEventDetailsUnknownCity(t *testing.T) {
	m := &fakeModel{text: strings.Replace(goodSuggestion, "city-erbil", "city-atlantis", 1)}
	_, err := New(m).GenerateEventDetails(context.Background(), "jazz", catalog.Cities(), catalog.Categories())

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "suggestedCityId", se.Field)
	assert.Zero(t, m.imageCalls)
}

func TestGenerateEventDetailsMissingLanguage(t *testing.T) {
	m := &fakeModel{text: strings.Replace(goodSuggestion, `"ku": "شەوی جاز"`, `"ku": ""`, 1)}
	_, err := New(m).GenerateEventDetails(context.Background(), "jazz", catalog.Cities(), catalog.Categories())

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "title", se.Field)
}

func TestGenerateEventDetailsErrorsAreDistinct(t *testing.T) {
	boom := errors.New("quota")

	_, err := New(&fakeModel{textErr: boom}).GenerateEventDetails(context.Background(), "jazz", catalog.Cities(), catalog.Categories())
	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.ErrorIs(t, err, boom)

	_, err = New(&fakeModel{text: "not json"}).GenerateEventDetails(context.Background(), "jazz", catalog.Cities(), catalog.Categories())
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.False(t, errors.As(err, &ge))

	_, err = New(&fakeModel{text: goodSuggestion, imageErr: boom}).GenerateEventDetails(context.Background(), "jazz", catalog.Cities(), catalog.Categories())
	require.True(t, errors.As(err, &ge))
}

func itineraryEvents() []event.Event {
	return []event.Event{
		{ID: "past", Title: event.Text("Old Fair"), Description: event.Text("gone"), Date: testNow.AddDate(0, 0, -3)},
		{ID: "next", Title: event.Text("Food Fest"), Description: event.Text(strings.Repeat("x", 150)), Date: testNow.AddDate(0, 0, 2), CityID: "city-erbil"},
	}
}

func TestGenerateItinerary(t *testing.T) {
	m := &fakeModel{text: `{
	  "itineraryTitle": {"en": "Weekend", "ar": "عطلة", "ku": "هەفتە"},
	  "plan": [
	    {"day": "Day 1", "title": "Bazaar", "description": "Walk the citadel bazaar"},
	    {"day": "Day 1", "title": "Food Fest", "description": "Eat", "eventId": "next"},
	    {"day": "Day 2", "title": "Old Fair", "description": "Visit", "eventId": "past"}
	  ]
	}`}
	a := New(m, WithClock(func() time.Time { return testNow }))

	it, err := a.GenerateItinerary(context.Background(), "a weekend in erbil", itineraryEvents(), event.English)
	require.NoError(t, err)
	assert.Equal(t, "Weekend", it.Title.Get(event.English))
	require.Len(t, it.Plan, 3)
	assert.Empty(t, it.Plan[0].EventID)
	assert.Equal(t, "next", it.Plan[1].EventID)
	assert.Empty(t, it.Plan[2].EventID, "past events are not offered so their ids are dropped")

	assert.NotContains(t, m.system, "Old Fair")
	assert.Contains(t, m.system, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, m.system, strings.Repeat("x", 101))
}

func TestGenerateItineraryEmptyPlan(t *testing.T) {
	m := &fakeModel{text: `{"itineraryTitle": {"en": "a", "ar": "b", "ku": "c"}, "plan": []}`}
	_, err := New(m).GenerateItinerary(context.Background(), "trip", nil, event.English)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "plan", se.Field)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short...", Preview("short", 100))
	assert.Equal(t, "ابت...", Preview("ابتث", 3))
}
