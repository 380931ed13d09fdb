package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/backend/memory"
	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
)

type stubAssistant struct {
	itinerary assistant.Itinerary
}

func (s *stubAssistant) Available() bool { return true }

func (s *stubAssistant) GenerateEventDetails(ctx context.Context, prompt string, cities []catalog.City, categories []catalog.Category) (assistant.Suggestion, error) {
	return assistant.Suggestion{}, nil
}

func (s *stubAssistant) GenerateItinerary(ctx context.Context, prompt string, evs []event.Event, lang event.Language) (assistant.Itinerary, error) {
	return s.itinerary, nil
}

func newTestService(t *testing.T, opts ...app.Option) *Service {
	t.Helper()
	ctrl := app.New(memory.NewDemo(time.Now()), opts...)
	t.Cleanup(ctrl.Close)
	require.NoError(t, ctrl.Start(context.Background()))
	return NewService(ctrl)
}

func TestSearchEventsByQuery(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.SearchEvents(context.Background(), SearchOptions{Query: "citadel jazz"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "demo-1", got.ID)
	assert.Equal(t, "Erbil Citadel Jazz Night", got.Title)
	assert.Equal(t, "Erbil", got.City)
	assert.True(t, got.Upcoming)
	assert.Equal(t, 5.0, got.Rating)
	assert.Equal(t, 1, got.ReviewCount)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, 36.1912, *got.Latitude, 0.0001)
}

func TestSearchEventsUpcomingAndLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	all, err := svc.SearchEvents(ctx, SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].DateUnix, all[i].DateUnix)
	}

	upcoming, err := svc.SearchEvents(ctx, SearchOptions{Upcoming: true})
	require.NoError(t, err)
	assert.Len(t, upcoming, 4)
	for _, e := range upcoming {
		assert.NotEqual(t, "demo-5", e.ID)
	}

	limited, err := svc.SearchEvents(ctx, SearchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSearchEventsByCityAndCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	results, err := svc.SearchEvents(ctx, SearchOptions{City: "city-baghdad"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "demo-2", results[0].ID)

	results, err = svc.SearchEvents(ctx, SearchOptions{Category: "cat-1"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = svc.SearchEvents(ctx, SearchOptions{City: "city-atlantis"})
	assert.Error(t, err)
	_, err = svc.SearchEvents(ctx, SearchOptions{Month: "smarch"})
	assert.Error(t, err)
}

func TestEventByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	dto, err := svc.EventByID(ctx, "demo-1", event.English)
	require.NoError(t, err)
	assert.Equal(t, "Zagros Events", dto.OrganizerName)
	assert.Equal(t, "https://picsum.photos/seed/demo-1/800/600", dto.ImageURL)
	require.Len(t, dto.Reviews, 1)
	assert.Equal(t, 5, dto.Reviews[0].Rating)

	_, err = svc.EventByID(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCitiesAndCategoriesInArabic(t *testing.T) {
	svc := newTestService(t)

	cities := svc.Cities(event.Arabic)
	require.Len(t, cities, len(catalog.Cities()))
	for _, c := range cities {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Name)
	}

	cats := svc.Categories(event.English)
	assert.Len(t, cats, len(catalog.SelectableCategories()))
}

func TestPlanItinerary(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(t)
	_, err := svc.PlanItinerary(ctx, "a weekend in Erbil", "")
	assert.ErrorIs(t, err, assistant.ErrUnavailable)

	stub := &stubAssistant{itinerary: assistant.Itinerary{
		Title: event.Text("Erbil weekend"),
		Plan: []assistant.Step{
			{Day: "Day 1", Title: "Jazz", EventID: "demo-1"},
			{Day: "Day 2", Title: "Bazaar"},
		},
	}}
	svc = newTestService(t, app.WithAssistant(stub))

	_, err = svc.PlanItinerary(ctx, "   ", "")
	assert.Error(t, err)

	dto, err := svc.PlanItinerary(ctx, "a weekend in Erbil", event.English)
	require.NoError(t, err)
	assert.Equal(t, "Erbil weekend", dto.Title)
	require.Len(t, dto.Plan, 2)
	assert.Equal(t, "Erbil Citadel Jazz Night", dto.Plan[0].EventTitle)
	assert.Empty(t, dto.Plan[1].EventTitle)
}
