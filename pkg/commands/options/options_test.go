package options

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/runner/events"
)

var now = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func TestGetOn(t *testing.T) {
	tests := map[string]struct {
		in   string
		want time.Time
	}{
		"full": {
			in:   "2026-7-4 21:30",
			want: time.Date(2026, time.July, 4, 21, 30, 0, 0, time.UTC),
		},
		"date only starts in the evening": {
			in:   "2026-7-4",
			want: time.Date(2026, time.July, 4, 19, 0, 0, 0, time.UTC),
		},
		"short date this year": {
			in:   "8/1 10:00",
			want: time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC),
		},
		"short date already past rolls over": {
			in:   "3/14",
			want: time.Date(2027, time.March, 14, 19, 0, 0, 0, time.UTC),
		},
		"extra spaces": {
			in:   "  2026-7-4   21:30 ",
			want: time.Date(2026, time.July, 4, 21, 30, 0, 0, time.UTC),
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o := OnOptions{OnString: tc.in}
			got, err := o.GetOn(now)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tc.want.Equal(*got), "got %s want %s", got, tc.want)
		})
	}

	o := OnOptions{}
	got, err := o.GetOn(now)
	assert.NoError(t, err)
	assert.Nil(t, got)

	o.OnString = "next tuesday"
	_, err = o.GetOn(now)
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	o := FilterOptions{Query: "  jazz ", Month: "mar", Category: "Music", City: "erbil"}
	f, err := o.Filter()
	require.NoError(t, err)
	assert.Equal(t, "jazz", f.Query)
	assert.Equal(t, time.March, f.Month)
	assert.Equal(t, "cat-1", f.Category)
	assert.Equal(t, "city-erbil", f.City)

	_, err = (&FilterOptions{City: "Atlantis"}).Filter()
	assert.Error(t, err)
	_, err = (&FilterOptions{Month: "13"}).Filter()
	assert.Error(t, err)
}

func TestLanguage(t *testing.T) {
	o := LanguageOptions{}
	lang, err := o.Language(event.Kurdish)
	require.NoError(t, err)
	assert.Equal(t, event.Kurdish, lang)

	o.Lang = "AR"
	lang, err = o.Language(event.English)
	require.NoError(t, err)
	assert.Equal(t, event.Arabic, lang)

	o.Lang = "fr"
	_, err = o.Language(event.English)
	assert.Error(t, err)
}

func eventCommand(t *testing.T, args ...string) (*cobra.Command, *EventOptions) {
	t.Helper()
	o := &EventOptions{}
	cmd := &cobra.Command{Use: "test"}
	AddEventArgs(cmd, o)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, o
}

func TestEventApplyOnlyChangesGivenFlags(t *testing.T) {
	existing := event.Draft{
		Title:         event.Localized{event.English: "Jazz Night", event.Arabic: "ليلة الجاز"},
		Description:   event.Text("Music."),
		OrganizerName: "Zagros Events",
		CategoryID:    "cat-1",
		CityID:        "city-erbil",
		Date:          time.Date(2026, time.July, 4, 20, 0, 0, 0, time.UTC),
		Venue:         "Citadel",
		Coordinates:   &event.Coordinates{Lat: 36.19, Lng: 44.01},
	}

	cmd, o := eventCommand(t, "--title-ku", "شەوی جاز", "--venue", "Park", "--city", "Duhok")
	got, err := o.Apply(cmd, existing, now)
	require.NoError(t, err)

	assert.Equal(t, "Jazz Night", got.Title.Get(event.English))
	assert.Equal(t, "ليلة الجاز", got.Title.Get(event.Arabic))
	assert.Equal(t, "شەوی جاز", got.Title.Get(event.Kurdish))
	assert.Equal(t, "Park", got.Venue)
	assert.Equal(t, "city-duhok", got.CityID)
	assert.Equal(t, "cat-1", got.CategoryID)
	assert.Equal(t, existing.Date, got.Date)
	assert.NotNil(t, got.Coordinates)
}

func TestEventApplyNewDraft(t *testing.T) {
	cmd, o := eventCommand(t,
		"--title", "Kite Day",
		"--description", "Kites over the citadel.",
		"--category", "cat-2",
		"--city", "city-kirkuk",
		"--on", "2026-7-1 10:00",
		"--venue", "Kirkuk Citadel",
		"--coords", "35.47, 44.39",
	)
	got, err := o.Apply(cmd, event.Draft{}, now)
	require.NoError(t, err)
	assert.NoError(t, got.Validate())
	assert.Equal(t, time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC), got.Date)
	require.NotNil(t, got.Coordinates)
	assert.InDelta(t, 35.47, got.Coordinates.Lat, 0.0001)
}

func TestEventApplyClearsCoordinates(t *testing.T) {
	cmd, o := eventCommand(t, "--coords", "")
	got, err := o.Apply(cmd, event.Draft{Coordinates: &event.Coordinates{Lat: 1, Lng: 2}}, now)
	require.NoError(t, err)
	assert.Nil(t, got.Coordinates)
}

func TestEventApplyRejectsBadInput(t *testing.T) {
	cmd, o := eventCommand(t, "--category", "Opera")
	_, err := o.Apply(cmd, event.Draft{}, now)
	assert.Error(t, err)

	cmd, o = eventCommand(t, "--coords", "north")
	_, err = o.Apply(cmd, event.Draft{}, now)
	assert.Error(t, err)
}

func TestErrorCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"auth":       {err: fmt.Errorf("toggle bookmark: %w", backend.ErrAuthRequired), want: "auth_required"},
		"missing":    {err: fmt.Errorf("%w: demo-9", events.ErrNotFound), want: "not_found"},
		"no ai":      {err: assistant.ErrUnavailable, want: "ai_unavailable"},
		"bad rating": {err: event.ErrInvalidRating, want: "invalid"},
		"bad answer": {err: &assistant.SchemaError{Field: "title"}, want: "ai_failed"},
		"http":       {err: &backend.Error{Op: "fetch events", Status: 503}, want: "backend"},
		"unexpected": {err: errors.New("boom"), want: "error"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorCode(tc.err))
		})
	}

	o := &OutputOptions{}
	err := errors.New("boom")
	assert.Equal(t, err, o.HandleError(err))
}
