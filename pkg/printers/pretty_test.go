package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/event"
)

func init() {
	color.NoColor = true
}

func sample() event.Event {
	return event.Event{
		ID:            "e1",
		Title:         event.Localized{event.English: "Jazz Night", event.Arabic: "ليلة الجاز"},
		Description:   event.Text("Music under the citadel walls."),
		OrganizerName: "Zagros Events",
		CategoryID:    "cat-1",
		CityID:        "city-erbil",
		Date:          time.Date(2026, time.March, 14, 20, 0, 0, 0, time.Local),
		Venue:         "Citadel",
		Reviews: []event.Review{
			{ID: "r1", User: event.User{Name: "Ana"}, Rating: 4, Comment: "Great", Timestamp: time.Date(2026, time.March, 15, 9, 0, 0, 0, time.Local)},
		},
	}
}

func TestEventsTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, ShowID: true}
	pp.Events([]event.Event{sample()}, map[string]struct{}{"e1": {}})

	out := buf.String()
	assert.Contains(t, out, "e1")
	assert.Contains(t, out, "Jazz Night")
	assert.Contains(t, out, "Erbil")
	assert.Contains(t, out, "4.0 (1)")
	assert.Contains(t, out, "★")
}

func TestEventsEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Events(nil, nil)
	assert.Contains(t, buf.String(), "none")
}

func TestEventDetailInArabic(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Lang: event.Arabic}
	pp.Event(sample(), false)

	out := buf.String()
	assert.Contains(t, out, "ليلة الجاز")
	assert.Contains(t, out, "Citadel")
	// English fallback for the untranslated description.
	assert.Contains(t, out, "Music under the citadel walls.")
	assert.Contains(t, out, "★★★★☆ Ana")
}

func TestItineraryLinksKnownEvents(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Itinerary(assistant.Itinerary{
		Title: event.Text("A weekend in Erbil"),
		Plan: []assistant.Step{
			{Day: "Day 1", Title: "Old town walk", Description: "Start at the bazaar."},
			{Day: "Day 1", Title: "Concert", EventID: "e1"},
			{Day: "Day 2", Title: "Missing", EventID: "nope"},
		},
	}, []event.Event{sample()})

	out := buf.String()
	assert.Contains(t, out, "A weekend in Erbil")
	assert.Equal(t, 1, strings.Count(out, "Day 1"))
	assert.Contains(t, out, "→ Jazz Night (e1)")
	assert.NotContains(t, out, "(nope)")
}

func TestAgenda(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	since := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	pp.Agenda(app.AgendaResult{
		Since: since,
		Until: since.Add(7 * 24 * time.Hour),
		Total: 1,
		Sections: []app.AgendaSection{{
			CityID: "city-erbil",
			City:   "Erbil",
			Items:  []app.AgendaItem{{Event: sample(), Rating: 4, Reviews: 1}},
		}},
	}, "1w")

	out := buf.String()
	assert.Contains(t, out, "Agenda · next 1w")
	assert.Contains(t, out, "Erbil")
	assert.Contains(t, out, "Jazz Night")
	assert.Contains(t, out, "★ 4.0 (1)")

	buf.Reset()
	pp.Agenda(app.AgendaResult{Since: since, Until: since}, "1d")
	assert.Contains(t, buf.String(), "No events in this window.")
}

func TestCalendarMarksEventDays(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Calendar(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local), []event.Event{sample()})

	out := buf.String()
	assert.Contains(t, out, "March 2026")
	assert.Contains(t, out, "14 Sat")
	assert.Contains(t, out, "20:00 Jazz Night")
}

func TestMonthHelpers(t *testing.T) {
	feb := time.Date(2028, time.February, 10, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 29, DaysIn(feb))
	assert.Equal(t, time.Tuesday, StartDay(feb))
	assert.Equal(t, time.March, NextMonth(feb).Month())
	assert.Equal(t, 1, NextMonth(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.Local)).Day())
}
