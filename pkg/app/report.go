package app

import (
	"sort"
	"time"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
)

// AgendaItem is one event in an agenda with its rating summary.
type AgendaItem struct {
	Event   event.Event
	Rating  float64
	Reviews int
}

// AgendaSection groups agenda items by city.
type AgendaSection struct {
	CityID string
	City   string
	Items  []AgendaItem
}

// AgendaResult is the set of events starting within a time window.
type AgendaResult struct {
	Since    time.Time
	Until    time.Time
	Sections []AgendaSection
	Total    int
}

// Agenda returns the events matching the active filter that start between
// since and until, grouped by city and ordered by date within each city.
func (c *Controller) Agenda(since, until time.Time) AgendaResult {
	if since.After(until) {
		since, until = until, since
	}
	snap := c.Snapshot()
	derived := viewmodel.Derive(snap.Events, snap.Filter, snap.Language)

	grouped := map[string][]AgendaItem{}
	total := 0
	for _, e := range derived {
		if e.Date.Before(since) || e.Date.After(until) {
			continue
		}
		avg, n := e.AverageRating()
		grouped[e.CityID] = append(grouped[e.CityID], AgendaItem{Event: e, Rating: avg, Reviews: n})
		total++
	}

	result := AgendaResult{Since: since, Until: until, Total: total}
	for cityID, items := range grouped {
		result.Sections = append(result.Sections, AgendaSection{
			CityID: cityID,
			City:   catalog.CityName(cityID, snap.Language),
			Items:  items,
		})
	}
	sort.Slice(result.Sections, func(i, j int) bool {
		return result.Sections[i].City < result.Sections[j].City
	})
	return result
}
