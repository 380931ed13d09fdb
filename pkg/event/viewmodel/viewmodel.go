// Package viewmodel derives the lists the UI renders from the authoritative
// event list, the active filter and the display language. Everything here is
// a pure function of its inputs.
package viewmodel

import (
	"sort"
	"strings"
	"time"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
)

// Filter narrows the visible event list. The zero Filter matches everything.
type Filter struct {
	Query    string     `json:"query,omitempty"`
	Month    time.Month `json:"month,omitempty"` // 0 means any month
	Category string     `json:"category,omitempty"`
	City     string     `json:"city,omitempty"`
}

// IsZero reports whether f matches every event.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Month == 0 && f.Category == "" && f.City == ""
}

// Matches reports whether e passes every predicate of f. Text is compared in
// lang with the English fallback.
func (f Filter) Matches(e event.Event, lang event.Language) bool {
	if q := strings.ToLower(f.Query); q != "" {
		title := strings.ToLower(e.Title.Get(lang))
		desc := strings.ToLower(e.Description.Get(lang))
		if !strings.Contains(title, q) && !strings.Contains(desc, q) {
			return false
		}
	}
	if f.Month != 0 && e.Date.Month() != f.Month {
		return false
	}
	if f.Category != "" && e.CategoryID != f.Category {
		return false
	}
	if f.City != "" && e.CityID != f.City {
		return false
	}
	return true
}

// Derive returns the events matching f sorted by date ascending. Ties keep
// their input order. The input slice is never modified.
func Derive(events []event.Event, f Filter, lang event.Language) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e, lang) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Bookmarked keeps the derived events whose id is in the bookmark set.
func Bookmarked(derived []event.Event, bookmarks map[string]struct{}) []event.Event {
	out := make([]event.Event, 0)
	for _, e := range derived {
		if _, ok := bookmarks[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// OrganizedBy keeps the derived events organized by userID. An empty userID
// yields an empty list.
func OrganizedBy(derived []event.Event, userID string) []event.Event {
	out := make([]event.Event, 0)
	if userID == "" {
		return out
	}
	for _, e := range derived {
		if e.OrganizerID == userID {
			out = append(out, e)
		}
	}
	return out
}

// Top returns at most n leading events.
func Top(events []event.Event, n int) []event.Event {
	if n < 0 {
		n = 0
	}
	if len(events) < n {
		n = len(events)
	}
	return append([]event.Event(nil), events[:n]...)
}

// Located keeps events that carry coordinates, for the map view.
func Located(derived []event.Event) []event.Event {
	out := make([]event.Event, 0)
	for _, e := range derived {
		if e.Coordinates != nil {
			out = append(out, e)
		}
	}
	return out
}

// ToggleCategory applies a discovery bar selection: choosing the active
// category or the "all" pseudo category clears it.
func (f Filter) ToggleCategory(id string) Filter {
	if id == catalog.AllCategoryID || f.Category == id {
		f.Category = ""
		return f
	}
	f.Category = id
	return f
}

// ToggleCity applies a discovery bar selection: choosing the active city clears it.
func (f Filter) ToggleCity(id string) Filter {
	if f.City == id {
		f.City = ""
		return f
	}
	f.City = id
	return f
}
