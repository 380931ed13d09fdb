package event

import (
	"errors"
	"testing"
	"time"
)

func TestLocalizedFallsBackToEnglish(t *testing.T) {
	l := Localized{English: "Concert", Arabic: "حفلة"}
	if got := l.Get(Arabic); got != "حفلة" {
		t.Fatalf("Get(ar) = %q", got)
	}
	if got := l.Get(Kurdish); got != "Concert" {
		t.Fatalf("Get(ku) = %q, want english fallback", got)
	}
	if l.Complete() {
		t.Fatalf("expected incomplete localized value")
	}
	if missing := l.Missing(); len(missing) != 1 || missing[0] != Kurdish {
		t.Fatalf("Missing() = %v", missing)
	}
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{"": English, "EN": English, "ar": Arabic, " ku ": Kurdish}
	for in, want := range cases {
		got, err := ParseLanguage(in)
		if err != nil {
			t.Fatalf("ParseLanguage(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLanguage(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseLanguage("fr"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
	if !Arabic.RTL() || !Kurdish.RTL() || English.RTL() {
		t.Fatalf("unexpected RTL flags")
	}
}

func TestReviewDraftValidate(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		err := ReviewDraft{Rating: rating}.Validate()
		if !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
	if err := (ReviewDraft{Rating: 5, Comment: "great"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDraftValidate(t *testing.T) {
	err := Draft{}.Validate()
	if !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}
	d := Draft{
		Title:      Text("Jazz Night"),
		CategoryID: "cat-1",
		CityID:     "city-erbil",
		Date:       time.Date(2026, 11, 1, 20, 0, 0, 0, time.UTC),
		Venue:      "Citadel",
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithReviewPrependsWithoutMutatingOriginal(t *testing.T) {
	e := Event{ID: "e1", Reviews: []Review{{ID: "r1", Rating: 3}}}
	next := e.WithReview(Review{ID: "r2", Rating: 5})

	if len(e.Reviews) != 1 {
		t.Fatalf("original mutated: %d reviews", len(e.Reviews))
	}
	if len(next.Reviews) != 2 || next.Reviews[0].ID != "r2" {
		t.Fatalf("expected r2 at head, got %+v", next.Reviews)
	}
	avg, n := next.AverageRating()
	if n != 2 || avg != 4 {
		t.Fatalf("AverageRating() = %v, %d", avg, n)
	}
}

func TestUpcomingUsesStartOfDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	earlierToday := Event{Date: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	yesterday := Event{Date: time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)}
	if !earlierToday.Upcoming(now) {
		t.Fatalf("event earlier today should count as upcoming")
	}
	if yesterday.Upcoming(now) {
		t.Fatalf("event yesterday should not be upcoming")
	}
}

func TestNewUserFallbacks(t *testing.T) {
	u := NewUser("u1", []string{"", "  "}, nil)
	if u.Name != UnnamedUser {
		t.Fatalf("Name = %q", u.Name)
	}
	if u.AvatarURL != "https://picsum.photos/seed/u1/100" {
		t.Fatalf("AvatarURL = %q", u.AvatarURL)
	}
	u = NewUser("u2", []string{"", "Layla"}, []string{"https://a/b.png"})
	if u.Name != "Layla" || u.AvatarURL != "https://a/b.png" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestParseCoordinates(t *testing.T) {
	c, err := ParseCoordinates(" 36.1901, 44.0091 ")
	if err != nil {
		t.Fatalf("ParseCoordinates: %v", err)
	}
	if c.Lat != 36.1901 || c.Lng != 44.0091 || c.String() != "36.1901, 44.0091" {
		t.Fatalf("unexpected coordinates %+v", c)
	}
	if c, err := ParseCoordinates(""); err != nil || c != nil {
		t.Fatalf("empty input should be no location, got %v %v", c, err)
	}
	for _, bad := range []string{"36.19", "north, 44", "95, 44"} {
		if _, err := ParseCoordinates(bad); err == nil {
			t.Fatalf("expected an error for %q", bad)
		}
	}
}
