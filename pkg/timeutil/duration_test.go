package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	dur, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != week {
		t.Fatalf("expected %v, got %v", week, dur)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	dur, label, err := ParseWindow("1w2d6h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (7*24 + 2*24 + 6) * time.Hour
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1w2d6h" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3y", "0d"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseMonth(t *testing.T) {
	cases := map[string]time.Month{
		"":       0,
		"any":    0,
		"6":      time.June,
		"Sep":    time.September,
		"august": time.August,
	}
	for in, want := range cases {
		got, err := ParseMonth(in)
		if err != nil {
			t.Fatalf("ParseMonth(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMonth(%q) = %v, want %v", in, got, want)
		}
	}
	for _, in := range []string{"13", "smarch"} {
		if _, err := ParseMonth(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 5, 4, 17, 30, 0, 0, time.UTC)
	if got := StartOfDay(in); !got.Equal(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start of day %v", got)
	}
}

func TestUpcomingMonth(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	cases := map[time.Month]time.Time{
		0:             time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.June:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.December: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		time.March:    time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for m, want := range cases {
		if got := UpcomingMonth(now, m); !got.Equal(want) {
			t.Fatalf("UpcomingMonth(%v) = %v, want %v", m, got, want)
		}
	}
}
