// Package timeutil parses the human friendly time inputs the CLI and the
// filter bar accept.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is the agenda window used when none is provided.
	DefaultWindow = "1w"

	day  = 24 * time.Hour
	week = 7 * day
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]time.Duration{
		"h":     time.Hour,
		"hr":    time.Hour,
		"hrs":   time.Hour,
		"hour":  time.Hour,
		"hours": time.Hour,
		"d":     day,
		"day":   day,
		"days":  day,
		"w":     week,
		"wk":    week,
		"wks":   week,
		"week":  week,
		"weeks": week,
	}
)

// ParseWindow parses a window such as "1w", "3d" or "1w2d6h" and returns the
// duration with its canonical spelling. Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = remaining[len(matches[0]):]
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders a duration using week, day and hour tokens.
func FormatWindow(d time.Duration) string {
	if d < time.Hour {
		return "0h"
	}
	var parts []string
	remaining := d
	for _, u := range []struct {
		label string
		value time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}} {
		if remaining < u.value {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		parts = append(parts, fmt.Sprintf("%d%s", count, u.label))
	}
	return strings.Join(parts, "")
}

// ParseMonth accepts a month number (1-12), an English month name or its
// three letter abbreviation. Empty input and "any" mean no month (0).
func ParseMonth(input string) (time.Month, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" || s == "any" || s == "all" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d out of range 1-12", n)
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", input)
}

// UpcomingMonth returns the first day of the next occurrence of m: this
// year's when m is now's month or later, next year's otherwise. Zero means
// now's month.
func UpcomingMonth(now time.Time, m time.Month) time.Time {
	if m == 0 {
		m = now.Month()
	}
	first := time.Date(now.Year(), m, 1, 0, 0, 0, 0, now.Location())
	if m < now.Month() {
		first = first.AddDate(1, 0, 0)
	}
	return first
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
