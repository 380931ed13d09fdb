package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestComposeCentersForeground(t *testing.T) {
	bg := strings.Repeat(".", 10) + "\n" + strings.Repeat(".", 10) + "\n" + strings.Repeat(".", 10)
	got := Compose(bg, 10, 3, "ab", Centered(2, 1))
	lines := strings.Split(stripReset(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "....ab...." {
		t.Fatalf("unexpected middle line %q", lines[1])
	}
	if lines[0] != ".........." {
		t.Fatalf("background row changed: %q", lines[0])
	}
}

func TestComposeTopRight(t *testing.T) {
	bg := "0123456789\nabcdefghij"
	got := Compose(bg, 10, 2, "XY", TopRight(1, 0))
	lines := strings.Split(stripReset(got), "\n")
	if lines[0] != "0123456XY9" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != "abcdefghij" {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestComposeKeepsStyledSuffix(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("0123456789")
	got := Compose(styled, 10, 1, "X", Placement{MarginX: 2})
	plain := stripANSI(got)
	if plain != "01X3456789" {
		t.Fatalf("unexpected line %q", plain)
	}
}

func TestComposeEmptyForegroundPads(t *testing.T) {
	got := Compose("a", 3, 2, "", Placement{})
	if got != "a  \n   " {
		t.Fatalf("unexpected padding %q", got)
	}
}

func stripReset(s string) string {
	return strings.ReplaceAll(s, reset, "")
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
