package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Placement controls overlay alignment and sizing.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// TopRight stacks an overlay in the upper right corner, as toasts are.
func TopRight(marginX, marginY int) Placement {
	return Placement{Horizontal: lipgloss.Right, Vertical: lipgloss.Top, MarginX: marginX, MarginY: marginY}
}

// Centered places an overlay of the given size in the middle.
func Centered(width, height int) Placement {
	return Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center, Width: width, Height: height}
}

// Compose overlays the foreground view atop the background while preserving
// background content, including its styling, outside the overlay bounds.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalizeBackground(background, width, height)
	if foreground == "" {
		return strings.Join(bgLines, "\n")
	}
	fgLines := strings.Split(foreground, "\n")

	overlayWidth := placement.Width
	if overlayWidth <= 0 {
		for _, line := range fgLines {
			if w := lipgloss.Width(line); w > overlayWidth {
				overlayWidth = w
			}
		}
	}
	if overlayWidth <= 0 {
		return strings.Join(bgLines, "\n")
	}
	overlayWidth = min(overlayWidth, width)

	overlayHeight := placement.Height
	if overlayHeight <= 0 {
		overlayHeight = len(fgLines)
	}
	overlayHeight = min(overlayHeight, height)

	offsetX, offsetY := Offsets(width, height, overlayWidth, overlayHeight, placement)

	for row := 0; row < overlayHeight; row++ {
		destY := offsetY + row
		if destY < 0 || destY >= len(bgLines) {
			continue
		}
		fgLine := ""
		if row < len(fgLines) {
			fgLine = fgLines[row]
		}
		base := bgLines[destY]
		bgLines[destY] = cutLeft(base, offsetX) + reset +
			padToWidth(fgLine, overlayWidth) + reset +
			skipLeft(base, offsetX+overlayWidth)
	}
	return strings.Join(bgLines, "\n")
}

const reset = "\x1b[0m"

// Offsets resolves where an overlay of the given size lands.
func Offsets(width, height, overlayWidth, overlayHeight int, placement Placement) (int, int) {
	h := placement.Horizontal
	v := placement.Vertical

	offsetX := placement.MarginX
	switch h {
	case lipgloss.Right:
		offsetX = width - overlayWidth - placement.MarginX
	case lipgloss.Center:
		offsetX = (width - overlayWidth) / 2
	}
	offsetX = clamp(offsetX, 0, width-overlayWidth)

	offsetY := placement.MarginY
	switch v {
	case lipgloss.Bottom:
		offsetY = height - overlayHeight - placement.MarginY
	case lipgloss.Center:
		offsetY = (height - overlayHeight) / 2
	}
	offsetY = clamp(offsetY, 0, height-overlayHeight)
	return offsetX, offsetY
}

func normalizeBackground(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padToWidth(lines[i], width)
	}
	return lines
}

func padToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.PrintableRuneWidth(s)
	if w > width {
		return truncate.String(s, uint(width))
	}
	return s + strings.Repeat(" ", width-w)
}

// cutLeft keeps the first n printable cells of s.
func cutLeft(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return truncate.String(s, uint(n))
}

// skipLeft drops the first n printable cells of s, keeping the escape
// sequences seen on the way so the remainder keeps its styling.
func skipLeft(s string, n int) string {
	var (
		out     strings.Builder
		escapes strings.Builder
		inEsc   bool
		seen    int
	)
	for _, r := range s {
		if r == ansi.Marker {
			inEsc = true
		}
		if inEsc {
			if seen < n {
				escapes.WriteRune(r)
			} else {
				out.WriteRune(r)
			}
			if ansi.IsTerminator(r) {
				inEsc = false
			}
			continue
		}
		if seen >= n {
			out.WriteRune(r)
			continue
		}
		seen += ansi.PrintableRuneWidth(string(r))
	}
	return escapes.String() + out.String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
