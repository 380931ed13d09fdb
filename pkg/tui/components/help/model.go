// Package help is the key reference overlay.
package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

//go:embed help.txt
var helpText string

// Model shows help.txt in a scrolling frame. Section headings are the
// unindented upper case lines; [ and ] jump between them.
type Model struct {
	vp       viewport.Model
	styles   theme.ModalTheme
	width    int
	height   int
	inner    int
	sections []int
	section  int
}

var _ ui.Overlay = (*Model)(nil)

func New(width, height int, styles theme.ModalTheme) *Model {
	vp := viewport.New(viewport.WithWidth(1), viewport.WithHeight(1))
	vp.MouseWheelEnabled = true
	m := &Model{vp: vp, styles: styles}
	m.SetSize(width, height)
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

// Update closes on esc, q or ? and scrolls otherwise.
func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc", "q", "?":
			return nil, nil
		case "]":
			m.jump(1)
			return m, nil
		case "[":
			m.jump(-1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// jump moves to the next or previous section heading.
func (m *Model) jump(dir int) {
	if len(m.sections) == 0 {
		return
	}
	m.section = min(max(m.section+dir, 0), len(m.sections)-1)
	m.vp.SetYOffset(m.sections[m.section])
}

// Section is the heading [ and ] last jumped to.
func (m *Model) Section() string {
	if len(m.sections) == 0 {
		return ""
	}
	lines := strings.Split(m.content(), "\n")
	return strings.TrimSpace(lines[m.sections[m.section]])
}

func (m *Model) View() (string, *tea.Cursor) {
	return m.styles.Frame.Width(m.width).Height(m.height).Render(m.vp.View()), nil
}

func (m *Model) SetSize(width, height int) {
	width, height = max(32, width), max(8, height)
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height
	m.inner = max(1, width-m.styles.Frame.GetHorizontalFrameSize())
	m.vp.SetWidth(m.inner)
	m.vp.SetHeight(max(1, height-m.styles.Frame.GetVerticalFrameSize()))

	raw := strings.Split(m.content(), "\n")
	m.sections = m.sections[:0]
	styled := make([]string, len(raw))
	for i, line := range raw {
		styled[i] = line
		if isHeading(line) {
			m.sections = append(m.sections, i)
			styled[i] = m.styles.Title.Render(line)
		}
	}
	m.vp.SetContent(strings.Join(styled, "\n"))
	m.vp.SetYOffset(0)
	m.section = 0
}

func (m *Model) content() string {
	return wordwrap.String(strings.TrimSpace(helpText), max(10, m.inner))
}

func isHeading(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" && t == line && t == strings.ToUpper(t) && strings.ContainsAny(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}
