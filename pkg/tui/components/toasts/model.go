package toasts

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/iqevents/pkg/toast"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// ChangeMsg carries a new set of visible toasts into the program.
type ChangeMsg struct {
	Toasts []toast.Toast
}

func (m ChangeMsg) Describe() string {
	if len(m.Toasts) == 0 {
		return "none"
	}
	return strings.Join(messages(m.Toasts), " | ")
}

// WaitFor blocks on the queue's change channel and delivers the next change.
// It returns nil once the channel is closed.
func WaitFor(ch <-chan toast.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return ChangeMsg{Toasts: change.Toasts}
	}
}

// Model renders the toast stack, newest on top.
type Model struct {
	toasts []toast.Toast
	width  int
	height int
	styles theme.ToastTheme
}

var _ ui.Component = (*Model)(nil)

// New builds an empty stack.
func New(styles theme.ToastTheme) *Model {
	return &Model{styles: styles, width: 40}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if v, ok := msg.(ChangeMsg); ok {
		m.toasts = append(m.toasts[:0], v.Toasts...)
	}
	return m, nil
}

// SetSize sets the width of a single toast and the height of the stack.
func (m *Model) SetSize(width, height int) {
	m.width = max(12, width)
	m.height = height
}

// Len reports the number of visible toasts.
func (m *Model) Len() int { return len(m.toasts) }

// Newest returns the most recent toast.
func (m *Model) Newest() (toast.Toast, bool) {
	if len(m.toasts) == 0 {
		return toast.Toast{}, false
	}
	return m.toasts[len(m.toasts)-1], true
}

func (m *Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(m.toasts))
	for i := len(m.toasts) - 1; i >= 0; i-- {
		boxes = append(boxes, m.render(m.toasts[i]))
	}
	out := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	if m.height > 0 {
		lines := strings.Split(out, "\n")
		if len(lines) > m.height {
			out = strings.Join(lines[:m.height], "\n")
		}
	}
	return out
}

func (m *Model) render(t toast.Toast) string {
	style, icon := m.styles.Info, "i"
	switch t.Severity {
	case toast.Success:
		style, icon = m.styles.Success, "✓"
	case toast.Error:
		style, icon = m.styles.Error, "!"
	}
	inner := m.width - style.GetHorizontalFrameSize()
	body := wordwrap.String(icon+" "+t.Message, max(8, inner))
	return style.Width(m.width).Render(body)
}

func messages(ts []toast.Toast) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Message)
	}
	return out
}
