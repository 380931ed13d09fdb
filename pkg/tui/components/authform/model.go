// Package authform is the login, sign up and password reset overlay.
package authform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignUp
	ModeReset
)

func (m Mode) String() string {
	switch m {
	case ModeSignUp:
		return "Sign Up"
	case ModeReset:
		return "Reset Password"
	}
	return "Log In"
}

// SubmitMsg carries the filled form. Password and Name are empty when the
// mode does not use them.
type SubmitMsg struct {
	Component events.ComponentID
	Mode      Mode
	Email     string
	Password  string
	Name      string
}

func (m SubmitMsg) Describe() string {
	return fmt.Sprintf(`mode:%q email:%q`, m.Mode, m.Email)
}

// OAuthMsg asks for the provider's sign-in URL.
type OAuthMsg struct {
	Component events.ComponentID
	Provider  string
}

func (m OAuthMsg) Describe() string { return fmt.Sprintf(`provider:%q`, m.Provider) }

// DefaultProvider is offered by ctrl+o.
const DefaultProvider = "google"

const (
	inName = iota
	inEmail
	inPassword
	inCount
)

type Model struct {
	id     events.ComponentID
	mode   Mode
	reason string

	inputs [inCount]textinput.Model
	focus  int

	busy     bool
	errorMsg string
	notice   string

	width  int
	styles theme.FormTheme
	frame  theme.ModalTheme
}

var _ ui.Overlay = (*Model)(nil)

// New opens the form in mode. reason, when set, explains why login was asked for.
func New(id events.ComponentID, mode Mode, reason string, t theme.Theme) *Model {
	m := &Model{id: id, mode: mode, reason: reason, styles: t.Form, frame: t.Modal}
	placeholders := [inCount]string{"Display name", "you@example.com", "Password"}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 254
		m.inputs[i] = in
	}
	m.inputs[inPassword].EchoMode = textinput.EchoPassword
	m.inputs[inPassword].EchoCharacter = '•'
	m.focus = m.fields()[0]
	m.SetSize(60, 20)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(events.FocusCmd(m.id), m.updateInputFocus())
}

func (m *Model) Mode() Mode { return m.mode }

// SetMode switches form; shared fields keep their values.
func (m *Model) SetMode(mode Mode) tea.Cmd {
	m.mode = mode
	m.errorMsg = ""
	m.notice = ""
	m.focus = m.fields()[0]
	return m.updateInputFocus()
}

func (m *Model) SetBusy(busy bool) { m.busy = busy }

// SetError shows a failure and re-enables the form.
func (m *Model) SetError(err error) {
	m.busy = false
	if err != nil {
		m.errorMsg = err.Error()
	}
}

// SetNotice shows an informational line, such as an OAuth URL to open.
func (m *Model) SetNotice(s string) {
	m.busy = false
	m.notice = s
}

func (m *Model) fields() []int {
	switch m.mode {
	case ModeSignUp:
		return []int{inName, inEmail, inPassword}
	case ModeReset:
		return []int{inEmail}
	}
	return []int{inEmail, inPassword}
}

func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "esc" {
		return nil, events.BlurCmd(m.id)
	}
	if m.busy {
		return m, nil
	}
	switch key.String() {
	case "tab", "down":
		m.advance(1)
		return m, m.updateInputFocus()
	case "shift+tab", "up":
		m.advance(-1)
		return m, m.updateInputFocus()
	case "ctrl+t":
		return m, m.SetMode((m.mode + 1) % 3)
	case "ctrl+o":
		m.busy = true
		id := m.id
		return m, func() tea.Msg { return OAuthMsg{Component: id, Provider: DefaultProvider} }
	case "enter":
		seq := m.fields()
		if m.focus != seq[len(seq)-1] {
			m.advance(1)
			return m, m.updateInputFocus()
		}
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	msg := SubmitMsg{Component: m.id, Mode: m.mode, Email: strings.TrimSpace(m.inputs[inEmail].Value())}
	if !strings.Contains(msg.Email, "@") {
		m.errorMsg = "enter a valid email address"
		return nil
	}
	if m.mode != ModeReset {
		msg.Password = m.inputs[inPassword].Value()
		if msg.Password == "" {
			m.errorMsg = "password is required"
			return nil
		}
	}
	if m.mode == ModeSignUp {
		msg.Name = strings.TrimSpace(m.inputs[inName].Value())
		if msg.Name == "" {
			m.errorMsg = "display name is required"
			return nil
		}
	}
	m.errorMsg = ""
	m.notice = ""
	m.busy = true
	return func() tea.Msg { return msg }
}

func (m *Model) advance(delta int) {
	seq := m.fields()
	current := 0
	for i, f := range seq {
		if f == m.focus {
			current = i
		}
	}
	m.focus = seq[(current+len(seq)+delta)%len(seq)]
}

func (m *Model) updateInputFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) SetSize(width, _ int) {
	m.width = max(36, min(width-4, 64))
	for i := range m.inputs {
		m.inputs[i].SetWidth(m.width - 22)
	}
}

var labels = [inCount]string{"Name:", "Email:", "Password:"}

const labelWidth = 10

func (m *Model) View() (string, *tea.Cursor) {
	lines := []string{m.frame.Title.Render(m.mode.String())}
	if m.reason != "" && m.mode == ModeLogin {
		lines = append(lines, m.styles.Hint.Render("Log in to "+m.reason+"."))
	}
	lines = append(lines, "")

	cursorRow := -1
	for _, f := range m.fields() {
		indicator := "  "
		label := m.styles.Label
		if f == m.focus {
			indicator = m.styles.Focused.Render("➤ ")
			label = m.styles.Focused
			cursorRow = len(lines)
		}
		lines = append(lines, indicator+label.Render(fmt.Sprintf("%-*s", labelWidth, labels[f]))+" "+m.inputs[f].View())
	}
	lines = append(lines, "")
	switch {
	case m.busy:
		lines = append(lines, m.styles.Hint.Render("Working…"))
	case m.errorMsg != "":
		lines = append(lines, m.styles.Error.Render(m.errorMsg))
	case m.notice != "":
		lines = append(lines, m.styles.Hint.Render(m.notice))
	}
	lines = append(lines, m.styles.Hint.Render("Enter submit • Ctrl+T switch form • Ctrl+O Google • Esc close"))

	body := lipgloss.NewStyle().Width(m.width - 6).Render(strings.Join(lines, "\n"))
	box := m.frame.Frame.Render(body)

	var cursor *tea.Cursor
	if cursorRow >= 0 && !m.busy {
		if c := m.inputs[m.focus].Cursor(); c != nil {
			clone := *c
			clone.Position.X += 2 + labelWidth + 1 + 3
			clone.Position.Y += cursorRow + 2
			cursor = &clone
		}
	}
	return box, cursor
}
