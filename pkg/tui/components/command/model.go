// Package command is the ":" prompt at the bottom of the screen. While idle
// it shows key hints and the last status; while typing it offers the known
// commands, then the arguments of the command being typed.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	overlaymgr "tableflip.dev/iqevents/pkg/tui/ui/overlay"
)

const maxSuggestions = 8

// Options configures the command bar.
type Options struct {
	ID           events.ComponentID
	PromptPrefix string
	Placeholder  string
	StatusText   string
	HintText     string
	Styles       theme.FooterTheme
}

// SuggestionOption is a command the prompt can complete. Args, when set, are
// offered once the command name and a space have been typed.
type SuggestionOption struct {
	Name        string
	Description string
	Args        []string
}

// Model is the status line and command prompt. Content set with SetContent
// is drawn above it, clipped to keep the bar on the last row.
type Model struct {
	id     events.ComponentID
	input  bool
	width  int
	height int

	content       string
	contentCursor *tea.Cursor

	status string
	hint   string
	prefix string
	styles theme.FooterTheme
	prompt textinput.Model

	commands []SuggestionOption
	matches  []string
	descs    []string
	pick     int // -1 while the typed text is shown
	typed    string
	top      int
	last     string
}

// NewModel constructs a command bar with the provided options.
func NewModel(opts Options) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""

	id := opts.ID
	if id == "" {
		id = events.ComponentID("command")
	}
	return &Model{
		id:     id,
		status: opts.StatusText,
		hint:   opts.HintText,
		prefix: opts.PromptPrefix,
		styles: opts.Styles,
		prompt: prompt,
		pick:   -1,
	}
}

func (m *Model) ID() events.ComponentID { return m.id }

func (m *Model) Init() tea.Cmd { return nil }

// SetSize sets the full area, bar included.
func (m *Model) SetSize(width, height int) {
	m.width = max(1, width)
	m.height = max(2, height)
	w := m.width - len(m.prefix)
	if w < 5 {
		w = max(1, m.width-1)
	}
	m.prompt.SetWidth(w)
	m.top = 0
}

// SetContent stores the view drawn above the bar.
func (m *Model) SetContent(view string, cursor *tea.Cursor) {
	m.content = view
	m.contentCursor = nil
	if cursor != nil {
		c := *cursor
		m.contentCursor = &c
	}
}

func (m *Model) SetStatus(text string) { m.status = text }

func (m *Model) SetHint(text string) { m.hint = text }

func (m *Model) Status() string { return m.status }

// SetSuggestions replaces the known commands.
func (m *Model) SetSuggestions(opts []SuggestionOption) {
	m.commands = append([]SuggestionOption(nil), opts...)
	m.refilter()
}

func (m *Model) InInputMode() bool { return m.input }

func (m *Model) Value() string { return m.prompt.Value() }

// BeginInput opens the prompt holding initial.
func (m *Model) BeginInput(initial string) tea.Cmd {
	m.input = true
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	m.last = initial
	m.refilter()
	return tea.Batch(m.prompt.Focus(), events.CommandChangeCmd(m.id, initial, events.CommandModeInput))
}

// ExitInput closes the prompt without submitting.
func (m *Model) ExitInput() tea.Cmd {
	m.input = false
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.last = ""
	m.refilter()
	return events.CommandChangeCmd(m.id, "", events.CommandModePassive)
}

// refilter rebuilds the suggestion list for the typed text. Prefix matches
// come before substring matches.
func (m *Model) refilter() {
	m.matches, m.descs = nil, nil
	m.pick, m.top = -1, 0
	m.typed = m.prompt.Value()
	if !m.input {
		return
	}

	value := strings.ToLower(strings.TrimLeft(m.typed, " "))
	if name, arg, ok := strings.Cut(value, " "); ok {
		for _, c := range m.commands {
			if strings.EqualFold(c.Name, name) {
				m.add(c.Args, strings.TrimSpace(arg), func(a string) (string, string) { return c.Name + " " + a, "" })
				return
			}
		}
		return
	}
	names := make([]string, len(m.commands))
	for i, c := range m.commands {
		names[i] = c.Name
	}
	m.add(names, value, func(n string) (string, string) {
		for _, c := range m.commands {
			if c.Name == n {
				return n, c.Description
			}
		}
		return n, ""
	})
}

func (m *Model) add(candidates []string, typed string, expand func(string) (string, string)) {
	var rest []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		switch {
		case strings.HasPrefix(lc, typed):
			full, desc := expand(c)
			m.matches = append(m.matches, full)
			m.descs = append(m.descs, desc)
		case strings.Contains(lc, typed):
			rest = append(rest, c)
		}
	}
	for _, c := range rest {
		full, desc := expand(c)
		m.matches = append(m.matches, full)
		m.descs = append(m.descs, desc)
	}
}

func (m *Model) rows() int {
	return min(len(m.matches), maxSuggestions, m.height-1)
}

// cycle moves the highlighted suggestion and puts it in the prompt.
func (m *Model) cycle(delta int) bool {
	n := len(m.matches)
	if n == 0 || m.rows() <= 0 {
		return false
	}
	switch {
	case m.pick == -1 && delta > 0:
		m.pick = 0
	case m.pick == -1:
		m.pick = n - 1
	default:
		m.pick = ((m.pick+delta)%n + n) % n
	}
	if m.pick < m.top {
		m.top = m.pick
	}
	if rows := m.rows(); m.pick >= m.top+rows {
		m.top = m.pick - rows + 1
	}
	m.prompt.SetValue(m.matches[m.pick])
	m.prompt.CursorEnd()
	return true
}

// unpick restores the text typed before cycling started.
func (m *Model) unpick() bool {
	if m.pick == -1 {
		return false
	}
	m.prompt.SetValue(m.typed)
	m.prompt.CursorEnd()
	m.pick = -1
	m.top = 0
	return true
}

func (m *Model) changed() tea.Cmd {
	v := m.prompt.Value()
	if v == m.last {
		return nil
	}
	m.last = v
	return events.CommandChangeCmd(m.id, v, events.CommandModeInput)
}

// Update handles ":" while idle and editing keys while typing.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if !m.input {
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if !m.input {
		if key.String() == ":" {
			return m, m.BeginInput("")
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		if m.unpick() {
			return m, m.changed()
		}
		return m, tea.Batch(m.ExitInput(), events.CommandCancelCmd(m.id))
	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		cmds := []tea.Cmd{m.ExitInput()}
		if value != "" {
			m.status = value
			cmds = append([]tea.Cmd{events.CommandSubmitCmd(m.id, value)}, cmds...)
		}
		return m, tea.Batch(cmds...)
	case "up", "shift+tab":
		if m.cycle(-1) {
			return m, m.changed()
		}
	case "down", "tab":
		if m.cycle(1) {
			return m, m.changed()
		}
	}

	before := m.prompt.Value()
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(key)
	if m.prompt.Value() != before {
		m.refilter()
		return m, tea.Batch(cmd, m.changed())
	}
	return m, cmd
}

// View renders the content, the suggestion popup and the bar.
func (m *Model) View() (string, *tea.Cursor) {
	body := lastLines(m.content, m.height-1)
	cursor := m.contentCursor
	if cursor != nil {
		c := *cursor
		cursor = &c
	}
	if popup, w, h := m.popup(); popup != "" {
		body = overlaymgr.Compose(body, m.width, m.height-1, popup, overlaymgr.Placement{
			Horizontal: lipgloss.Left,
			Vertical:   lipgloss.Bottom,
			Width:      w,
			Height:     h,
		})
	}

	var bar string
	if m.input {
		bar = m.prefix + m.prompt.View()
		if c := m.prompt.Cursor(); c != nil {
			pc := *c
			pc.X += len(m.prefix)
			pc.Y = m.height - 1
			cursor = &pc
		}
	} else {
		bar = m.statusLine()
	}
	bar = fit(bar, m.width)

	if body == "" {
		return bar, cursor
	}
	return body + "\n" + bar, cursor
}

func (m *Model) statusLine() string {
	status := m.status
	if status == "" {
		status = "Ready"
	}
	value := m.styles.Status.Render(status)
	hint := m.styles.Help.Render(m.hint)
	gap := m.width - lipgloss.Width(hint) - lipgloss.Width(value)
	if m.hint == "" || gap < 1 {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(value)
	}
	return hint + strings.Repeat(" ", gap) + value
}

func (m *Model) popup() (string, int, int) {
	if !m.input {
		return "", 0, 0
	}
	rows := m.rows()
	if rows <= 0 {
		return "", 0, 0
	}
	top := min(m.top, len(m.matches)-rows)
	lines := make([]string, 0, rows)
	widest := 0
	for i := top; i < top+rows; i++ {
		name, desc := m.styles.CommandName, m.styles.CommandDescription
		marker := "  "
		if i == m.pick {
			name, desc = m.styles.CommandSelectedName, m.styles.CommandSelectedDesc
			marker = "→ "
		}
		line := marker + name.Render(m.matches[i])
		if d := strings.TrimSpace(m.descs[i]); d != "" {
			line += "  " + desc.Render(d)
		}
		lines = append(lines, line)
		widest = max(widest, lipgloss.Width(line))
	}
	widest = min(widest, m.width)
	pad := lipgloss.NewStyle().Width(widest)
	for i := range lines {
		lines[i] = pad.Render(lines[i])
	}
	return strings.Join(lines, "\n"), widest, len(lines)
}

// lastLines keeps the bottom height lines of body, padding short bodies.
func lastLines(body string, height int) string {
	lines := strings.Split(body, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func fit(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
