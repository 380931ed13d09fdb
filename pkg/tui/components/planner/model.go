// Package planner is the AI itinerary overlay. It collects a trip prompt,
// shows the generated plan and opens the events the plan links to.
package planner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/i18n"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// PlanMsg asks for an itinerary.
type PlanMsg struct {
	Component events.ComponentID
	Prompt    string
}

func (m PlanMsg) Describe() string { return fmt.Sprintf(`prompt:%q`, m.Prompt) }

var examples = map[event.Language][]string{
	event.English: {
		"A weekend getaway in Erbil for a couple",
		"A family-friendly day in Baghdad with kids",
		"Three days of art and culture in Sulaymaniyah",
		"Tech events for a student this month",
	},
	event.Arabic: {
		"عطلة نهاية أسبوع في أربيل لزوجين",
		"يوم عائلي في بغداد مع الأطفال",
		"ثلاثة أيام من الفن والثقافة في السليمانية",
		"فعاليات تقنية لطالب هذا الشهر",
	},
	event.Kurdish: {
		"گەشتێکی کۆتایی هەفتە لە هەولێر بۆ دوو کەس",
		"ڕۆژێکی خێزانی لە بەغدا لەگەڵ منداڵان",
		"سێ ڕۆژ لە هونەر و کەلتور لە سلێمانی",
		"چالاکی تەکنەلۆجی بۆ قوتابیەک ئەم مانگە",
	},
}

type Model struct {
	id   events.ComponentID
	lang event.Language

	prompt    textinput.Model
	loading   bool
	errorMsg  string
	itinerary *assistant.Itinerary
	titles    map[string]string
	cursor    int

	width  int
	height int
	styles theme.DetailTheme
	form   theme.FormTheme
	frame  theme.ModalTheme
}

var _ ui.Overlay = (*Model)(nil)

func New(id events.ComponentID, lang event.Language, t theme.Theme) *Model {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = `e.g. "A relaxing 2-day trip to Duhok focused on food"`
	in.CharLimit = 500
	m := &Model{id: id, lang: lang, prompt: in, styles: t.Detail, form: t.Form, frame: t.Modal}
	m.SetSize(80, 24)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(events.FocusCmd(m.id), m.prompt.Focus())
}

func (m *Model) Loading() bool { return m.loading }

// SetItinerary shows a generated plan. known maps event ids to titles for
// the steps that link to events.
func (m *Model) SetItinerary(it assistant.Itinerary, known []event.Event) {
	m.loading = false
	m.errorMsg = ""
	m.itinerary = &it
	m.titles = make(map[string]string, len(known))
	for _, e := range known {
		m.titles[e.ID] = e.Title.Get(m.lang)
	}
	m.cursor = 0
	m.prompt.Blur()
}

// SetError shows a failed generation; the prompt stays for another try.
func (m *Model) SetError(err error) tea.Cmd {
	m.loading = false
	if err != nil {
		m.errorMsg = err.Error()
	}
	return m.prompt.Focus()
}

func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	if m.loading {
		return m, nil
	}
	if key.String() == "esc" {
		return nil, events.BlurCmd(m.id)
	}
	if m.itinerary != nil {
		return m, m.handlePlanKey(key)
	}
	switch key.String() {
	case "enter":
		p := strings.TrimSpace(m.prompt.Value())
		if p == "" {
			m.errorMsg = "Please describe the plan you want."
			return m, nil
		}
		m.errorMsg = ""
		m.loading = true
		id := m.id
		return m, func() tea.Msg { return PlanMsg{Component: id, Prompt: p} }
	case "ctrl+e":
		m.prompt.SetValue(m.nextExample())
		m.prompt.CursorEnd()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(key)
	return m, cmd
}

func (m *Model) nextExample() string {
	list := examples[m.lang]
	if len(list) == 0 {
		list = examples[event.English]
	}
	current := m.prompt.Value()
	for i, ex := range list {
		if ex == current {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

// linked lists the plan steps that point at a known event.
func (m *Model) linked() []int {
	var out []int
	for i, s := range m.itinerary.Plan {
		if _, ok := m.titles[s.EventID]; ok {
			out = append(out, i)
		}
	}
	return out
}

func (m *Model) handlePlanKey(key tea.KeyPressMsg) tea.Cmd {
	links := m.linked()
	switch key.String() {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(max(0, len(links)-1), m.cursor+1)
	case "enter":
		if len(links) == 0 {
			return nil
		}
		step := m.itinerary.Plan[links[m.cursor]]
		return events.EventSelectCmd(m.id, events.EventRef{ID: step.EventID, Title: m.titles[step.EventID]})
	case "ctrl+r":
		m.itinerary = nil
		m.prompt.SetValue("")
		m.errorMsg = ""
		return m.prompt.Focus()
	}
	return nil
}

func (m *Model) SetSize(width, height int) {
	m.width = max(40, min(width-4, 90))
	m.height = max(12, height-2)
	m.prompt.SetWidth(m.width - 12)
}

func (m *Model) View() (string, *tea.Cursor) {
	w := m.width - 6
	lines := []string{m.frame.Title.Render("✨ " + i18n.T(i18n.Planner, m.lang)), ""}
	promptRow := -1

	switch {
	case m.loading:
		lines = append(lines, m.form.Hint.Render(i18n.T(i18n.Planning, m.lang)))
	case m.itinerary != nil:
		lines = append(lines, m.planLines(w)...)
		lines = append(lines, "", m.form.Hint.Render("↑/↓ choose event • Enter "+i18n.T(i18n.ViewEvent, m.lang)+" • Ctrl+R "+i18n.T(i18n.StartOver, m.lang)+" • Esc close"))
	default:
		lines = append(lines, wordwrap.String(i18n.T(i18n.PlanIntro, m.lang), w), "")
		promptRow = len(lines)
		lines = append(lines, m.prompt.View(), "")
		if m.errorMsg != "" {
			lines = append(lines, m.form.Error.Render(wordwrap.String(m.errorMsg, w)))
		}
		lines = append(lines, m.form.Hint.Render("Enter generate • Ctrl+E example • Esc close"))
	}

	align := lipgloss.Left
	if m.lang.RTL() {
		align = lipgloss.Right
	}
	body := lipgloss.NewStyle().Width(w).Align(align).Render(strings.Join(lines, "\n"))
	box := m.frame.Frame.Render(body)

	var cursor *tea.Cursor
	if promptRow >= 0 && !m.lang.RTL() {
		if c := m.prompt.Cursor(); c != nil {
			clone := *c
			clone.Position.X += 3
			clone.Position.Y += promptRow + 2
			cursor = &clone
		}
	}
	return box, cursor
}

func (m *Model) planLines(w int) []string {
	it := m.itinerary
	lines := []string{m.styles.Title.Render(it.Title.Get(m.lang)), ""}
	links := m.linked()
	selected := -1
	if len(links) > 0 {
		selected = links[min(m.cursor, len(links)-1)]
	}
	day := ""
	for i, s := range it.Plan {
		if s.Day != day {
			day = s.Day
			lines = append(lines, m.styles.Label.Render(day))
		}
		head := "• " + s.Title
		if title, ok := m.titles[s.EventID]; ok {
			marker := "  ↳ " + i18n.T(i18n.ViewEvent, m.lang) + ": " + title
			if i == selected {
				marker = m.form.Focused.Render(marker)
			}
			lines = append(lines, m.styles.Body.Render(head), wordwrap.String("  "+s.Description, w), marker)
			continue
		}
		lines = append(lines, m.styles.Body.Render(head), wordwrap.String("  "+s.Description, w))
	}
	return lines
}
