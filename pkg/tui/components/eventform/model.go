// Package eventform is the overlay for creating and editing an event, with
// an optional AI autofill prompt.
package eventform

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// DateLayout is how dates are typed into the form.
const DateLayout = "2006-01-02 15:04"

type fieldKey int

const (
	fieldPrompt fieldKey = iota
	fieldTitleEn
	fieldTitleAr
	fieldTitleKu
	fieldDescEn
	fieldDescAr
	fieldDescKu
	fieldCategory
	fieldCity
	fieldDate
	fieldVenue
	fieldOrganizer
	fieldPhone
	fieldWhatsapp
	fieldImage
	fieldTicket
	fieldCoords
	fieldCount
)

var labels = [fieldCount]string{
	fieldPrompt:    "AI idea:",
	fieldTitleEn:   "Title (en):",
	fieldTitleAr:   "Title (ar):",
	fieldTitleKu:   "Title (ku):",
	fieldDescEn:    "About (en):",
	fieldDescAr:    "About (ar):",
	fieldDescKu:    "About (ku):",
	fieldCategory:  "Category:",
	fieldCity:      "City:",
	fieldDate:      "Date:",
	fieldVenue:     "Venue:",
	fieldOrganizer: "Organizer:",
	fieldPhone:     "Phone:",
	fieldWhatsapp:  "WhatsApp:",
	fieldImage:     "Image URL:",
	fieldTicket:    "Tickets:",
	fieldCoords:    "Lat, Lng:",
}

// labelWidth plus the two cell focus indicator and a space.
const (
	labelWidth  = 12
	inputPrefix = 2 + labelWidth + 1
)

// SubmitMsg asks for the draft to be saved. EventID is empty for a new event.
type SubmitMsg struct {
	Component events.ComponentID
	EventID   string
	Draft     event.Draft
}

func (m SubmitMsg) Describe() string {
	if m.EventID == "" {
		return fmt.Sprintf(`create:%q`, m.Draft.Title.Get(event.English))
	}
	return fmt.Sprintf(`update:%s`, m.EventID)
}

// SuggestMsg asks the assistant to draft the listing from the prompt.
type SuggestMsg struct {
	Component events.ComponentID
	Prompt    string
}

func (m SuggestMsg) Describe() string { return fmt.Sprintf(`prompt:%q`, m.Prompt) }

// Model renders the event form overlay.
type Model struct {
	id      events.ComponentID
	eventID string
	ai      bool
	lang    event.Language

	inputs   [fieldCount]textinput.Model
	category int
	city     int

	categories []catalog.Category
	cities     []catalog.City

	focus  fieldKey
	offset int

	busy         string
	errorMsg     string
	confirmClose bool

	width  int
	height int
	styles theme.FormTheme
	frame  theme.ModalTheme
}

var _ ui.Overlay = (*Model)(nil)

// New builds the form. A non-empty eventID edits that event and prefills the
// fields from draft; ai shows the autofill prompt.
func New(id events.ComponentID, eventID string, draft event.Draft, ai bool, t theme.Theme) *Model {
	m := &Model{
		id:         id,
		eventID:    eventID,
		ai:         ai,
		lang:       event.English,
		categories: catalog.SelectableCategories(),
		cities:     catalog.Cities(),
		styles:     t.Form,
		frame:      t.Modal,
		category:   -1,
		city:       -1,
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 500
		m.inputs[i] = in
	}
	m.inputs[fieldPrompt].Placeholder = "e.g. a jazz night by the citadel next Friday"
	m.inputs[fieldDate].Placeholder = DateLayout
	m.inputs[fieldCoords].Placeholder = "36.1901, 44.0091"
	m.inputs[fieldImage].CharLimit = 0
	m.Load(draft)
	m.focus = m.sequence()[0]
	m.SetSize(80, 24)
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// EventID is the edited event, empty when creating.
func (m *Model) EventID() string { return m.eventID }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(events.FocusCmd(m.id), m.updateInputFocus())
}

// Load fills the fields from draft.
func (m *Model) Load(d event.Draft) {
	m.inputs[fieldTitleEn].SetValue(d.Title[event.English])
	m.inputs[fieldTitleAr].SetValue(d.Title[event.Arabic])
	m.inputs[fieldTitleKu].SetValue(d.Title[event.Kurdish])
	m.inputs[fieldDescEn].SetValue(d.Description[event.English])
	m.inputs[fieldDescAr].SetValue(d.Description[event.Arabic])
	m.inputs[fieldDescKu].SetValue(d.Description[event.Kurdish])
	if !d.Date.IsZero() {
		m.inputs[fieldDate].SetValue(d.Date.Local().Format(DateLayout))
	}
	m.inputs[fieldVenue].SetValue(d.Venue)
	m.inputs[fieldOrganizer].SetValue(d.OrganizerName)
	m.inputs[fieldPhone].SetValue(d.OrganizerPhone)
	m.inputs[fieldWhatsapp].SetValue(d.WhatsappNumber)
	m.inputs[fieldImage].SetValue(d.ImageURL)
	m.inputs[fieldTicket].SetValue(d.TicketInfo)
	m.inputs[fieldCoords].SetValue(d.Coordinates.String())
	m.category = m.categoryIndex(d.CategoryID)
	m.city = m.cityIndex(d.CityID)
}

// Draft reads the fields back. Only the date and coordinates can fail to
// parse; required fields are checked by Draft.Validate.
func (m *Model) Draft() (event.Draft, error) {
	d := event.Draft{
		Title: event.Localized{
			event.English: m.value(fieldTitleEn),
			event.Arabic:  m.value(fieldTitleAr),
			event.Kurdish: m.value(fieldTitleKu),
		},
		Description: event.Localized{
			event.English: m.value(fieldDescEn),
			event.Arabic:  m.value(fieldDescAr),
			event.Kurdish: m.value(fieldDescKu),
		},
		Venue:          m.value(fieldVenue),
		OrganizerName:  m.value(fieldOrganizer),
		OrganizerPhone: m.value(fieldPhone),
		WhatsappNumber: m.value(fieldWhatsapp),
		ImageURL:       m.value(fieldImage),
		TicketInfo:     m.value(fieldTicket),
	}
	if m.category >= 0 {
		d.CategoryID = m.categories[m.category].ID
	}
	if m.city >= 0 {
		d.CityID = m.cities[m.city].ID
	}
	if raw := m.value(fieldDate); raw != "" {
		at, err := time.ParseInLocation(DateLayout, raw, time.Local)
		if err != nil {
			return d, fmt.Errorf("date must look like %s", DateLayout)
		}
		d.Date = at
	}
	coords, err := event.ParseCoordinates(m.value(fieldCoords))
	if err != nil {
		return d, err
	}
	d.Coordinates = coords
	return d, nil
}

func (m *Model) value(f fieldKey) string {
	return strings.TrimSpace(m.inputs[f].Value())
}

// SetBusy shows a progress line and ignores input until cleared.
func (m *Model) SetBusy(status string) { m.busy = status }

// SetError clears busy and shows err below the fields.
func (m *Model) SetError(err error) {
	m.busy = ""
	if err == nil {
		m.errorMsg = ""
		return
	}
	m.errorMsg = err.Error()
}

// ApplyDraft replaces the fields with an assistant suggestion applied on top
// of the current draft.
func (m *Model) ApplyDraft(d event.Draft) {
	m.Load(d)
	m.busy = ""
	m.errorMsg = ""
	m.focus = fieldTitleEn
	m.updateInputFocus()
}

func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	if m.confirmClose {
		switch key.String() {
		case "y", "enter":
			return nil, events.BlurCmd(m.id)
		case "n", "esc":
			m.confirmClose = false
		}
		return m, nil
	}
	if m.busy != "" {
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.confirmClose = true
		return m, nil
	case "tab", "down":
		m.advanceFocus(1)
		return m, m.updateInputFocus()
	case "shift+tab", "up":
		m.advanceFocus(-1)
		return m, m.updateInputFocus()
	case "ctrl+s":
		return m, m.submit()
	case "enter":
		if m.focus == fieldPrompt {
			return m, m.suggest()
		}
		if m.focus == m.last() {
			return m, m.submit()
		}
		m.advanceFocus(1)
		return m, m.updateInputFocus()
	}

	switch m.focus {
	case fieldCategory:
		m.category = cycle(m.category, len(m.categories), key.String())
		return m, nil
	case fieldCity:
		m.city = cycle(m.city, len(m.cities), key.String())
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	d, err := m.Draft()
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		m.errorMsg = err.Error()
		return nil
	}
	m.errorMsg = ""
	m.busy = "Saving…"
	id, eventID := m.id, m.eventID
	return func() tea.Msg { return SubmitMsg{Component: id, EventID: eventID, Draft: d} }
}

func (m *Model) suggest() tea.Cmd {
	prompt := m.value(fieldPrompt)
	if prompt == "" {
		m.errorMsg = "describe the event idea first"
		return nil
	}
	m.errorMsg = ""
	m.busy = "Asking the assistant…"
	id := m.id
	return func() tea.Msg { return SuggestMsg{Component: id, Prompt: prompt} }
}

// cycle moves a picker on left/right; -1 is unset.
func cycle(i, n int, key string) int {
	switch key {
	case "left", "h":
		if i <= 0 {
			return n - 1
		}
		return i - 1
	case "right", "l", "space":
		return (i + 1) % n
	}
	return i
}

func (m *Model) sequence() []fieldKey {
	seq := make([]fieldKey, 0, fieldCount)
	for f := fieldKey(0); f < fieldCount; f++ {
		if f == fieldPrompt && !m.ai {
			continue
		}
		seq = append(seq, f)
	}
	return seq
}

func (m *Model) last() fieldKey { return fieldCount - 1 }

func (m *Model) advanceFocus(delta int) {
	seq := m.sequence()
	current := 0
	for i, f := range seq {
		if f == m.focus {
			current = i
			break
		}
	}
	current = (current + len(seq) + delta) % len(seq)
	m.focus = seq[current]
}

func (m *Model) updateInputFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if fieldKey(i) == m.focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) categoryIndex(id string) int {
	for i, c := range m.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) cityIndex(id string) int {
	for i, c := range m.cities {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.width = width
	m.height = height
	inputWidth := max(10, min(60, width-inputPrefix-12))
	for i := range m.inputs {
		m.inputs[i].SetWidth(inputWidth)
	}
}

// visibleRows is how many fields fit inside the frame with the title and
// status lines.
func (m *Model) visibleRows() int {
	return max(3, m.height-10)
}

func (m *Model) View() (string, *tea.Cursor) {
	title := "New Event"
	if m.eventID != "" {
		title = "Edit Event"
	}
	lines := []string{m.frame.Title.Render(title), ""}

	seq := m.sequence()
	pos := 0
	for i, f := range seq {
		if f == m.focus {
			pos = i
		}
	}
	rows := m.visibleRows()
	if pos < m.offset {
		m.offset = pos
	}
	if pos >= m.offset+rows {
		m.offset = pos - rows + 1
	}
	end := min(len(seq), m.offset+rows)

	cursorRow := -1
	for _, f := range seq[m.offset:end] {
		if f == m.focus {
			cursorRow = len(lines)
		}
		lines = append(lines, m.renderField(f))
	}
	lines = append(lines, "", m.statusLine())

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	box := m.frame.Frame.Render(body)

	var cursor *tea.Cursor
	if cursorRow >= 0 && m.focus != fieldCategory && m.focus != fieldCity && m.busy == "" && !m.confirmClose {
		if c := m.inputs[m.focus].Cursor(); c != nil {
			clone := *c
			// Frame border (1) and padding (2 wide, 1 tall).
			clone.Position.X += inputPrefix + 3
			clone.Position.Y += cursorRow + 2
			cursor = &clone
		}
	}
	return box, cursor
}

func (m *Model) renderField(f fieldKey) string {
	focused := f == m.focus
	indicator := "  "
	labelStyle := m.styles.Label
	if focused {
		indicator = m.styles.Focused.Render("➤ ")
		labelStyle = m.styles.Focused
	}
	label := labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, labels[f]))

	var value string
	switch f {
	case fieldCategory:
		value = m.picker(m.category, func(i int) string { return m.categories[i].Name.Get(m.lang) }, focused)
	case fieldCity:
		value = m.picker(m.city, func(i int) string { return m.cities[i].Name.Get(m.lang) }, focused)
	default:
		value = m.inputs[f].View()
	}
	return indicator + label + " " + value
}

func (m *Model) picker(i int, name func(int) string, focused bool) string {
	value := "(choose)"
	if i >= 0 {
		value = name(i)
	}
	if focused {
		return m.styles.Focused.Render("◀ " + value + " ▶")
	}
	return value
}

func (m *Model) statusLine() string {
	switch {
	case m.confirmClose:
		return m.styles.Error.Render("Press 'y' to discard the form, 'n' to keep editing.")
	case m.busy != "":
		return m.styles.Hint.Render(m.busy)
	case m.errorMsg != "":
		return m.styles.Error.Render(m.errorMsg)
	case m.focus == fieldPrompt:
		return m.styles.Hint.Render("Enter to autofill with AI • Tab to skip")
	}
	return m.styles.Hint.Render("Ctrl+S to save • Esc to close • Tab between fields")
}
