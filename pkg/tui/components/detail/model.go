// Package detail is the event detail overlay: description, contact details,
// reviews and the review form.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/i18n"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// ReviewSubmitMsg asks for a review to be added to EventID.
type ReviewSubmitMsg struct {
	Component events.ComponentID
	EventID   string
	Draft     event.ReviewDraft
}

func (m ReviewSubmitMsg) Describe() string {
	return fmt.Sprintf(`event:%s rating:%d`, m.EventID, m.Draft.Rating)
}

// EditRequestMsg asks for the event form prefilled with this event.
type EditRequestMsg struct {
	Component events.ComponentID
	Event     events.EventRef
}

func (m EditRequestMsg) Describe() string { return fmt.Sprintf(`event:%q`, m.Event.Label()) }

// Model renders one event.
type Model struct {
	id         events.ComponentID
	ev         event.Event
	user       *event.User
	bookmarked bool
	lang       event.Language

	viewport viewport.Model

	reviewing bool
	rating    int
	comment   textinput.Model
	busy      bool
	errorMsg  string

	width  int
	height int
	styles theme.DetailTheme
	form   theme.FormTheme
	frame  theme.ModalTheme
}

var _ ui.Overlay = (*Model)(nil)

func New(id events.ComponentID, ev event.Event, t theme.Theme) *Model {
	comment := textinput.New()
	comment.Prompt = "› "
	comment.Placeholder = "Share your experience…"
	comment.CharLimit = 1000
	m := &Model{
		id:       id,
		ev:       ev,
		lang:     event.English,
		rating:   event.MaxRating,
		comment:  comment,
		viewport: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		styles:   t.Detail,
		form:     t.Form,
		frame:    t.Modal,
	}
	m.SetSize(80, 24)
	return m
}

func (m *Model) Init() tea.Cmd { return events.FocusCmd(m.id) }

// EventID is the event on display.
func (m *Model) EventID() string { return m.ev.ID }

// SetEvent refreshes the event, typically after a review or an edit.
func (m *Model) SetEvent(ev event.Event) {
	m.ev = ev
	m.render()
}

// SetUser sets the signed in user, nil when anonymous.
func (m *Model) SetUser(u *event.User) {
	m.user = u
	if u == nil {
		m.reviewing = false
	}
	m.render()
}

func (m *Model) SetBookmarked(on bool) {
	m.bookmarked = on
	m.render()
}

func (m *Model) SetLanguage(lang event.Language) {
	m.lang = lang
	m.render()
}

// Reviewing reports whether the review form is open.
func (m *Model) Reviewing() bool { return m.reviewing }

// ReviewSaved closes the review form after a successful submit.
func (m *Model) ReviewSaved() {
	m.reviewing = false
	m.busy = false
	m.errorMsg = ""
	m.rating = event.MaxRating
	m.comment.SetValue("")
	m.comment.Blur()
}

// SetError reports a failed submit and keeps the form open.
func (m *Model) SetError(err error) {
	m.busy = false
	if err != nil {
		m.errorMsg = err.Error()
	}
}

func (m *Model) ownedByUser() bool {
	return m.user != nil && m.user.ID == m.ev.OrganizerID
}

func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if m.reviewing {
			return m, m.handleReviewKey(msg)
		}
		ref := events.RefOf(m.ev, m.lang)
		switch msg.String() {
		case "esc", "q":
			return nil, events.BlurCmd(m.id)
		case "b":
			return m, events.BookmarkRequestCmd(m.id, ref)
		case "r":
			if m.user == nil {
				id := m.id
				return m, func() tea.Msg { return events.LoginRequiredMsg{Component: id, Reason: "review"} }
			}
			m.reviewing = true
			m.errorMsg = ""
			m.render()
			return m, m.comment.Focus()
		case "e":
			if !m.ownedByUser() {
				return m, nil
			}
			id := m.id
			return m, func() tea.Msg { return EditRequestMsg{Component: id, Event: ref} }
		case "o":
			if m.ev.OrganizerID == "" {
				return m, nil
			}
			id, uid := m.id, m.ev.OrganizerID
			return m, func() tea.Msg { return events.ProfileRequestMsg{Component: id, UserID: uid} }
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleReviewKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.busy {
		return nil
	}
	switch msg.String() {
	case "esc":
		m.reviewing = false
		m.errorMsg = ""
		m.comment.Blur()
		m.render()
		return nil
	case "left":
		m.rating = max(event.MinRating, m.rating-1)
		return nil
	case "right":
		m.rating = min(event.MaxRating, m.rating+1)
		return nil
	case "enter":
		draft := event.ReviewDraft{Rating: m.rating, Comment: strings.TrimSpace(m.comment.Value())}
		if err := draft.Validate(); err != nil {
			m.errorMsg = err.Error()
			return nil
		}
		m.busy = true
		m.errorMsg = ""
		id, eventID := m.id, m.ev.ID
		return func() tea.Msg { return ReviewSubmitMsg{Component: id, EventID: eventID, Draft: draft} }
	}
	if r := msg.Text; m.comment.Value() == "" && len(r) == 1 && r[0] >= '1' && r[0] <= '5' {
		m.rating = int(r[0] - '0')
		return nil
	}
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return cmd
}

func (m *Model) SetSize(width, height int) {
	m.width = max(32, min(width-4, 90))
	m.height = max(10, height-2)
	m.comment.SetWidth(max(10, m.width-16))
	m.render()
}

// bodyWidth is the text width inside the frame border and padding.
func (m *Model) bodyWidth() int { return max(20, m.width-6) }

// chromeHeight counts the lines outside the viewport: frame, title, footer.
const chromeHeight = 8

func (m *Model) render() {
	w := m.bodyWidth()
	vh := m.height - chromeHeight
	if m.reviewing {
		vh -= 4
	}
	m.viewport.SetWidth(w)
	m.viewport.SetHeight(max(3, vh))
	m.viewport.SetContent(m.body(w))
}

func (m *Model) body(w int) string {
	e := m.ev
	label := m.styles.Label
	var b strings.Builder
	line := func(k, v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		b.WriteString(label.Render(fmt.Sprintf("%-10s", k)) + " " + v + "\n")
	}
	line("When", e.Date.Local().Format("Monday, January 2 2006 15:04"))
	line("Where", e.Venue+", "+catalog.CityName(e.CityID, m.lang))
	line("Category", catalog.CategoryName(e.CategoryID, m.lang))
	line("Organizer", e.OrganizerName)
	line("Phone", e.OrganizerPhone)
	line("WhatsApp", e.WhatsappNumber)
	line("Tickets", e.TicketInfo)
	if e.Coordinates != nil {
		line("Location", e.Coordinates.String())
	}
	if strings.HasPrefix(e.ImageURL, "http") {
		line("Image", e.ImageURL)
	}
	if desc := strings.TrimSpace(e.Description.Get(m.lang)); desc != "" {
		b.WriteString("\n" + m.styles.Body.Render(wordwrap.String(desc, w)) + "\n")
	}

	avg, n := e.AverageRating()
	heading := i18n.T(i18n.Reviews, m.lang)
	if n > 0 {
		heading += fmt.Sprintf(" · %s %.1f (%d)", m.styles.Stars.Render(stars(int(avg+0.5))), avg, n)
	}
	b.WriteString("\n" + m.styles.Title.Render(heading) + "\n")
	if n == 0 {
		b.WriteString(label.Render(i18n.T(i18n.NoReviews, m.lang)) + "\n")
	}
	for _, r := range e.Reviews {
		b.WriteString(m.styles.Stars.Render(stars(r.Rating)) + " " + r.User.Name +
			label.Render(" · "+r.Timestamp.Local().Format("Jan 2 2006")) + "\n")
		if c := strings.TrimSpace(r.Comment); c != "" {
			b.WriteString(m.styles.Review.Render(wordwrap.String(c, w-2)) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func stars(n int) string {
	n = max(0, min(event.MaxRating, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", event.MaxRating-n)
}

func (m *Model) View() (string, *tea.Cursor) {
	mark := "☆"
	if m.bookmarked {
		mark = m.styles.Stars.Render("★")
	}
	title := m.styles.Title.Render(m.ev.Title.Get(m.lang)) + " " + mark
	lines := []string{title, "", m.viewport.View()}

	formRow := -1
	if m.reviewing {
		lines = append(lines, "",
			m.form.Label.Render("Rating ")+m.styles.Stars.Render(stars(m.rating))+m.form.Hint.Render("  ←/→ or 1-5"))
		formRow = len(lines)
		lines = append(lines, m.comment.View())
		if m.busy {
			lines = append(lines, m.form.Hint.Render("Submitting…"))
		}
	}
	if m.errorMsg != "" {
		lines = append(lines, m.form.Error.Render(m.errorMsg))
	}
	lines = append(lines, "", m.form.Hint.Render(m.footer()))

	body := lipgloss.NewStyle().Width(m.bodyWidth()).Render(strings.Join(lines, "\n"))
	box := m.frame.Frame.Render(body)

	var cursor *tea.Cursor
	if formRow >= 0 && !m.busy {
		if c := m.comment.Cursor(); c != nil {
			clone := *c
			clone.Position.X += 3
			clone.Position.Y += formRow + 2
			cursor = &clone
		}
	}
	return box, cursor
}

func (m *Model) footer() string {
	if m.reviewing {
		return "Enter to submit • Esc to cancel"
	}
	parts := []string{"b bookmark", "r review", "o organizer"}
	if m.ownedByUser() {
		parts = append(parts, "e edit")
	}
	return strings.Join(append(parts, "esc close"), " • ")
}
