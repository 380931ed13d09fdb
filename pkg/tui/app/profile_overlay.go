package teaui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
	"tableflip.dev/iqevents/pkg/tui/ui"
)

// profileOverlay shows a public profile and the events it organizes.
// Enter opens the highlighted event.
type profileOverlay struct {
	user      event.User
	organized []event.Event
	lang      event.Language
	cursor    int

	width  int
	height int
	styles theme.ModalTheme
	list   theme.ListTheme
}

var _ ui.Overlay = (*profileOverlay)(nil)

func newProfileOverlay(u event.User, organized []event.Event, lang event.Language, t theme.Theme) *profileOverlay {
	return &profileOverlay{
		user:      u,
		organized: organized,
		lang:      lang,
		styles:    t.Modal,
		list:      t.List,
		width:     50,
		height:    12,
	}
}

func (o *profileOverlay) Init() tea.Cmd { return events.FocusCmd(profileID) }

func (o *profileOverlay) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}
	switch key.String() {
	case "esc", "q":
		return nil, events.BlurCmd(profileID)
	case "up", "k":
		if o.cursor > 0 {
			o.cursor--
		}
	case "down", "j":
		if o.cursor < len(o.organized)-1 {
			o.cursor++
		}
	case "enter":
		if o.cursor < len(o.organized) {
			return o, events.EventSelectCmd(profileID, events.RefOf(o.organized[o.cursor], o.lang))
		}
	}
	return o, nil
}

func (o *profileOverlay) SetSize(width, height int) {
	o.width = max(30, min(width, 70))
	o.height = max(8, height)
}

func (o *profileOverlay) View() (string, *tea.Cursor) {
	inner := max(10, o.width-o.styles.Frame.GetHorizontalFrameSize())
	lines := []string{
		o.styles.Title.Render(o.user.Name),
		o.list.Meta.Render(truncate.StringWithTail(o.user.AvatarURL, uint(inner), "…")),
		"",
		fmt.Sprintf("Events organized (%d)", len(o.organized)),
	}
	room := max(1, o.height-len(lines)-4)
	start := 0
	if o.cursor >= room {
		start = o.cursor - room + 1
	}
	for i := start; i < len(o.organized) && i < start+room; i++ {
		e := o.organized[i]
		row := fmt.Sprintf("%s · %s · %s", e.Title.Get(o.lang), e.Date.Format("Jan 2"), catalog.CityName(e.CityID, o.lang))
		row = truncate.StringWithTail(row, uint(max(1, inner-2)), "…")
		if i == o.cursor {
			lines = append(lines, o.list.Selected.Render("> "+row))
			continue
		}
		lines = append(lines, "  "+row)
	}
	lines = append(lines, "", o.list.Meta.Render("enter open · esc close"))
	body := lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
	return o.styles.Frame.Render(body), nil
}
