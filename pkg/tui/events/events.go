package events

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// EventRef captures what cross-component messages need to know about an event.
type EventRef struct {
	ID    string
	Title string
}

// Label returns a human-friendly identifier for the event.
func (r EventRef) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// RefOf builds an EventRef in lang.
func RefOf(e event.Event, lang event.Language) EventRef {
	return EventRef{ID: e.ID, Title: e.Title.Get(lang)}
}

// ChangeType enumerates supported change actions across components.
type ChangeType string

const (
	// ChangeCreate indicates a new resource was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing resource changed.
	ChangeUpdate ChangeType = "update"
	// ChangeReload indicates the whole list was replaced.
	ChangeReload ChangeType = "reload"
)

// EventChangeMsg announces a write-through merge or a reload of the event list.
type EventChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Current   EventRef
}

// Describe implements the logging helper.
func (m EventChangeMsg) Describe() string {
	return fmt.Sprintf(`action:%q event:%q`, m.Action, m.Current.Label())
}

// ReviewAddedMsg is emitted when a review was prepended to an event.
type ReviewAddedMsg struct {
	Component ComponentID
	Event     EventRef
	Review    event.Review
}

func (m ReviewAddedMsg) Describe() string {
	return fmt.Sprintf(`event:%q rating:%d`, m.Event.Label(), m.Review.Rating)
}

// LoadedMsg reports the end of an initial load or reload.
type LoadedMsg struct {
	Component ComponentID
	Events    int
	Featured  int
	Err       error
}

func (m LoadedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`error:%q`, m.Err.Error())
	}
	return fmt.Sprintf(`events:%d featured:%d`, m.Events, m.Featured)
}

// BookmarkChangeMsg reports a change of the bookmark set. Pending is true for
// the optimistic flip before the backend confirmed it.
type BookmarkChangeMsg struct {
	Component  ComponentID
	EventID    string
	Bookmarked bool
	Pending    bool
	RolledBack bool
}

func (m BookmarkChangeMsg) Describe() string {
	return fmt.Sprintf(`event:%q bookmarked:%t pending:%t rolled_back:%t`, m.EventID, m.Bookmarked, m.Pending, m.RolledBack)
}

// BookmarksSyncedMsg reports that the bookmark set was replaced from the backend.
type BookmarksSyncedMsg struct {
	Component ComponentID
	Count     int
}

func (m BookmarksSyncedMsg) Describe() string {
	return fmt.Sprintf(`count:%d`, m.Count)
}

// AuthChangeMsg reports a change of identity.
type AuthChangeMsg struct {
	Component ComponentID
	Kind      string
	User      *event.User
}

func (m AuthChangeMsg) Describe() string {
	name := "anonymous"
	if m.User != nil {
		name = m.User.Name
	}
	return fmt.Sprintf(`kind:%q user:%q`, m.Kind, name)
}

// LoginRequiredMsg asks the UI to open the login form.
type LoginRequiredMsg struct {
	Component ComponentID
	Reason    string
}

func (m LoginRequiredMsg) Describe() string {
	return fmt.Sprintf(`reason:%q`, m.Reason)
}

// FilterChangeMsg reports a new active filter.
type FilterChangeMsg struct {
	Component ComponentID
	Filter    viewmodel.Filter
}

func (m FilterChangeMsg) Describe() string {
	parts := []string{}
	if m.Filter.Query != "" {
		parts = append(parts, fmt.Sprintf("query:%q", m.Filter.Query))
	}
	if m.Filter.Month != 0 {
		parts = append(parts, "month:"+m.Filter.Month.String())
	}
	if m.Filter.Category != "" {
		parts = append(parts, "category:"+m.Filter.Category)
	}
	if m.Filter.City != "" {
		parts = append(parts, "city:"+m.Filter.City)
	}
	if len(parts) == 0 {
		return "cleared"
	}
	return strings.Join(parts, " ")
}

// FilterField names the part of the filter a FilterIntentMsg changes.
type FilterField string

const (
	FilterQuery    FilterField = "query"
	FilterMonth    FilterField = "month"
	FilterCategory FilterField = "category"
	FilterCity     FilterField = "city"
	FilterClear    FilterField = "clear"
)

// FilterIntentMsg asks for a change of the active filter. Category and city
// intents carry discovery bar semantics: picking the active value clears it.
type FilterIntentMsg struct {
	Component ComponentID
	Field     FilterField
	Value     string
	Month     time.Month
}

func (m FilterIntentMsg) Describe() string {
	if m.Field == FilterMonth {
		return fmt.Sprintf(`field:%q month:%d`, m.Field, m.Month)
	}
	return fmt.Sprintf(`field:%q value:%q`, m.Field, m.Value)
}

// FilterIntentCmd wraps FilterIntentMsg into a tea.Cmd.
func FilterIntentCmd(msg FilterIntentMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// ViewChangeMsg reports a new view mode or language.
type ViewChangeMsg struct {
	Component ComponentID
	View      string
	Language  event.Language
}

func (m ViewChangeMsg) Describe() string {
	return fmt.Sprintf(`view:%q lang:%q`, m.View, m.Language)
}

// EventHighlightMsg is emitted when an event is highlighted in a list.
type EventHighlightMsg struct {
	Component ComponentID
	Event     EventRef
}

func (m EventHighlightMsg) Describe() string {
	return fmt.Sprintf(`event:%q`, m.Event.Label())
}

// EventSelectMsg is emitted when the user opens an event.
type EventSelectMsg struct {
	Component ComponentID
	Event     EventRef
}

func (m EventSelectMsg) Describe() string {
	return fmt.Sprintf(`event:%q`, m.Event.Label())
}

// EventSelectCmd wraps EventSelectMsg into a tea.Cmd.
func EventSelectCmd(component ComponentID, ref EventRef) tea.Cmd {
	return func() tea.Msg {
		return EventSelectMsg{Component: component, Event: ref}
	}
}

// SelectionChangeMsg reports the event open in the detail view, or none.
type SelectionChangeMsg struct {
	Component ComponentID
	Event     *EventRef
}

func (m SelectionChangeMsg) Describe() string {
	if m.Event == nil {
		return "closed"
	}
	return fmt.Sprintf(`event:%q`, m.Event.Label())
}

// BookmarkRequestMsg asks for the bookmark of an event to be toggled.
type BookmarkRequestMsg struct {
	Component ComponentID
	Event     EventRef
}

func (m BookmarkRequestMsg) Describe() string {
	return fmt.Sprintf(`event:%q`, m.Event.Label())
}

// BookmarkRequestCmd wraps BookmarkRequestMsg into a tea.Cmd.
func BookmarkRequestCmd(component ComponentID, ref EventRef) tea.Cmd {
	return func() tea.Msg {
		return BookmarkRequestMsg{Component: component, Event: ref}
	}
}

// ProfileRequestMsg asks for an organizer or reviewer profile.
type ProfileRequestMsg struct {
	Component ComponentID
	UserID    string
}

func (m ProfileRequestMsg) Describe() string {
	return fmt.Sprintf(`user:%q`, m.UserID)
}

// CommandMode represents the current state of the command prompt.
type CommandMode string

const (
	// CommandModePassive indicates the command bar is idle.
	CommandModePassive CommandMode = "passive"
	// CommandModeInput indicates the command bar is collecting user input.
	CommandModeInput CommandMode = "input"
)

// CommandChangeMsg is emitted when the command input value changes.
type CommandChangeMsg struct {
	Component ComponentID
	Value     string
	Mode      CommandMode
}

func (m CommandChangeMsg) Describe() string {
	return fmt.Sprintf(`value:%q mode:%q`, m.Value, m.Mode)
}

// CommandSubmitMsg is emitted when the command input is submitted.
type CommandSubmitMsg struct {
	Component ComponentID
	Value     string
}

func (m CommandSubmitMsg) Describe() string {
	return fmt.Sprintf(`value:%q`, m.Value)
}

// CommandCancelMsg is emitted when command entry is cancelled.
type CommandCancelMsg struct {
	Component ComponentID
}

func (m CommandCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// CommandChangeCmd wraps CommandChangeMsg.
func CommandChangeCmd(component ComponentID, value string, mode CommandMode) tea.Cmd {
	return func() tea.Msg {
		return CommandChangeMsg{Component: component, Value: value, Mode: mode}
	}
}

// CommandSubmitCmd wraps CommandSubmitMsg.
func CommandSubmitCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return CommandSubmitMsg{Component: component, Value: value}
	}
}

// CommandCancelCmd wraps CommandCancelMsg.
func CommandCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return CommandCancelMsg{Component: component}
	}
}

// FocusMsg indicates a component gained focus.
type FocusMsg struct {
	Component ComponentID
}

func (m FocusMsg) Describe() string {
	return ""
}

// BlurMsg indicates a component lost focus.
type BlurMsg struct {
	Component ComponentID
}

func (m BlurMsg) Describe() string {
	return ""
}

// FocusCmd emits a FocusMsg.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd emits a BlurMsg.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// DebugMsg carries arbitrary diagnostic details for the event viewer.
type DebugMsg struct {
	Component ComponentID
	Context   string
	Detail    string
}

func (m DebugMsg) Describe() string {
	return fmt.Sprintf(`context:%q detail:%q`, m.Context, m.Detail)
}

// DebugCmd emits a DebugMsg.
func DebugCmd(component ComponentID, context, detail string) tea.Cmd {
	return func() tea.Msg {
		return DebugMsg{Component: component, Context: context, Detail: detail}
	}
}
