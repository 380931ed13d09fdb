package teaui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
	"tableflip.dev/iqevents/pkg/tui/components/authform"
	"tableflip.dev/iqevents/pkg/tui/components/detail"
	"tableflip.dev/iqevents/pkg/tui/components/eventform"
	"tableflip.dev/iqevents/pkg/tui/components/planner"
	"tableflip.dev/iqevents/pkg/tui/components/toasts"
	"tableflip.dev/iqevents/pkg/tui/events"
)

// controllerMsg wraps a message read from the controller's change channel so
// the subscription can be re-armed.
type controllerMsg struct {
	msg tea.Msg
}

func (m controllerMsg) Describe() string { return describeMsg(m.msg) }

type startedMsg struct{ err error }

type reloadedMsg struct{ err error }

type savedMsg struct {
	eventID string
	saved   event.Event
	err     error
}

type suggestedMsg struct {
	suggestion assistant.Suggestion
	err        error
}

type reviewedMsg struct {
	eventID string
	err     error
}

type authDoneMsg struct {
	mode authform.Mode
	err  error
}

type oauthURLMsg struct {
	url string
	err error
}

type loggedOutMsg struct{ err error }

type plannedMsg struct {
	itinerary assistant.Itinerary
	err       error
}

type profileMsg struct {
	user  event.User
	found bool
	err   error
}

func waitForController(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return controllerMsg{msg: msg}
	}
}

func (m *Model) waitForToasts() tea.Cmd {
	if m.toastQueue == nil {
		return nil
	}
	return toasts.WaitFor(m.toastQueue.Events())
}

func (m *Model) startCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return startedMsg{err: ctrl.Start(ctx)}
	}
}

// handleRequest answers the requests components and overlays emit. Gateway
// calls run as commands and report back with a result message.
func (m *Model) handleRequest(msg tea.Msg) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	switch v := msg.(type) {
	case events.FilterIntentMsg:
		m.applyFilterIntent(v)
	case events.EventSelectMsg:
		if !ctrl.Select(v.Event.ID) {
			m.command.SetStatus("Event not found")
		}
	case events.BookmarkRequestMsg:
		id := v.Event.ID
		return func() tea.Msg {
			_ = ctrl.ToggleBookmark(ctx, id)
			return nil
		}
	case events.ProfileRequestMsg:
		id := v.UserID
		return func() tea.Msg {
			u, found, err := ctrl.ViewProfile(ctx, id)
			return profileMsg{user: u, found: found, err: err}
		}
	case events.LoginRequiredMsg:
		return m.openAuth(authform.ModeLogin, v.Reason)
	case detail.EditRequestMsg:
		return m.openEditEvent(v.Event.ID)
	case detail.ReviewSubmitMsg:
		id, draft := v.EventID, v.Draft
		return func() tea.Msg {
			_, err := ctrl.AddReview(ctx, id, draft)
			return reviewedMsg{eventID: id, err: err}
		}
	case eventform.SubmitMsg:
		id, draft := v.EventID, v.Draft
		return func() tea.Msg {
			saved, err := ctrl.SaveEvent(ctx, id, draft)
			return savedMsg{eventID: id, saved: saved, err: err}
		}
	case eventform.SuggestMsg:
		prompt := v.Prompt
		return func() tea.Msg {
			s, err := ctrl.SuggestEvent(ctx, prompt)
			return suggestedMsg{suggestion: s, err: err}
		}
	case authform.SubmitMsg:
		return authCmd(m, v)
	case authform.OAuthMsg:
		provider := v.Provider
		return func() tea.Msg {
			u, err := ctrl.OAuthURL(provider)
			return oauthURLMsg{url: u, err: err}
		}
	case planner.PlanMsg:
		prompt := v.Prompt
		return func() tea.Msg {
			it, err := ctrl.PlanItinerary(ctx, prompt)
			return plannedMsg{itinerary: it, err: err}
		}

	case reloadedMsg:
		if v.err != nil {
			m.command.SetStatus("Reload failed")
		}
	case savedMsg:
		form, ok := m.overlay.(*eventform.Model)
		if !ok || form.EventID() != v.eventID {
			return nil
		}
		if v.err != nil {
			form.SetError(v.err)
			return nil
		}
		m.overlay = nil
		m.command.SetStatus("Saved " + v.saved.Title.Get(m.snap.Language))
	case suggestedMsg:
		form, ok := m.overlay.(*eventform.Model)
		if !ok {
			return nil
		}
		if v.err != nil {
			if errors.Is(v.err, backend.ErrAuthRequired) {
				m.overlay = nil
				return nil
			}
			form.SetError(fmt.Errorf("the assistant could not draft this event: %w", v.err))
			return nil
		}
		current, _ := form.Draft()
		form.ApplyDraft(app.ApplySuggestion(current, v.suggestion))
	case reviewedMsg:
		d, ok := m.overlay.(*detail.Model)
		if !ok || d.EventID() != v.eventID {
			return nil
		}
		if v.err != nil {
			d.SetError(v.err)
			return nil
		}
		d.ReviewSaved()
	case authDoneMsg:
		a, ok := m.overlay.(*authform.Model)
		if !ok {
			return nil
		}
		if v.err != nil {
			a.SetError(v.err)
			return nil
		}
		if v.mode == authform.ModeReset {
			a.SetNotice("Password reset link sent! Check your email.")
			return nil
		}
		m.overlay = nil
	case oauthURLMsg:
		a, ok := m.overlay.(*authform.Model)
		if !ok {
			return nil
		}
		if v.err != nil {
			a.SetError(v.err)
			return nil
		}
		a.SetNotice("Open this address in a browser to continue: " + v.url)
	case sessionReloadedMsg:
		if v.err != nil {
			log.Warn().Err(v.err).Msg("could not reload the stored session")
		}
	case prefsReloadedMsg:
		if v.err != nil {
			log.Warn().Err(v.err).Msg("could not reload preferences")
		}
	case loggedOutMsg:
		if v.err != nil {
			m.command.SetStatus("Logout failed")
		}
	case plannedMsg:
		p, ok := m.overlay.(*planner.Model)
		if !ok {
			return nil
		}
		if v.err != nil {
			return p.SetError(fmt.Errorf("could not plan the trip: %w", v.err))
		}
		p.SetItinerary(v.itinerary, m.snap.Events)
	case profileMsg:
		if v.err != nil {
			return nil
		}
		if !v.found {
			m.command.SetStatus("Profile not found")
			return nil
		}
		return m.openProfile(v.user, viewmodel.OrganizedBy(m.snap.Events, v.user.ID))
	}
	return nil
}

func authCmd(m *Model, v authform.SubmitMsg) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	mode := v.Mode
	return func() tea.Msg {
		var err error
		switch mode {
		case authform.ModeSignUp:
			_, err = ctrl.SignUp(ctx, backend.SignUpRequest{Email: v.Email, Password: v.Password, Name: v.Name})
		case authform.ModeReset:
			err = ctrl.ResetPassword(ctx, v.Email)
		default:
			_, err = ctrl.Login(ctx, backend.Credentials{Email: v.Email, Password: v.Password})
		}
		return authDoneMsg{mode: mode, err: err}
	}
}

func (m *Model) applyFilterIntent(v events.FilterIntentMsg) {
	switch v.Field {
	case events.FilterQuery:
		q := v.Value
		m.ctrl.UpdateFilter(func(f viewmodel.Filter) viewmodel.Filter {
			f.Query = q
			return f
		})
	case events.FilterMonth:
		month := v.Month
		m.ctrl.UpdateFilter(func(f viewmodel.Filter) viewmodel.Filter {
			f.Month = month
			return f
		})
	case events.FilterCategory:
		m.ctrl.ToggleCategory(v.Value)
	case events.FilterCity:
		m.ctrl.ToggleCity(v.Value)
	case events.FilterClear:
		m.ctrl.SetFilter(viewmodel.Filter{})
	}
}
