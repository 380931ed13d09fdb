package teaui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/store"
)

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

type sessionReloadedMsg struct{ err error }

type prefsReloadedMsg struct{ err error }

func startWatchCmd(parent context.Context, watch func(context.Context) (<-chan store.Event, error)) tea.Cmd {
	if watch == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// handleStoreEvent picks up a sign in, sign out or preference change made by
// another process. The gateway and the controller report the result back
// through the controller's change channel.
func (m *Model) handleStoreEvent(ev store.Event) tea.Cmd {
	switch ev.Type {
	case store.EventSessionChanged:
		reload := m.reloadSession
		if reload == nil {
			return nil
		}
		return func() tea.Msg { return sessionReloadedMsg{err: reload()} }
	case store.EventPrefsChanged:
		ctrl := m.ctrl
		return func() tea.Msg { return prefsReloadedMsg{err: ctrl.ReloadPrefs()} }
	default:
		log.Debug().Int("type", int(ev.Type)).Msg("ignoring store change")
	}
	return nil
}
