package authform

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/iqevents/pkg/tui/events"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Text: string(r), Code: r})
	}
}

func enter(m *Model) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func newForm(mode Mode) *Model {
	m := New(events.ComponentID("auth"), mode, "", theme.Default())
	m.Init()
	return m
}

func TestLoginSubmit(t *testing.T) {
	m := newForm(ModeLogin)
	typeText(m, "demo@iqevents.app")
	if cmd := enter(m); cmd != nil {
		t.Fatalf("enter on email should move to the password")
	}
	typeText(m, "secret")
	cmd := enter(m)
	if cmd == nil {
		t.Fatalf("expected a submit")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok || msg.Mode != ModeLogin || msg.Email != "demo@iqevents.app" || msg.Password != "secret" || msg.Name != "" {
		t.Fatalf("unexpected submit %#v", msg)
	}
	view, _ := m.View()
	if strings.Contains(view, "secret") {
		t.Fatalf("password must be masked")
	}
}

func TestSignUpNeedsName(t *testing.T) {
	m := newForm(ModeSignUp)
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(m, "new@iqevents.app")
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(m, "pw")
	if cmd := enter(m); cmd != nil {
		t.Fatalf("sign up without a name must not submit")
	}
	if m.errorMsg != "display name is required" {
		t.Fatalf("unexpected error %q", m.errorMsg)
	}
}

func TestResetOnlyNeedsEmail(t *testing.T) {
	m := newForm(ModeLogin)
	typeText(m, "a@b.c")
	m.Update(tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	m.Update(tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	if m.Mode() != ModeReset {
		t.Fatalf("expected reset mode, got %v", m.Mode())
	}
	cmd := enter(m)
	if cmd == nil {
		t.Fatalf("reset should submit with just the email")
	}
	if msg := cmd().(SubmitMsg); msg.Mode != ModeReset || msg.Email != "a@b.c" || msg.Password != "" {
		t.Fatalf("unexpected submit %#v", msg)
	}
}

func TestInvalidEmail(t *testing.T) {
	m := newForm(ModeReset)
	typeText(m, "nope")
	if cmd := enter(m); cmd != nil {
		t.Fatalf("invalid email must not submit")
	}
}

func TestOAuthAndClose(t *testing.T) {
	m := newForm(ModeLogin)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl})
	if msg, ok := cmd().(OAuthMsg); !ok || msg.Provider != DefaultProvider {
		t.Fatalf("unexpected oauth message %#v", msg)
	}
	m.SetNotice("Open https://example.test/authorize")
	view, _ := m.View()
	if !strings.Contains(view, "https://example.test/authorize") {
		t.Fatalf("expected the notice in view")
	}
	next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if next != nil {
		t.Fatalf("esc should close")
	}
}
