package toasts

import (
	"strings"
	"testing"

	"tableflip.dev/iqevents/pkg/toast"
	"tableflip.dev/iqevents/pkg/tui/theme"
)

func TestStackShowsNewestFirst(t *testing.T) {
	m := New(theme.Default().Toast)
	m.SetSize(40, 20)
	m.Update(ChangeMsg{Toasts: []toast.Toast{
		{ID: 1, Message: "Event bookmarked!", Severity: toast.Success},
		{ID: 2, Message: "Failed to load event data.", Severity: toast.Error},
	}})
	if m.Len() != 2 {
		t.Fatalf("expected 2 toasts, got %d", m.Len())
	}
	if newest, _ := m.Newest(); newest.ID != 2 {
		t.Fatalf("expected newest id 2, got %d", newest.ID)
	}
	view := m.View()
	errAt := strings.Index(view, "! Failed")
	okAt := strings.Index(view, "✓ Event bookmarked!")
	if errAt < 0 || okAt < 0 || errAt > okAt {
		t.Fatalf("expected newest on top:\n%s", view)
	}
}

func TestEmptyChangeClears(t *testing.T) {
	m := New(theme.Default().Toast)
	m.Update(ChangeMsg{Toasts: []toast.Toast{{ID: 1, Message: "hi"}}})
	m.Update(ChangeMsg{})
	if m.Len() != 0 || m.View() != "" {
		t.Fatalf("expected no toasts")
	}
	if _, ok := m.Newest(); ok {
		t.Fatalf("Newest should report none")
	}
}

func TestWaitForDeliversAndStops(t *testing.T) {
	ch := make(chan toast.Change, 1)
	ch <- toast.Change{Toasts: []toast.Toast{{ID: 7, Message: "Review submitted successfully!"}}}
	msg, ok := WaitFor(ch)().(ChangeMsg)
	if !ok || len(msg.Toasts) != 1 || msg.Toasts[0].ID != 7 {
		t.Fatalf("unexpected message %#v", msg)
	}
	if msg.Describe() != "Review submitted successfully!" {
		t.Fatalf("unexpected describe %q", msg.Describe())
	}
	close(ch)
	if got := WaitFor(ch)(); got != nil {
		t.Fatalf("closed channel should yield nil, got %#v", got)
	}
	if WaitFor(nil) != nil {
		t.Fatalf("nil channel should yield no command")
	}
}
