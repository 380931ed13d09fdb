package eventviewer

import (
	"strings"
	"testing"
	"time"
)

func TestAppendNewestFirstAndCapped(t *testing.T) {
	m := NewModel(2)
	m.SetSize(60, 8)
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	m.Append(Entry{Timestamp: base, Source: "app", Summary: "LoadedMsg"})
	m.Append(Entry{Timestamp: base.Add(time.Second), Source: "app", Summary: "BookmarkChangeMsg", Detail: `event:"Nowruz"`})
	m.Append(Entry{Timestamp: base.Add(2 * time.Second), Summary: "KeyPressMsg", Level: LevelWarn})

	if m.Len() != 2 {
		t.Fatalf("expected the log capped at 2, got %d", m.Len())
	}
	view := m.View()
	if strings.Contains(view, "LoadedMsg") {
		t.Fatalf("oldest entry should be dropped:\n%s", view)
	}
	first := strings.Index(view, "KeyPressMsg")
	second := strings.Index(view, "BookmarkChangeMsg")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected newest first:\n%s", view)
	}
	if !strings.Contains(view, "[tea]") || !strings.Contains(view, "Debug log (2)") {
		t.Fatalf("expected default source and header:\n%s", view)
	}
}

func TestClear(t *testing.T) {
	m := NewModel(0)
	m.SetSize(40, 5)
	m.Append(Entry{Summary: "x"})
	m.Clear()
	if m.Len() != 0 || !strings.Contains(m.View(), "No events yet") {
		t.Fatalf("expected an empty log")
	}
}

func TestRepeatsFoldIntoOneRow(t *testing.T) {
	m := NewModel(10)
	m.SetSize(60, 8)
	for i := 0; i < 3; i++ {
		m.Append(Entry{Source: "carousel", Summary: "MouseMotionMsg"})
	}
	m.Append(Entry{Source: "app", Summary: "LoadedMsg", Detail: "err=offline", Level: LevelError})

	if m.Len() != 2 {
		t.Fatalf("expected two rows, got %d", m.Len())
	}
	view := m.View()
	if !strings.Contains(view, "MouseMotionMsg ×3") {
		t.Fatalf("expected a folded row:\n%s", view)
	}
	if !strings.Contains(view, "0 warn · 1 err") {
		t.Fatalf("expected the error count in the header:\n%s", view)
	}
}
