package toast

import (
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	d       time.Duration
	fire    func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) interface{ Stop() bool } {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, fire: f}
	c.timers = append(c.timers, t)
	return t
}

func newQueue(t *testing.T) (*Queue, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	q := New(WithClock(clock.Now), WithAfterFunc(clock.AfterFunc))
	t.Cleanup(q.Close)
	return q, clock
}

func TestPublishSchedulesDismissal(t *testing.T) {
	q, clock := newQueue(t)

	got := q.Publish("Event bookmarked!", Success)
	if len(q.Toasts()) != 1 {
		t.Fatalf("expected one toast, got %d", len(q.Toasts()))
	}
	if len(clock.timers) != 1 || clock.timers[0].d != Lifetime {
		t.Fatalf("expected a %s timer, got %+v", Lifetime, clock.timers)
	}

	clock.timers[0].fire()
	if n := len(q.Toasts()); n != 0 {
		t.Fatalf("toast %d should be gone after its lifetime, %d left", got.ID, n)
	}
}

func TestIDsAreUniqueWithinSameMillisecond(t *testing.T) {
	q, _ := newQueue(t)
	a := q.Publish("one", Info)
	b := q.Publish("two", Info)
	c := q.Publish("three", Error)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Fatalf("ids collide: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestDismissBeforeTimer(t *testing.T) {
	q, clock := newQueue(t)
	a := q.Publish("one", Info)
	b := q.Publish("two", Info)

	q.Dismiss(a.ID)
	if !clock.timers[0].stopped {
		t.Fatalf("dismissing should stop the pending timer")
	}
	toasts := q.Toasts()
	if len(toasts) != 1 || toasts[0].ID != b.ID {
		t.Fatalf("unexpected toasts after dismiss: %+v", toasts)
	}

	// A late timer for an already dismissed toast is a no-op.
	clock.timers[0].fire()
	q.Dismiss(12345)
	if len(q.Toasts()) != 1 {
		t.Fatalf("expected the second toast to remain")
	}
}

func TestEventsReportVisibleSet(t *testing.T) {
	q, _ := newQueue(t)
	q.Publish("hello", Success)

	select {
	case change := <-q.Events():
		if len(change.Toasts) != 1 || change.Toasts[0].Message != "hello" {
			t.Fatalf("unexpected change: %+v", change)
		}
	default:
		t.Fatalf("expected a change event")
	}
}

func TestCloseStopsTimers(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	q := New(WithClock(clock.Now), WithAfterFunc(clock.AfterFunc))
	q.Publish("one", Info)
	q.Close()
	q.Close()

	if !clock.timers[0].stopped {
		t.Fatalf("close should stop timers")
	}
	if _, ok := <-drain(q.Events()); ok {
		t.Fatalf("events channel should be closed")
	}
	q.Publish("after close", Info)
	if len(q.Toasts()) != 0 {
		t.Fatalf("closed queue should not keep toasts")
	}
}

func drain(ch <-chan Change) <-chan Change {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return ch
			}
		default:
			return ch
		}
	}
}

func TestRealTimerDismisses(t *testing.T) {
	q := New(WithLifetime(10 * time.Millisecond))
	defer q.Close()
	q.Publish("short", Info)

	deadline := time.After(2 * time.Second)
	for len(q.Toasts()) > 0 {
		select {
		case <-deadline:
			t.Fatalf("toast was never dismissed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
