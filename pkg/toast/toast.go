// Package toast is the notification channel: short lived messages that
// dismiss themselves after a fixed lifetime.
package toast

import (
	"sync"
	"time"
)

// Lifetime is how long a toast stays visible unless dismissed first.
const Lifetime = 5 * time.Second

// Severity classifies a toast.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

// Toast is a single notification. IDs are unique within a Queue.
type Toast struct {
	ID       int64
	Message  string
	Severity Severity
	Created  time.Time
}

// Publisher is anything toasts can be sent to.
type Publisher interface {
	Publish(message string, severity Severity) Toast
}

// Change is delivered on the Events channel whenever the visible set changes.
type Change struct {
	Toasts []Toast
}

type timer interface {
	Stop() bool
}

// Queue holds the visible toasts. It is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	toasts  []Toast
	timers  map[int64]timer
	lastID  int64
	closed  bool
	eventCh chan Change

	lifetime  time.Duration
	now       func() time.Time
	afterFunc func(time.Duration, func()) timer
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock overrides the clock used to stamp and number toasts.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithAfterFunc overrides how dismissal timers are scheduled.
func WithAfterFunc(fn func(time.Duration, func()) interface{ Stop() bool }) Option {
	return func(q *Queue) {
		q.afterFunc = func(d time.Duration, f func()) timer { return fn(d, f) }
	}
}

// WithLifetime overrides Lifetime.
func WithLifetime(d time.Duration) Option {
	return func(q *Queue) { q.lifetime = d }
}

// New creates an empty Queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		timers:   map[int64]timer{},
		eventCh:  make(chan Change, 16),
		lifetime: Lifetime,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Publish shows a toast and schedules its dismissal.
func (q *Queue) Publish(message string, severity Severity) Toast {
	q.mu.Lock()
	now := q.now()
	id := now.UnixMilli()
	if id <= q.lastID {
		id = q.lastID + 1
	}
	q.lastID = id
	t := Toast{ID: id, Message: message, Severity: severity, Created: now}
	if q.closed {
		q.mu.Unlock()
		return t
	}
	q.toasts = append(q.toasts, t)
	q.timers[id] = q.afterFunc(q.lifetime, func() { q.Dismiss(id) })
	q.emitLocked()
	q.mu.Unlock()
	return t
}

// Dismiss removes a toast. Unknown ids are ignored.
func (q *Queue) Dismiss(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx := -1
	for i, t := range q.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if tm, ok := q.timers[id]; ok {
		tm.Stop()
		delete(q.timers, id)
	}
	q.toasts = append(q.toasts[:idx:idx], q.toasts[idx+1:]...)
	q.emitLocked()
}

// Toasts returns the visible toasts, oldest first.
func (q *Queue) Toasts() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.toasts...)
}

// Events streams visible-set changes. Slow readers miss intermediate states.
func (q *Queue) Events() <-chan Change {
	return q.eventCh
}

// Close stops every pending timer and closes the Events channel.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for id, tm := range q.timers {
		tm.Stop()
		delete(q.timers, id)
	}
	q.toasts = nil
	close(q.eventCh)
}

func (q *Queue) emitLocked() {
	if q.closed {
		return
	}
	msg := Change{Toasts: append([]Toast(nil), q.toasts...)}
	select {
	case q.eventCh <- msg:
	default:
	}
}
