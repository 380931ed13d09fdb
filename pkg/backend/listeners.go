package backend

import (
	"sync"

	"tableflip.dev/iqevents/pkg/event"
)

// Listeners is a registry of auth listeners shared by gateway implementations.
// Notify never holds the registry lock while calling out.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]AuthListener
}

// Add registers fn and returns an idempotent unsubscribe func.
func (l *Listeners) Add(fn AuthListener) func() {
	l.mu.Lock()
	if l.fns == nil {
		l.fns = make(map[int]AuthListener)
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// Len returns the number of registered listeners.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

// Notify delivers change to every registered listener.
func (l *Listeners) Notify(change AuthChange) {
	l.mu.Lock()
	fns := make([]AuthListener, 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(cloneChange(change))
	}
}

func cloneChange(c AuthChange) AuthChange {
	if c.User != nil {
		u := *c.User
		c.User = &u
	}
	return c
}

// UserPtr returns a pointer to a copy of u.
func UserPtr(u event.User) *event.User {
	return &u
}
