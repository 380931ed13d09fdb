package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// EventType describes what changed on disk.
type EventType int

const (
	// EventSessionChanged means another process signed in or out.
	EventSessionChanged EventType = iota
	// EventPrefsChanged means the stored preferences were rewritten.
	EventPrefsChanged
)

// Event is emitted by Watch when the stored state changes.
type Event struct {
	Type EventType
}

// Watch streams change events until ctx is cancelled. The channel is closed
// once ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	if s.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}

	dirs := []string{s.basePath}
	for _, key := range []string{sessionKey, prefsKey} {
		dir := filepath.Join(append([]string{s.basePath}, keyToPathTransform(key).Path...)...)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: ensure %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("store: watcher close")
			}
		})
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 8)
	go s.pump(ctx, watcher, events, closeWatcher)
	return events, nil
}

// settle is how long pump waits for a burst of writes to end. diskv writes
// through a temp file and a rename, so one save is several fs events.
const settle = 100 * time.Millisecond

// pump turns raw fs events into at most one Event per type per burst.
func (s *Store) pump(ctx context.Context, w *fsnotify.Watcher, out chan<- Event, closeWatcher func()) {
	defer close(out)
	defer closeWatcher()

	pending := map[EventType]bool{}
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Debug().Err(err).Msg("store: watcher error")
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			typ, ok := s.eventForPath(evt.Name)
			if !ok {
				continue
			}
			pending[typ] = true
			if fire == nil {
				timer = time.NewTimer(settle)
				fire = timer.C
			}
		case <-fire:
			fire = nil
			for _, typ := range []EventType{EventSessionChanged, EventPrefsChanged} {
				if !pending[typ] {
					continue
				}
				delete(pending, typ)
				// Consumers re-read the whole state, so a full buffer can
				// drop this one.
				select {
				case out <- Event{Type: typ}:
				default:
				}
			}
		}
	}
}

// eventForPath maps a diskv file path back to the key it stores.
func (s *Store) eventForPath(path string) (EventType, bool) {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || rel == "." {
		return 0, false
	}
	key := strings.Join(strings.Split(rel, string(os.PathSeparator)), "-")
	switch key {
	case sessionKey:
		return EventSessionChanged, true
	case prefsKey:
		return EventPrefsChanged, true
	}
	return 0, false
}
