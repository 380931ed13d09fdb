package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/iqevents/pkg/backend/supabase"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
)

const (
	sessionKey = "auth-session"
	prefsKey   = "prefs-ui"
)

// Prefs are the user choices restored on the next start.
type Prefs struct {
	Language event.Language   `json:"language"`
	View     string           `json:"view,omitempty"`
	Filter   viewmodel.Filter `json:"filter"`
}

// Store keeps local client state on disk. It implements supabase.SessionStore.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

var _ supabase.SessionStore = (*Store)(nil)

// Load opens the diskv store under the configured base path.
func Load(cfg *Config) (*Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
		FilePerm:          0o600,
		PathPerm:          0o700,
	}), basePath: basePath}, nil
}

func (s *Store) readJSON(key string, v any) (bool, error) {
	if !s.d.Has(key) {
		return false, nil
	}
	data, err := s.d.Read(key)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

// LoadSession returns the stored session, or nil when there is none.
func (s *Store) LoadSession() (*supabase.Session, error) {
	var sess supabase.Session
	ok, err := s.readJSON(sessionKey, &sess)
	if err != nil || !ok {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) SaveSession(sess *supabase.Session) error {
	if sess == nil {
		return s.ClearSession()
	}
	return s.writeJSON(sessionKey, sess)
}

func (s *Store) ClearSession() error {
	if !s.d.Has(sessionKey) {
		return nil
	}
	return s.d.Erase(sessionKey)
}

// LoadPrefs returns the stored preferences, or the defaults.
func (s *Store) LoadPrefs() (Prefs, error) {
	p := Prefs{Language: event.English}
	if _, err := s.readJSON(prefsKey, &p); err != nil {
		return Prefs{Language: event.English}, err
	}
	lang, err := event.ParseLanguage(string(p.Language))
	if err != nil {
		lang = event.English
	}
	p.Language = lang
	return p, nil
}

func (s *Store) SavePrefs(p Prefs) error {
	return s.writeJSON(prefsKey, p)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
