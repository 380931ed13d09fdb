package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/iqevents/pkg/backend/supabase"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/event/viewmodel"
)

func TestSessionRoundTrip(t *testing.T) {
	s, err := Load(&Config{Path: t.TempDir()})
	require.NoError(t, err)

	got, err := s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, got, "no session stored yet")

	want := &supabase.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		User:         event.User{ID: "u1", Name: "Layla"},
	}
	require.NoError(t, s.SaveSession(want))
	got, err = s.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.ClearSession())
	require.NoError(t, s.ClearSession())
	got, err = s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPrefsDefaultsAndRoundTrip(t *testing.T) {
	s, err := Load(&Config{Path: t.TempDir()})
	require.NoError(t, err)

	p, err := s.LoadPrefs()
	require.NoError(t, err)
	assert.Equal(t, event.English, p.Language)

	want := Prefs{
		Language: event.Kurdish,
		View:     "bookmarks",
		Filter:   viewmodel.Filter{Query: "jazz", Month: time.June, City: "city-erbil"},
	}
	require.NoError(t, s.SavePrefs(want))
	p, err = s.LoadPrefs()
	require.NoError(t, err)
	assert.Equal(t, want, p)
}

func TestPrefsUnknownLanguageFallsBack(t *testing.T) {
	s, err := Load(&Config{Path: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, s.SavePrefs(Prefs{Language: "fr"}))

	p, err := s.LoadPrefs()
	require.NoError(t, err)
	assert.Equal(t, event.English, p.Language)
}

func TestLoadRequiresPath(t *testing.T) {
	_, err := Load(&Config{})
	assert.Error(t, err)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "supabase:\n  url: https://demo.supabase.co\nfeatured_limit: 6\nlanguage: ar\npath: " + filepath.Join(dir, "data") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".iqevents.yaml"), []byte(yaml), 0o600))

	t.Setenv("IQEVENTS_CONFIG_PATH", dir)
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("IQEVENTS_HTTP_TIMEOUT", "5s")

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://demo.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon", cfg.SupabaseAnonKey)
	assert.True(t, cfg.BackendConfigured())
	assert.Equal(t, "gem", cfg.AIKey)
	assert.Equal(t, 6, cfg.FeaturedLimit)
	assert.Equal(t, "ar", cfg.Language)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.BasePath())
	assert.Equal(t, filepath.Join(dir, "data", "iqevents.log"), cfg.LogFile)
	assert.Equal(t, "gemini-2.5-flash", cfg.TextModel)
}
