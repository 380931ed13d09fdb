package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is the resolved client configuration.
type Config struct {
	Path string `json:"path"`

	SupabaseURL     string        `json:"supabaseUrl"`
	SupabaseAnonKey string        `json:"-"`
	RedirectURL     string        `json:"redirectUrl,omitempty"`
	FeaturedLimit   int           `json:"featuredLimit"`
	HTTPTimeout     time.Duration `json:"httpTimeout"`

	AIKey      string `json:"-"`
	TextModel  string `json:"textModel"`
	ImageModel string `json:"imageModel"`

	LogFile  string `json:"logFile"`
	LogLevel string `json:"logLevel"`
	Language string `json:"language"`
	Demo     bool   `json:"demo"`
}

// BasePath is where local state (session, preferences) is kept.
func (c *Config) BasePath() string {
	return c.Path
}

// BackendConfigured reports whether both Supabase settings are present.
func (c *Config) BackendConfigured() bool {
	return strings.TrimSpace(c.SupabaseURL) != "" && strings.TrimSpace(c.SupabaseAnonKey) != ""
}

// LoadConfig reads .env, the .iqevents config file and the environment into
// the global viper instance, so flags bound by commands take part too.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	v.SetDefault("path", "~/.iqevents")
	v.SetDefault("ai.text_model", "gemini-2.5-flash")
	v.SetDefault("ai.image_model", "imagen-4.0-generate-001")
	v.SetDefault("log.level", "info")
	v.SetDefault("language", "en")
	v.SetDefault("featured_limit", 4)
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("redirect_url", "http://localhost:3000")

	v.SetConfigName(".iqevents") // .yaml is implicit
	v.SetEnvPrefix("IQEVENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The unprefixed names are the ones the hosted services document.
	_ = v.BindEnv("supabase.url", "SUPABASE_URL")
	_ = v.BindEnv("supabase.anon_key", "SUPABASE_ANON_KEY")
	_ = v.BindEnv("ai.api_key", "API_KEY")

	if override := os.Getenv("IQEVENTS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	cfg := &Config{
		Path:            path,
		SupabaseURL:     v.GetString("supabase.url"),
		SupabaseAnonKey: v.GetString("supabase.anon_key"),
		RedirectURL:     v.GetString("redirect_url"),
		FeaturedLimit:   v.GetInt("featured_limit"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		AIKey:           v.GetString("ai.api_key"),
		TextModel:       v.GetString("ai.text_model"),
		ImageModel:      v.GetString("ai.image_model"),
		LogFile:         v.GetString("log.file"),
		LogLevel:        v.GetString("log.level"),
		Language:        v.GetString("language"),
		Demo:            v.GetBool("demo"),
	}
	if cfg.AIKey == "" {
		cfg.AIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.Path, "iqevents.log")
	} else if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
		return nil, fmt.Errorf("store: expand log file: %w", err)
	}
	return cfg, nil
}
