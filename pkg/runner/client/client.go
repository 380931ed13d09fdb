// Package client assembles configuration, local state and the gateways into
// an application controller the commands can drive.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/backend/memory"
	"tableflip.dev/iqevents/pkg/backend/supabase"
	"tableflip.dev/iqevents/pkg/logging"
	"tableflip.dev/iqevents/pkg/store"
	"tableflip.dev/iqevents/pkg/toast"
)

// Options controls how Open builds a Client.
type Options struct {
	// Config is loaded from the environment when nil.
	Config *store.Config
	// Demo forces the seeded in-memory backend.
	Demo bool
	// LogToFile sends logs to the configured log file, for the TUI.
	LogToFile bool
	// Toasts receives notifications. Defaults to a stderr printer.
	Toasts toast.Publisher
	// Gateway replaces the configured backend, for tests.
	Gateway backend.Gateway
	// Assistant replaces the configured assistant, for tests.
	Assistant app.Assistant
}

// Client holds everything a command needs. Close releases it.
type Client struct {
	Config     *store.Config
	Store      *store.Store
	Gateway    backend.Gateway
	Controller *app.Controller

	supabase *supabase.Client
	demo     bool
	closers  []io.Closer
}

// Open resolves configuration and wires the controller. It does not load any
// events: call Start for that.
func Open(ctx context.Context, opts Options) (*Client, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, err
		}
	}

	c := &Client{Config: cfg}
	if opts.LogToFile {
		closer, err := logging.SetupFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, closer)
	} else {
		logging.Setup(cfg.LogLevel)
	}

	st, err := store.Load(cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store = st

	if err := c.openGateway(ctx, opts); err != nil {
		_ = c.Close()
		return nil, err
	}

	ai := opts.Assistant
	if ai == nil {
		a, err := assistant.NewFromConfig(ctx, assistant.Config{
			APIKey:     cfg.AIKey,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
		})
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		ai = a
	}

	toasts := opts.Toasts
	if toasts == nil {
		toasts = &toast.Printer{}
	}
	c.Controller = app.New(c.Gateway,
		app.WithAssistant(ai),
		app.WithToasts(toasts),
		app.WithPrefs(st),
	)
	return c, nil
}

func (c *Client) openGateway(ctx context.Context, opts Options) error {
	if opts.Gateway != nil {
		c.Gateway = opts.Gateway
		return nil
	}
	cfg := c.Config
	if opts.Demo || cfg.Demo {
		c.useDemo()
		return nil
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	sb, err := supabase.New(supabase.Config{
		URL:           cfg.SupabaseURL,
		AnonKey:       cfg.SupabaseAnonKey,
		RedirectURL:   cfg.RedirectURL,
		FeaturedLimit: cfg.FeaturedLimit,
		HTTPClient:    &http.Client{Timeout: timeout},
		Sessions:      c.Store,
	})
	if errors.Is(err, backend.ErrNotConfigured) {
		log.Warn().Msg("SUPABASE_URL and SUPABASE_ANON_KEY are not set, using the demo backend")
		c.useDemo()
		return nil
	}
	if err != nil {
		return err
	}
	if err := sb.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore the stored session")
	}
	c.supabase = sb
	c.Gateway = sb
	return nil
}

func (c *Client) useDemo() {
	c.demo = true
	c.Gateway = memory.NewDemo(time.Now())
}

// Demo reports whether the seeded in-memory backend is in use.
func (c *Client) Demo() bool { return c.demo }

// Start subscribes the controller and loads the events.
func (c *Client) Start(ctx context.Context) error {
	if err := c.Controller.Start(ctx); err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	return nil
}

// Watch reports changes another process makes to the stored session.
func (c *Client) Watch(ctx context.Context) (<-chan store.Event, error) {
	return c.Store.Watch(ctx)
}

// ReloadSession picks up a session written by another process. It is a no-op
// for the demo backend, whose sessions live in memory.
func (c *Client) ReloadSession() error {
	if c.supabase == nil {
		return nil
	}
	return c.supabase.ReloadSession()
}

// Close releases the controller subscription and any open log file.
func (c *Client) Close() error {
	if c.Controller != nil {
		c.Controller.Close()
	}
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
