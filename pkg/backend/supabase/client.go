// Package supabase implements the remote data gateway on top of a hosted
// Supabase project: PostgREST for tables and GoTrue for authentication.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
)

const (
	restPath = "/rest/v1/"
	authPath = "/auth/v1/"

	defaultFeaturedLimit = 4
	defaultTimeout       = 30 * time.Second
	refreshLeeway        = 30 * time.Second
)

// Session is the persisted GoTrue session.
type Session struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    time.Time  `json:"expires_at"`
	User         event.User `json:"user"`
}

// SessionStore persists the session between runs.
type SessionStore interface {
	LoadSession() (*Session, error)
	SaveSession(s *Session) error
	ClearSession() error
}

// Config configures a Client.
type Config struct {
	URL           string
	AnonKey       string
	RedirectURL   string
	FeaturedLimit int
	HTTPClient    *http.Client
	Sessions      SessionStore
	Now           func() time.Time
}

// Client talks to one Supabase project.
type Client struct {
	base          *url.URL
	anonKey       string
	redirectURL   string
	featuredLimit int
	httpClient    *http.Client
	sessions      SessionStore
	now           func() time.Time

	mu        sync.Mutex
	session   *Session
	refreshes singleflight.Group

	listeners backend.Listeners
}

var _ backend.Gateway = (*Client)(nil)

// New validates cfg and returns a Client. A missing URL or key yields
// backend.ErrNotConfigured.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" || strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, backend.ErrNotConfigured
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.URL), "/"))
	if err != nil {
		return nil, fmt.Errorf("supabase: invalid url %q: %w", cfg.URL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("supabase: invalid url %q", cfg.URL)
	}
	c := &Client{
		base:          base,
		anonKey:       strings.TrimSpace(cfg.AnonKey),
		redirectURL:   cfg.RedirectURL,
		featuredLimit: cfg.FeaturedLimit,
		httpClient:    cfg.HTTPClient,
		sessions:      cfg.Sessions,
		now:           cfg.Now,
	}
	if c.featuredLimit <= 0 {
		c.featuredLimit = defaultFeaturedLimit
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	prefer string
	token  string
}

// errorBody covers both PostgREST and GoTrue error payloads.
type errorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
}

func (b errorBody) message() string {
	for _, s := range []string{b.Message, b.Msg, b.ErrorDescription, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (b errorBody) code() string {
	if b.ErrorCode != "" {
		return b.ErrorCode
	}
	switch v := b.Code.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one HTTP exchange and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return &backend.Error{Op: r.op, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.endpoint(r.path, r.query)
	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return &backend.Error{Op: r.op, Message: "build request", Err: err}
	}
	token := r.token
	if token == "" {
		token = c.anonKey
	}
	requestID := uuid.NewString()
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Info", "iqevents")
	req.Header.Set("X-Request-Id", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	log.Debug().
		Str("op", r.op).
		Str("method", r.method).
		Str("path", r.path).
		Str("request_id", requestID).
		Msg("supabase request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("op", r.op).Str("request_id", requestID).Msg("supabase request failed")
		return &backend.Error{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &backend.Error{Op: r.op, Status: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.message()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		log.Error().
			Str("op", r.op).
			Int("status", resp.StatusCode).
			Str("code", eb.code()).
			Str("request_id", requestID).
			Msg(msg)
		return &backend.Error{Op: r.op, Status: resp.StatusCode, Code: eb.code(), Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &backend.Error{Op: r.op, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

func eq(v string) string {
	return "eq." + v
}
