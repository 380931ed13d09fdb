package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
)

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
	User         *authUser `json:"user"`
}

// signUpResponse is a token response when the project auto-confirms, or a
// bare user object when email confirmation is pending.
type signUpResponse struct {
	tokenResponse
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

func (c *Client) expiresAt(tr tokenResponse) time.Time {
	if tr.ExpiresAt > 0 {
		return time.Unix(tr.ExpiresAt, 0)
	}
	if tr.ExpiresIn > 0 {
		return c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return c.now().Add(time.Hour)
}

func (c *Client) expiring(s *Session) bool {
	return !s.ExpiresAt.IsZero() && !c.now().Add(refreshLeeway).Before(s.ExpiresAt)
}

// Restore loads a persisted session and refreshes it when it has expired.
// A session whose refresh token is rejected is discarded; one that could not
// be refreshed for lack of a connection is kept for a later attempt.
func (c *Client) Restore(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}
	s, err := c.sessions.LoadSession()
	if err != nil {
		return fmt.Errorf("supabase: load session: %w", err)
	}
	if s == nil || s.AccessToken == "" {
		return nil
	}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	if c.expiring(s) {
		if _, err := c.refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("stored session could not be refreshed")
		}
	}
	return nil
}

// ensureSession returns the current session, refreshing it when needed.
func (c *Client) ensureSession(ctx context.Context) (Session, error) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return Session{}, backend.ErrAuthRequired
	}
	if c.expiring(s) {
		return c.refresh(ctx)
	}
	return *s, nil
}

// refresh exchanges the refresh token for a new session. Callers racing on
// the same token share one exchange, since the backend rotates refresh tokens
// and rejects a second use.
func (c *Client) refresh(ctx context.Context) (Session, error) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil || s.RefreshToken == "" {
		c.dropSession()
		return Session{}, backend.ErrAuthRequired
	}
	if !c.expiring(s) {
		return *s, nil
	}
	v, err, _ := c.refreshes.Do(s.RefreshToken, func() (any, error) {
		return c.exchange(context.WithoutCancel(ctx), s)
	})
	if err != nil {
		return Session{}, err
	}
	return v.(Session), nil
}

func (c *Client) exchange(ctx context.Context, s *Session) (Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		op:     "refreshSession",
		method: http.MethodPost,
		path:   authPath + "token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": s.RefreshToken},
	}, &tr)
	if err != nil {
		var be *backend.Error
		if errors.As(err, &be) && be.Status >= 400 && be.Status < 500 {
			c.dropSession()
			return Session{}, fmt.Errorf("%w: %v", backend.ErrAuthRequired, err)
		}
		return Session{}, err
	}

	next := &Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    c.expiresAt(tr),
		User:         s.User,
	}
	c.setSession(next)
	c.listeners.Notify(backend.AuthChange{Type: backend.TokenRefreshed, User: backend.UserPtr(next.User)})
	return *next, nil
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	if c.sessions != nil {
		if err := c.sessions.SaveSession(s); err != nil {
			log.Warn().Err(err).Msg("failed to persist session")
		}
	}
}

// dropSession forgets the local session and announces SIGNED_OUT when one existed.
func (c *Client) dropSession() {
	c.mu.Lock()
	had := c.session != nil
	c.session = nil
	c.mu.Unlock()
	if c.sessions != nil {
		if err := c.sessions.ClearSession(); err != nil {
			log.Warn().Err(err).Msg("failed to clear session")
		}
	}
	if had {
		c.listeners.Notify(backend.AuthChange{Type: backend.SignedOut})
	}
}

// Login signs in with email and password. The public profile, when present,
// takes precedence over the auth metadata.
func (c *Client) Login(ctx context.Context, creds backend.Credentials) (event.User, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   authPath + "token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": strings.TrimSpace(creds.Email), "password": creds.Password},
	}, &tr)
	if err != nil {
		return event.User{}, err
	}
	if tr.User == nil || tr.User.ID == "" {
		return event.User{}, &backend.Error{Op: "login", Message: "login succeeded but no user data was returned"}
	}

	user := userFromAuth(*tr.User)
	profile, found, err := c.fetchUser(ctx, tr.User.ID, tr.AccessToken)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("user_id", tr.User.ID).Msg("profile lookup failed, using auth metadata")
	case found:
		user = profile
	}

	c.setSession(&Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    c.expiresAt(tr),
		User:         user,
	})
	c.listeners.Notify(backend.AuthChange{Type: backend.SignedIn, User: backend.UserPtr(user)})
	return user, nil
}

// SignUp registers a new account with the display name stored as metadata.
// When the project requires email confirmation no session is started.
func (c *Client) SignUp(ctx context.Context, req backend.SignUpRequest) (event.User, error) {
	var resp signUpResponse
	err := c.do(ctx, request{
		op:     "signUp",
		method: http.MethodPost,
		path:   authPath + "signup",
		body: map[string]any{
			"email":    strings.TrimSpace(req.Email),
			"password": req.Password,
			"data":     map[string]string{"name": req.Name},
		},
	}, &resp)
	if err != nil {
		return event.User{}, err
	}

	au := authUser{ID: resp.ID, Email: resp.Email}
	au.UserMetadata.Name = resp.UserMetadata.Name
	au.UserMetadata.AvatarURL = resp.UserMetadata.AvatarURL
	if resp.User != nil {
		au = *resp.User
	}
	if au.ID == "" {
		return event.User{}, &backend.Error{Op: "signUp", Message: "signup succeeded but no user data was returned"}
	}
	user := event.NewUser(au.ID,
		[]string{req.Name, au.UserMetadata.Name},
		[]string{au.UserMetadata.AvatarURL})

	if resp.AccessToken != "" {
		c.setSession(&Session{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresAt:    c.expiresAt(resp.tokenResponse),
			User:         user,
		})
		c.listeners.Notify(backend.AuthChange{Type: backend.SignedIn, User: backend.UserPtr(user)})
	}
	return user, nil
}

// Logout revokes the session remotely and forgets it locally. A token the
// server no longer recognises still signs the user out.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return nil
	}
	err := c.do(ctx, request{
		op:     "logout",
		method: http.MethodPost,
		path:   authPath + "logout",
		token:  s.AccessToken,
	}, nil)
	var be *backend.Error
	if err != nil && !(errors.As(err, &be) && (be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden || be.Status == http.StatusNotFound)) {
		return err
	}
	c.dropSession()
	return nil
}

// ResetPassword asks the backend to email a password reset link.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &backend.Error{Op: "resetPassword", Message: "email is required"}
	}
	q := url.Values{}
	if c.redirectURL != "" {
		q.Set("redirect_to", c.redirectURL)
	}
	return c.do(ctx, request{
		op:     "resetPassword",
		method: http.MethodPost,
		path:   authPath + "recover",
		query:  q,
		body:   map[string]string{"email": email},
	}, nil)
}

// SignInWithOAuth returns the provider authorization URL.
func (c *Client) SignInWithOAuth(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "", &backend.Error{Op: "signInWithOAuth", Message: "provider is required"}
	}
	q := url.Values{"provider": {provider}}
	if c.redirectURL != "" {
		q.Set("redirect_to", c.redirectURL)
	}
	return c.endpoint(authPath+"authorize", q), nil
}

// CurrentUser returns the signed in user or nil.
func (c *Client) CurrentUser() *event.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return backend.UserPtr(c.session.User)
}

// OnAuthStateChange registers fn and delivers INITIAL_SESSION to it.
func (c *Client) OnAuthStateChange(fn backend.AuthListener) func() {
	unsubscribe := c.listeners.Add(fn)
	fn(backend.AuthChange{Type: backend.InitialSession, User: c.CurrentUser()})
	return unsubscribe
}

// ReloadSession re-reads the persisted session after another process changed
// it, and announces a sign in or sign out when the identity differs.
func (c *Client) ReloadSession() error {
	if c.sessions == nil {
		return nil
	}
	s, err := c.sessions.LoadSession()
	if err != nil {
		return fmt.Errorf("supabase: load session: %w", err)
	}
	if s != nil && s.AccessToken == "" {
		s = nil
	}

	c.mu.Lock()
	prev := c.session
	c.session = s
	c.mu.Unlock()

	switch {
	case prev != nil && s == nil:
		c.listeners.Notify(backend.AuthChange{Type: backend.SignedOut})
	case s != nil && (prev == nil || prev.User.ID != s.User.ID):
		c.listeners.Notify(backend.AuthChange{Type: backend.SignedIn, User: backend.UserPtr(s.User)})
	}
	return nil
}
