package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/toast"
	"tableflip.dev/iqevents/pkg/tui/events"
)

// Login signs in. Identity and bookmarks follow through the auth listener.
func (c *Controller) Login(ctx context.Context, creds backend.Credentials) (event.User, error) {
	u, err := c.gateway.Login(ctx, creds)
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		c.toasts.Publish(failureText(err, "Login failed. Please check your credentials."), toast.Error)
		return event.User{}, err
	}
	c.toasts.Publish(fmt.Sprintf("Welcome back, %s!", u.Name), toast.Success)
	return u, nil
}

// SignUp registers a new account.
func (c *Controller) SignUp(ctx context.Context, req backend.SignUpRequest) (event.User, error) {
	u, err := c.gateway.SignUp(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("sign up failed")
		c.toasts.Publish(failureText(err, "Sign up failed. Please try again."), toast.Error)
		return event.User{}, err
	}
	c.toasts.Publish(fmt.Sprintf("Welcome, %s! Please check your email to verify your account.", u.Name), toast.Success)
	return u, nil
}

// Logout signs out and leaves the views that need a user.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.gateway.Logout(ctx); err != nil {
		log.Error().Err(err).Msg("logout failed")
		c.toasts.Publish("Failed to log out.", toast.Error)
		return err
	}
	c.mu.Lock()
	reset := c.view.NeedsLogin()
	if reset {
		c.view = ViewGrid
	}
	lang := c.lang
	c.mu.Unlock()
	if reset {
		c.savePrefs()
		c.emit(events.ViewChangeMsg{Component: c.component, View: string(ViewGrid), Language: lang})
	}
	c.toasts.Publish("You have been logged out.", toast.Info)
	return nil
}

// ResetPassword asks the backend to send a reset link.
func (c *Controller) ResetPassword(ctx context.Context, email string) error {
	if err := c.gateway.ResetPassword(ctx, email); err != nil {
		log.Error().Err(err).Msg("password reset failed")
		c.toasts.Publish(failureText(err, "Password reset failed."), toast.Error)
		return err
	}
	c.toasts.Publish("Password reset link sent!", toast.Info)
	return nil
}

// OAuthURL returns the provider sign-in URL to open in a browser.
func (c *Controller) OAuthURL(provider string) (string, error) {
	u, err := c.gateway.SignInWithOAuth(provider)
	if err != nil {
		c.toasts.Publish(failureText(err, "OAuth sign in failed."), toast.Error)
		return "", err
	}
	return u, nil
}

// failureText prefers the backend's own message over the generic fallback.
func failureText(err error, fallback string) string {
	var be *backend.Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
