// Package backend is the remote data gateway. It hides the hosted
// backend-as-a-service behind typed operations on the client domain model.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/iqevents/pkg/event"
)

var (
	// ErrAuthRequired is returned by operations that need a signed in user.
	// It is checked before any network call.
	ErrAuthRequired = errors.New("backend: authentication required")
	// ErrNotConfigured is returned when the backend URL or key is missing.
	ErrNotConfigured = errors.New("backend: SUPABASE_URL and SUPABASE_ANON_KEY must be set")
	// ErrNotFound marks a write that matched no row.
	ErrNotFound = errors.New("backend: not found")
)

// Error is a failure reported by, or on the way to, the remote backend.
type Error struct {
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("backend: ")
	b.WriteString(e.Op)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// AuthEventType names an authentication state transition.
type AuthEventType string

const (
	InitialSession AuthEventType = "INITIAL_SESSION"
	SignedIn       AuthEventType = "SIGNED_IN"
	SignedOut      AuthEventType = "SIGNED_OUT"
	TokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthChange is delivered to auth listeners. User is nil when anonymous.
type AuthChange struct {
	Type AuthEventType
	User *event.User
}

// AuthListener receives auth state changes.
type AuthListener func(AuthChange)

// Credentials are an email and password pair.
type Credentials struct {
	Email    string
	Password string
}

// SignUpRequest carries credentials plus the public display name.
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
}

// Events covers reading and writing event listings and reviews.
type Events interface {
	FetchEvents(ctx context.Context) ([]event.Event, error)
	FetchFeaturedEvents(ctx context.Context) ([]event.Event, error)
	// FetchUser returns found=false, not an error, when no profile exists.
	FetchUser(ctx context.Context, id string) (event.User, bool, error)
	CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error)
	UpdateEvent(ctx context.Context, id string, draft event.Draft) (event.Event, error)
	AddReview(ctx context.Context, eventID string, draft event.ReviewDraft) (event.Review, error)
}

// Bookmarks covers the signed in user's bookmark set.
type Bookmarks interface {
	// BookmarkedEventIDs returns an empty list without error when anonymous.
	BookmarkedEventIDs(ctx context.Context) ([]string, error)
	ToggleBookmark(ctx context.Context, eventID string) error
}

// Auth covers sign in, sign out and auth state notifications.
type Auth interface {
	Login(ctx context.Context, creds Credentials) (event.User, error)
	SignUp(ctx context.Context, req SignUpRequest) (event.User, error)
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	// SignInWithOAuth returns the provider authorization URL to open.
	SignInWithOAuth(provider string) (string, error)
	CurrentUser() *event.User
	// OnAuthStateChange registers fn and immediately delivers the current
	// state as INITIAL_SESSION. The returned func unsubscribes; calling it
	// more than once is a no-op.
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
}

// Gateway is the full remote data surface used by the application.
type Gateway interface {
	Events
	Bookmarks
	Auth
}
