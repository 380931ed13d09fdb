// Package auth contains the runners behind `iqevents auth`.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/backend"
	"tableflip.dev/iqevents/pkg/event"
	"tableflip.dev/iqevents/pkg/printers"
)

// Prompt reads a secret. The default reads from the terminal without echo.
type Prompt func(label string) (string, error)

// Login signs in with an email and password. Toasts report the outcome.
type Login struct {
	Controller *app.Controller
	Email      string
	Password   string
	Prompt     Prompt
}

func (l *Login) Do(ctx context.Context) error {
	email := strings.TrimSpace(l.Email)
	if email == "" {
		return errors.New("email is required")
	}
	password, err := secret(l.Password, l.Prompt, "Password: ")
	if err != nil {
		return err
	}
	_, err = l.Controller.Login(ctx, backend.Credentials{Email: email, Password: password})
	return err
}

// SignUp registers an account.
type SignUp struct {
	Controller *app.Controller
	Name       string
	Email      string
	Password   string
	Prompt     Prompt
}

func (s *SignUp) Do(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Email) == "" {
		return errors.New("name and email are required")
	}
	password, err := secret(s.Password, s.Prompt, "Choose a password: ")
	if err != nil {
		return err
	}
	_, err = s.Controller.SignUp(ctx, backend.SignUpRequest{
		Name:     strings.TrimSpace(s.Name),
		Email:    strings.TrimSpace(s.Email),
		Password: password,
	})
	return err
}

// Logout ends the stored session.
type Logout struct {
	Controller *app.Controller
}

func (l *Logout) Do(ctx context.Context) error {
	if l.Controller.CurrentUser() == nil {
		_, _ = fmt.Fprintln(color.Output, "Not signed in.")
		return nil
	}
	return l.Controller.Logout(ctx)
}

// Reset sends a password reset link.
type Reset struct {
	Controller *app.Controller
	Email      string
}

func (r *Reset) Do(ctx context.Context) error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	return r.Controller.ResetPassword(ctx, strings.TrimSpace(r.Email))
}

// OAuth prints the provider sign-in address to open in a browser.
type OAuth struct {
	Controller *app.Controller
	Provider   string
	Out        io.Writer
}

func (o *OAuth) Do(ctx context.Context) error {
	u, err := o.Controller.OAuthURL(o.Provider)
	if err != nil {
		return err
	}
	out := o.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, "Open this address in a browser to continue:")
	_, _ = fmt.Fprintln(out, u)
	return nil
}

// WhoAmI prints the signed in user.
type WhoAmI struct {
	Controller *app.Controller
	JSON       bool
	Out        io.Writer
}

type whoami struct {
	SignedIn bool        `json:"signedIn"`
	User     *event.User `json:"user,omitempty"`
}

func (w *WhoAmI) Do(ctx context.Context) error {
	u := w.Controller.CurrentUser()
	pp := printers.PrettyPrint{Out: w.Out}
	if w.JSON {
		return pp.JSON(whoami{SignedIn: u != nil, User: u})
	}
	if u == nil {
		pp.Title("Not signed in")
		return nil
	}
	pp.Title(u.Name)
	_, _ = fmt.Fprintf(w.out(), "id:     %s\navatar: %s\n", u.ID, u.AvatarURL)
	return nil
}

func (w *WhoAmI) out() io.Writer {
	if w.Out == nil {
		return color.Output
	}
	return w.Out
}

func secret(given string, prompt Prompt, label string) (string, error) {
	if given != "" {
		return given, nil
	}
	if prompt == nil {
		prompt = TerminalPrompt
	}
	s, err := prompt(label)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errors.New("password is required")
	}
	return s, nil
}

// TerminalPrompt reads a line from stdin, hiding it when stdin is a terminal.
func TerminalPrompt(label string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, label)
	fd := os.Stdin.Fd()
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
