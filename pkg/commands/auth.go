package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/commands/options"
	"tableflip.dev/iqevents/pkg/runner/auth"
	"tableflip.dev/iqevents/pkg/runner/client"
)

func addAuth(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "sign in, sign up and manage the stored session",
	}

	addLogin(cmd)
	addSignUp(cmd)
	addLogout(cmd)
	addResetPassword(cmd)
	addOAuth(cmd)
	addWhoAmI(cmd)

	topLevel.AddCommand(cmd)
}

func addLogin(parent *cobra.Command) {
	email := ""
	password := ""

	cmd := &cobra.Command{
		Use:   "login",
		Short: "sign in with email and password",
		Long: `Sign in with email and password. Without --password the password is
read from the terminal without echo. The session is stored so later commands
and the ui stay signed in.`,
		Example: `
iqevents auth login --email you@example.com
iqevents auth login --demo --email demo@iqevents.app --password demo-password
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, true, func(ctx context.Context, c *client.Client) error {
				l := auth.Login{Controller: c.Controller, Email: email, Password: password}
				return l.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email.")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password. Prompted for when empty.")
	_ = cmd.MarkFlagRequired("email")

	parent.AddCommand(cmd)
}

func addSignUp(parent *cobra.Command) {
	name := ""
	email := ""
	password := ""

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "create an account",
		Example: `
iqevents auth signup --name "Shilan Aziz" --email shilan@example.com
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, true, func(ctx context.Context, c *client.Client) error {
				s := auth.SignUp{Controller: c.Controller, Name: name, Email: email, Password: password}
				return s.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name.")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email.")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password. Prompted for when empty.")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	parent.AddCommand(cmd)
}

func addLogout(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "logout",
		Short:     "end the stored session",
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, true, func(ctx context.Context, c *client.Client) error {
				l := auth.Logout{Controller: c.Controller}
				return l.Do(ctx)
			})
		},
	}

	parent.AddCommand(cmd)
}

func addResetPassword(parent *cobra.Command) {
	email := ""

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "email a password reset link",
		Example: `
iqevents auth reset-password --email you@example.com
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, true, func(ctx context.Context, c *client.Client) error {
				r := auth.Reset{Controller: c.Controller, Email: email}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email.")
	_ = cmd.MarkFlagRequired("email")

	parent.AddCommand(cmd)
}

func addOAuth(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "oauth <provider>",
		Short: "print the address to sign in with google or facebook",
		Example: `
iqevents auth oauth google
`,
		ValidArgs: []string{"google", "facebook"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, true, func(ctx context.Context, c *client.Client) error {
				o := auth.OAuth{Controller: c.Controller, Provider: args[0]}
				return o.Do(ctx)
			})
		},
	}

	parent.AddCommand(cmd)
}

func addWhoAmI(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "whoami",
		Short:     "show the signed in user",
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, true, func(ctx context.Context, c *client.Client) error {
				w := auth.WhoAmI{Controller: c.Controller, JSON: oo.JSON}
				return w.Do(ctx)
			})
		},
	}
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}
