package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register and inspect the stored token",
	}
	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthRegisterCmd(app),
		newAuthLogoutCmd(app),
		newAuthStatusCmd(app),
		newAuthWhoAmICmd(app),
	)
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = promptLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine("Password: "); err != nil {
					return err
				}
			}

			token, err := app.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if token == "" {
				return fmt.Errorf("login succeeded but no token was returned")
			}
			if err := app.session.Login(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ok("logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newAuthRegisterCmd(app *App) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = promptLine("Username: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = promptLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine("Password: "); err != nil {
					return err
				}
			}

			if err := app.client.Register(cmd.Context(), username, email, password); err != nil {
				return err
			}
			ok("registered. Run `tickit auth login` to log in")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.session.Source() == "env" {
				ok(fmt.Sprintf("token is provided by the %s env var (nothing to delete)", "TICKIT_TOKEN"))
				return nil
			}
			if err := app.session.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ok("logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is stored and where it came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.session.Authenticated() {
				fmt.Println(mutedStyle.Render("not logged in"))
				fmt.Println("Run: tickit auth login")
				return nil
			}
			fmt.Printf("source: %s\n", app.session.Source())
			if exp, okExp := tokenExpiry(app.session.Token()); okExp {
				fmt.Printf("expires: %s\n", exp.UTC().Format(time.RFC3339))
			} else {
				fmt.Println("expires: (unknown)")
			}
			fmt.Println("env override: TICKIT_TOKEN")
			return nil
		},
	}
}

// newAuthWhoAmICmd decodes JWT claims locally without verification;
// opaque tokens print basic info only.
func newAuthWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Introspect the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			claims := jwt.MapClaims{}
			if _, _, err := jwt.NewParser().ParseUnverified(app.session.Token(), claims); err != nil {
				fmt.Println("Opaque token (cannot introspect locally).")
				fmt.Println("source:", app.session.Source())
				return nil
			}
			keys := make([]string, 0, len(claims))
			for k := range claims {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println("JWT claims:")
			for _, k := range keys {
				fmt.Printf("  %s: %v\n", k, claims[k])
			}
			return nil
		},
	}
}

// tokenExpiry pulls exp from a JWT without verifying the signature.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
