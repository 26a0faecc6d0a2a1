package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/model"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the account profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			p, err := app.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			app.session.SetProfile(p)
			panel([]string{
				fmt.Sprintf("%s %s", accentStyle.Render("Username:"), p.Username),
				fmt.Sprintf("%s %s", accentStyle.Render("Email:   "), p.Email),
			})
			return nil
		},
	}
	cmd.AddCommand(
		newProfileUsernameCmd(app),
		newProfileEmailCmd(app),
		newProfilePasswordCmd(app),
	)
	return cmd
}

func newProfileUsernameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-username <name>",
		Short: "Change the username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			username := args[0]
			if username == "" {
				return fmt.Errorf("username cannot be empty")
			}
			p, err := app.client.UpdateAccount(cmd.Context(), api.AccountUpdate{Username: &username})
			if err != nil {
				return err
			}
			app.session.SetProfile(p)
			ok("username updated")
			return nil
		},
	}
}

func newProfileEmailCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-email <email>",
		Short: "Change the account email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			email := args[0]
			if !model.ValidEmail(email) {
				return fmt.Errorf("invalid email format")
			}
			p, err := app.client.UpdateAccount(cmd.Context(), api.AccountUpdate{Email: &email})
			if err != nil {
				return err
			}
			app.session.SetProfile(p)
			ok("email updated")
			return nil
		},
	}
}

func newProfilePasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Change the password (prompts for current and new)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			current, err := promptLine("Current password: ")
			if err != nil {
				return err
			}
			next, err := promptLine("New password: ")
			if err != nil {
				return err
			}
			confirm, err := promptLine("Confirm new password: ")
			if err != nil {
				return err
			}
			if current == "" || next == "" || confirm == "" {
				return fmt.Errorf("all password fields are required")
			}
			if next != confirm {
				return fmt.Errorf("new password and confirmation do not match")
			}
			_, err = app.client.UpdateAccount(cmd.Context(), api.AccountUpdate{
				CurrentPassword: &current,
				Password:        &next,
			})
			if err != nil {
				return err
			}
			ok("password updated")
			return nil
		},
	}
}
