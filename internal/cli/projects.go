package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List, rename and remove projects",
	}
	cmd.AddCommand(
		newProjectsListCmd(app),
		newProjectsRenameCmd(app),
		newProjectsRemoveCmd(app),
	)
	return cmd
}

// newProjectsListCmd derives the names from the loaded todos; there is
// no dedicated backend endpoint for projects.
func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List project names",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			todos, err := app.client.ListTodos(cmd.Context(), "", "")
			if err != nil {
				return err
			}
			names := model.ProjectNames(todos)
			if len(names) == 0 {
				fmt.Println(mutedStyle.Render("no projects"))
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a project across all its tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			oldName, newName := args[0], args[1]
			if newName == "" {
				return fmt.Errorf("rename: new project name cannot be empty")
			}
			n, err := app.client.RenameProject(cmd.Context(), oldName, newName)
			if err != nil {
				return err
			}
			ok(fmt.Sprintf("renamed %q to %q on %d tasks", oldName, newName, n))
			return nil
		},
	}
}

func newProjectsRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a project association (tasks are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			name := args[0]
			if !yes {
				confirmed, err := confirmPrompt(fmt.Sprintf(
					"Remove project %q from its tasks? The tasks themselves are kept.", name))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println(mutedStyle.Render("aborted"))
					return nil
				}
			}
			n, err := app.client.RemoveProject(cmd.Context(), name)
			if err != nil {
				return err
			}
			ok(fmt.Sprintf("removed project %q from %d tasks", name, n))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
