package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/model"
)

func newListCmd(app *App) *cobra.Command {
	var project, sortBy string
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			todos, err := app.client.ListTodos(cmd.Context(), sortBy, project)
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				fmt.Println(mutedStyle.Render("No tasks found. Add one with `tickit add`."))
				return nil
			}

			lines := make([]string, 0, len(todos))
			for _, t := range todos {
				lines = append(lines, renderTodoLine(t))
			}
			panel(lines)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "only tasks in this project")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort order: deadline or project (default recent)")
	return cmd
}

func renderTodoLine(t model.Todo) string {
	box := mutedStyle.Render(boxUnchecked)
	title := t.Title
	if t.Completed {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", accentStyle.Render(fmt.Sprintf("%4d", t.ID)), box, title)
	var meta []string
	if d := t.DeadlineDate(); d != "" {
		meta = append(meta, "due "+d)
	}
	if p := t.Project(); p != "" {
		meta = append(meta, "#"+p)
	}
	if len(meta) > 0 {
		line += "  " + mutedStyle.Render(strings.Join(meta, "  "))
	}
	return line
}

func newAddCmd(app *App) *cobra.Command {
	var desc, deadline, project string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new task (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("add: empty title")
			}
			if deadline != "" && !model.ValidDeadline(deadline) {
				return fmt.Errorf("add: deadline must be YYYY-MM-DD")
			}

			nt := api.NewTodo{Title: title, Description: strings.TrimSpace(desc)}
			if deadline != "" {
				nt.Deadline = &deadline
			}
			if p := strings.TrimSpace(project); p != "" {
				nt.ProjectName = &p
			}
			t, err := app.client.CreateTodo(cmd.Context(), nt)
			if err != nil {
				return err
			}
			ok(fmt.Sprintf("added task %d", t.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&desc, "desc", "", "task description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&project, "project", "", "project name")
	return cmd
}

func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("not a task id: %s", arg)
	}
	return id, nil
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setCompleted(cmd.Context(), app, args[0], true)
		},
	}
}

func newUndoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undone <id>",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setCompleted(cmd.Context(), app, args[0], false)
		},
	}
}

func setCompleted(ctx context.Context, app *App, arg string, completed bool) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	id, err := parseTaskID(arg)
	if err != nil {
		return err
	}
	if _, err := app.client.ToggleTodo(ctx, id, completed); err != nil {
		return err
	}
	if completed {
		ok("completed")
	} else {
		ok("reopened")
	}
	return nil
}

func newEditCmd(app *App) *cobra.Command {
	var (
		title, desc, deadline, project string
		clearDeadline, clearProject    bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			// The update endpoint replaces every editable field, so start
			// from the current record.
			todos, err := app.client.ListTodos(cmd.Context(), "", "")
			if err != nil {
				return err
			}
			var current *model.Todo
			for i := range todos {
				if todos[i].ID == id {
					current = &todos[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("no task with id %d", id)
			}

			edit := api.TodoEdit{
				Title:       current.Title,
				Description: current.Description,
				Deadline:    current.Deadline,
				ProjectName: current.ProjectName,
			}
			if cmd.Flags().Changed("title") {
				title = strings.TrimSpace(title)
				if title == "" {
					return fmt.Errorf("edit: title cannot be empty")
				}
				edit.Title = title
			}
			if cmd.Flags().Changed("desc") {
				edit.Description = &desc
			}
			if cmd.Flags().Changed("deadline") {
				if !model.ValidDeadline(deadline) {
					return fmt.Errorf("edit: deadline must be YYYY-MM-DD")
				}
				edit.Deadline = &deadline
			}
			if clearDeadline {
				edit.Deadline = nil
			}
			if cmd.Flags().Changed("project") {
				p := strings.TrimSpace(project)
				if p == "" {
					return fmt.Errorf("edit: project cannot be empty (use --clear-project)")
				}
				edit.ProjectName = &p
			}
			if clearProject {
				edit.ProjectName = nil
			}

			if _, err := app.client.UpdateTodo(cmd.Context(), id, edit); err != nil {
				return err
			}
			ok("updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "new deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&project, "project", "", "new project name")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "remove the deadline")
	cmd.Flags().BoolVar(&clearProject, "clear-project", false, "remove the project")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				confirmed, err := confirmPrompt(fmt.Sprintf("Delete task %d?", id))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println(mutedStyle.Render("aborted"))
					return nil
				}
			}
			if err := app.client.DeleteTodo(cmd.Context(), id); err != nil {
				return err
			}
			ok("removed")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newClearCompletedCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if !yes {
				confirmed, err := confirmPrompt("Delete ALL completed tasks?")
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println(mutedStyle.Render("aborted"))
					return nil
				}
			}
			n, err := app.client.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			ok(fmt.Sprintf("deleted %d completed tasks", n))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			s, err := app.client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			lines := []string{
				fmt.Sprintf("%s %d   %s %d   %s %d",
					accentStyle.Render("Total"), s.Total,
					successStyle.Render("Completed"), s.Completed,
					pendingStyle.Render("Pending"), s.Pending,
				),
				progressBar(s.Completed, s.Total, 28),
			}
			for _, c := range model.ChartSlices(s) {
				lines = append(lines, fmt.Sprintf("%-10s %5.1f%%", c.Label, c.Percent))
			}
			panel(lines)
			return nil
		},
	}
}
