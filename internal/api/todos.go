package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

// ListTodos fetches todos with optional sort and project filter. Empty
// values are dropped from the query string.
func (c *Client) ListTodos(ctx context.Context, sortBy, project string) ([]model.Todo, error) {
	params := url.Values{}
	params.Set("sortBy", sortBy)
	params.Set("project", project)
	var todos []model.Todo
	if err := c.get(ctx, "/todos", params, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// NewTodo is the creation body. Deadline and ProjectName are sent as
// explicit nulls when absent, matching what the backend expects.
type NewTodo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	ProjectName *string `json:"project_name"`
}

// CreateTodo creates a task and returns the stored record.
func (c *Client) CreateTodo(ctx context.Context, nt NewTodo) (*model.Todo, error) {
	var t model.Todo
	if err := c.post(ctx, "/todos", nt, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TodoEdit is the full-field update body. All four fields are always
// sent; nil clears the corresponding column.
type TodoEdit struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	ProjectName *string `json:"project_name"`
}

// UpdateTodo replaces the editable fields of one todo and returns the
// updated record.
func (c *Client) UpdateTodo(ctx context.Context, id int, edit TodoEdit) (*model.Todo, error) {
	var t model.Todo
	if err := c.put(ctx, fmt.Sprintf("/todos/%d", id), edit, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ToggleTodo flips only the completed flag, leaving every other field to
// the backend.
func (c *Client) ToggleTodo(ctx context.Context, id int, completed bool) (*model.Todo, error) {
	var t model.Todo
	body := map[string]bool{"completed": completed}
	if err := c.put(ctx, fmt.Sprintf("/todos/%d", id), body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTodo removes one todo by id.
func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/todos/%d", id), nil)
}

// bulkResult carries the affected-row counts the bulk endpoints return.
type bulkResult struct {
	UpdatedCount int `json:"updatedCount"`
	DeletedCount int `json:"deletedCount"`
}

// RenameProject renames a project across all todos carrying the old name
// and returns how many were touched.
func (c *Client) RenameProject(ctx context.Context, oldName, newName string) (int, error) {
	var res bulkResult
	endpoint := "/todos/projects/" + url.PathEscape(oldName)
	err := c.put(ctx, endpoint, map[string]string{"newProjectName": newName}, &res)
	return res.UpdatedCount, err
}

// RemoveProject clears the project association for every todo in the
// named project. The todos themselves survive.
func (c *Client) RemoveProject(ctx context.Context, name string) (int, error) {
	var res bulkResult
	err := c.del(ctx, "/todos/projects/"+url.PathEscape(name), &res)
	return res.UpdatedCount, err
}

// ClearCompleted deletes every completed todo and returns the count.
func (c *Client) ClearCompleted(ctx context.Context) (int, error) {
	var res bulkResult
	err := c.del(ctx, "/todos/completed", &res)
	return res.DeletedCount, err
}
