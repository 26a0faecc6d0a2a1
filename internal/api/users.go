package api

import (
	"context"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

// Login authenticates and returns the bearer token. Storing it is the
// caller's job (the session store performs the persistence).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.post(ctx, "/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.post(ctx, "/users/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.get(ctx, "/users/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AccountUpdate is a partial body for /users/account; nil fields are
// omitted so each form updates only its own field.
type AccountUpdate struct {
	Username        *string `json:"username,omitempty"`
	Email           *string `json:"email,omitempty"`
	CurrentPassword *string `json:"currentPassword,omitempty"`
	Password        *string `json:"password,omitempty"`
}

// UpdateAccount applies a partial account update. The returned profile is
// nil for password changes (the password is not part of the profile shape).
func (c *Client) UpdateAccount(ctx context.Context, upd AccountUpdate) (*model.Profile, error) {
	var p model.Profile
	if err := c.put(ctx, "/users/account", upd, &p); err != nil {
		return nil, err
	}
	if p.ID == 0 && p.Username == "" && p.Email == "" {
		return nil, nil
	}
	return &p, nil
}

// Stats fetches the server-side completion summary.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var s model.Stats
	err := c.get(ctx, "/users/stats/todos", nil, &s)
	return s, err
}
