package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hanzi-archive/curator/internal/models"
)

// ListUsers fetches all accounts.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, "GET", "/api/admin/users", nil, "", &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser creates an account and returns the server's canonical row.
func (c *Client) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	body := map[string]any{
		"username": username,
		"password": password,
		"isAdmin":  isAdmin,
	}

	var user models.User
	if err := c.doJSON(ctx, "POST", "/api/admin/users", body, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// UpdateUserPassword resets one account's password.
func (c *Client) UpdateUserPassword(ctx context.Context, id, password string) error {
	body := map[string]string{"password": password}
	path := "/api/admin/users/" + url.PathEscape(id) + "/password"
	if err := c.doJSON(ctx, "PUT", path, body, nil); err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", id, err)
	}
	return nil
}

// DeleteUser deletes one account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.do(ctx, "DELETE", "/api/admin/users/"+url.PathEscape(id), nil, "", nil); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
