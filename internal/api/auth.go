package api

import (
	"context"
	"fmt"

	"github.com/hanzi-archive/curator/internal/models"
)

// Login exchanges credentials for an identity with a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var id models.Identity
	if err := c.doJSON(ctx, "POST", "/api/login", body, &id); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if id.Username == "" {
		id.Username = username
	}
	return &id, nil
}
