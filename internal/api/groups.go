package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hanzi-archive/curator/internal/models"
)

// GroupRequest carries the writable fields of a group.
type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parentId,omitempty"`
}

// ListGroups fetches the flat group list. Tree shape is reconstructed
// client-side from the parent references.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.do(ctx, "GET", "/api/groups", nil, "", &groups); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// CreateGroup creates a group and returns the canonical row.
func (c *Client) CreateGroup(ctx context.Context, req GroupRequest) (*models.Group, error) {
	var group models.Group
	if err := c.doJSON(ctx, "POST", "/api/groups", req, &group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return &group, nil
}

// UpdateGroup replaces a group's writable fields and returns the canonical row.
func (c *Client) UpdateGroup(ctx context.Context, id string, req GroupRequest) (*models.Group, error) {
	var group models.Group
	if err := c.doJSON(ctx, "PUT", "/api/groups/"+url.PathEscape(id), req, &group); err != nil {
		return nil, fmt.Errorf("failed to update group %s: %w", id, err)
	}
	return &group, nil
}

// DeleteGroup deletes one group.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	if err := c.do(ctx, "DELETE", "/api/groups/"+url.PathEscape(id), nil, "", nil); err != nil {
		return fmt.Errorf("failed to delete group %s: %w", id, err)
	}
	return nil
}
