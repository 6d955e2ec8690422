package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hanzi-archive/curator/internal/models"
)

// ListWorks fetches the full works collection.
func (c *Client) ListWorks(ctx context.Context) ([]models.Work, error) {
	var works []models.Work
	if err := c.do(ctx, "GET", "/api/works", nil, "", &works); err != nil {
		return nil, fmt.Errorf("failed to list works: %w", err)
	}
	return works, nil
}

// DeleteWork deletes one work. The server cascades deletion of the work's
// annotations; callers mirror that locally.
func (c *Client) DeleteWork(ctx context.Context, id string) error {
	if err := c.do(ctx, "DELETE", "/api/works/"+url.PathEscape(id), nil, "", nil); err != nil {
		return fmt.Errorf("failed to delete work %s: %w", id, err)
	}
	return nil
}
