package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hanzi-archive/curator/internal/models"
)

// ListHomepage fetches all homepage content rows.
func (c *Client) ListHomepage(ctx context.Context) ([]models.HomepageItem, error) {
	var items []models.HomepageItem
	if err := c.do(ctx, "GET", "/api/admin/homepage", nil, "", &items); err != nil {
		return nil, fmt.Errorf("failed to list homepage content: %w", err)
	}
	return items, nil
}

// UpdateHomepage updates a single content row by key and returns the
// server's canonical row.
func (c *Client) UpdateHomepage(ctx context.Context, key, value string) (*models.HomepageItem, error) {
	body := map[string]string{"content_value": value}

	var item models.HomepageItem
	if err := c.doJSON(ctx, "PUT", "/api/admin/homepage/"+url.PathEscape(key), body, &item); err != nil {
		return nil, fmt.Errorf("failed to update homepage key %s: %w", key, err)
	}
	if item.ContentKey == "" {
		item.ContentKey = key
		item.ContentValue = value
	}
	return &item, nil
}
