package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hanzi-archive/curator/internal/models"
)

// ListAnnotations fetches all character annotations. The backend exposes the
// listing under its search path.
func (c *Client) ListAnnotations(ctx context.Context) ([]models.Annotation, error) {
	var annotations []models.Annotation
	if err := c.do(ctx, "GET", "/api/search/", nil, "", &annotations); err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	return annotations, nil
}

// DeleteAnnotation deletes one annotation.
func (c *Client) DeleteAnnotation(ctx context.Context, id string) error {
	if err := c.do(ctx, "DELETE", "/api/annotations/"+url.PathEscape(id), nil, "", nil); err != nil {
		return fmt.Errorf("failed to delete annotation %s: %w", id, err)
	}
	return nil
}

// CropImage fetches a server-side crop of the named work image, used for
// annotation thumbnails. The box is in original-image coordinates.
func (c *Client) CropImage(ctx context.Context, filename string, x, y, width, height float64) ([]byte, error) {
	query := url.Values{}
	query.Set("filename", filename)
	query.Set("x", strconv.FormatFloat(x, 'f', -1, 64))
	query.Set("y", strconv.FormatFloat(y, 'f', -1, 64))
	query.Set("width", strconv.FormatFloat(width, 'f', -1, 64))
	query.Set("height", strconv.FormatFloat(height, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/crop-image?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create crop request: %w", err)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crop request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cropped image: %w", err)
	}
	return data, nil
}
