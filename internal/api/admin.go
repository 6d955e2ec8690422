package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Export streams the database export into w.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/admin/export", nil)
	if err != nil {
		return fmt.Errorf("failed to create export request: %w", err)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write export data: %w", err)
	}
	return nil
}

// ExportURL returns the direct-download variant of the export endpoint with
// the token passed as a query parameter, for handing to a browser.
func (c *Client) ExportURL() string {
	u := c.BaseURL + "/api/admin/export"
	if token := c.tokens.Token(); token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

// Import uploads a database export file for restore. The server expects a
// multipart field named "database".
func (c *Client) Import(ctx context.Context, r io.Reader, filename string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("database", filename)
	if err != nil {
		return fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	if err := c.do(ctx, "POST", "/api/admin/import", &buf, mw.FormDataContentType(), nil); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
