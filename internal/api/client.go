// Package api is the typed client for the catalog backend's REST surface.
// Every authenticated call attaches "Authorization: Bearer <token>", with the
// token read from the session holder at call time.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource yields the bearer token for outbound requests. An empty token
// means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client represents a catalog backend API client
type Client struct {
	BaseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// APIError is a non-2xx response, carrying the server's error text when the
// body provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401-class API error. Callers treat
// it as "unauthenticated" and revert to login.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// NewClient creates a new backend client
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do issues a request and decodes a 2xx JSON response into out (out may be
// nil when the body is irrelevant). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// doJSON marshals body as JSON and issues the request.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, reader, "application/json", out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	// Servers answer with either {"error": "..."} or {"message": "..."}
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Error != "" {
			apiErr.Message = parsed.Error
			return apiErr
		}
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
			return apiErr
		}
	}

	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
