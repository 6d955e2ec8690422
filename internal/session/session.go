// Package session holds the current authenticated identity for the whole
// process. It is the only writer of the durable credentials file; every
// outbound authenticated call reads the token through it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hanzi-archive/curator/internal/models"
)

// Snapshot is the read view handed to consumers. Loading is true until the
// initial restore from disk has finished; consumers must tolerate it.
type Snapshot struct {
	Identity        *models.Identity
	IsAuthenticated bool
	IsLoading       bool
}

type Holder struct {
	path     string
	mu       sync.RWMutex
	identity *models.Identity
	loading  bool
}

// New creates a holder backed by the credentials file at path. The identity
// is not restored until Restore is called.
func New(path string) *Holder {
	return &Holder{path: path, loading: true}
}

// Restore attempts to load a persisted identity. A missing file or a file
// that fails to decode yields an unauthenticated state; decode failures also
// clear the stale file. Restore never returns an error to the caller.
func (h *Holder) Restore() {
	h.mu.Lock()
	defer h.mu.Unlock()
	defer func() { h.loading = false }()

	data, err := os.ReadFile(h.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("Unable to read credentials file", "path", h.path, "err", err)
		}
		return
	}

	var id models.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		slog.Warn("Stored credentials are corrupt, clearing", "path", h.path)
		_ = os.Remove(h.path)
		return
	}
	if id.Token == "" {
		_ = os.Remove(h.path)
		return
	}

	h.identity = &id
}

// Login persists the identity and then makes it current.
func (h *Holder) Login(id models.Identity) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	h.mu.Lock()
	h.identity = &id
	h.loading = false
	h.mu.Unlock()
	return nil
}

// Logout clears durable storage first, then in-memory state.
func (h *Holder) Logout() {
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Unable to remove credentials file", "path", h.path, "err", err)
	}

	h.mu.Lock()
	h.identity = nil
	h.mu.Unlock()
}

// Current returns the point-in-time session snapshot.
func (h *Holder) Current() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := Snapshot{IsLoading: h.loading}
	if h.identity != nil {
		id := *h.identity
		snap.Identity = &id
		snap.IsAuthenticated = true
	}
	return snap
}

// Token returns the bearer token of the current identity, or "" when
// unauthenticated. Read at call time by the API client, never cached.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.identity == nil {
		return ""
	}
	return h.identity.Token
}

// Username returns the current identity's username, or "".
func (h *Holder) Username() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.identity == nil {
		return ""
	}
	return h.identity.Username
}
