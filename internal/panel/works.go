package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hanzi-archive/curator/internal/models"
)

// WorksAPI is the slice of the backend client the works panel needs.
type WorksAPI interface {
	ListWorks(ctx context.Context) ([]models.Work, error)
	DeleteWork(ctx context.Context, id string) error
}

// Works is the artwork management panel.
type Works struct {
	api     WorksAPI
	confirm Confirmer

	mu    sync.RWMutex
	works []models.Work
	gate  busyGate

	// cascade target; deleting a work drops its annotations locally too
	annotations *Annotations
}

// NewWorks creates the works panel. annotations may be nil when no
// annotation panel shares the view.
func NewWorks(api WorksAPI, confirm Confirmer, annotations *Annotations) *Works {
	return &Works{api: api, confirm: confirm, annotations: annotations}
}

// FetchAll replaces the local collection on success and leaves it untouched
// on any failure.
func (p *Works) FetchAll(ctx context.Context) error {
	works, err := p.api.ListWorks(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch works: %w", err)
	}

	p.mu.Lock()
	p.works = works
	p.mu.Unlock()
	return nil
}

// Delete removes one work after an explicit confirmation. On success the
// work and every locally-held annotation referencing it are removed,
// mirroring the server-side cascade.
func (p *Works) Delete(ctx context.Context, id string) error {
	if !p.gate.acquire() {
		return ErrBusy
	}
	defer p.gate.release()

	if !p.confirm.Confirm(fmt.Sprintf("Delete work %s and all of its annotations?", id)) {
		return ErrNotConfirmed
	}

	if err := p.api.DeleteWork(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.works[:0]
	for _, w := range p.works {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	p.works = kept
	p.mu.Unlock()

	if p.annotations != nil {
		removed := p.annotations.RemoveByWork(id)
		if removed > 0 {
			slog.Info("Cascaded annotation removal", "work_id", id, "removed", removed)
		}
	}
	return nil
}

// Items returns a copy of the current collection.
func (p *Works) Items() []models.Work {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Work, len(p.works))
	copy(out, p.works)
	return out
}

// Busy reports whether a mutation is in flight.
func (p *Works) Busy() bool { return p.gate.Busy() }
