package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/hanzi-archive/curator/internal/models"
)

// AnnotationsAPI is the slice of the backend client the annotations panel needs.
type AnnotationsAPI interface {
	ListAnnotations(ctx context.Context) ([]models.Annotation, error)
	DeleteAnnotation(ctx context.Context, id string) error
}

// Annotations is the character annotation management panel.
type Annotations struct {
	api     AnnotationsAPI
	confirm Confirmer

	mu          sync.RWMutex
	annotations []models.Annotation
	gate        busyGate
}

func NewAnnotations(api AnnotationsAPI, confirm Confirmer) *Annotations {
	return &Annotations{api: api, confirm: confirm}
}

// FetchAll replaces the local collection on success and leaves it untouched
// on any failure.
func (p *Annotations) FetchAll(ctx context.Context) error {
	annotations, err := p.api.ListAnnotations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch annotations: %w", err)
	}

	p.mu.Lock()
	p.annotations = annotations
	p.mu.Unlock()
	return nil
}

// Delete removes one annotation after an explicit confirmation.
func (p *Annotations) Delete(ctx context.Context, id string) error {
	if !p.gate.acquire() {
		return ErrBusy
	}
	defer p.gate.release()

	if !p.confirm.Confirm(fmt.Sprintf("Delete annotation %s?", id)) {
		return ErrNotConfirmed
	}

	if err := p.api.DeleteAnnotation(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.annotations[:0]
	for _, a := range p.annotations {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	p.annotations = kept
	p.mu.Unlock()
	return nil
}

// RemoveByWork drops every locally-held annotation belonging to the given
// work and returns how many were removed. No request is issued; the server
// already cascaded the deletion.
func (p *Annotations) RemoveByWork(workID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.annotations[:0]
	removed := 0
	for _, a := range p.annotations {
		if a.WorkID == workID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	p.annotations = kept
	return removed
}

// ByWork returns the locally-held annotations for one work.
func (p *Annotations) ByWork(workID string) []models.Annotation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []models.Annotation
	for _, a := range p.annotations {
		if a.WorkID == workID {
			out = append(out, a)
		}
	}
	return out
}

// Items returns a copy of the current collection.
func (p *Annotations) Items() []models.Annotation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Annotation, len(p.annotations))
	copy(out, p.annotations)
	return out
}

// Busy reports whether a mutation is in flight.
func (p *Annotations) Busy() bool { return p.gate.Busy() }
