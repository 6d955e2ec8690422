package ocrflow

import (
	"time"

	"github.com/hanzi-archive/curator/internal/models"
)

// Selection is the bulk confirmation path: one detection pass, detections at
// or above the auto-select threshold pre-selected, individual toggles plus a
// low-confidence visibility filter, then a single confirm of the selected
// visible subset. It collapses the per-item loop of Workflow into one step
// over the same detect/submit contract.
type Selection struct {
	detections []models.Detection
	selected   map[string]bool
	showLow    bool
	autoSelect float64
	lowCut     float64
	now        func() time.Time
}

// NewSelection builds a bulk selection over a detection set. autoSelect and
// lowCut are the two independent confidence cutoffs (defaults 90 and 80).
func NewSelection(detections []models.Detection, autoSelect, lowCut float64) *Selection {
	s := &Selection{
		detections: detections,
		selected:   make(map[string]bool, len(detections)),
		autoSelect: autoSelect,
		lowCut:     lowCut,
		now:        time.Now,
	}
	for _, d := range detections {
		if d.Confidence >= autoSelect {
			s.selected[d.ID] = true
		}
	}
	return s
}

// Toggle flips one detection's selection.
func (s *Selection) Toggle(id string) {
	for _, d := range s.detections {
		if d.ID == id {
			s.selected[id] = !s.selected[id]
			return
		}
	}
}

// SetShowLow switches the low-confidence visibility filter.
func (s *Selection) SetShowLow(show bool) { s.showLow = show }

// ShowLow reports the visibility filter state.
func (s *Selection) ShowLow() bool { return s.showLow }

// IsSelected reports one detection's selection state.
func (s *Selection) IsSelected(id string) bool { return s.selected[id] }

// Visible returns the detections the filter currently exposes: everything
// when the low band is shown, otherwise only those at or above the low
// cutoff.
func (s *Selection) Visible() []models.Detection {
	if s.showLow {
		out := make([]models.Detection, len(s.detections))
		copy(out, s.detections)
		return out
	}
	var out []models.Detection
	for _, d := range s.detections {
		if d.Confidence >= s.lowCut {
			out = append(out, d)
		}
	}
	return out
}

// Confirm promotes every selected, currently visible detection in one step.
func (s *Selection) Confirm() []models.ConfirmedAnnotation {
	ts := s.now()
	var out []models.ConfirmedAnnotation
	for _, d := range s.Visible() {
		if !s.selected[d.ID] {
			continue
		}
		out = append(out, models.ConfirmedAnnotation{
			Detection:   d,
			Confirmed:   true,
			ConfirmedAt: ts,
		})
	}
	return out
}

// Metrics returns the aggregate metrics of the full detection set,
// regardless of filter state.
func (s *Selection) Metrics() Metrics { return ComputeMetrics(s.detections) }
