package ocrflow

import (
	"testing"
	"time"

	"github.com/hanzi-archive/curator/internal/models"
)

func testSelection(values ...float64) *Selection {
	s := NewSelection(detectionsWithConfidence(values...), 90, 80)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestSelectionPreSelectsHighConfidence(t *testing.T) {
	s := testSelection(95, 90, 89.9, 70)

	tests := []struct {
		id   string
		want bool
	}{
		{"a", true},  // 95
		{"b", true},  // 90, boundary is inclusive
		{"c", false}, // 89.9
		{"d", false}, // 70
	}
	for _, tt := range tests {
		if got := s.IsSelected(tt.id); got != tt.want {
			t.Errorf("IsSelected(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestSelectionToggle(t *testing.T) {
	s := testSelection(95, 70)

	s.Toggle("a")
	if s.IsSelected("a") {
		t.Error("toggle should deselect a pre-selected detection")
	}
	s.Toggle("b")
	if !s.IsSelected("b") {
		t.Error("toggle should select a low-confidence detection")
	}

	// toggling an unknown id changes nothing
	s.Toggle("nope")
	if s.IsSelected("nope") {
		t.Error("unknown id must not become selected")
	}
}

func TestSelectionVisibility(t *testing.T) {
	s := testSelection(95, 85, 70)

	if got := len(s.Visible()); got != 2 {
		t.Errorf("visible with filter off = %d, want 2", got)
	}

	s.SetShowLow(true)
	if got := len(s.Visible()); got != 3 {
		t.Errorf("visible with filter on = %d, want 3", got)
	}
}

func TestSelectionConfirmPromotesSelectedVisible(t *testing.T) {
	s := testSelection(95, 92, 70)

	// select the low-confidence detection while it is hidden
	s.Toggle("c")

	confirmed := s.Confirm()
	if got := len(confirmed); got != 2 {
		t.Fatalf("confirmed = %d, want 2 (hidden selection must not promote)", got)
	}

	s.SetShowLow(true)
	confirmed = s.Confirm()
	if got := len(confirmed); got != 3 {
		t.Fatalf("confirmed with low shown = %d, want 3", got)
	}

	for _, c := range confirmed {
		if !c.Confirmed {
			t.Errorf("promoted annotation %s not marked confirmed", c.ID)
		}
		if c.ConfirmedAt.IsZero() {
			t.Errorf("promoted annotation %s has zero timestamp", c.ID)
		}
	}
}

func TestSelectionMetricsIgnoreFilter(t *testing.T) {
	s := testSelection(95, 85, 70)

	want := ComputeMetrics(detectionsWithConfidence(95, 85, 70))
	if got := s.Metrics(); got != want {
		t.Errorf("metrics = %+v, want %+v", got, want)
	}

	s.SetShowLow(true)
	if got := s.Metrics(); got != want {
		t.Errorf("metrics with filter flipped = %+v, want %+v", got, want)
	}
}

func TestSelectionVisibleReturnsCopy(t *testing.T) {
	s := testSelection(95, 85)
	visible := s.Visible()
	visible[0] = models.Detection{ID: "mutated"}

	if s.Visible()[0].ID == "mutated" {
		t.Error("Visible must return a copy, not the backing slice")
	}
}
