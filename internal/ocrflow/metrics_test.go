package ocrflow

import (
	"testing"

	"github.com/hanzi-archive/curator/internal/models"
)

func detectionsWithConfidence(values ...float64) []models.Detection {
	out := make([]models.Detection, 0, len(values))
	for i, v := range values {
		out = append(out, models.Detection{
			ID:         string(rune('a' + i)),
			Text:       "字",
			Confidence: v,
		})
	}
	return out
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		want       Band
	}{
		{"high boundary", 90, BandHigh},
		{"above high", 99.5, BandHigh},
		{"medium boundary", 80, BandMedium},
		{"inside medium", 89.9, BandMedium},
		{"below medium", 79.9, BandLow},
		{"zero", 0, BandLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BandFor(tt.confidence); got != tt.want {
				t.Errorf("BandFor(%v) = %v, want %v", tt.confidence, got, tt.want)
			}
		})
	}
}

func TestComputeMetrics(t *testing.T) {
	m := ComputeMetrics(detectionsWithConfidence(95, 87, 92, 65))

	if m.Total != 4 {
		t.Errorf("Total = %d, want 4", m.Total)
	}
	if m.High != 2 {
		t.Errorf("High = %d, want 2", m.High)
	}
	if m.Medium != 1 {
		t.Errorf("Medium = %d, want 1", m.Medium)
	}
	if m.Low != 1 {
		t.Errorf("Low = %d, want 1", m.Low)
	}
	if m.AvgConfidence != 84.75 {
		t.Errorf("AvgConfidence = %v, want 84.75", m.AvgConfidence)
	}
}

func TestComputeMetricsBandsSumToTotal(t *testing.T) {
	sets := [][]float64{
		{},
		{90},
		{89.99, 90, 80, 79.99},
		{100, 0, 50, 85, 95, 90, 80},
	}

	for _, confidences := range sets {
		m := ComputeMetrics(detectionsWithConfidence(confidences...))
		if m.High+m.Medium+m.Low != m.Total {
			t.Errorf("bands %d+%d+%d do not sum to total %d for %v",
				m.High, m.Medium, m.Low, m.Total, confidences)
		}
	}
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m.Total != 0 || m.AvgConfidence != 0 {
		t.Errorf("empty set metrics = %+v, want zero values", m)
	}
}
