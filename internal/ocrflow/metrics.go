package ocrflow

import "github.com/hanzi-archive/curator/internal/models"

// Confidence band boundaries. These are the fixed reporting bands; the
// configurable auto-select and low-visibility cutoffs live in config and
// happen to share the same observed defaults.
const (
	HighBandMin   = 90.0
	MediumBandMin = 80.0
)

// Band classifies one confidence value.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandFor returns the band for a confidence percentage.
func BandFor(confidence float64) Band {
	switch {
	case confidence >= HighBandMin:
		return BandHigh
	case confidence >= MediumBandMin:
		return BandMedium
	default:
		return BandLow
	}
}

// Metrics aggregates a detection set. High + Medium + Low always equals
// Total.
type Metrics struct {
	Total         int
	High          int
	Medium        int
	Low           int
	AvgConfidence float64
}

// ComputeMetrics aggregates counts and the mean confidence over the set.
func ComputeMetrics(detections []models.Detection) Metrics {
	m := Metrics{Total: len(detections)}

	sum := 0.0
	for _, d := range detections {
		sum += d.Confidence
		switch BandFor(d.Confidence) {
		case BandHigh:
			m.High++
		case BandMedium:
			m.Medium++
		case BandLow:
			m.Low++
		}
	}

	if m.Total > 0 {
		m.AvgConfidence = sum / float64(m.Total)
	}
	return m
}
