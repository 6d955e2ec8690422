package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hanzi-archive/curator/internal/models"
	"github.com/hanzi-archive/curator/internal/ocrflow"
)

// TranscriptConfig records how the upload ran.
type TranscriptConfig struct {
	Filename     string `yaml:"filename"`
	DetectSource string `yaml:"detectsource"`
	Author       string `yaml:"author,omitempty"`
	GroupName    string `yaml:"groupname,omitempty"`
	Timestamp    string `yaml:"timestamp"`
}

// TranscriptMetrics mirrors the workflow's detection metrics.
type TranscriptMetrics struct {
	Total         int     `yaml:"total"`
	High          int     `yaml:"high"`
	Medium        int     `yaml:"medium"`
	Low           int     `yaml:"low"`
	AvgConfidence float64 `yaml:"avgconfidence"`
}

// TranscriptAnnotation is one confirmed annotation in the transcript.
type TranscriptAnnotation struct {
	ID         string  `yaml:"id"`
	Text       string  `yaml:"text"`
	Confidence float64 `yaml:"confidence"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
}

// Transcript is the complete record of one finished upload workflow.
type Transcript struct {
	Config    TranscriptConfig       `yaml:"config"`
	Metrics   TranscriptMetrics      `yaml:"metrics"`
	Confirmed []TranscriptAnnotation `yaml:"confirmed"`
	FileID    string                 `yaml:"fileid"`
}

// SaveTranscript writes a YAML transcript of a completed upload into dir and
// returns the written path.
func SaveTranscript(dir, filename, detectSource, author, groupName string, metrics ocrflow.Metrics, confirmed []models.ConfirmedAnnotation, result *models.UploadResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create transcript directory: %w", err)
	}

	ts := Timestamp(time.Now())
	transcript := Transcript{
		Config: TranscriptConfig{
			Filename:     filename,
			DetectSource: detectSource,
			Author:       author,
			GroupName:    groupName,
			Timestamp:    ts,
		},
		Metrics: TranscriptMetrics{
			Total:         metrics.Total,
			High:          metrics.High,
			Medium:        metrics.Medium,
			Low:           metrics.Low,
			AvgConfidence: metrics.AvgConfidence,
		},
		Confirmed: make([]TranscriptAnnotation, 0, len(confirmed)),
	}
	if result != nil {
		transcript.FileID = result.FileID
	}

	for _, c := range confirmed {
		transcript.Confirmed = append(transcript.Confirmed, TranscriptAnnotation{
			ID:         c.ID,
			Text:       c.Text,
			Confidence: c.Confidence,
			X:          c.X,
			Y:          c.Y,
			Width:      c.Width,
			Height:     c.Height,
		})
	}

	data, err := yaml.Marshal(&transcript)
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("upload_%s.yaml", ts))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}
