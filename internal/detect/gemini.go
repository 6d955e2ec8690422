package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/hanzi-archive/curator/internal/models"
)

// GeminiSource runs character detection client-side with Gemini vision,
// for working against a backend whose OCR endpoint is unavailable.
type GeminiSource struct {
	model string
}

// NewGeminiSource creates the source. model defaults to gemini-1.5-flash.
func NewGeminiSource(model string) *GeminiSource {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiSource{model: model}
}

func (s *GeminiSource) Name() string { return "gemini" }

func (s *GeminiSource) buildPrompt() string {
	return `You are analyzing an image of Chinese calligraphy.

Locate every individual character in the image. For each character report:
- "text": the character
- "confidence": your recognition confidence as a percentage from 0 to 100
- "x", "y": the top-left corner of its bounding box in image pixels
- "width", "height": the bounding box size in image pixels

Coordinates must be in the pixel space of the supplied image.

OUTPUT FORMAT:
Respond with ONLY a JSON array of objects with exactly those six keys.
No markdown fences, no commentary.

Example output:
[{"text":"永","confidence":96,"x":120,"y":80,"width":64,"height":70}]`
}

// Detect sends the image to Gemini and parses the returned character list.
// ocrSource is ignored; this source does its own recognition.
func (s *GeminiSource) Detect(ctx context.Context, image []byte, filename, ocrSource string) ([]models.Detection, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.model)
	model.SetTemperature(0) // deterministic output for recognition

	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if format == "" || format == "jpg" {
		format = "jpeg"
	}

	resp, err := model.GenerateContent(ctx,
		genai.Text(s.buildPrompt()),
		genai.ImageData(format, image),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty content returned from Gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from Gemini")
	}

	detections, err := parseGeminiDetections(string(txt))
	if err != nil {
		return nil, err
	}

	slog.Info("Gemini detection complete", "model", s.model, "detections", len(detections))
	return detections, nil
}

func parseGeminiDetections(raw string) ([]models.Detection, error) {
	// Tolerate models that fence the JSON despite instructions
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		Width      float64 `json:"width"`
		Height     float64 `json:"height"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini detection response: %w", err)
	}

	detections := make([]models.Detection, 0, len(parsed))
	for _, p := range parsed {
		detections = append(detections, models.Detection{
			ID:         uuid.NewString(),
			Text:       p.Text,
			Confidence: p.Confidence,
			X:          p.X,
			Y:          p.Y,
			Width:      p.Width,
			Height:     p.Height,
		})
	}
	return detections, nil
}
