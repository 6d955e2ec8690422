// Package detect abstracts where character detections come from: the
// backend's own OCR endpoint, or a client-side Gemini vision assist. Both
// yield the same detection contract, so either can sit under the upload
// workflow.
package detect

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/models"
)

// Source produces detections for an image. ocrSource names the engine the
// backend should use; sources that do their own recognition ignore it.
type Source interface {
	Name() string
	Detect(ctx context.Context, image []byte, filename, ocrSource string) ([]models.Detection, error)
}

// NewSource builds the configured source. Supported names: "backend",
// "gemini".
func NewSource(name string, client *api.Client, model string) (Source, error) {
	switch name {
	case "", "backend":
		return &BackendSource{client: client}, nil
	case "gemini":
		return NewGeminiSource(model), nil
	default:
		return nil, fmt.Errorf("unsupported detection source: %s", name)
	}
}

// BackendSource posts the image to the backend's detection endpoint.
type BackendSource struct {
	client *api.Client
}

func (s *BackendSource) Name() string { return "backend" }

func (s *BackendSource) Detect(ctx context.Context, image []byte, filename, ocrSource string) ([]models.Detection, error) {
	return s.client.Detect(ctx, bytes.NewReader(image), filename, ocrSource)
}

// Router implements the workflow's detect/submit contract: detection goes
// to the configured source, the final submission always to the backend API.
type Router struct {
	Client *api.Client
	Source Source
}

func (r *Router) Detect(ctx context.Context, file io.Reader, filename, ocrSource string) ([]models.Detection, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return r.Source.Detect(ctx, data, filename, ocrSource)
}

func (r *Router) Upload(ctx context.Context, req api.UploadRequest) (*models.UploadResult, error) {
	return r.Client.Upload(ctx, req)
}
