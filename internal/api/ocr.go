package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/hanzi-archive/curator/internal/models"
)

// UploadRequest bundles the original file with its metadata and the
// confirmed annotations accumulated during the workflow.
type UploadRequest struct {
	File                 io.Reader
	Filename             string
	Description          string
	Author               string
	Tags                 []string
	GroupName            string
	EnableOCR            bool
	ConfirmedAnnotations []models.ConfirmedAnnotation
}

// Detect posts the image to the detection endpoint and returns the ordered
// detection list. ocrSource names the OCR engine the backend should use.
func (c *Client) Detect(ctx context.Context, file io.Reader, filename, ocrSource string) ([]models.Detection, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("calligraphy", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.WriteField("ocrSource", ocrSource); err != nil {
		return nil, fmt.Errorf("failed to write ocrSource field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var result struct {
		OCRResults []models.Detection `json:"ocrResults"`
	}
	if err := c.do(ctx, "POST", "/api/ocr/detect", &buf, mw.FormDataContentType(), &result); err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	return result.OCRResults, nil
}

// Upload performs the final submission: original file plus metadata plus the
// JSON-encoded tag and confirmed-annotation lists.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("calligraphy", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	confirmed := req.ConfirmedAnnotations
	if confirmed == nil {
		confirmed = []models.ConfirmedAnnotation{}
	}
	confirmedJSON, err := json.Marshal(confirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode confirmed annotations: %w", err)
	}

	fields := map[string]string{
		"description":          req.Description,
		"workAuthor":           req.Author,
		"tags":                 string(tagsJSON),
		"groupName":            req.GroupName,
		"enableOCR":            fmt.Sprintf("%t", req.EnableOCR),
		"confirmedAnnotations": string(confirmedJSON),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write %s field: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var result models.UploadResult
	if err := c.do(ctx, "POST", "/api/upload", &buf, mw.FormDataContentType(), &result); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	return &result, nil
}
