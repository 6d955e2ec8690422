// Package ocrflow drives the OCR-assisted upload pipeline: pick a file,
// detect characters, walk the detections with human confirmation, describe
// the work, submit. The stepwise Workflow and the bulk Selection are two
// front ends over the same detect/submit contract.
package ocrflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/models"
)

// State names one step of the pipeline.
type State string

const (
	StateSelectFile  State = "select_file"
	StateConfirmEach State = "confirm_each"
	StateDescribe    State = "describe"
	StateDone        State = "done"
)

// ErrInvalidState is returned when an operation is attempted in a state
// that does not permit it.
var ErrInvalidState = errors.New("operation not valid in current state")

// Backend is the detect/submit contract both confirmation front ends share.
type Backend interface {
	Detect(ctx context.Context, file io.Reader, filename, ocrSource string) ([]models.Detection, error)
	Upload(ctx context.Context, req api.UploadRequest) (*models.UploadResult, error)
}

// Metadata is the describe-step input.
type Metadata struct {
	Description string
	Author      string
	Tags        []string
	GroupName   string
}

// Workflow is the stepwise upload pipeline. It is not safe for concurrent
// use; it models a single user's linear session.
type Workflow struct {
	backend   Backend
	ocrSource string
	now       func() time.Time

	state      State
	fileData   []byte
	filename   string
	detections []models.Detection
	metrics    Metrics
	cursor     int
	confirmed  []models.ConfirmedAnnotation
	metadata   Metadata
	result     *models.UploadResult
}

// New creates a workflow in the SelectFile state.
func New(backend Backend, ocrSource string) *Workflow {
	return &Workflow{
		backend:   backend,
		ocrSource: ocrSource,
		now:       time.Now,
		state:     StateSelectFile,
	}
}

// State returns the current pipeline state.
func (w *Workflow) State() State { return w.state }

// SelectFile records the chosen image. This is the one mutation applied
// without a server round trip, since it has no server dependency.
func (w *Workflow) SelectFile(filename string, data []byte) error {
	if w.state != StateSelectFile {
		return fmt.Errorf("%w: cannot select a file in state %s", ErrInvalidState, w.state)
	}
	if len(data) == 0 {
		return errors.New("selected file is empty")
	}
	w.filename = filename
	w.fileData = data
	return nil
}

// Detect posts the selected file to the detection endpoint. On failure the
// workflow stays at SelectFile. On success the ordered detection list and
// its metrics are populated and the confirmation loop begins; an empty
// detection set skips straight to the describe step.
func (w *Workflow) Detect(ctx context.Context) error {
	if w.state != StateSelectFile {
		return fmt.Errorf("%w: detection runs from the select step, not %s", ErrInvalidState, w.state)
	}
	if w.fileData == nil {
		return errors.New("no file selected")
	}

	detections, err := w.backend.Detect(ctx, bytes.NewReader(w.fileData), w.filename, w.ocrSource)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	w.detections = detections
	w.metrics = ComputeMetrics(detections)
	w.cursor = 0
	slog.Info("Detection complete",
		"file", w.filename,
		"total", w.metrics.Total,
		"high", w.metrics.High,
		"medium", w.metrics.Medium,
		"low", w.metrics.Low)

	if len(detections) == 0 {
		w.state = StateDescribe
	} else {
		w.state = StateConfirmEach
	}
	return nil
}

// Metrics returns the aggregate metrics of the current detection set.
func (w *Workflow) Metrics() Metrics { return w.metrics }

// Detections returns the working detection list.
func (w *Workflow) Detections() []models.Detection { return w.detections }

// Confirmed returns the annotations promoted so far.
func (w *Workflow) Confirmed() []models.ConfirmedAnnotation { return w.confirmed }

// Cursor returns the confirmation cursor, always within [0, N-1].
func (w *Workflow) Cursor() int { return w.cursor }

// Current returns the detection under the cursor.
func (w *Workflow) Current() (models.Detection, error) {
	if w.state != StateConfirmEach {
		return models.Detection{}, fmt.Errorf("%w: no detection under review in state %s", ErrInvalidState, w.state)
	}
	return w.detections[w.cursor], nil
}

// Confirm promotes the detection under the cursor and advances. If the same
// detection was already confirmed, the earlier entry is refreshed instead of
// duplicated.
func (w *Workflow) Confirm() error {
	if w.state != StateConfirmEach {
		return fmt.Errorf("%w: nothing to confirm in state %s", ErrInvalidState, w.state)
	}

	d := w.detections[w.cursor]
	promoted := models.ConfirmedAnnotation{
		Detection:   d,
		Confirmed:   true,
		ConfirmedAt: w.now(),
	}

	replaced := false
	for i := range w.confirmed {
		if w.confirmed[i].ID == d.ID {
			w.confirmed[i] = promoted
			replaced = true
			break
		}
	}
	if !replaced {
		w.confirmed = append(w.confirmed, promoted)
	}

	w.advance()
	return nil
}

// Skip advances past the detection under the cursor without promoting it.
func (w *Workflow) Skip() error {
	if w.state != StateConfirmEach {
		return fmt.Errorf("%w: nothing to skip in state %s", ErrInvalidState, w.state)
	}
	w.advance()
	return nil
}

// Edit mutates the detection under the cursor in place, in both the working
// list and, when already promoted, the confirmed list.
func (w *Workflow) Edit(text string, confidence float64) error {
	if w.state != StateConfirmEach {
		return fmt.Errorf("%w: nothing to edit in state %s", ErrInvalidState, w.state)
	}

	d := &w.detections[w.cursor]
	d.Text = text
	d.Confidence = confidence

	for i := range w.confirmed {
		if w.confirmed[i].ID == d.ID {
			w.confirmed[i].Text = text
			w.confirmed[i].Confidence = confidence
			break
		}
	}

	w.metrics = ComputeMetrics(w.detections)
	return nil
}

// Back moves the cursor one step toward the first detection. It never
// regresses past index 0 and never changes state.
func (w *Workflow) Back() error {
	if w.state != StateConfirmEach {
		return fmt.Errorf("%w: no cursor in state %s", ErrInvalidState, w.state)
	}
	if w.cursor > 0 {
		w.cursor--
	}
	return nil
}

// Forward moves the cursor one step toward the last detection without
// confirming or skipping. It never advances past the last index.
func (w *Workflow) Forward() error {
	if w.state != StateConfirmEach {
		return fmt.Errorf("%w: no cursor in state %s", ErrInvalidState, w.state)
	}
	if w.cursor < len(w.detections)-1 {
		w.cursor++
	}
	return nil
}

// advance moves past the current detection; passing the last one exits the
// confirmation loop exactly once.
func (w *Workflow) advance() {
	if w.cursor >= len(w.detections)-1 {
		w.state = StateDescribe
		w.cursor = len(w.detections) - 1
		return
	}
	w.cursor++
}

// Describe records the work metadata for the final submission.
func (w *Workflow) Describe(md Metadata) error {
	if w.state != StateDescribe {
		return fmt.Errorf("%w: metadata belongs to the describe step, not %s", ErrInvalidState, w.state)
	}
	w.metadata = md
	return nil
}

// Submit bundles the original file, the metadata and the confirmed
// annotations into the final upload. On failure the workflow stays at
// Describe so the user can retry without re-detecting or re-confirming.
func (w *Workflow) Submit(ctx context.Context) (*models.UploadResult, error) {
	if w.state != StateDescribe {
		return nil, fmt.Errorf("%w: submission runs from the describe step, not %s", ErrInvalidState, w.state)
	}

	result, err := w.backend.Upload(ctx, api.UploadRequest{
		File:                 bytes.NewReader(w.fileData),
		Filename:             w.filename,
		Description:          w.metadata.Description,
		Author:               w.metadata.Author,
		Tags:                 w.metadata.Tags,
		GroupName:            w.metadata.GroupName,
		EnableOCR:            true,
		ConfirmedAnnotations: w.confirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("submission failed: %w", err)
	}

	w.result = result
	w.state = StateDone
	slog.Info("Upload complete", "file_id", result.FileID, "confirmed", len(w.confirmed))
	return result, nil
}

// Result returns the submission response once the workflow is Done.
func (w *Workflow) Result() *models.UploadResult { return w.result }

// Restart discards all in-memory state and re-enters SelectFile.
func (w *Workflow) Restart() {
	*w = Workflow{
		backend:   w.backend,
		ocrSource: w.ocrSource,
		now:       w.now,
		state:     StateSelectFile,
	}
}
