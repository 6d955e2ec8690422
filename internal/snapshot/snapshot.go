// Package snapshot writes local offline copies of the remote catalog:
// parquet files of the works and annotations collections for analysis, and
// YAML transcripts of completed upload workflows.
package snapshot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/hanzi-archive/curator/internal/models"
)

// WorkRow is the parquet row shape for one work.
type WorkRow struct {
	ID               string `parquet:"id"`
	Filename         string `parquet:"filename"`
	OriginalFilename string `parquet:"original_filename"`
	Author           string `parquet:"work_author"`
	GroupName        string `parquet:"group_name"`
	Tags             string `parquet:"tags"` // comma-joined
	Description      string `parquet:"description"`
	UploadDate       int64  `parquet:"upload_date"` // unix seconds
	UserID           string `parquet:"user_id"`
}

// AnnotationRow is the parquet row shape for one annotation.
type AnnotationRow struct {
	ID        string  `parquet:"id"`
	Character string  `parquet:"character"`
	WorkID    string  `parquet:"work_id"`
	X         float64 `parquet:"x"`
	Y         float64 `parquet:"y"`
	Width     float64 `parquet:"width"`
	Height    float64 `parquet:"height"`
	CreatedAt int64   `parquet:"created_at"`
	UserID    string  `parquet:"user_id"`
}

// WriteCatalog writes works.parquet and annotations.parquet under dir.
func WriteCatalog(dir string, works []models.Work, annotations []models.Annotation) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	workRows := make([]WorkRow, 0, len(works))
	for _, w := range works {
		workRows = append(workRows, WorkRow{
			ID:               w.ID,
			Filename:         w.Filename,
			OriginalFilename: w.OriginalFilename,
			Author:           w.Author,
			GroupName:        w.GroupName,
			Tags:             joinTags(w.Tags),
			Description:      w.Description,
			UploadDate:       w.UploadDate.Unix(),
			UserID:           w.UserID,
		})
	}
	if err := writeParquet(filepath.Join(dir, "works.parquet"), workRows); err != nil {
		return err
	}

	annotationRows := make([]AnnotationRow, 0, len(annotations))
	for _, a := range annotations {
		annotationRows = append(annotationRows, AnnotationRow{
			ID:        a.ID,
			Character: a.Character,
			WorkID:    a.WorkID,
			X:         a.X,
			Y:         a.Y,
			Width:     a.Width,
			Height:    a.Height,
			CreatedAt: a.CreatedAt.Unix(),
			UserID:    a.UserID,
		})
	}
	if err := writeParquet(filepath.Join(dir, "annotations.parquet"), annotationRows); err != nil {
		return err
	}

	slog.Info("Catalog snapshot written", "dir", dir, "works", len(workRows), "annotations", len(annotationRows))
	return nil
}

func writeParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows to %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}

// ReadWorks loads a works.parquet file back, for inspecting a snapshot.
func ReadWorks(path string) ([]WorkRow, error) {
	return readParquet[WorkRow](path)
}

// ReadAnnotations loads an annotations.parquet file back.
func ReadAnnotations(path string) ([]AnnotationRow, error) {
	return readParquet[AnnotationRow](path)
}

func readParquet[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	var records []T
	rows := make([]T, 128)
	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err != nil {
			break
		}
	}
	return records, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// Timestamp returns the filename-safe timestamp used for snapshot and
// transcript names.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}
