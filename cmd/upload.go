package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/detect"
	"github.com/hanzi-archive/curator/internal/models"
	"github.com/hanzi-archive/curator/internal/ocrflow"
	"github.com/hanzi-archive/curator/internal/overlay"
	"github.com/hanzi-archive/curator/internal/snapshot"
)

func newUploadCmd() *cobra.Command {
	var bulk bool
	var description string
	var author string
	var groupName string
	var tags []string
	var ocrSource string
	var transcriptDir string
	var overlayOut string
	var showLow bool

	cmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a work through the OCR-assisted workflow",
		Long: `Uploads a calligraphy image. The stepwise mode walks every detected
character for confirmation, editing or skipping; --bulk pre-selects
high-confidence detections and confirms them in one step.`,
		Example: `  # Stepwise confirmation loop
  curator upload shufa.jpg --author "王羲之" --group "行书"

  # Bulk mode, keep the pre-selected high-confidence detections
  curator upload shufa.jpg --bulk --description "兰亭集序"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			filename := filepath.Base(args[0])

			source, err := detect.NewSource(a.cfg.Detect.Source, a.client, a.cfg.Detect.Model)
			if err != nil {
				return err
			}
			backend := &detect.Router{Client: a.client, Source: source}

			md := ocrflow.Metadata{
				Description: description,
				Author:      author,
				Tags:        tags,
				GroupName:   groupName,
			}

			var metrics ocrflow.Metrics
			var confirmed []models.ConfirmedAnnotation
			var result *models.UploadResult

			if bulk {
				result, metrics, confirmed, err = runBulkUpload(cmd, a, backend, data, filename, ocrSource, md, showLow, overlayOut)
			} else {
				result, metrics, confirmed, err = runStepwiseUpload(cmd, backend, data, filename, ocrSource, md, overlayOut)
			}
			if err != nil {
				return err
			}

			fmt.Printf("\nUploaded %s (file id %s, %d confirmed annotations)\n",
				result.OriginalFilename, result.FileID, len(confirmed))

			if transcriptDir != "" {
				path, err := snapshot.SaveTranscript(transcriptDir, filename, source.Name(), author, groupName, metrics, confirmed, result)
				if err != nil {
					return err
				}
				fmt.Printf("Transcript written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bulk, "bulk", false, "Bulk-confirm instead of the per-character loop")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Work description")
	cmd.Flags().StringVar(&author, "author", "", "Work author")
	cmd.Flags().StringVarP(&groupName, "group", "g", "", "Group name")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&ocrSource, "ocr-source", "default", "OCR engine name passed to the backend")
	cmd.Flags().StringVar(&transcriptDir, "transcript", "", "Directory for a YAML transcript of the run")
	cmd.Flags().StringVar(&overlayOut, "overlay", "", "Write a PNG with the selected boxes drawn on the image")
	cmd.Flags().BoolVar(&showLow, "show-low", false, "Bulk mode: show low-confidence detections too")

	return cmd
}

func printMetrics(m ocrflow.Metrics) {
	fmt.Printf("Detected %d characters: %d high, %d medium, %d low, mean confidence %.2f%%\n",
		m.Total, m.High, m.Medium, m.Low, m.AvgConfidence)
}

func runStepwiseUpload(cmd *cobra.Command, backend ocrflow.Backend, data []byte, filename, ocrSource string, md ocrflow.Metadata, overlayOut string) (*models.UploadResult, ocrflow.Metrics, []models.ConfirmedAnnotation, error) {
	w := ocrflow.New(backend, ocrSource)
	if err := w.SelectFile(filename, data); err != nil {
		return nil, ocrflow.Metrics{}, nil, err
	}
	if err := w.Detect(cmd.Context()); err != nil {
		return nil, ocrflow.Metrics{}, nil, err
	}
	printMetrics(w.Metrics())

	reader := bufio.NewReader(os.Stdin)
	for w.State() == ocrflow.StateConfirmEach {
		d, err := w.Current()
		if err != nil {
			return nil, ocrflow.Metrics{}, nil, err
		}
		fmt.Printf("\n[%d/%d] %q  confidence %.1f%% (%s)  box=(%.0f,%.0f %.0fx%.0f)\n",
			w.Cursor()+1, w.Metrics().Total, d.Text, d.Confidence, ocrflow.BandFor(d.Confidence),
			d.X, d.Y, d.Width, d.Height)

		answer, err := promptLine(reader, "confirm [c], edit [e], skip [s], back [b], forward [f], quit [q]: ")
		if err != nil {
			return nil, ocrflow.Metrics{}, nil, err
		}

		switch answer {
		case "c", "":
			err = w.Confirm()
		case "e":
			var text string
			text, err = promptLine(reader, fmt.Sprintf("text [%s]: ", d.Text))
			if err != nil {
				return nil, ocrflow.Metrics{}, nil, err
			}
			if text == "" {
				text = d.Text
			}
			confidence := d.Confidence
			raw, perr := promptLine(reader, fmt.Sprintf("confidence [%.1f]: ", d.Confidence))
			if perr == nil && raw != "" {
				if parsed, cerr := strconv.ParseFloat(raw, 64); cerr == nil {
					confidence = parsed
				}
			}
			err = w.Edit(text, confidence)
		case "s":
			err = w.Skip()
		case "b":
			err = w.Back()
		case "f":
			err = w.Forward()
		case "q":
			return nil, ocrflow.Metrics{}, nil, fmt.Errorf("upload aborted")
		default:
			fmt.Println("Unknown choice")
		}
		if err != nil {
			return nil, ocrflow.Metrics{}, nil, err
		}
	}

	if overlayOut != "" {
		selected := make(map[string]bool, len(w.Confirmed()))
		for _, c := range w.Confirmed() {
			selected[c.ID] = true
		}
		if err := writeOverlay(overlayOut, data, w.Detections(), func(d models.Detection) bool { return selected[d.ID] }); err != nil {
			return nil, ocrflow.Metrics{}, nil, err
		}
	}

	if err := w.Describe(md); err != nil {
		return nil, ocrflow.Metrics{}, nil, err
	}
	result, err := w.Submit(cmd.Context())
	if err != nil {
		return nil, ocrflow.Metrics{}, nil, err
	}
	return result, w.Metrics(), w.Confirmed(), nil
}

func runBulkUpload(cmd *cobra.Command, a *app, backend ocrflow.Backend, data []byte, filename, ocrSource string, md ocrflow.Metadata, showLow bool, overlayOut string) (*models.UploadResult, ocrflow.Metrics, []models.ConfirmedAnnotation, error) {
	detections, err := backend.Detect(cmd.Context(), bytes.NewReader(data), filename, ocrSource)
	if err != nil {
		return nil, ocrflow.Metrics{}, nil, err
	}

	selection := ocrflow.NewSelection(detections, a.cfg.Thresholds.AutoSelect, a.cfg.Thresholds.LowCut)
	selection.SetShowLow(showLow)
	printMetrics(selection.Metrics())

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println()
		for _, d := range selection.Visible() {
			mark := " "
			if selection.IsSelected(d.ID) {
				mark = "x"
			}
			fmt.Printf("[%s] %s  %q  %.1f%% (%s)\n", mark, d.ID, d.Text, d.Confidence, ocrflow.BandFor(d.Confidence))
		}

		answer, err := promptLine(reader, "toggle <id>, 'low' to flip the low-confidence filter, empty to confirm: ")
		if err != nil {
			return nil, ocrflow.Metrics{}, nil, err
		}
		switch {
		case answer == "":
			confirmed := selection.Confirm()
			result, err := backend.Upload(cmd.Context(), uploadRequest(data, filename, md, confirmed))
			if err != nil {
				return nil, ocrflow.Metrics{}, nil, err
			}
			if overlayOut != "" {
				if err := writeOverlay(overlayOut, data, detections, func(d models.Detection) bool { return selection.IsSelected(d.ID) }); err != nil {
					return nil, ocrflow.Metrics{}, nil, err
				}
			}
			return result, selection.Metrics(), confirmed, nil
		case answer == "low":
			selection.SetShowLow(!selection.ShowLow())
		default:
			for _, id := range strings.Split(answer, ",") {
				selection.Toggle(strings.TrimSpace(id))
			}
		}
	}
}

func uploadRequest(data []byte, filename string, md ocrflow.Metadata, confirmed []models.ConfirmedAnnotation) api.UploadRequest {
	return api.UploadRequest{
		File:                 bytes.NewReader(data),
		Filename:             filename,
		Description:          md.Description,
		Author:               md.Author,
		Tags:                 md.Tags,
		GroupName:            md.GroupName,
		EnableOCR:            true,
		ConfirmedAnnotations: confirmed,
	}
}

func writeOverlay(path string, data []byte, detections []models.Detection, selected func(models.Detection) bool) error {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image for overlay: %w", err)
	}

	bounds := src.Bounds()
	plan := overlay.BuildPlan(float64(bounds.Dx()), float64(bounds.Dy()), 1200, detections, selected)
	rendered := overlay.Render(src, plan)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create overlay file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, rendered); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	fmt.Printf("Overlay written to %s\n", path)
	return nil
}
