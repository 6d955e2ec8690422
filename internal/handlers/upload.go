package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/models"
	"github.com/hanzi-archive/curator/internal/ocrflow"
)

const maxUploadBytes = 20 * 1024 * 1024

// HandleDetect runs one detection pass and returns the ordered detections,
// their aggregate metrics, and the default bulk pre-selection.
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("calligraphy")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ocrSource := r.FormValue("ocrSource")
	detections, err := h.source.Detect(r.Context(), data, header.Filename, ocrSource)
	if err != nil {
		h.writePanelError(w, err)
		return
	}

	selection := ocrflow.NewSelection(detections, h.cfg.Thresholds.AutoSelect, h.cfg.Thresholds.LowCut)
	selected := make([]string, 0, len(detections))
	for _, d := range detections {
		if selection.IsSelected(d.ID) {
			selected = append(selected, d.ID)
		}
	}

	h.writeJSON(w, map[string]any{
		"ocrResults": detections,
		"metrics":    selection.Metrics(),
		"selected":   selected,
	})
}

// HandleUpload performs the final submission: the original file plus
// metadata plus the confirmed annotations the caller settled on.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("calligraphy")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			h.writeError(w, "Invalid tags JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	var confirmed []models.ConfirmedAnnotation
	if raw := r.FormValue("confirmedAnnotations"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &confirmed); err != nil {
			h.writeError(w, "Invalid confirmedAnnotations JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := h.client.Upload(r.Context(), api.UploadRequest{
		File:                 io.LimitReader(file, maxUploadBytes),
		Filename:             header.Filename,
		Description:          r.FormValue("description"),
		Author:               r.FormValue("workAuthor"),
		Tags:                 tags,
		GroupName:            r.FormValue("groupName"),
		EnableOCR:            r.FormValue("enableOCR") == "true",
		ConfirmedAnnotations: confirmed,
	})
	if err != nil {
		h.writePanelError(w, err)
		return
	}
	h.writeJSON(w, result)
}
