// Package handlers exposes the admin panels over local JSON HTTP for the
// serve command. It is a thin front end: every route delegates to a panel
// or the workflow, which in turn talk to the remote backend.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/config"
	"github.com/hanzi-archive/curator/internal/detect"
	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/hanzi-archive/curator/internal/session"
)

type Handler struct {
	cfg         *config.Config
	client      *api.Client
	sessions    *session.Holder
	source      detect.Source
	works       *panel.Works
	annotations *panel.Annotations
	users       *panel.Users
	groups      *panel.Groups
	homepage    *panel.Homepage
}

// New wires the gateway. Destructive actions are gated per request with a
// confirm query parameter, so the panels run with AlwaysConfirm here.
func New(cfg *config.Config, client *api.Client, sessions *session.Holder) (*Handler, error) {
	source, err := detect.NewSource(cfg.Detect.Source, client, cfg.Detect.Model)
	if err != nil {
		return nil, err
	}

	annotations := panel.NewAnnotations(client, panel.AlwaysConfirm)
	return &Handler{
		cfg:         cfg,
		client:      client,
		sessions:    sessions,
		source:      source,
		works:       panel.NewWorks(client, panel.AlwaysConfirm, annotations),
		annotations: annotations,
		users:       panel.NewUsers(client, panel.AlwaysConfirm, sessions),
		groups:      panel.NewGroups(client, panel.AlwaysConfirm),
		homepage:    panel.NewHomepage(client),
	}, nil
}

// Routes registers every gateway route on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/session", h.HandleSession)
	mux.HandleFunc("/api/works", h.HandleWorks)
	mux.HandleFunc("/api/works/", h.HandleWorkDetail)
	mux.HandleFunc("/api/annotations", h.HandleAnnotations)
	mux.HandleFunc("/api/annotations/", h.HandleAnnotationDetail)
	mux.HandleFunc("/api/users", h.HandleUsers)
	mux.HandleFunc("/api/users/", h.HandleUserDetail)
	mux.HandleFunc("/api/groups", h.HandleGroups)
	mux.HandleFunc("/api/groups/", h.HandleGroupDetail)
	mux.HandleFunc("/api/homepage", h.HandleHomepage)
	mux.HandleFunc("/api/homepage/", h.HandleHomepageDetail)
	mux.HandleFunc("/api/detect", h.HandleDetect)
	mux.HandleFunc("/api/upload", h.HandleUpload)
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writePanelError maps panel and backend errors onto gateway status codes,
// surfacing the server's error text when there is one.
func (h *Handler) writePanelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, panel.ErrBusy):
		h.writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, panel.ErrValidation), errors.Is(err, panel.ErrParentCycle):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, panel.ErrSelfDelete), errors.Is(err, panel.ErrNotConfirmed):
		h.writeError(w, err.Error(), http.StatusForbidden)
	case api.IsUnauthorized(err):
		h.writeError(w, err.Error(), http.StatusUnauthorized)
	default:
		h.writeError(w, err.Error(), http.StatusBadGateway)
	}
}

// confirmed reports whether the caller acknowledged a destructive action.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}
