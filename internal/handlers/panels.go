package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hanzi-archive/curator/internal/api"
)

func (h *Handler) HandleWorks(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.works.FetchAll(r.Context()); err != nil {
		h.writePanelError(w, err)
		return
	}
	h.writeJSON(w, h.works.Items())
}

func (h *Handler) HandleWorkDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/works/")
	if r.Method != "DELETE" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !confirmed(r) {
		h.writeError(w, "Deletion requires confirm=true", http.StatusBadRequest)
		return
	}
	if err := h.works.Delete(r.Context(), id); err != nil {
		h.writePanelError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"message": "deleted"})
}

func (h *Handler) HandleAnnotations(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.annotations.FetchAll(r.Context()); err != nil {
		h.writePanelError(w, err)
		return
	}
	if workID := r.URL.Query().Get("work"); workID != "" {
		h.writeJSON(w, h.annotations.ByWork(workID))
		return
	}
	h.writeJSON(w, h.annotations.Items())
}

func (h *Handler) HandleAnnotationDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/annotations/")
	if r.Method != "DELETE" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !confirmed(r) {
		h.writeError(w, "Deletion requires confirm=true", http.StatusBadRequest)
		return
	}
	if err := h.annotations.Delete(r.Context(), id); err != nil {
		h.writePanelError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"message": "deleted"})
}

func (h *Handler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		if err := h.users.FetchAll(r.Context()); err != nil {
			h.writePanelError(w, err)
			return
		}
		h.writeJSON(w, h.users.Items())

	case "POST":
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			IsAdmin  bool   `json:"isAdmin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		user, err := h.users.Create(r.Context(), req.Username, req.Password, req.IsAdmin)
		if err != nil {
			h.writePanelError(w, err)
			return
		}
		h.writeJSON(w, user)

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleUserDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")

	// PUT /api/users/{id}/password resets a password
	if id, ok := strings.CutSuffix(rest, "/password"); ok {
		if r.Method != "PUT" {
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.users.UpdatePassword(r.Context(), id, req.Password); err != nil {
			h.writePanelError(w, err)
			return
		}
		h.writeJSON(w, map[string]string{"message": "password updated"})
		return
	}

	if r.Method != "DELETE" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !confirmed(r) {
		h.writeError(w, "Deletion requires confirm=true", http.StatusBadRequest)
		return
	}
	if err := h.users.Delete(r.Context(), rest); err != nil {
		h.writePanelError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"message": "deleted"})
}

func (h *Handler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		if err := h.groups.FetchAll(r.Context()); err != nil {
			h.writePanelError(w, err)
			return
		}
		if r.URL.Query().Get("tree") == "true" {
			h.writeJSON(w, h.groups.Tree())
			return
		}
		h.writeJSON(w, h.groups.Items())

	case "POST":
		var req api.GroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		group, err := h.groups.Create(r.Context(), req)
		if err != nil {
			h.writePanelError(w, err)
			return
		}
		h.writeJSON(w, group)

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleGroupDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/groups/")

	switch r.Method {
	case "PUT":
		var req api.GroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		group, err := h.groups.Update(r.Context(), id, req)
		if err != nil {
			h.writePanelError(w, err)
			return
		}
		h.writeJSON(w, group)

	case "DELETE":
		if !confirmed(r) {
			h.writeError(w, "Deletion requires confirm=true", http.StatusBadRequest)
			return
		}
		if err := h.groups.Delete(r.Context(), id); err != nil {
			h.writePanelError(w, err)
			return
		}
		h.writeJSON(w, map[string]string{"message": "deleted"})

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleHomepage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.homepage.FetchAll(r.Context()); err != nil {
		h.writePanelError(w, err)
		return
	}
	h.writeJSON(w, map[string]any{
		"hero":     h.homepage.Hero(),
		"features": h.homepage.Features(),
		"gallery":  h.homepage.Gallery(),
		"rows":     h.homepage.Items(),
	})
}

func (h *Handler) HandleHomepageDetail(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/homepage/")
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ContentValue string `json:"content_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.homepage.StartEdit(key); err != nil {
		h.writePanelError(w, err)
		return
	}
	if err := h.homepage.Save(r.Context(), req.ContentValue); err != nil {
		h.homepage.CancelEdit()
		h.writePanelError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"message": "saved"})
}
