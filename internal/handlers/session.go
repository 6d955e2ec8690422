package handlers

import (
	"encoding/json"
	"net/http"
)

// HandleSession manages the gateway's identity: GET reports the snapshot,
// POST logs in against the backend, DELETE logs out.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		snap := h.sessions.Current()
		resp := map[string]any{
			"isAuthenticated": snap.IsAuthenticated,
			"isLoading":       snap.IsLoading,
		}
		if snap.Identity != nil {
			resp["username"] = snap.Identity.Username
			resp["isAdmin"] = snap.Identity.IsAdmin
		}
		h.writeJSON(w, resp)

	case "POST":
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			h.writeError(w, "username and password are required", http.StatusBadRequest)
			return
		}

		identity, err := h.client.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			h.writePanelError(w, err)
			return
		}
		if err := h.sessions.Login(*identity); err != nil {
			h.writeError(w, "Failed to persist credentials: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]any{
			"username": identity.Username,
			"isAdmin":  identity.IsAdmin,
		})

	case "DELETE":
		h.sessions.Logout()
		h.writeJSON(w, map[string]string{"message": "logged out"})

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
