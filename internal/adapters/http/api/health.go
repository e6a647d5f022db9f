package api

import (
	"net/http"
)

// HealthHandler handles liveness checks.
type HealthHandler struct {
	store Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Store) *HealthHandler {
	return &HealthHandler{store: store}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Draws  int    `json:"draws,omitempty"`
	Users  int    `json:"users,omitempty"`
}

// HandleHealth handles GET /healthz requests. The store ping decides
// between 200 and 503 so orchestration restarts the process when the
// database goes away.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	resp := healthResponse{Status: "ok", Store: "ok"}
	if err := h.store.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Store = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if n, err := h.store.CountDraws(r.Context()); err == nil {
		resp.Draws = n
	}
	if n, err := h.store.CountUsers(r.Context()); err == nil {
		resp.Users = n
	}
	writeJSON(w, http.StatusOK, resp)
}
