package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
)

// PredictionsHandler handles prediction record requests.
type PredictionsHandler struct {
	store Store
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(store Store) *PredictionsHandler {
	return &PredictionsHandler{store: store}
}

// HandleGetLatest handles GET /api/v1/predictions/latest requests.
func (h *PredictionsHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rec, err := h.store.LatestPrediction(r.Context())
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleGetBySeq handles GET /api/v1/predictions/{seq} requests.
func (h *PredictionsHandler) HandleGetBySeq(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	seq := strings.TrimPrefix(r.URL.Path, "/api/v1/predictions/")
	if seq == "" || strings.Contains(seq, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := model.ValidateSeq(seq); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	rec, err := h.store.Prediction(r.Context(), seq)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
