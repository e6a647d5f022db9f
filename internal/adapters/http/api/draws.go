package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
)

const (
	defaultDrawLimit = 10
	maxDrawLimit     = 100
)

// DrawsHandler handles draw history requests.
type DrawsHandler struct {
	store Store
}

// NewDrawsHandler creates a new draws handler.
func NewDrawsHandler(store Store) *DrawsHandler {
	return &DrawsHandler{store: store}
}

// HandleGetDraws handles GET /api/v1/draws?limit=N requests, newest
// first.
func (h *DrawsHandler) HandleGetDraws(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := defaultDrawLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit %q", ErrBadRequest, raw))
			return
		}
		if n > maxDrawLimit {
			n = maxDrawLimit
		}
		limit = n
	}

	draws, err := recentDraws(r, h.store, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if draws == nil {
		draws = []model.Draw{}
	}
	writeJSON(w, http.StatusOK, draws)
}

// recentDraws loads the newest draws including the latest one. History
// is exclusive of its bound, so the walk starts one period past the
// head.
func recentDraws(r *http.Request, store Store, limit int) ([]model.Draw, error) {
	latest, err := store.LatestDraw(r.Context())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	next, err := model.NextSeq(latest.Seq)
	if err != nil {
		return nil, err
	}
	return store.History(r.Context(), next, limit)
}
