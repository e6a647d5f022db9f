package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/stats"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

const maxCategoryWindow = 1000

// StatsHandler handles hit-rate and category statistics requests.
type StatsHandler struct {
	store Store
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// HandleGetHitRate handles GET /api/v1/stats/hitrate requests.
func (h *StatsHandler) HandleGetHitRate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	st, err := h.store.HitStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type categoriesResponse struct {
	Window     int                `json:"window"`
	Draws      int                `json:"draws"`
	Categories []stats.SignDetail `json:"categories"`
}

// HandleGetCategories handles GET /api/v1/stats/categories?window=N
// requests: per-sign behavior over the most recent N draws, in wheel
// order.
func (h *StatsHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	window := stats.DefaultWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: window %q", ErrBadRequest, raw))
			return
		}
		if n > maxCategoryWindow {
			n = maxCategoryWindow
		}
		window = n
	}

	draws, err := recentDraws(r, h.store, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	resp := categoriesResponse{
		Window:     window,
		Draws:      len(draws),
		Categories: make([]stats.SignDetail, 0, zodiac.SignCount),
	}
	for _, s := range zodiac.Signs() {
		detail, err := stats.DetailOf(draws, s)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		resp.Categories = append(resp.Categories, detail)
	}
	writeJSON(w, http.StatusOK, resp)
}
