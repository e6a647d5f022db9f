// Package api exposes the read-only operational HTTP surface: recent
// draws, prediction records, hit statistics and the usual liveness and
// metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liemgreggy-glitch/fcbot/internal/adapters/repository"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
)

// Store is the read surface the API serves from.
type Store interface {
	LatestDraw(ctx context.Context) (model.Draw, error)
	History(ctx context.Context, seq string, limit int) ([]model.Draw, error)
	CountDraws(ctx context.Context) (int, error)
	Prediction(ctx context.Context, seq string) (model.PredictionRecord, error)
	LatestPrediction(ctx context.Context) (model.PredictionRecord, error)
	HitStats(ctx context.Context) (model.HitStats, error)
	CountUsers(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the operational API.
type Server struct {
	healthHandler      *HealthHandler
	metricsHandler     *MetricsHandler
	drawsHandler       *DrawsHandler
	predictionsHandler *PredictionsHandler
	statsHandler       *StatsHandler
}

// NewServer creates the API server with all handlers bound to store.
func NewServer(store Store) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(store),
		metricsHandler:     NewMetricsHandler(),
		drawsHandler:       NewDrawsHandler(store),
		predictionsHandler: NewPredictionsHandler(store),
		statsHandler:       NewStatsHandler(store),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/", wrap(handleRoot, "root"))
	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.metricsHandler.HandleMetrics)
	mux.HandleFunc("/api/v1/draws", wrap(s.drawsHandler.HandleGetDraws, "draws"))
	mux.HandleFunc("/api/v1/predictions/latest", wrap(s.predictionsHandler.HandleGetLatest, "predictions_latest"))
	mux.HandleFunc("/api/v1/predictions/", wrap(s.predictionsHandler.HandleGetBySeq, "predictions_by_seq"))
	mux.HandleFunc("/api/v1/stats/hitrate", wrap(s.statsHandler.HandleGetHitRate, "stats_hitrate"))
	mux.HandleFunc("/api/v1/stats/categories", wrap(s.statsHandler.HandleGetCategories, "stats_categories"))
}

// wrap chains the standard middleware onto a handler.
func wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RecoveryMiddleware(MetricsMiddleware(next, endpoint))
}

// handleRoot answers the bare root with a service index and keeps every
// other unknown path a 404.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "fcbot",
		"endpoints": []string{
			"/healthz",
			"/metrics",
			"/api-docs",
			"/api/v1/draws",
			"/api/v1/predictions/latest",
			"/api/v1/predictions/{seq}",
			"/api/v1/stats/hitrate",
			"/api/v1/stats/categories",
		},
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates the store's not-found condition to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
