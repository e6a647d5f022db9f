package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/liemgreggy-glitch/fcbot/pkg/metrics"
)

// MetricsHandler exposes the Prometheus registry.
type MetricsHandler struct {
	inner http.Handler
}

// NewMetricsHandler creates a new metrics handler over the process
// registry.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{
		inner: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleMetrics handles GET /metrics requests.
func (h *MetricsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.inner.ServeHTTP(w, r)
}
