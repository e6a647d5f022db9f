// Package metrics provides the Prometheus metrics for the prediction
// bot. All metrics live on a custom registry so the scrape surface
// carries only what the bot exposes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the bot records.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingest metrics - draws flowing in from the upstream source.
	drawsIngested  prometheus.Counter
	drawsDuplicate prometheus.Counter
	sourceRequests *prometheus.CounterVec
	sourceLatency  *prometheus.HistogramVec
	sourceErrors   *prometheus.CounterVec

	// Prediction metrics - the scoring engine at work.
	predictions       prometheus.Counter
	predictionLatency prometheus.Histogram
	predictionHits    prometheus.Counter
	predictionMisses  prometheus.Counter
	dimensionFailures *prometheus.CounterVec

	// Storage metrics.
	storedDraws       prometheus.Gauge
	knownUsers        prometheus.Gauge
	storeQueryLatency prometheus.Histogram
	storeWriteLatency prometheus.Histogram
	storeErrors       prometheus.Counter

	// Notification pipeline metrics.
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	workerActive       prometheus.Gauge
	workerLatency      prometheus.Histogram
	workerErrors       prometheus.Counter
	notificationsSent  *prometheus.CounterVec
	notificationErrors prometheus.Counter

	// Chat surface metrics.
	telegramCommands *prometheus.CounterVec
	telegramErrors   prometheus.Counter

	// HTTP surface metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fcbot",
		subsystem:        "marksix",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one registration site for every metric
	auto := promauto.With(m.registry)

	// Ingest metrics.
	m.drawsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "draws_ingested_total",
		Help:      "Total number of draw results stored from the upstream source",
	})

	m.drawsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "draws_duplicate_total",
		Help:      "Total number of draws skipped because the period was already seen",
	})

	m.sourceRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_requests_total",
			Help:      "Total number of upstream API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	m.sourceLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_request_duration_milliseconds",
			Help:      "Upstream API request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint"},
	)

	m.sourceErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_errors_total",
			Help:      "Total number of upstream API failures by endpoint",
		},
		[]string{"endpoint"},
	)

	// Prediction metrics.
	m.predictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of predictions produced",
	})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_latency_milliseconds",
		Help:      "Histogram of full scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.predictionHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_hits_total",
		Help:      "Total number of settled predictions that contained the outcome",
	})

	m.predictionMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_misses_total",
		Help:      "Total number of settled predictions that missed the outcome",
	})

	m.dimensionFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dimension_failures_total",
			Help:      "Total number of scoring dimensions recovered to neutral",
		},
		[]string{"dimension"},
	)

	// Storage metrics.
	m.storedDraws = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_draws",
		Help:      "Number of draw periods currently stored",
	})

	m.knownUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "known_users",
		Help:      "Number of chat users with stored settings",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Draw store read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_write_latency_milliseconds",
		Help:      "Draw store write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of storage failures",
	})

	// Notification pipeline metrics.
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the notification queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum notification queue capacity",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of notifications enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of notifications dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of notifications dropped at enqueue",
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of delivery workers currently running",
	})

	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Delivery worker processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of delivery worker failures",
	})

	m.notificationsSent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications delivered by kind",
		},
		[]string{"kind"},
	)

	m.notificationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_errors_total",
		Help:      "Total number of notification delivery failures",
	})

	// Chat surface metrics.
	m.telegramCommands = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "telegram_commands_total",
			Help:      "Total number of chat commands handled by command",
		},
		[]string{"command"},
	)

	m.telegramErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "telegram_errors_total",
		Help:      "Total number of chat API failures",
	})

	// HTTP surface metrics.
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Ingest metrics functions.

// RecordDrawIngested increments the stored-draws counter.
func RecordDrawIngested() {
	globalManager.drawsIngested.Inc()
}

// RecordDrawDuplicate increments the duplicate-draws counter.
func RecordDrawDuplicate() {
	globalManager.drawsDuplicate.Inc()
}

// RecordSourceRequest records one upstream API request.
func RecordSourceRequest(endpoint, status string) {
	globalManager.sourceRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordSourceLatency records upstream API latency in milliseconds.
func RecordSourceLatency(endpoint string, latencyMs float64) {
	globalManager.sourceLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordSourceError increments the upstream failure counter.
func RecordSourceError(endpoint string) {
	globalManager.sourceErrors.WithLabelValues(endpoint).Inc()
}

// Prediction metrics functions.

// RecordPrediction increments the predictions counter.
func RecordPrediction() {
	globalManager.predictions.Inc()
}

// RecordPredictionLatency records scoring latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordPredictionHit increments the settled-hit counter.
func RecordPredictionHit() {
	globalManager.predictionHits.Inc()
}

// RecordPredictionMiss increments the settled-miss counter.
func RecordPredictionMiss() {
	globalManager.predictionMisses.Inc()
}

// RecordDimensionFailure counts a dimension recovered to neutral.
func RecordDimensionFailure(dimension string) {
	globalManager.dimensionFailures.WithLabelValues(dimension).Inc()
}

// Storage metrics functions.

// UpdateStoredDraws sets the stored draw period count.
func UpdateStoredDraws(count int) {
	globalManager.storedDraws.Set(float64(count))
}

// UpdateKnownUsers sets the stored chat user count.
func UpdateKnownUsers(count int) {
	globalManager.knownUsers.Set(float64(count))
}

// RecordStoreQueryLatency records a store read latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreWriteLatency records a store write latency in milliseconds.
func RecordStoreWriteLatency(latencyMs float64) {
	globalManager.storeWriteLatency.Observe(latencyMs)
}

// RecordStoreError increments the storage failure counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// Notification pipeline metrics functions.

// UpdateQueueSize sets the current notification queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the notification queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError increments the dropped-at-enqueue counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of running delivery workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerProcessingLatency records delivery latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerError increments the delivery failure counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordNotificationSent counts one delivered notification by kind.
func RecordNotificationSent(kind string) {
	globalManager.notificationsSent.WithLabelValues(kind).Inc()
}

// RecordNotificationError increments the notification failure counter.
func RecordNotificationError() {
	globalManager.notificationErrors.Inc()
}

// Chat surface metrics functions.

// RecordTelegramCommand counts one handled chat command.
func RecordTelegramCommand(command string) {
	globalManager.telegramCommands.WithLabelValues(command).Inc()
}

// RecordTelegramError increments the chat API failure counter.
func RecordTelegramError() {
	globalManager.telegramErrors.Inc()
}

// HTTP surface metrics functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry backing the
// package-level metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
