// Package metrics provides Prometheus metrics for the newsheat service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the newsheat service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Scoring
	articlesScored  *prometheus.CounterVec
	modelFallbacks  *prometheus.CounterVec
	scoringLatency  prometheus.Histogram
	relevanceScores prometheus.Histogram
	bucketPlaced    *prometheus.CounterVec

	// Ingest
	articlesDuplicate prometheus.Counter
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueRejected     prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store
	articlesStored prometheus.Gauge
	storeLatency   *prometheus.HistogramVec
	storeErrors    *prometheus.CounterVec

	// External calls
	modelRequests *prometheus.CounterVec
	modelLatency  prometheus.Histogram
	feedFetches   *prometheus.CounterVec
	feedItems     prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "newsheat",
		subsystem:        "scorer",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.articlesScored = auto.NewCounterVec(
		m.counterOpts("articles_scored_total", "Articles scored, by scorer"),
		[]string{"scored_by"},
	)
	m.modelFallbacks = auto.NewCounterVec(
		m.counterOpts("model_fallbacks_total", "Model scoring attempts that fell back to the heuristic"),
		[]string{"reason"},
	)
	m.scoringLatency = auto.NewHistogram(
		m.histogramOpts("scoring_latency_milliseconds", "Time to score one article", m.histogramBuckets),
	)
	m.relevanceScores = auto.NewHistogram(
		m.histogramOpts("relevance_score", "Distribution of relevance scores", prometheus.LinearBuckets(10, 10, 10)),
	)
	m.bucketPlaced = auto.NewCounterVec(
		m.counterOpts("bucket_placements_total", "Articles placed into each display bucket"),
		[]string{"bucket"},
	)

	m.articlesDuplicate = auto.NewCounter(
		m.counterOpts("articles_duplicate_total", "Submitted articles dropped as duplicates"),
	)
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Articles waiting to be scored"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Ingest queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Ingest queue fill ratio"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Articles accepted by the ingest queue"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeued_total", "Articles taken off the ingest queue"))
	m.queueRejected = auto.NewCounter(m.counterOpts("queue_rejected_total", "Articles rejected because the queue was full"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Running ingest workers"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Time to score and store one queued article", m.histogramBuckets),
	)
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Errors while processing queued articles"))

	m.articlesStored = auto.NewGauge(m.gaugeOpts("articles_stored", "Scored articles in the store"))
	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Store operation latency", m.histogramBuckets),
		[]string{"op"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Failed store operations"),
		[]string{"op"},
	)

	m.modelRequests = auto.NewCounterVec(
		m.counterOpts("model_requests_total", "Requests to the language model provider"),
		[]string{"provider", "status"},
	)
	m.modelLatency = auto.NewHistogram(
		m.histogramOpts("model_latency_milliseconds", "Language model request latency",
			[]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}),
	)
	m.feedFetches = auto.NewCounterVec(
		m.counterOpts("feed_fetches_total", "Feed fetches by result"),
		[]string{"result"},
	)
	m.feedItems = auto.NewCounter(m.counterOpts("feed_items_total", "Items read from feeds"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint and kind"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and kind"),
		[]string{"component", "error_type"},
	)
}

// RecordArticleScored counts one scored article and its score.
func RecordArticleScored(scoredBy string, score int) {
	globalManager.articlesScored.WithLabelValues(scoredBy).Inc()
	globalManager.relevanceScores.Observe(float64(score))
}

// RecordModelFallback counts a model attempt that fell back to the heuristic.
func RecordModelFallback(reason string) {
	globalManager.modelFallbacks.WithLabelValues(reason).Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordBucketPlacement counts articles placed into bucket.
func RecordBucketPlacement(bucket string, n int) {
	globalManager.bucketPlaced.WithLabelValues(bucket).Add(float64(n))
}

// RecordArticleDuplicate increments the duplicate articles counter.
func RecordArticleDuplicate() {
	globalManager.articlesDuplicate.Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the rejected counter.
func RecordQueueEnqueueError() {
	globalManager.queueRejected.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Store Metrics Functions.

// UpdateArticlesStored sets the number of stored articles.
func UpdateArticlesStored(count int) {
	globalManager.articlesStored.Set(float64(count))
}

// RecordStoreLatency records the latency of a store operation.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// External Call Metrics Functions.

// RecordModelRequest counts a model provider request by HTTP status (0 for
// transport failures) and records its latency.
func RecordModelRequest(provider string, status int, latencyMs float64) {
	globalManager.modelRequests.WithLabelValues(provider, strconv.Itoa(status)).Inc()
	globalManager.modelLatency.Observe(latencyMs)
}

// RecordFeedFetch counts a feed fetch and the items it produced.
func RecordFeedFetch(result string, items int) {
	globalManager.feedFetches.WithLabelValues(result).Inc()
	globalManager.feedItems.Add(float64(items))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
