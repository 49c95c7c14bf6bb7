// Package metrics holds the Prometheus collectors for the dashboard API.
// The Metrics struct is injected into the components that record, following
// the explicit dependency pattern rather than package-level globals.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec

	cacheLookupsTotal *prometheus.CounterVec

	exportsTotal   *prometheus.CounterVec
	exportDuration prometheus.Histogram
}

// New creates a Metrics instance and registers all collectors. A nil
// registry falls back to the default registerer.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revboard_http_requests_total",
				Help: "Total HTTP requests by handler, method and status code",
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "revboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"handler", "method"},
		),
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revboard_storage_queries_total",
				Help: "Total storage queries by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "revboard_storage_query_duration_seconds",
				Help:    "Storage query duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"operation"},
		),
		cacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revboard_cache_lookups_total",
				Help: "Query cache lookups by cache name and result (hit/miss)",
			},
			[]string{"cache", "result"},
		),
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revboard_exports_total",
				Help: "CSV export jobs by trigger (sync/async) and outcome",
			},
			[]string{"trigger", "status"},
		),
		exportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "revboard_export_duration_seconds",
				Help:    "CSV export generation duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	m.httpRequestsTotal.WithLabelValues(handler, method, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(handler, method).Observe(duration)
}

func (m *Metrics) RecordQuery(operation string, duration float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.queriesTotal.WithLabelValues(operation, status).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(duration)
}

func (m *Metrics) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) RecordExport(trigger string, duration float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.exportsTotal.WithLabelValues(trigger, status).Inc()
	m.exportDuration.Observe(duration)
}
