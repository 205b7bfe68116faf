package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
	offerTransitions *prometheus.CounterVec
	auditFailures    prometheus.Counter
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "HTTP requests that ended in an error envelope, by error code.",
			},
			[]string{"method", "path", "code"},
		),
		offerTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offer_transitions_total",
				Help: "Committed offer status transitions.",
			},
			[]string{"status"},
		),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_failures_total",
			Help: "Audit entries that could not be appended.",
		}),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.errorsTotal,
		m.offerTransitions,
		m.auditFailures,
		collectors.NewGoCollector(),
	)
	return m
}

// RecordRequest observes a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordOfferTransition counts a committed status change.
func (m *Metrics) RecordOfferTransition(status string) {
	if m == nil {
		return
	}
	m.offerTransitions.WithLabelValues(status).Inc()
}

// RecordAuditFailure counts a dropped audit entry.
func (m *Metrics) RecordAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
