// Package metrics provides Prometheus metrics for documentation API calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client's collectors on a private registry, so several
// clients (and tests) can coexist without duplicate registration.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RetriesTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libdocs_requests_total",
			Help: "Total number of HTTP attempts against the documentation service",
		},
		[]string{"endpoint", "outcome"},
	)

	m.RetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libdocs_retries_total",
			Help: "Total number of retries, by the error kind that caused them",
		},
		[]string{"kind"},
	)

	m.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libdocs_request_duration_seconds",
			Help:    "Duration of single HTTP attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	m.CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libdocs_cache_lookups_total",
			Help: "Caller-side cache lookups by result",
		},
		[]string{"result"},
	)

	m.Registry.MustRegister(m.RequestsTotal, m.RetriesTotal, m.RequestDuration, m.CacheLookups)
	return m
}

// ObserveRequest records one attempt. outcome is "ok" or an error kind.
// Safe to call on a nil *Metrics.
func (m *Metrics) ObserveRequest(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveRetry records one retry caused by an error of the given kind.
func (m *Metrics) ObserveRetry(kind string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(kind).Inc()
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// WriteTextfile writes the current values in the Prometheus text format, for
// pickup by a node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
