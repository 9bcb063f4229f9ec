// Package metrics provides Prometheus metrics for holocron
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors, registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP API
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream film API
	UpstreamFetchesTotal  *prometheus.CounterVec
	UpstreamFetchDuration *prometheus.HistogramVec

	// Local cache
	CacheLookupsTotal *prometheus.CounterVec

	// Derivation
	ViewSize prometheus.Gauge
}

// New creates and registers all collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holocron_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "holocron_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.UpstreamFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holocron_upstream_fetches_total",
			Help: "Total number of calls to the film API",
		},
		[]string{"kind", "outcome"},
	)

	m.UpstreamFetchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "holocron_upstream_fetch_duration_seconds",
			Help:    "Duration of film API calls in seconds, retries included",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	m.CacheLookupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holocron_cache_lookups_total",
			Help: "Local cache lookups by bucket and result",
		},
		[]string{"bucket", "result"},
	)

	m.ViewSize = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "holocron_view_size",
			Help: "Number of films in the last derived view",
		},
	)

	return m
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records a finished API request
func (m *Metrics) RecordHTTPRequest(route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordUpstream records a finished film API call
func (m *Metrics) RecordUpstream(kind, outcome string, duration time.Duration) {
	m.UpstreamFetchesTotal.WithLabelValues(kind, outcome).Inc()
	m.UpstreamFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup records a local cache hit or miss
func (m *Metrics) RecordCacheLookup(bucket string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(bucket, result).Inc()
}

// SetViewSize records the size of the latest derived view
func (m *Metrics) SetViewSize(n int) {
	m.ViewSize.Set(float64(n))
}
