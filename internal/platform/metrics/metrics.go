package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the stream proxy.
type Metrics struct {
	registry                *prometheus.Registry
	requestsTotal           prometheus.Counter
	manifestsRewrittenTotal prometheus.Counter
	segmentsRelayedTotal    prometheus.Counter
	upstreamErrorsTotal     prometheus.Counter
	errorsTotal             prometheus.Counter
	inflightRelays          prometheus.Gauge
}

// New creates and registers Prometheus metrics for the proxy.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_requests_total",
		Help: "Total number of HTTP requests received",
	})
	manifestsRewrittenTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_manifests_rewritten_total",
		Help: "Total number of upstream manifests fetched and rewritten",
	})
	segmentsRelayedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_segments_relayed_total",
		Help: "Total number of segments streamed to completion",
	})
	upstreamErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_upstream_errors_total",
		Help: "Total number of failed upstream fetches or extractions",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	inflightRelays := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "proxy_inflight_segment_relays",
		Help: "Number of segment relays currently streaming",
	})

	registry.MustRegister(
		requestsTotal,
		manifestsRewrittenTotal,
		segmentsRelayedTotal,
		upstreamErrorsTotal,
		errorsTotal,
		inflightRelays,
	)

	return &Metrics{
		registry:                registry,
		requestsTotal:           requestsTotal,
		manifestsRewrittenTotal: manifestsRewrittenTotal,
		segmentsRelayedTotal:    segmentsRelayedTotal,
		upstreamErrorsTotal:     upstreamErrorsTotal,
		errorsTotal:             errorsTotal,
		inflightRelays:          inflightRelays,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncManifestsRewritten increments the rewritten manifests counter.
func (m *Metrics) IncManifestsRewritten() {
	m.manifestsRewrittenTotal.Inc()
}

// IncSegmentsRelayed increments the relayed segments counter.
func (m *Metrics) IncSegmentsRelayed() {
	m.segmentsRelayedTotal.Inc()
}

// IncUpstreamErrors increments the upstream error counter.
func (m *Metrics) IncUpstreamErrors() {
	m.upstreamErrorsTotal.Inc()
}

// IncErrors increments the HTTP error counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncInflightRelays increments the in-flight relay gauge.
func (m *Metrics) IncInflightRelays() {
	m.inflightRelays.Inc()
}

// DecInflightRelays decrements the in-flight relay gauge.
func (m *Metrics) DecInflightRelays() {
	m.inflightRelays.Dec()
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
