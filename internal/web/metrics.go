package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's prometheus collectors. Each instance owns its
// registry so several servers can coexist in one process.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstream         *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	rateLimited      prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mizunime",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mizunime",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mizunime",
			Name:      "catalog_requests_total",
			Help:      "Requests sent to the catalog API, by host and status code.",
		}, []string{"host", "code"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mizunime",
			Name:      "catalog_request_duration_seconds",
			Help:      "Catalog API latency by host.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mizunime",
			Name:      "api_rate_limited_total",
			Help:      "API requests rejected by the rate limiter.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.upstream,
		m.upstreamDuration,
		m.rateLimited,
	)
	return m
}

// ObserveUpstream records a catalog request. It matches the catalog HTTP
// client's observer signature; status 0 means the request never completed.
func (m *Metrics) ObserveUpstream(host string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(host, statusLabel(status)).Inc()
	m.upstreamDuration.WithLabelValues(host).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, statusLabel(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
