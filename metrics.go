package main

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the service's Prometheus registry and instruments
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	popoverOps   *prometheus.CounterVec
	sseActive    prometheus.Gauge
	rateLimited  prometheus.Counter
	publishes    *prometheus.CounterVec
}

// NewMetrics registers instruments on a private registry. relayConns and popovers
// are sampled on scrape; either may be nil.
func NewMetrics(cacheBackend string, relayConns, popovers func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "widgets_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "widgets_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "widgets_cache_hits_total",
			Help: "Cache hits by cache name",
		}, []string{"cache"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "widgets_cache_misses_total",
			Help: "Cache misses by cache name",
		}, []string{"cache"}),
		popoverOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "widgets_popover_events_total",
			Help: "Emoji picker lifecycle events (open, select, close, expire)",
		}, []string{"event"}),
		sseActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "widgets_sse_connections_active",
			Help: "Number of active SSE connections",
		}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "widgets_rate_limited_total",
			Help: "Requests rejected by the per-session rate limiter",
		}),
		publishes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "widgets_metadata_publish_total",
			Help: "Metadata updates by outcome",
		}, []string{"outcome"}),
	}

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "widgets_build_info",
		Help:        "Build and configuration information",
		ConstLabels: prometheus.Labels{"cache_backend": cacheBackend, "go_version": runtime.Version()},
	}, func() float64 { return 1 })

	if relayConns != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "widgets_relay_connections_active",
			Help: "Number of open relay connections",
		}, func() float64 { return float64(relayConns()) })
	}
	if popovers != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "widgets_popovers_open",
			Help: "Number of emoji picker popovers held by sessions",
		}, func() float64 { return float64(popovers()) })
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// CacheHit implements people.Stats
func (m *Metrics) CacheHit(name string) { m.cacheHits.WithLabelValues(name).Inc() }

// CacheMiss implements people.Stats
func (m *Metrics) CacheMiss(name string) { m.cacheMisses.WithLabelValues(name).Inc() }

func (m *Metrics) PopoverEvent(event string) { m.popoverOps.WithLabelValues(event).Inc() }

func (m *Metrics) SSEOpened() { m.sseActive.Inc() }

func (m *Metrics) SSEClosed() { m.sseActive.Dec() }

func (m *Metrics) RateLimited() { m.rateLimited.Inc() }

func (m *Metrics) Published(outcome string) { m.publishes.WithLabelValues(outcome).Inc() }
