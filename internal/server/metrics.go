// ABOUTME: Prometheus metrics for the HTTP surface and sync pipeline.
// ABOUTME: Each Server owns its registry so tests never collide on registration.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	syncedTotal prometheus.Counter
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trainer_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "trainer_request_duration_seconds",
				Help: "Request duration in seconds",
			},
			[]string{"method", "path"},
		),
		syncedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainer_activities_synced_total",
			Help: "Activities stored from Strava",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainer_cache_hits_total",
			Help: "Response cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainer_cache_misses_total",
			Help: "Response cache misses",
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.syncedTotal, m.cacheHits, m.cacheMisses)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
