package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_provider_requests_total",
		Help: "Routing provider requests by mode and result",
	}, []string{"mode", "result"})
	ProviderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "route_provider_duration_ms",
		Help:    "Routing provider call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	}, []string{"mode"})
	SkippedLegsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_skipped_legs_total",
		Help: "Legs dropped from an assembled route because they failed or were empty",
	}, []string{"mode"})
	RouteUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_updates_total",
		Help: "Route updates by outcome",
	}, []string{"outcome"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_cache_hits_total",
		Help: "Cache hits by cache name",
	}, []string{"cache"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_cache_misses_total",
		Help: "Cache misses by cache name",
	}, []string{"cache"})
	ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_exports_total",
		Help: "Route exports by format and result",
	}, []string{"format", "result"})
)

func init() {
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderDurationMs)
	prometheus.MustRegister(SkippedLegsTotal)
	prometheus.MustRegister(RouteUpdatesTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(ExportsTotal)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
