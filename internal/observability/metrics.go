package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/winn0518/ShoreSquad/internal/traffic"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Forecast endpoint call rate. Watch for: error vs success ratio.
	ForecastFetchesTotal *prometheus.CounterVec

	// Forecast endpoint latency per request. Watch for: p95 > 2s (upstream degradation).
	ForecastFetchDuration *prometheus.HistogramVec

	// Refresh outcomes by source (live, cache, stale, simulated). A rising
	// stale or simulated share means the upstream is unhealthy.
	ForecastRefreshOutcomesTotal *prometheus.CounterVec

	// Refresh requests absorbed by the debounce window (no extra fetch).
	ForecastDebounceCoalescedTotal prometheus.Counter

	// Scheduled ticks executed by the refresh heartbeat.
	ScheduledRefreshesTotal prometheus.Counter

	// Accepted crew join submissions.
	CrewSignupsTotal prometheus.Counter

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	trafficGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ForecastFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastFetchesTotal",
			Help: "Total number of forecast endpoint calls",
		},
		[]string{"status"},
	)
	ForecastFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecastFetchDurationSeconds",
			Help:    "Forecast endpoint latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	ForecastRefreshOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastRefreshOutcomesTotal",
			Help: "Refresh outcomes by source: live, cache, stale, simulated",
		},
		[]string{"source"},
	)
	ForecastDebounceCoalescedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forecastDebounceCoalescedTotal",
			Help: "Refresh requests coalesced into an already-armed debounce window",
		},
	)
	ScheduledRefreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduledRefreshesTotal",
			Help: "Scheduled forecast refresh ticks executed",
		},
	)
	CrewSignupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crewSignupsTotal",
			Help: "Accepted crew join submissions",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ForecastFetchesTotal, ForecastFetchDuration,
		ForecastRefreshOutcomesTotal, ForecastDebounceCoalescedTotal,
		ScheduledRefreshesTotal,
		CrewSignupsTotal,
		RateLimitDeniedTotal,
	)
}

// RegisterTrafficGauges registers sliding-window gauges over fetch outcomes
// and rate-limit denials. Call from main after config load; window should be
// the health degraded window so the gauges mirror what /health evaluates.
func RegisterTrafficGauges(window time.Duration) {
	trafficGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "forecastFetchErrorRatePercent",
					Help: "Fetch error rate over the health window; drives degraded status",
				},
				func() float64 {
					errs, total := traffic.ErrorRate(window)
					if total == 0 {
						return 0
					}
					return float64(errs) * 100 / float64(total)
				},
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "forecastFetchesInWindow",
					Help: "Fetch attempts in the health window",
				},
				func() float64 {
					_, total := traffic.ErrorRate(window)
					return float64(total)
				},
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in sliding window; are we rejecting requests",
				},
				func() float64 { return float64(traffic.DenialCount(window)) },
			),
		)
	})
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
