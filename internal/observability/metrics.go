package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for feed fetching and weather assembly.
type Metrics struct {
	FeedFetches       *prometheus.CounterVec   // labels: source, outcome={success,error}
	FeedFetchDuration *prometheus.HistogramVec // labels: source
	FeedDistricts     *prometheus.GaugeVec     // labels: source
	FireBanDistricts  prometheus.Gauge
	WeatherRequests   *prometheus.CounterVec // labels: outcome={success,not_found,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.FeedDistricts,
		m.FireBanDistricts,
		m.WeatherRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "life_dashboard",
			Name:      "feed_fetch_total",
			Help:      "Fire feed fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		FeedFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "life_dashboard",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Fire feed fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		FeedDistricts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "life_dashboard",
			Name:      "feed_districts",
			Help:      "Districts parsed from the most recent fetch of each feed.",
		}, []string{"source"}),
		FireBanDistricts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "life_dashboard",
			Name:      "fire_ban_districts",
			Help:      "Watched districts under a Total Fire Ban at the last fire watch run.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "life_dashboard",
			Name:      "weather_requests_total",
			Help:      "Per-location weather assembly outcomes.",
		}, []string{"outcome"}),
	}
}
