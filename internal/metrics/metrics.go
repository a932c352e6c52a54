// Package metrics provides the Prometheus metrics registry for the pricing engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Request outcomes
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusCached  = "cached"
)

// Counter metrics
var (
	PricingRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betting_models",
		Name:      "pricing_requests_total",
		Help:      "Total number of pricing requests by market and status",
	}, []string{"market", "status"})
)

// Gauge metrics
var (
	QuoteCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "betting_models",
		Name:      "quote_cache_hit_ratio",
		Help:      "Fraction of quote lookups served from the cache",
	})
	QuoteCacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "betting_models",
		Name:      "quote_cache_items",
		Help:      "Number of quotes currently held in the cache",
	})
)

// Histogram metrics
var (
	PricingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "betting_models",
		Name:      "pricing_duration_seconds",
		Help:      "Duration of pricing calls in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"market"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PricingRequestsTotal)
		registry.MustRegister(QuoteCacheHitRatio)
		registry.MustRegister(QuoteCacheItems)
		registry.MustRegister(PricingDuration)

		// Register calibration metrics
		registry.MustRegister(CalibrationIterations)
		registry.MustRegister(CalibrationMethodTotal)

		// Register data source metrics
		registry.MustRegister(DataSourceFetchesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPricing records a completed pricing call.
func RecordPricing(market, status string, durationSeconds float64) {
	PricingRequestsTotal.WithLabelValues(market, status).Inc()
	PricingDuration.WithLabelValues(market).Observe(durationSeconds)
}

// UpdateQuoteCache updates the quote cache gauges.
func UpdateQuoteCache(hitRatio float64, items int) {
	QuoteCacheHitRatio.Set(hitRatio)
	QuoteCacheItems.Set(float64(items))
}
