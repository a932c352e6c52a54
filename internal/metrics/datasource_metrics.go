// Package metrics defines input adapter metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Data source counters
var (
	DataSourceFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betting_models",
		Name:      "datasource_fetches_total",
		Help:      "Total number of rating and league fetches by source and status",
	}, []string{"source", "status"})

	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betting_models",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of HTTP client circuit breaker trips",
	})
)

// RecordDataSourceFetch records a fetch from an input adapter.
func RecordDataSourceFetch(source, status string) {
	DataSourceFetchesTotal.WithLabelValues(source, status).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
