// Package metrics defines calibration-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Calibration histogram vectors
var (
	CalibrationIterations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "betting_models",
		Name:      "calibration_iterations",
		Help:      "Iterations used by model calibrations and inversions",
		Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 60, 100},
	}, []string{"model"})
)

// Calibration counter vectors
var (
	CalibrationMethodTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betting_models",
		Name:      "calibration_method_total",
		Help:      "Calibrations by model and the method that resolved them",
	}, []string{"model", "method"})
)

// RecordCalibration records an iterative calibration.
// model should be one of: "goals", "format", "rally"
func RecordCalibration(model, method string, iterations int) {
	CalibrationIterations.WithLabelValues(model).Observe(float64(iterations))
	CalibrationMethodTotal.WithLabelValues(model, method).Inc()
}
