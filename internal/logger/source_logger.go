// Package logger provides input adapter logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SourceLogger provides dedicated logging for rating and league sources.
type SourceLogger struct {
	*logrus.Entry
}

// NewSourceLogger creates a new source logger.
func NewSourceLogger(baseLogger *logrus.Logger) *SourceLogger {
	return &SourceLogger{
		Entry: baseLogger.WithField("component", "datasource"),
	}
}

// LogFetch logs a completed fetch.
func (sl *SourceLogger) LogFetch(source, kind string, records int, latencyMs float64) {
	sl.WithFields(logrus.Fields{
		"source":     source,
		"kind":       kind,
		"records":    records,
		"latency_ms": latencyMs,
	}).Info("Data source fetch completed")
}

// LogFetchError logs a failed fetch.
func (sl *SourceLogger) LogFetchError(source, kind string, err error) {
	sl.WithFields(logrus.Fields{
		"source": source,
		"kind":   kind,
		"error":  err.Error(),
	}).Error("Data source fetch failed")
}

// LogCircuitBreakerOpen logs that an HTTP client stopped sending requests.
func (sl *SourceLogger) LogCircuitBreakerOpen(source string, consecutiveErrors int, err error) {
	sl.WithFields(logrus.Fields{
		"source":             source,
		"consecutive_errors": consecutiveErrors,
		"error":              err.Error(),
	}).Warn("Circuit breaker opened")
}
