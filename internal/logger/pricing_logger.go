// Package logger provides pricing-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/damirmikic/betting-models/internal/models"
)

// PricingLogger provides dedicated logging for pricing operations.
type PricingLogger struct {
	*logrus.Entry
}

// NewPricingLogger creates a new pricing logger.
func NewPricingLogger(baseLogger *logrus.Logger) *PricingLogger {
	return &PricingLogger{
		Entry: baseLogger.WithField("component", "pricing"),
	}
}

// LogGoalQuote logs a priced goal fixture.
func (pl *PricingLogger) LogGoalQuote(quoteID, home, away string, lambdaHome, lambdaAway, correlation, pHome, pDraw, pAway, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"quote_id":    quoteID,
		"market":      "goals",
		"home":        home,
		"away":        away,
		"lambda_home": lambdaHome,
		"lambda_away": lambdaAway,
		"correlation": correlation,
		"p_home":      pHome,
		"p_draw":      pDraw,
		"p_away":      pAway,
		"duration_ms": durationMs,
	}).Info("Goal markets priced")
}

// LogSeriesQuote logs a priced best-of-N series.
func (pl *PricingLogger) LogSeriesQuote(quoteID string, bestOf, framesA, framesB int, frameProb, matchA float64, decided bool, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"quote_id":    quoteID,
		"market":      "series",
		"best_of":     bestOf,
		"frames_a":    framesA,
		"frames_b":    framesB,
		"frame_prob":  frameProb,
		"match_a":     matchA,
		"decided":     decided,
		"duration_ms": durationMs,
	}).Info("Series markets priced")
}

// LogFormatQuote logs a priced set format.
func (pl *PricingLogger) LogFormatQuote(quoteID, format string, matchProb, setProb, rallyProb, expectedSets, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"quote_id":      quoteID,
		"market":        "format",
		"format":        format,
		"match_prob":    matchProb,
		"set_prob":      setProb,
		"rally_prob":    rallyProb,
		"expected_sets": expectedSets,
		"duration_ms":   durationMs,
	}).Info("Format markets priced")
}

// LogCalibration logs the outcome of an iterative calibration.
func (pl *PricingLogger) LogCalibration(model, method string, value, residual float64, iterations int, converged bool) {
	entry := pl.WithFields(logrus.Fields{
		"model":      model,
		"method":     method,
		"value":      value,
		"residual":   residual,
		"iterations": iterations,
		"converged":  converged,
	})
	switch {
	case method == models.CalibrationCeiling:
		entry.Warn("Calibration target unreachable, using closest admissible value")
		return
	case !converged:
		entry.Warn("Calibration stopped at iteration limit")
		return
	}
	entry.Debug("Calibration completed")
}

// LogPricingFailure logs a rejected pricing request.
func (pl *PricingLogger) LogPricingFailure(market string, err error, fields map[string]interface{}) {
	pl.WithFields(logrus.Fields(fields)).WithFields(logrus.Fields{
		"market": market,
		"error":  err.Error(),
	}).Warn("Pricing request failed")
}

// LogCacheHit logs a quote served from the cache.
func (pl *PricingLogger) LogCacheHit(market, quoteID string) {
	pl.WithFields(logrus.Fields{
		"market":   market,
		"quote_id": quoteID,
	}).Debug("Quote served from cache")
}
