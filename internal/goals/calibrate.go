package goals

import (
	"math"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
)

const ceilingSamples = 32

// Calibrate chooses the shared goal rate. Without a target draw rate the
// configured default is used. When the independent model already draws at
// least as often as the target the shared rate is zero. Otherwise the upper
// bracket is doubled from cfg.InitialBracket until the draw rate reaches the
// target and the shared rate is bisected inside that bracket. A target no
// admissible shared rate reaches yields the rate with the highest draw
// probability, unconverged and marked CalibrationCeiling.
func Calibrate(rates Rates, target *float64, cfg Config) (models.CalibrationResult, error) {
	if err := rates.Validate(); err != nil {
		return models.CalibrationResult{}, err
	}
	bound := rates.CorrelationBound()

	if target == nil || math.IsNaN(*target) {
		value := math.Min(math.Max(cfg.DefaultCorrelation, 0), bound)
		return models.CalibrationResult{
			Value:     value,
			Lower:     0,
			Upper:     bound,
			Converged: true,
			Method:    models.CalibrationDefault,
		}, nil
	}
	if *target <= 0 || *target >= 1 || math.IsInf(*target, 0) {
		return models.CalibrationResult{}, models.NewInvalidProbabilityError("draw rate", *target, "must lie strictly between 0 and 1")
	}

	goalCap := GoalCap(rates.Home, rates.Away, cfg)
	var gridErr error
	residual := func(l3 float64) float64 {
		grid, err := NewGrid(rates, l3, goalCap)
		if err != nil {
			gridErr = err
			return math.NaN()
		}
		return grid.Draw() - *target
	}

	independent := residual(0)
	if gridErr != nil {
		return models.CalibrationResult{}, gridErr
	}
	if independent >= 0 {
		return models.CalibrationResult{
			Value:     0,
			Lower:     0,
			Upper:     0,
			Residual:  independent,
			Converged: true,
			Method:    models.CalibrationIndependent,
		}, nil
	}

	lo := 0.0
	hi := math.Min(cfg.InitialBracket, bound)
	if hi <= 0 {
		hi = bound
	}
	fHi := residual(hi)
	for fHi < 0 && hi < bound {
		lo = hi
		hi = math.Min(2*hi, bound)
		fHi = residual(hi)
	}
	if gridErr != nil {
		return models.CalibrationResult{}, gridErr
	}
	if fHi < 0 {
		// The draw rate is not monotone in the shared rate, so the doubling
		// can step over a crossing. Search the whole admissible range for
		// the peak draw rate and bisect below it when it reaches the target.
		peak := numeric.Maximize(residual, 0, bound, ceilingSamples, cfg.CalibrationTolerance, cfg.CalibrationMaxIterations)
		if gridErr != nil {
			return models.CalibrationResult{}, gridErr
		}
		if peak.Value < 0 {
			return models.CalibrationResult{
				Value:      peak.X,
				Lower:      0,
				Upper:      bound,
				Iterations: peak.Iterations,
				Residual:   peak.Value,
				Converged:  false,
				Method:     models.CalibrationCeiling,
			}, nil
		}
		lo, hi = 0, peak.X
	}

	root, err := numeric.Bisect(residual, lo, hi, numeric.BisectOptions{
		Quantity:      "goal correlation",
		Tolerance:     cfg.CalibrationTolerance,
		MaxIterations: cfg.CalibrationMaxIterations,
	})
	if err != nil {
		return models.CalibrationResult{}, err
	}

	return models.CalibrationResult{
		Value:      root.X,
		Lower:      lo,
		Upper:      hi,
		Iterations: root.Iterations,
		Residual:   root.Residual,
		Converged:  root.Converged,
		Method:     models.CalibrationBisection,
	}, nil
}
