package series

import (
	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
)

// Inversion bracket. The match probability reaches 1 only at s = 1, so the
// closed upper bound brackets every p below 1.
const (
	InversionLower = 0.5
	InversionUpper = 1.0
)

// InvertOptions bounds the set probability search
type InvertOptions struct {
	Tolerance     float64
	MaxIterations int
}

// DefaultInvertOptions returns the standard inversion settings
func DefaultInvertOptions() InvertOptions {
	return InvertOptions{Tolerance: 1e-8, MaxIterations: 100}
}

// MethodSymmetric marks an even match resolved without searching
const MethodSymmetric = "symmetric"

// InvertMatchProb finds the set win probability s for which the format's
// match win probability equals p. Values below 0.5 are solved on the
// mirrored problem and an even match returns exactly 0.5.
func InvertMatchProb(p float64, f Format, opts InvertOptions) (models.CalibrationResult, error) {
	if err := f.Validate(); err != nil {
		return models.CalibrationResult{}, err
	}
	if !numeric.IsFinite(p) || p <= 0 || p >= 1 {
		return models.CalibrationResult{}, models.NewInvalidProbabilityError("match win probability", p, "must lie strictly between 0 and 1")
	}

	if p == 0.5 {
		return models.CalibrationResult{
			Value:     0.5,
			Lower:     InversionLower,
			Upper:     InversionLower,
			Converged: true,
			Method:    MethodSymmetric,
		}, nil
	}
	if p < 0.5 {
		mirrored, err := InvertMatchProb(1-p, f, opts)
		if err != nil {
			return models.CalibrationResult{}, err
		}
		mirrored.Value = 1 - mirrored.Value
		mirrored.Lower, mirrored.Upper = 1-mirrored.Upper, 1-mirrored.Lower
		mirrored.Residual = -mirrored.Residual
		return mirrored, nil
	}

	residual := func(s float64) float64 {
		return MatchProbFromSetProb(f, s) - p
	}
	root, err := numeric.Bisect(residual, InversionLower, InversionUpper, numeric.BisectOptions{
		Quantity:      "set win probability",
		Tolerance:     opts.Tolerance,
		MaxIterations: opts.MaxIterations,
	})
	if err != nil {
		return models.CalibrationResult{}, err
	}
	// winning a set is never harder than winning the match, so s <= p
	if root.X > p {
		root.X = p
		root.Residual = residual(p)
	}

	return models.CalibrationResult{
		Value:      root.X,
		Lower:      root.Lower,
		Upper:      root.Upper,
		Iterations: root.Iterations,
		Residual:   root.Residual,
		Converged:  root.Converged,
		Method:     models.CalibrationBisection,
	}, nil
}
