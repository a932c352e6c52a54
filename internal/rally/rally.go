// Package rally models a single race-to-11, win-by-2 set from the
// probability of winning one rally, and lifts it to points markets over a
// whole match.
package rally

import (
	"math"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
)

// Set scoring
const (
	PointsToWin = 11
	DeuceScore  = 10
)

// Solve bracket
const (
	SolveLower = 0.5
	SolveUpper = 1 - 1e-9
)

// SetWinFromRally returns the probability of winning a set when each rally
// is won with probability p.
func SetWinFromRally(p float64) float64 {
	p = numeric.Clamp01(p)
	q := 1 - p

	direct := 0.0
	for k := 0; k < DeuceScore; k++ {
		direct += numeric.Binomial(DeuceScore+k, k) * math.Pow(p, PointsToWin) * math.Pow(q, float64(k))
	}
	return direct + deuceReach(p)*deuceWin(p)
}

// deuceReach is the probability the set reaches 10-10
func deuceReach(p float64) float64 {
	q := 1 - p
	return numeric.Binomial(2*DeuceScore, DeuceScore) * math.Pow(p, DeuceScore) * math.Pow(q, DeuceScore)
}

// deuceWin is the probability of winning from 10-10: two rallies in a row
// before the opponent does.
func deuceWin(p float64) float64 {
	q := 1 - p
	return p * p / (1 - 2*p*q)
}

// SolveRally returns the rally win probability whose set win probability is
// setProb. Values below 0.5 are solved on the mirrored problem.
func SolveRally(setProb float64, cfg Config) (models.CalibrationResult, error) {
	if !numeric.IsFinite(setProb) || setProb <= 0 || setProb >= 1 {
		return models.CalibrationResult{}, models.NewInvalidProbabilityError("set win probability", setProb, "must lie strictly between 0 and 1")
	}
	if math.Abs(setProb-0.5) < cfg.EvenTolerance {
		return models.CalibrationResult{
			Value:     0.5,
			Lower:     SolveLower,
			Upper:     SolveLower,
			Converged: true,
			Method:    MethodEven,
		}, nil
	}
	if setProb < 0.5 {
		mirrored, err := SolveRally(1-setProb, cfg)
		if err != nil {
			return models.CalibrationResult{}, err
		}
		mirrored.Value = 1 - mirrored.Value
		mirrored.Lower, mirrored.Upper = 1-mirrored.Upper, 1-mirrored.Lower
		mirrored.Residual = -mirrored.Residual
		return mirrored, nil
	}

	root, err := numeric.Bisect(func(p float64) float64 {
		return SetWinFromRally(p) - setProb
	}, SolveLower, SolveUpper, numeric.BisectOptions{
		Quantity:      "rally win probability",
		Tolerance:     cfg.SolveTolerance,
		MaxIterations: cfg.SolveMaxIterations,
	})
	if err != nil {
		return models.CalibrationResult{}, err
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

// MethodEven marks a set probability treated as an even contest
const MethodEven = "even"

// SetPointsDistribution returns the exact distribution of total points in
// one set: 11..20 for sets won before deuce and 22, 24, ... afterwards,
// truncated once the remaining deuce mass is under DeuceTailTolerance.
func SetPointsDistribution(p float64) models.Distribution {
	p = numeric.Clamp01(p)
	q := 1 - p

	dist := make(models.Distribution, 0, DeuceScore+32)
	for k := 0; k < DeuceScore; k++ {
		ways := numeric.Binomial(DeuceScore+k, k)
		aWin := ways * math.Pow(p, PointsToWin) * math.Pow(q, float64(k))
		bWin := ways * math.Pow(q, PointsToWin) * math.Pow(p, float64(k))
		dist = append(dist, models.Outcome{Count: PointsToWin + k, Prob: aWin + bWin, ProbAWin: aWin, ProbBWin: bWin})
	}

	remaining := deuceReach(p)
	split := 2 * p * q
	for pair := 1; remaining >= DeuceTailTolerance && pair <= maxDeucePairs; pair++ {
		aWin := remaining * p * p
		bWin := remaining * q * q
		dist = append(dist, models.Outcome{Count: 2*DeuceScore + 2*pair, Prob: aWin + bWin, ProbAWin: aWin, ProbBWin: bWin})
		remaining *= split
	}
	return dist.Normalized()
}

// DeuceTailTolerance truncates the deuce tail of SetPointsDistribution
const DeuceTailTolerance = 1e-9

const maxDeucePairs = 1000
