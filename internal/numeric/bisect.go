package numeric

import (
	"math"

	"github.com/damirmikic/betting-models/internal/models"
)

// BisectOptions bounds a bisection search
type BisectOptions struct {
	Quantity      string
	Tolerance     float64
	MaxIterations int
}

// Root is the outcome of a bracketed search
type Root struct {
	X          float64
	Lower      float64
	Upper      float64
	Iterations int
	Residual   float64
	Converged  bool
}

// Bisect finds x in [lo, hi] with f(x) = 0. The endpoints must bracket a
// sign change; otherwise a RootBracketError is returned without iterating.
// The search stops when |f(mid)| < Tolerance or after MaxIterations, in
// which case the midpoint of the final bracket is returned unconverged.
func Bisect(f func(float64) float64, lo, hi float64, opts BisectOptions) (Root, error) {
	fLo, fHi := f(lo), f(hi)
	if !IsFinite(fLo) || !IsFinite(fHi) {
		bad := fLo
		if IsFinite(fLo) {
			bad = fHi
		}
		return Root{}, models.NewNumericDegeneracyError(opts.Quantity, bad, "objective is not finite at the bracket endpoints", nil)
	}
	if fLo*fHi > 0 {
		return Root{}, models.NewRootBracketError(opts.Quantity, lo, hi, fLo, fHi)
	}

	root := Root{Lower: lo, Upper: hi}
	switch {
	case math.Abs(fLo) < opts.Tolerance || fLo == 0:
		root.X, root.Residual, root.Converged = lo, fLo, true
		return root, nil
	case math.Abs(fHi) < opts.Tolerance || fHi == 0:
		root.X, root.Residual, root.Converged = hi, fHi, true
		return root, nil
	}

	a, b := lo, hi
	for i := 0; i < opts.MaxIterations; i++ {
		mid := 0.5 * (a + b)
		fMid := f(mid)
		root.Iterations = i + 1
		if !IsFinite(fMid) {
			return Root{}, models.NewNumericDegeneracyError(opts.Quantity, fMid, "objective is not finite inside the bracket", nil)
		}
		if math.Abs(fMid) < opts.Tolerance {
			root.X, root.Residual, root.Converged = mid, fMid, true
			return root, nil
		}
		if (fLo < 0) == (fMid < 0) {
			a, fLo = mid, fMid
		} else {
			b = mid
		}
	}

	root.X = 0.5 * (a + b)
	root.Residual = f(root.X)
	root.Converged = math.Abs(root.Residual) < opts.Tolerance
	return root, nil
}
