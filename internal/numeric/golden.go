package numeric

import "math"

var invPhi = (math.Sqrt(5) - 1) / 2

// Peak is the outcome of a bounded maximisation
type Peak struct {
	X          float64
	Value      float64
	Iterations int
}

// Maximize locates the largest value of f on [lo, hi]. A coarse scan of
// samples+1 evenly spaced points picks the best cell, which is then narrowed
// by golden-section search until it is narrower than tol or maxIter steps
// have run. Endpoints are candidates, so a monotone f returns a bound.
func Maximize(f func(float64) float64, lo, hi float64, samples int, tol float64, maxIter int) Peak {
	if samples < 2 {
		samples = 2
	}
	step := (hi - lo) / float64(samples)
	best := Peak{X: lo, Value: f(lo)}
	bestIdx := 0
	for i := 1; i <= samples; i++ {
		x := lo + float64(i)*step
		if i == samples {
			x = hi
		}
		if v := f(x); v > best.Value {
			best = Peak{X: x, Value: v}
			bestIdx = i
		}
	}

	a := lo + float64(max(bestIdx-1, 0))*step
	b := math.Min(lo+float64(bestIdx+1)*step, hi)
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	for i := 0; i < maxIter && b-a > tol; i++ {
		best.Iterations = i + 1
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}

	if fc > best.Value {
		best.X, best.Value = c, fc
	}
	if fd > best.Value {
		best.X, best.Value = d, fd
	}
	return best
}
