package numeric

import "math"

// PoissonPMF returns P(X = k) for k = 0..n with X ~ Poisson(lambda).
// The recurrence p(k) = p(k-1)*lambda/k avoids factorials.
func PoissonPMF(lambda float64, n int) []float64 {
	probs := make([]float64, n+1)
	probs[0] = math.Exp(-lambda)
	for k := 1; k <= n; k++ {
		probs[k] = probs[k-1] * lambda / float64(k)
	}
	return probs
}

// PoissonTail returns P(X > n) for X ~ Poisson(lambda)
func PoissonTail(lambda float64, n int) float64 {
	cdf := 0.0
	for _, p := range PoissonPMF(lambda, n) {
		cdf += p
	}
	return math.Max(0, 1-cdf)
}
