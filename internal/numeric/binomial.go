package numeric

import "math"

// Binomial returns C(n, k) using the multiplicative form, which stays exact
// for the n <= 70 range the series models need.
func Binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	res := 1.0
	for i := 1; i <= k; i++ {
		res = res * float64(n-k+i) / float64(i)
	}
	return res
}

// NegBinomialTerm is the probability that a side wins its wins-th event after
// exactly losses defeats: C(wins-1+losses, losses) * p^wins * (1-p)^losses.
func NegBinomialTerm(p float64, wins, losses int) float64 {
	return Binomial(wins-1+losses, losses) * math.Pow(p, float64(wins)) * math.Pow(1-p, float64(losses))
}

// Clamp01 limits x to [0, 1]
func Clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

// IsFinite reports whether x is neither NaN nor infinite
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// RoundToHalf rounds x to the nearest multiple of 0.5
func RoundToHalf(x float64) float64 {
	return math.Round(x*2) / 2
}

// HalfLine returns the half-point line just above floor(x), e.g. 18.5 for 18.9
func HalfLine(x float64) float64 {
	return math.Floor(x) + 0.5
}
