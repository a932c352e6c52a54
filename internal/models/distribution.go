package models

import (
	"math"
	"slices"
)

// DistributionTolerance is the allowed drift of a distribution's total mass from 1
const DistributionTolerance = 1e-6

// Outcome is the probability mass of one discrete count (goals, frames,
// sets or points) split by which side won the contest.
type Outcome struct {
	Count    int     `json:"count"`
	Prob     float64 `json:"prob"`
	ProbAWin float64 `json:"prob_a_win,omitempty"`
	ProbBWin float64 `json:"prob_b_win,omitempty"`
}

// Distribution is a probability mass function over counts, ordered by Count
type Distribution []Outcome

// Total returns the sum of all masses
func (d Distribution) Total() float64 {
	total := 0.0
	for _, o := range d {
		total += o.Prob
	}
	return total
}

// Expected returns the mean count
func (d Distribution) Expected() float64 {
	mean := 0.0
	for _, o := range d {
		mean += float64(o.Count) * o.Prob
	}
	return mean
}

// Over returns P(count >= cut)
func (d Distribution) Over(cut int) float64 {
	over := 0.0
	for _, o := range d {
		if o.Count >= cut {
			over += o.Prob
		}
	}
	return over
}

// Min returns the smallest count in the support
func (d Distribution) Min() int {
	if len(d) == 0 {
		return 0
	}
	return d[0].Count
}

// Max returns the largest count in the support
func (d Distribution) Max() int {
	if len(d) == 0 {
		return 0
	}
	return d[len(d)-1].Count
}

// IsNormalized reports whether the total mass is within tolerance of 1
func (d Distribution) IsNormalized() bool {
	return math.Abs(d.Total()-1) <= DistributionTolerance
}

// Normalized returns a copy scaled to total mass 1. The receiver is not
// modified; a zero-mass distribution is returned unchanged.
func (d Distribution) Normalized() Distribution {
	out := make(Distribution, len(d))
	copy(out, d)
	total := d.Total()
	if total <= 0 {
		return out
	}
	for i := range out {
		out[i].Prob /= total
		out[i].ProbAWin /= total
		out[i].ProbBWin /= total
	}
	return out
}

// Clone returns a copy that shares no memory with d
func (d Distribution) Clone() Distribution {
	return slices.Clone(d)
}
