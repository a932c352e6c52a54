package rally

import (
	"math"

	"github.com/damirmikic/betting-models/internal/numeric"
)

// Summary holds the per-set point expectations implied by a rally win
// probability. Conditional fields are taken over sets won by that side;
// differentials are from side A's perspective, so DiffWinB is negative.
type Summary struct {
	RallyProb       float64 `json:"rally_prob"`
	SetWinProb      float64 `json:"set_win_prob"`
	AvgSetPoints    float64 `json:"avg_set_points"`
	PointsOnWinA    float64 `json:"points_on_win_a"`
	PointsOnWinB    float64 `json:"points_on_win_b"`
	DiffWinA        float64 `json:"diff_win_a"`
	DiffWinB        float64 `json:"diff_win_b"`
	ExpectedPointsA float64 `json:"expected_points_a"`
	ExpectedPointsB float64 `json:"expected_points_b"`
	DeuceProb       float64 `json:"deuce_prob"`
}

// SummaryFromRally computes the set point expectations in one pass over the
// direct finishes and the deuce branch.
func SummaryFromRally(p float64) Summary {
	p = numeric.Clamp01(p)
	q := 1 - p

	var probA, probB, pointsA, pointsB, diffA, diffB, wonA, wonB float64
	for k := 0; k < DeuceScore; k++ {
		ways := numeric.Binomial(DeuceScore+k, k)
		aWin := ways * math.Pow(p, PointsToWin) * math.Pow(q, float64(k))
		bWin := ways * math.Pow(q, PointsToWin) * math.Pow(p, float64(k))
		total := float64(PointsToWin + k)
		margin := float64(PointsToWin - k)

		probA += aWin
		probB += bWin
		pointsA += total * aWin
		pointsB += total * bWin
		diffA += margin * aWin
		diffB -= margin * bWin
		wonA += PointsToWin*aWin + float64(k)*bWin
		wonB += float64(k)*aWin + PointsToWin*bWin
	}

	deuce := deuceReach(p)
	fromDeuce := deuceWin(p)
	deuceA := deuce * fromDeuce
	deuceB := deuce * (1 - fromDeuce)
	deucePoints := 2*DeuceScore + 2/(1-2*p*q)

	probA += deuceA
	probB += deuceB
	pointsA += deucePoints * deuceA
	pointsB += deucePoints * deuceB
	diffA += 2 * deuceA
	diffB -= 2 * deuceB
	wonA += deuce * (deucePoints/2 + 2*fromDeuce - 1)
	wonB += deuce * (deucePoints/2 + 1 - 2*fromDeuce)

	total := probA + probB
	return Summary{
		RallyProb:       p,
		SetWinProb:      probA / total,
		AvgSetPoints:    (pointsA + pointsB) / total,
		PointsOnWinA:    conditional(pointsA, probA),
		PointsOnWinB:    conditional(pointsB, probB),
		DiffWinA:        conditional(diffA, probA),
		DiffWinB:        conditional(diffB, probB),
		ExpectedPointsA: wonA / total,
		ExpectedPointsB: wonB / total,
		DeuceProb:       deuce,
	}
}

func conditional(sum, prob float64) float64 {
	return sum / math.Max(prob, 1e-12)
}

// Swap mirrors the summary so side B becomes side A
func (s Summary) Swap() Summary {
	return Summary{
		RallyProb:       1 - s.RallyProb,
		SetWinProb:      1 - s.SetWinProb,
		AvgSetPoints:    s.AvgSetPoints,
		PointsOnWinA:    s.PointsOnWinB,
		PointsOnWinB:    s.PointsOnWinA,
		DiffWinA:        -s.DiffWinB,
		DiffWinB:        -s.DiffWinA,
		ExpectedPointsA: s.ExpectedPointsB,
		ExpectedPointsB: s.ExpectedPointsA,
		DeuceProb:       s.DeuceProb,
	}
}

// SummaryFromSetProb solves the rally probability for setProb and returns
// its summary. Underdogs are solved as favourites and swapped back.
func SummaryFromSetProb(setProb float64, cfg Config) (Summary, error) {
	if setProb < 0.5 {
		s, err := SummaryFromSetProb(1-setProb, cfg)
		if err != nil {
			return Summary{}, err
		}
		return s.Swap(), nil
	}
	root, err := SolveRally(setProb, cfg)
	if err != nil {
		return Summary{}, err
	}
	return SummaryFromRally(root.Value), nil
}
