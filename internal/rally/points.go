package rally

import (
	"math"
	"slices"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/series"
)

// setPointsCap bounds the points of one set when placing match lines
const setPointsCap = 2 * DeuceScore

// LinearEstimate is the closed-form points approximation from the set
// win probability alone.
type LinearEstimate struct {
	SetPoints   float64 `json:"set_points"`
	MatchPoints float64 `json:"match_points"`
	Handicap    float64 `json:"handicap"`
}

// Competitiveness is 1 for an even set and 0 for a certain one
func Competitiveness(s float64) float64 {
	return 1 - math.Abs(2*s-1)
}

// Linear returns the points estimate for set probability s over a match
// expected to last expectedSets sets.
func Linear(s, expectedSets float64, model PointsModel) LinearEstimate {
	setPoints := math.Max(0, model.A+model.B*Competitiveness(s))
	matchPoints := expectedSets * setPoints
	return LinearEstimate{
		SetPoints:   setPoints,
		MatchPoints: matchPoints,
		Handicap:    matchPoints * (2*s - 1),
	}
}

// PointsResult holds the match level points markets
type PointsResult struct {
	Summary          Summary             `json:"summary"`
	ExpectedPoints   float64             `json:"expected_points"`
	ExpectedHandicap float64             `json:"expected_handicap"`
	Totals           []models.MarketLine `json:"totals"`
	Handicaps        []models.MarketLine `json:"handicaps"`
	FirstSetTotal    *models.MarketLine  `json:"first_set_total,omitempty"`
	Linear           LinearEstimate      `json:"linear"`
}

// Clone returns a copy that shares no memory with r
func (r PointsResult) Clone() PointsResult {
	r.Totals = slices.Clone(r.Totals)
	r.Handicaps = slices.Clone(r.Handicaps)
	if r.FirstSetTotal != nil {
		line := *r.FirstSetTotal
		r.FirstSetTotal = &line
	}
	return r
}

type pointsEvent struct {
	prob   float64
	points float64
	diff   float64
}

// PointsMarkets prices match points totals and handicaps. Each correct
// score contributes its expected points (sets won by A times PointsOnWinA
// plus sets won by B times PointsOnWinB) and its expected differential.
func PointsMarkets(result series.Result, summary Summary, cfg Config, margin float64) PointsResult {
	k := result.State.FirstTo
	events := make([]pointsEvent, 0, len(result.Scores))
	out := PointsResult{Summary: summary}
	for _, s := range result.Scores {
		e := pointsEvent{
			prob:   s.Prob,
			points: float64(s.A)*summary.PointsOnWinA + float64(s.B)*summary.PointsOnWinB,
			diff:   float64(s.A)*summary.DiffWinA + float64(s.B)*summary.DiffWinB,
		}
		events = append(events, e)
		out.ExpectedPoints += e.prob * e.points
		out.ExpectedHandicap += e.prob * e.diff
	}

	minLine := float64(k*PointsToWin) - 0.5
	maxLine := float64((2*k-1)*setPointsCap) - 0.5

	totals := make([]series.Candidate, 0, 5)
	for _, delta := range []float64{-4, -2, 0, 2, 4} {
		line := numeric.HalfLine(out.ExpectedPoints + delta*summary.AvgSetPoints/2)
		line = math.Max(minLine, math.Min(maxLine, line))
		over := 0.0
		for _, e := range events {
			if e.points > line {
				over += e.prob
			}
		}
		totals = append(totals, series.Candidate{Line: line, Over: over})
	}
	out.Totals = series.PriceCandidates(series.PickBalanced(totals, cfg.PointsTotalsCount, cfg.BalanceTolerance), margin)

	favouriteA := result.MatchA >= 0.5
	base := math.Abs(summary.DiffWinA)
	if !favouriteA {
		base = math.Abs(summary.DiffWinB)
	}
	base = math.Max(1, base)

	handicaps := make([]series.Candidate, 0, 5)
	for _, offset := range []float64{-2, -1, 0, 1, 2} {
		magnitude := math.Min(numeric.HalfLine(base*(1.5+0.5*offset)), maxLine)
		line := magnitude
		if favouriteA {
			line = -magnitude
		}
		cover := 0.0
		for _, e := range events {
			if e.diff+line > 0 {
				cover += e.prob
			}
		}
		handicaps = append(handicaps, series.Candidate{Line: line, Over: cover})
	}
	out.Handicaps = series.PriceCandidates(series.PickBalanced(handicaps, cfg.PointsHandicapCount, cfg.BalanceTolerance), margin)

	out.FirstSetTotal = FirstSetTotal(summary.RallyProb, cfg, margin)
	out.Linear = Linear(summary.SetWinProb, result.ExpectedFrames(), cfg.PointsModel)
	return out
}

// FirstSetTotal prices the most balanced half-point line on the exact
// points distribution of one set.
func FirstSetTotal(p float64, cfg Config, margin float64) *models.MarketLine {
	dist := SetPointsDistribution(p)
	candidates := make([]series.Candidate, 0, len(dist))
	for cut := dist.Min() + 1; cut <= dist.Max(); cut++ {
		candidates = append(candidates, series.Candidate{Line: float64(cut) - 0.5, Over: dist.Over(cut)})
	}
	picked := series.PickBalanced(candidates, 1, cfg.BalanceTolerance)
	if len(picked) == 0 {
		return nil
	}
	line := odds.TwoWay(picked[0].Line, picked[0].Over, margin)
	return &line
}
