// Package series prices best-of-N contests from a per-frame (or per-set)
// win probability. The same enumeration serves fixed best-of-N markets,
// in-play states and the generalised set formats in format.go.
package series

import (
	"math"
	"slices"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
)

// MaxBestOf is the largest series length the engine accepts
const MaxBestOf = 35

// Result is the fair outcome distribution of a series from its current state
type Result struct {
	State   models.MatchState     `json:"state"`
	ProbA   float64               `json:"prob_a"`
	MatchA  float64               `json:"match_a"`
	MatchB  float64               `json:"match_b"`
	Decided bool                  `json:"decided"`
	Frames  models.Distribution   `json:"frames"`
	Scores  []models.ScoreOutcome `json:"scores"`
}

// Clone returns a copy that shares no memory with r
func (r Result) Clone() Result {
	r.Frames = r.Frames.Clone()
	r.Scores = slices.Clone(r.Scores)
	return r
}

// ExpectedFrames returns the mean total number of frames in the series
func (r Result) ExpectedFrames() float64 {
	return r.Frames.Expected()
}

// NewState validates bestOf against maxBestOf and builds the match state
func NewState(bestOf int, score *models.ScoreState, maxBestOf int) (models.MatchState, error) {
	if bestOf > maxBestOf {
		return models.MatchState{}, models.NewInvalidFormatError(bestOf, "series is longer than the supported maximum")
	}
	return models.NewMatchState(bestOf, score)
}

// Compute enumerates every way the series can finish from state when side A
// wins each remaining frame independently with probability pA.
func Compute(pA float64, state models.MatchState) (Result, error) {
	if !numeric.IsFinite(pA) || pA < 0 || pA > 1 {
		return Result{}, models.NewInvalidProbabilityError("frame win probability", pA, "must be finite and within [0, 1]")
	}
	if state.BestOf <= 0 || state.FirstTo != state.BestOf/2+1 {
		return Result{}, models.NewInvalidFormatError(state.BestOf, "match state was not built from a valid format")
	}

	result := Result{State: state, ProbA: pA}
	played := state.FramesPlayed()
	remA, remB := state.RemainingA(), state.RemainingB()

	if state.Decided() {
		aWon := remA <= 0
		result.Decided = true
		outcome := models.Outcome{Count: played, Prob: 1}
		if aWon {
			result.MatchA = 1
			outcome.ProbAWin = 1
		} else {
			result.MatchB = 1
			outcome.ProbBWin = 1
		}
		result.Frames = models.Distribution{outcome}
		result.Scores = []models.ScoreOutcome{{A: state.FramesA, B: state.FramesB, Prob: 1}}
		return result, nil
	}

	pB := 1 - pA
	minFrames := played + min(remA, remB)
	frames := make(models.Distribution, state.BestOf-minFrames+1)
	for i := range frames {
		frames[i].Count = minFrames + i
	}

	scores := make([]models.ScoreOutcome, 0, remA+remB)
	for b := 0; b < remB; b++ {
		prob := numeric.Binomial(remA-1+b, b) * math.Pow(pA, float64(remA)) * math.Pow(pB, float64(b))
		n := played + remA + b
		frames[n-minFrames].Prob += prob
		frames[n-minFrames].ProbAWin += prob
		result.MatchA += prob
		scores = append(scores, models.ScoreOutcome{A: state.FirstTo, B: state.FramesB + b, Prob: prob})
	}
	bWins := make([]models.ScoreOutcome, remA)
	for a := 0; a < remA; a++ {
		prob := numeric.Binomial(remB-1+a, a) * math.Pow(pB, float64(remB)) * math.Pow(pA, float64(a))
		n := played + remB + a
		frames[n-minFrames].Prob += prob
		frames[n-minFrames].ProbBWin += prob
		result.MatchB += prob
		bWins[remA-1-a] = models.ScoreOutcome{A: state.FramesA + a, B: state.FirstTo, Prob: prob}
	}
	scores = append(scores, bWins...)

	if total := frames.Total(); total > 0 && math.Abs(total-1) > models.DistributionTolerance {
		frames = frames.Normalized()
		for i := range scores {
			scores[i].Prob /= total
		}
		result.MatchA /= total
		result.MatchB = 1 - result.MatchA
	}

	result.Frames = frames
	result.Scores = scores
	return result, nil
}
