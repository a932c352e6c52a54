package series

import (
	"slices"
	"strconv"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
)

// FormatConfig holds the numerical settings of format pricing
type FormatConfig struct {
	Invert           InvertOptions
	BalanceTolerance float64
	MaxSetsTotals    int
}

// DefaultFormatConfig returns the standard format pricing settings
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		Invert:           DefaultInvertOptions(),
		BalanceTolerance: 0.01,
		MaxSetsTotals:    2,
	}
}

// FormatResult is a set format priced from a fair match win probability
type FormatResult struct {
	Format       Format                   `json:"format"`
	MatchProbA   float64                  `json:"match_prob_a"`
	SetProb      models.CalibrationResult `json:"set_prob"`
	Series       Result                   `json:"series"`
	ExpectedSets float64                  `json:"expected_sets"`
	Match        models.MarketLine        `json:"match"`
	FirstSet     models.MarketLine        `json:"first_set"`
	SetsTotals   []models.MarketLine      `json:"sets_totals"`
	SetsHandicap []models.MarketLine      `json:"sets_handicap"`
	ExactTotal   models.PricedMarket      `json:"exact_total_sets"`
	CorrectScore models.PricedMarket      `json:"correct_score"`
}

// Clone returns a copy that shares no memory with r
func (r FormatResult) Clone() FormatResult {
	r.Series = r.Series.Clone()
	r.SetsTotals = slices.Clone(r.SetsTotals)
	r.SetsHandicap = slices.Clone(r.SetsHandicap)
	r.ExactTotal = r.ExactTotal.Clone()
	r.CorrectScore = r.CorrectScore.Clone()
	return r
}

// PriceFormat solves the set win probability implied by matchProbA and
// prices the set markets of the format from it.
func PriceFormat(matchProbA float64, f Format, cfg FormatConfig, margins odds.MarginConfig) (FormatResult, error) {
	setProb, err := InvertMatchProb(matchProbA, f, cfg.Invert)
	if err != nil {
		return FormatResult{}, err
	}
	state, err := models.NewMatchState(f.BestOf(), nil)
	if err != nil {
		return FormatResult{}, err
	}
	result, err := Compute(setProb.Value, state)
	if err != nil {
		return FormatResult{}, err
	}

	return FormatResult{
		Format:       f,
		MatchProbA:   matchProbA,
		SetProb:      setProb,
		Series:       result,
		ExpectedSets: result.ExpectedFrames(),
		Match:        odds.TwoWay(0, result.MatchA, margins.Match),
		FirstSet:     odds.TwoWay(0, setProb.Value, margins.Match),
		SetsTotals:   PriceCandidates(PickBalanced(SetsTotalCandidates(result), cfg.MaxSetsTotals, cfg.BalanceTolerance), margins.Lines),
		SetsHandicap: SetsHandicapLines(result, margins.Lines),
		ExactTotal:   ExactTotalMarket(result.Frames, margins.MultiWay),
		CorrectScore: CorrectScoreMarket(result.Scores, margins.MultiWay),
	}, nil
}

// SetsTotalCandidates returns an over/under candidate at every half line
// inside the support of the total sets distribution.
func SetsTotalCandidates(result Result) []Candidate {
	lo, hi := result.Frames.Min(), result.Frames.Max()
	candidates := make([]Candidate, 0, hi-lo)
	for cut := lo + 1; cut <= hi; cut++ {
		candidates = append(candidates, Candidate{Line: float64(cut) - 0.5, Over: result.Frames.Over(cut)})
	}
	return candidates
}

// SetsHandicapLines prices side A giving 1.5 .. K-0.5 sets
func SetsHandicapLines(result Result, margin float64) []models.MarketLine {
	lines := make([]models.MarketLine, 0, result.State.FirstTo)
	for k := 1; k < result.State.FirstTo; k++ {
		line := float64(k) + 0.5
		cover := CoverProbability(result.Scores, line)
		if Degenerate(cover) {
			continue
		}
		lines = append(lines, odds.TwoWay(line, cover, margin))
	}
	return lines
}

// ExactTotalMarket prices the exact number of sets played as one market
func ExactTotalMarket(dist models.Distribution, margin float64) models.PricedMarket {
	labels := make([]string, len(dist))
	fair := make([]float64, len(dist))
	for i, o := range dist {
		labels[i] = strconv.Itoa(o.Count)
		fair[i] = o.Prob
	}
	return odds.Market("exact_total_sets", labels, fair, margin)
}
