package series

import (
	"math"
	"sort"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
)

// DegenerateTolerance drops lines that are effectively settled
const DegenerateTolerance = 1e-6

// Degenerate reports whether a line's probability is too close to 0 or 1 to quote
func Degenerate(p float64) bool {
	return p <= DegenerateTolerance || p >= 1-DegenerateTolerance
}

// TotalsLines prices total frames over/under lines around the expected
// total: cuts at round(E)-2 .. round(E)+2, clamped to the support, quoted
// as cut-0.5. Settled and duplicate lines are dropped.
func TotalsLines(result Result, margin float64) []models.MarketLine {
	if result.Decided || len(result.Frames) == 0 {
		return nil
	}

	center := int(math.Round(result.ExpectedFrames()))
	lo, hi := result.Frames.Min(), result.Frames.Max()
	seen := make(map[float64]bool)
	lines := make([]models.MarketLine, 0, 5)
	for delta := -2; delta <= 2; delta++ {
		cut := max(lo, min(hi, center+delta))
		line := float64(cut) - 0.5
		if seen[line] {
			continue
		}
		seen[line] = true
		over := result.Frames.Over(cut)
		if Degenerate(over) {
			continue
		}
		lines = append(lines, odds.TwoWay(line, over, margin))
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Line < lines[j].Line })
	return lines
}

// HandicapLines prices side A giving k+0.5 frames for k = 0..FirstTo-1. A covers
// the line when its winning margin is at least floor(line+0.5).
func HandicapLines(result Result, margin float64) []models.MarketLine {
	if result.Decided {
		return nil
	}

	lines := make([]models.MarketLine, 0, result.State.FirstTo)
	for k := 0; k < result.State.FirstTo; k++ {
		line := float64(k) + 0.5
		cover := CoverProbability(result.Scores, line)
		if Degenerate(cover) {
			continue
		}
		lines = append(lines, odds.TwoWay(line, cover, margin))
	}
	return lines
}

// CoverProbability returns the probability that side A wins by at least
// floor(line+0.5).
func CoverProbability(scores []models.ScoreOutcome, line float64) float64 {
	need := int(math.Floor(line + 0.5))
	cover := 0.0
	for _, s := range scores {
		if s.A > s.B && s.Margin() >= need {
			cover += s.Prob
		}
	}
	return cover
}

// Candidate is an over/under line considered for quoting
type Candidate struct {
	Line float64 `json:"line"`
	Over float64 `json:"over"`
}

// PickBalanced selects up to count lines whose over probability is closest
// to 0.5. Ties prefer the smaller absolute line. A candidate is skipped when
// its line was already chosen or its over probability is within tolerance
// of a chosen line. The selection is returned in ascending line order.
func PickBalanced(candidates []Candidate, count int, tolerance float64) []Candidate {
	ordered := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !Degenerate(c.Over) {
			ordered = append(ordered, c)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := math.Abs(ordered[i].Over-0.5), math.Abs(ordered[j].Over-0.5)
		if di != dj {
			return di < dj
		}
		return math.Abs(ordered[i].Line) < math.Abs(ordered[j].Line)
	})

	picked := make([]Candidate, 0, count)
	for _, c := range ordered {
		if len(picked) >= count {
			break
		}
		if tooClose(picked, c, tolerance) {
			continue
		}
		picked = append(picked, c)
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].Line < picked[j].Line })
	return picked
}

func tooClose(picked []Candidate, c Candidate, tolerance float64) bool {
	for _, p := range picked {
		if p.Line == c.Line || math.Abs(p.Over-c.Over) < tolerance {
			return true
		}
	}
	return false
}

// PriceCandidates turns selected candidates into priced over/under lines
func PriceCandidates(candidates []Candidate, margin float64) []models.MarketLine {
	lines := make([]models.MarketLine, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, odds.TwoWay(c.Line, c.Over, margin))
	}
	return lines
}
