package series

import (
	"fmt"
	"slices"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
)

// Markets are the priced markets of one series
type Markets struct {
	Match        models.MarketLine   `json:"match"`
	Totals       []models.MarketLine `json:"totals"`
	Handicaps    []models.MarketLine `json:"handicaps"`
	CorrectScore models.PricedMarket `json:"correct_score"`
}

// Clone returns a copy that shares no memory with m
func (m Markets) Clone() Markets {
	m.Totals = slices.Clone(m.Totals)
	m.Handicaps = slices.Clone(m.Handicaps)
	m.CorrectScore = m.CorrectScore.Clone()
	return m
}

// PriceMarkets applies margins to a computed series
func PriceMarkets(result Result, margins odds.MarginConfig) Markets {
	return Markets{
		Match:        odds.TwoWay(0, result.MatchA, margins.Match),
		Totals:       TotalsLines(result, margins.Lines),
		Handicaps:    HandicapLines(result, margins.Lines),
		CorrectScore: CorrectScoreMarket(result.Scores, margins.MultiWay),
	}
}

// CorrectScoreMarket prices every final score as one multi-way market
func CorrectScoreMarket(scores []models.ScoreOutcome, margin float64) models.PricedMarket {
	labels := make([]string, len(scores))
	fair := make([]float64, len(scores))
	for i, s := range scores {
		labels[i] = ScoreLabel(s)
		fair[i] = s.Prob
	}
	return odds.Market("correct_score", labels, fair, margin)
}

// ScoreLabel formats a final score as "A-B"
func ScoreLabel(s models.ScoreOutcome) string {
	return fmt.Sprintf("%d-%d", s.A, s.B)
}
