// Package odds applies bookmaker margin to fair probabilities and converts
// between probabilities and quoted prices.
package odds

import (
	"math"

	"github.com/damirmikic/betting-models/internal/models"
)

// MaxPricedProbability caps a margined probability so quoted odds stay above
// 1/0.999 unless the fair probability is already higher.
const MaxPricedProbability = 0.999

// Apply distributes margin over a market. Each fair probability is scaled
// by (1+margin)/Σfair, so the priced market sums to 1+margin, and then capped
// at max(fair, MaxPricedProbability). The input slice is not modified.
func Apply(fair []float64, margin float64) []float64 {
	out := make([]float64, len(fair))
	total := 0.0
	for _, p := range fair {
		total += math.Max(0, p)
	}
	if total <= 0 {
		return out
	}

	scale := (1 + margin) / total
	for i, p := range fair {
		p = math.Max(0, p)
		out[i] = math.Min(p*scale, math.Max(p, MaxPricedProbability))
	}
	return out
}

// Overround returns how far the summed probabilities exceed 1
func Overround(probs []float64) float64 {
	total := 0.0
	for _, p := range probs {
		total += p
	}
	return total - 1
}

// TwoWay prices a binary line from side A's fair probability
func TwoWay(line, fairA, margin float64) models.MarketLine {
	fairA = math.Min(1, math.Max(0, fairA))
	fairB := 1 - fairA
	priced := Apply([]float64{fairA, fairB}, margin)

	return models.MarketLine{
		Line:      line,
		FairA:     fairA,
		FairB:     fairB,
		MarginedA: priced[0],
		MarginedB: priced[1],
		OddsA:     DecimalOdds(priced[0]),
		OddsB:     DecimalOdds(priced[1]),
	}
}

// Market prices a multi-way market. labels and fair must have equal length.
func Market(name string, labels []string, fair []float64, margin float64) models.PricedMarket {
	priced := Apply(fair, margin)
	market := models.PricedMarket{
		Name:      name,
		Outcomes:  make([]models.PricedOutcome, len(fair)),
		Overround: Overround(priced),
	}
	for i := range fair {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		market.Outcomes[i] = models.PricedOutcome{
			Label:    label,
			Fair:     fair[i],
			Margined: priced[i],
			Odds:     DecimalOdds(priced[i]),
		}
	}
	return market
}

// Selection prices one outcome of an open-ended market, such as a single
// correct score, by scaling its fair probability by 1+margin under the
// same cap as Apply.
func Selection(label string, fair, margin float64) models.PricedOutcome {
	p := math.Max(0, fair)
	priced := math.Min(p*(1+margin), math.Max(p, MaxPricedProbability))
	return models.PricedOutcome{
		Label:    label,
		Fair:     fair,
		Margined: priced,
		Odds:     DecimalOdds(priced),
	}
}
