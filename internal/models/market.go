package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// MarketLine is a priced two-way line (over/under, handicap, winner)
type MarketLine struct {
	Line      float64         `json:"line"`
	FairA     float64         `json:"fair_a"`
	FairB     float64         `json:"fair_b"`
	MarginedA float64         `json:"margined_a"`
	MarginedB float64         `json:"margined_b"`
	OddsA     decimal.Decimal `json:"odds_a"`
	OddsB     decimal.Decimal `json:"odds_b"`
}

// PricedOutcome is one selection of a multi-way market
type PricedOutcome struct {
	Label    string          `json:"label"`
	Fair     float64         `json:"fair"`
	Margined float64         `json:"margined"`
	Odds     decimal.Decimal `json:"odds"`
}

// PricedMarket is a multi-way market with margin applied
type PricedMarket struct {
	Name      string          `json:"name"`
	Outcomes  []PricedOutcome `json:"outcomes"`
	Overround float64         `json:"overround"`
}

// Clone returns a copy whose outcomes share no memory with m
func (m PricedMarket) Clone() PricedMarket {
	m.Outcomes = slices.Clone(m.Outcomes)
	return m
}

// Outcome returns the selection with the given label
func (m PricedMarket) Outcome(label string) (PricedOutcome, bool) {
	for _, o := range m.Outcomes {
		if o.Label == label {
			return o, true
		}
	}
	return PricedOutcome{}, false
}

// ScoreOutcome is the probability of one final score
type ScoreOutcome struct {
	A    int     `json:"a"`
	B    int     `json:"b"`
	Prob float64 `json:"prob"`
}

// Margin returns the winning margin from side A's perspective
func (s ScoreOutcome) Margin() int {
	return s.A - s.B
}
