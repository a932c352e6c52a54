package odds

import (
	"fmt"
	"strings"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// DecimalOdds converts a probability into decimal odds rounded to two
// places. Non-positive probabilities have no price and return zero.
func DecimalOdds(p float64) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return one.Div(decimal.NewFromFloat(p)).Round(2)
}

// ImpliedProbability returns 1/odds for decimal odds above 1
func ImpliedProbability(odds decimal.Decimal) (float64, error) {
	if odds.LessThanOrEqual(one) {
		return 0, models.NewInvalidProbabilityError("odds", odds.InexactFloat64(), "decimal odds must exceed 1.0")
	}
	return one.Div(odds).InexactFloat64(), nil
}

// ParseOdds parses decimal ("2.50") or fractional ("5/2") odds into
// decimal odds.
func ParseOdds(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	var odds decimal.Decimal

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse fractional odds %q: %w", s, err)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse fractional odds %q: %w", s, err)
		}
		if !d.IsPositive() || n.IsNegative() {
			return decimal.Zero, models.NewInvalidProbabilityError("odds", 0, fmt.Sprintf("fractional odds %q must have a positive denominator", s))
		}
		odds = n.Div(d).Add(one)
	} else {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse decimal odds %q: %w", s, err)
		}
		odds = d
	}

	if odds.LessThanOrEqual(one) {
		return decimal.Zero, models.NewInvalidProbabilityError("odds", odds.InexactFloat64(), "decimal odds must exceed 1.0")
	}
	return odds, nil
}
