package odds

import (
	"github.com/damirmikic/betting-models/internal/models"
)

// RemoveVig converts a full set of decimal odds into fair probabilities by
// normalising the implied probabilities to sum to one.
func RemoveVig(odds []float64) ([]float64, error) {
	if len(odds) < 2 {
		return nil, models.NewInvalidProbabilityError("odds", float64(len(odds)), "need at least two outcomes")
	}

	implied := make([]float64, len(odds))
	total := 0.0
	for i, o := range odds {
		if !(o > 1) {
			return nil, models.NewInvalidProbabilityError("odds", o, "decimal odds must exceed 1.0")
		}
		implied[i] = 1 / o
		total += implied[i]
	}
	for i := range implied {
		implied[i] /= total
	}
	return implied, nil
}

// FairFromDecimal returns side A's vig-free win probability from two-way
// decimal odds.
func FairFromDecimal(oddsA, oddsB float64) (float64, error) {
	fair, err := RemoveVig([]float64{oddsA, oddsB})
	if err != nil {
		return 0, err
	}
	return fair[0], nil
}
