package odds

import (
	"math"

	"github.com/damirmikic/betting-models/internal/models"
)

// MarginConfig is the overround charged per market family
type MarginConfig struct {
	Match    float64 `json:"match" mapstructure:"match" validate:"gte=0,lt=1"`
	Lines    float64 `json:"lines" mapstructure:"lines" validate:"gte=0,lt=1"`
	MultiWay float64 `json:"multi_way" mapstructure:"multi_way" validate:"gte=0,lt=1"`
}

// DefaultMargins returns the standard overrounds
func DefaultMargins() MarginConfig {
	return MarginConfig{Match: 0.05, Lines: 0.06, MultiWay: 0.15}
}

// Validate checks that every margin is finite and in [0, 1)
func (m MarginConfig) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"match margin", m.Match}, {"lines margin", m.Lines}, {"multi-way margin", m.MultiWay}} {
		if math.IsNaN(v.value) || v.value < 0 || v.value >= 1 {
			return models.NewInvalidProbabilityError(v.name, v.value, "margin must lie in [0, 1)")
		}
	}
	return nil
}
