// Package goals implements the correlated (bivariate Poisson) goal model:
// expected rates from a rating difference, the truncated joint score grid,
// calibration of the shared component against a league draw rate, and the
// markets derived from the grid.
package goals

// Config holds the numerical settings of the goal model
type Config struct {
	BaseGoalCap              int
	MaxGoalCap               int
	TailTolerance            float64
	MinRate                  float64
	DefaultCorrelation       float64
	InitialBracket           float64
	CalibrationMaxIterations int
	CalibrationTolerance     float64
	RatingSensitivity        float64
	TopScores                int
}

// DefaultConfig returns the standard goal model settings
func DefaultConfig() Config {
	return Config{
		BaseGoalCap:              10,
		MaxGoalCap:               40,
		TailTolerance:            1e-4,
		MinRate:                  0.05,
		DefaultCorrelation:       0.15,
		InitialBracket:           0.05,
		CalibrationMaxIterations: 40,
		CalibrationTolerance:     1e-9,
		RatingSensitivity:        0.07,
		TopScores:                10,
	}
}
