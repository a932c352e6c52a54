package goals

import (
	"math"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
)

// Rates are the expected goals of each side for one fixture
type Rates struct {
	Home             float64 `json:"home"`
	Away             float64 `json:"away"`
	RatingDiff       float64 `json:"rating_diff"`
	ExpectedGoalDiff float64 `json:"expected_goal_diff"`
}

// ExpectedRates converts a rating difference into home and away goal rates.
// The expected goal difference sensitivity*diff is split evenly between the
// league averages and each rate is floored at floor.
func ExpectedRates(home, away models.TeamRating, league models.LeagueBaseline, sensitivity, floor float64) (Rates, error) {
	diff := home.CurrentRating - away.CurrentRating
	egd := sensitivity * diff

	r := Rates{
		Home:             math.Max(league.AvgHomeGoals+egd/2, floor),
		Away:             math.Max(league.AvgAwayGoals-egd/2, floor),
		RatingDiff:       diff,
		ExpectedGoalDiff: egd,
	}
	if err := r.Validate(); err != nil {
		return Rates{}, err
	}
	return r, nil
}

// Validate checks that both rates are finite and positive
func (r Rates) Validate() error {
	if !numeric.IsFinite(r.Home) || r.Home <= 0 {
		return models.NewInvalidRateError("home", r.Home)
	}
	if !numeric.IsFinite(r.Away) || r.Away <= 0 {
		return models.NewInvalidRateError("away", r.Away)
	}
	return nil
}

// CorrelationBound is the largest admissible shared component. Both
// independent sources must keep a positive rate.
func (r Rates) CorrelationBound() float64 {
	return math.Min(r.Home, r.Away) * (1 - 1e-9)
}

// GoalCap returns the grid size needed so that both marginal tails beyond
// the cap are under cfg.TailTolerance, bounded by cfg.MaxGoalCap.
func GoalCap(home, away float64, cfg Config) int {
	goalCap := cfg.BaseGoalCap
	if goalCap > cfg.MaxGoalCap {
		return cfg.MaxGoalCap
	}
	for goalCap < cfg.MaxGoalCap &&
		(numeric.PoissonTail(home, goalCap) >= cfg.TailTolerance || numeric.PoissonTail(away, goalCap) >= cfg.TailTolerance) {
		goalCap++
	}
	return goalCap
}
