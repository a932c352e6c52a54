package models

import "math"

// TeamRating is a team's power rating as supplied by a ratings provider
type TeamRating struct {
	ID            string  `json:"id" validate:"required"`
	DisplayName   string  `json:"display_name"`
	CurrentRating float64 `json:"current_rating"`
}

// LeagueBaseline holds league-wide scoring averages. DrawRate is nil when
// the league has no reliable draw statistic.
type LeagueBaseline struct {
	Name         string   `json:"name"`
	AvgHomeGoals float64  `json:"avg_home_goals" validate:"gt=0"`
	AvgAwayGoals float64  `json:"avg_away_goals" validate:"gt=0"`
	DrawRate     *float64 `json:"draw_rate,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// HasDrawRate reports whether a usable draw rate target is present
func (l LeagueBaseline) HasDrawRate() bool {
	return l.DrawRate != nil && !math.IsNaN(*l.DrawRate)
}

// ScoreState is the current score of a series in progress
type ScoreState struct {
	SideAWins int `json:"side_a_wins" validate:"gte=0"`
	SideBWins int `json:"side_b_wins" validate:"gte=0"`
}
