package api

import (
	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
)

// GoalsRequest prices a football fixture
type GoalsRequest struct {
	Home              models.TeamRating     `json:"home" validate:"required"`
	Away              models.TeamRating     `json:"away" validate:"required"`
	League            models.LeagueBaseline `json:"league" validate:"required"`
	DrawTarget        *float64              `json:"draw_target,omitempty" validate:"omitempty,gt=0,lt=1"`
	RatingSensitivity *float64              `json:"rating_sensitivity,omitempty" validate:"omitempty,gte=0"`
	Margins           *odds.MarginConfig    `json:"margins,omitempty"`
}

// FixtureRequest prices a football fixture by team and league ID
type FixtureRequest struct {
	HomeID            string             `json:"home_id" validate:"required"`
	AwayID            string             `json:"away_id" validate:"required,nefield=HomeID"`
	League            string             `json:"league" validate:"required"`
	DrawTarget        *float64           `json:"draw_target,omitempty" validate:"omitempty,gt=0,lt=1"`
	RatingSensitivity *float64           `json:"rating_sensitivity,omitempty" validate:"omitempty,gte=0"`
	Margins           *odds.MarginConfig `json:"margins,omitempty"`
}

// SeriesRequest prices a best-of-N series, optionally in play
type SeriesRequest struct {
	FrameProb float64            `json:"frame_prob" validate:"gte=0,lte=1"`
	BestOf    int                `json:"best_of" validate:"required,gt=0"`
	Score     *models.ScoreState `json:"score,omitempty"`
	Margins   *odds.MarginConfig `json:"margins,omitempty"`
}

// FormatRequest prices a set format. The match probability is given
// directly or as a two-way price ("1.80", "4/5") whose margin is removed.
type FormatRequest struct {
	Format    string             `json:"format" validate:"required"`
	MatchProb *float64           `json:"match_prob,omitempty" validate:"required_without_all=OddsA OddsB"`
	OddsA     string             `json:"odds_a,omitempty" validate:"required_with=OddsB"`
	OddsB     string             `json:"odds_b,omitempty" validate:"required_with=OddsA"`
	Margins   *odds.MarginConfig `json:"margins,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
