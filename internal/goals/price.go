package goals

import "github.com/damirmikic/betting-models/internal/models"

// GoalLine is a fair over/under split of total goals
type GoalLine struct {
	Line  float64 `json:"line"`
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// StandardLines are the total goal lines derived from every grid
var StandardLines = []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5}

// Result is the fair pricing of one fixture
type Result struct {
	Outcome
	Rates       Rates                 `json:"rates"`
	Correlation float64               `json:"correlation"`
	GoalCap     int                   `json:"goal_cap"`
	TotalGoals  models.Distribution   `json:"total_goals"`
	Lines       []GoalLine            `json:"lines"`
	BothScore   float64               `json:"both_score"`
	TopScores   []models.ScoreOutcome `json:"top_scores"`
}

// Price builds the grid for the given shared rate and derives the 1X2,
// total goals, both-teams-to-score and correct score markets from it.
func Price(rates Rates, l3 float64, goalCap, topScores int) (Result, error) {
	grid, err := NewGrid(rates, l3, goalCap)
	if err != nil {
		return Result{}, err
	}

	total := grid.TotalGoals()
	lines := make([]GoalLine, 0, len(StandardLines))
	for _, line := range StandardLines {
		over := total.Over(int(line + 0.5))
		lines = append(lines, GoalLine{Line: line, Over: over, Under: 1 - over})
	}

	return Result{
		Outcome:     grid.Outcome(),
		Rates:       rates,
		Correlation: l3,
		GoalCap:     grid.Cap,
		TotalGoals:  total,
		Lines:       lines,
		BothScore:   grid.BothScore(),
		TopScores:   grid.TopScores(topScores),
	}, nil
}

// PriceFixture runs the full goal model: rates from ratings, calibration
// against the league draw rate and pricing of the calibrated grid.
func PriceFixture(home, away models.TeamRating, league models.LeagueBaseline, cfg Config) (Result, models.CalibrationResult, error) {
	rates, err := ExpectedRates(home, away, league, cfg.RatingSensitivity, cfg.MinRate)
	if err != nil {
		return Result{}, models.CalibrationResult{}, err
	}

	var target *float64
	if league.HasDrawRate() {
		target = league.DrawRate
	}
	calibration, err := Calibrate(rates, target, cfg)
	if err != nil {
		return Result{}, models.CalibrationResult{}, err
	}

	result, err := Price(rates, calibration.Value, GoalCap(rates.Home, rates.Away, cfg), cfg.TopScores)
	if err != nil {
		return Result{}, models.CalibrationResult{}, err
	}
	return result, calibration, nil
}
