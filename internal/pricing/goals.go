package pricing

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/damirmikic/betting-models/internal/goals"
	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/series"
)

// CorrelationConfig are the per-call settings of a goal quote. Nil fields
// fall back to the league baseline and the engine configuration.
type CorrelationConfig struct {
	DrawTarget        *float64           `json:"draw_target,omitempty" validate:"omitempty,gt=0,lt=1"`
	RatingSensitivity *float64           `json:"rating_sensitivity,omitempty" validate:"omitempty,gte=0"`
	Margins           *odds.MarginConfig `json:"margins,omitempty"`
}

// GoalQuote is a priced football fixture
type GoalQuote struct {
	QuoteID       string                   `json:"quote_id"`
	EngineVersion string                   `json:"engine_version"`
	Cached        bool                     `json:"cached"`
	Home          string                   `json:"home"`
	Away          string                   `json:"away"`
	League        string                   `json:"league"`
	PHome         float64                  `json:"p_home"`
	PDraw         float64                  `json:"p_draw"`
	PAway         float64                  `json:"p_away"`
	Correlation   models.CalibrationResult `json:"correlation"`
	Rates         goals.Rates              `json:"rates"`
	GoalCap       int                      `json:"goal_cap"`
	MatchResult   models.PricedMarket      `json:"match_result"`
	TotalGoals    []models.MarketLine      `json:"total_goals"`
	BothScore     models.MarketLine        `json:"both_teams_to_score"`
	CorrectScores []models.PricedOutcome   `json:"correct_scores"`
	Distribution  models.Distribution      `json:"total_goals_distribution"`
}

// PriceGoalMarkets prices the 1X2, total goals, both teams to score and
// most likely correct score markets of a fixture.
func (e *Engine) PriceGoalMarkets(ctx context.Context, home, away models.TeamRating, league models.LeagueBaseline, cc CorrelationConfig) (*GoalQuote, error) {
	start := e.now()
	fields := logrus.Fields{"home": home.ID, "away": away.ID, "league": league.Name}
	if err := ctx.Err(); err != nil {
		return nil, e.fail(MarketGoals, start, err, fields)
	}

	cfg := e.goals
	if cc.RatingSensitivity != nil {
		if !numeric.IsFinite(*cc.RatingSensitivity) {
			return nil, e.fail(MarketGoals, start, models.NewNumericDegeneracyError("rating sensitivity", *cc.RatingSensitivity, "must be finite", nil), fields)
		}
		cfg.RatingSensitivity = *cc.RatingSensitivity
	}
	if cc.DrawTarget != nil {
		target := *cc.DrawTarget
		league.DrawRate = &target
	}
	margins := e.margins
	if cc.Margins != nil {
		margins = *cc.Margins
	}
	if err := margins.Validate(); err != nil {
		return nil, e.fail(MarketGoals, start, err, fields)
	}

	id := QuoteID(fingerprint(MarketGoals,
		home.ID, home.CurrentRating, away.ID, away.CurrentRating,
		league.Name, league.AvgHomeGoals, league.AvgAwayGoals, optional(league.DrawRate),
		cfg.RatingSensitivity, margins.Match, margins.Lines, margins.MultiWay))
	if q, ok := e.cached(MarketGoals, id); ok {
		if quote, ok := q.(*GoalQuote); ok {
			hit := quote.clone()
			hit.Cached = true
			return hit, nil
		}
	}

	result, calibration, err := goals.PriceFixture(home, away, league, cfg)
	if err != nil {
		return nil, e.fail(MarketGoals, start, err, fields)
	}
	e.calibrated(MarketGoals, calibration.Method, calibration.Value, calibration.Residual, calibration.Iterations, calibration.Converged)

	quote := &GoalQuote{
		QuoteID:       id,
		EngineVersion: EngineVersion,
		Home:          home.ID,
		Away:          away.ID,
		League:        league.Name,
		PHome:         result.PHome,
		PDraw:         result.PDraw,
		PAway:         result.PAway,
		Correlation:   calibration,
		Rates:         result.Rates,
		GoalCap:       result.GoalCap,
		MatchResult: odds.Market("1x2", []string{"home", "draw", "away"},
			[]float64{result.PHome, result.PDraw, result.PAway}, margins.Match),
		BothScore:    odds.TwoWay(0, result.BothScore, margins.Lines),
		Distribution: result.TotalGoals,
	}
	for _, line := range result.Lines {
		quote.TotalGoals = append(quote.TotalGoals, odds.TwoWay(line.Line, line.Over, margins.Lines))
	}
	for _, s := range result.TopScores {
		quote.CorrectScores = append(quote.CorrectScores, odds.Selection(series.ScoreLabel(s), s.Prob, margins.MultiWay))
	}

	e.store(id, quote.clone())
	e.log.LogGoalQuote(id, home.ID, away.ID, result.Rates.Home, result.Rates.Away, calibration.Value,
		result.PHome, result.PDraw, result.PAway, e.succeed(MarketGoals, start))
	return quote, nil
}

// clone returns a deep copy so cached quotes never share memory with callers
func (q *GoalQuote) clone() *GoalQuote {
	c := *q
	c.MatchResult = q.MatchResult.Clone()
	c.TotalGoals = slices.Clone(q.TotalGoals)
	c.CorrectScores = slices.Clone(q.CorrectScores)
	c.Distribution = q.Distribution.Clone()
	return &c
}

// fingerprint joins request parts into a cache key
func fingerprint(parts ...interface{}) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		switch v := p.(type) {
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}

func optional(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}
