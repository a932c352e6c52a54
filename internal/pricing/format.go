package pricing

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/rally"
	"github.com/damirmikic/betting-models/internal/series"
)

// FormatQuote is a priced set format: set markets from the inverted set
// probability and points markets from the rally sub-model.
type FormatQuote struct {
	QuoteID       string                   `json:"quote_id"`
	EngineVersion string                   `json:"engine_version"`
	Cached        bool                     `json:"cached"`
	Sets          series.FormatResult      `json:"sets"`
	SetProb       float64                  `json:"set_prob"`
	Rally         models.CalibrationResult `json:"rally"`
	Points        rally.PointsResult       `json:"points"`
}

// PriceFormatMarkets prices a set format from side A's fair match win
// probability.
func (e *Engine) PriceFormatMarkets(ctx context.Context, fairMatchProbA float64, format series.Format, margins odds.MarginConfig) (*FormatQuote, error) {
	start := e.now()
	fields := logrus.Fields{"format": format.Name, "match_prob": fairMatchProbA}
	if err := ctx.Err(); err != nil {
		return nil, e.fail(MarketFormat, start, err, fields)
	}
	if err := format.Validate(); err != nil {
		return nil, e.fail(MarketFormat, start, err, fields)
	}
	if err := margins.Validate(); err != nil {
		return nil, e.fail(MarketFormat, start, err, fields)
	}

	id := QuoteID(fingerprint(MarketFormat, fairMatchProbA, format.SetsToWin,
		margins.Match, margins.Lines, margins.MultiWay))
	if q, ok := e.cached(MarketFormat, id); ok {
		if quote, ok := q.(*FormatQuote); ok {
			hit := quote.clone()
			hit.Cached = true
			return hit, nil
		}
	}

	sets, err := series.PriceFormat(fairMatchProbA, format, e.format, margins)
	if err != nil {
		return nil, e.fail(MarketFormat, start, err, fields)
	}
	e.calibrated("set", sets.SetProb.Method, sets.SetProb.Value, sets.SetProb.Residual, sets.SetProb.Iterations, sets.SetProb.Converged)

	setProb := sets.SetProb.Value
	rallyProb, err := rally.SolveRally(setProb, e.rally)
	if err != nil {
		return nil, e.fail(MarketFormat, start, err, fields)
	}
	e.calibrated("rally", rallyProb.Method, rallyProb.Value, rallyProb.Residual, rallyProb.Iterations, rallyProb.Converged)

	summary := rally.SummaryFromRally(rallyProb.Value)

	quote := &FormatQuote{
		QuoteID:       id,
		EngineVersion: EngineVersion,
		Sets:          sets,
		SetProb:       setProb,
		Rally:         rallyProb,
		Points:        rally.PointsMarkets(sets.Series, summary, e.rally, margins.Lines),
	}

	e.store(id, quote.clone())
	e.log.LogFormatQuote(id, format.Name, fairMatchProbA, setProb, rallyProb.Value, sets.ExpectedSets, e.succeed(MarketFormat, start))
	return quote, nil
}

// clone returns a deep copy so cached quotes never share memory with callers
func (q *FormatQuote) clone() *FormatQuote {
	c := *q
	c.Sets = q.Sets.Clone()
	c.Points = q.Points.Clone()
	return &c
}
