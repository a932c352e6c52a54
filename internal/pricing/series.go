package pricing

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/series"
)

// SeriesQuote is a priced best-of-N series, possibly in play
type SeriesQuote struct {
	QuoteID        string                `json:"quote_id"`
	EngineVersion  string                `json:"engine_version"`
	Cached         bool                  `json:"cached"`
	BestOf         int                   `json:"best_of"`
	State          models.MatchState     `json:"state"`
	FrameProbA     float64               `json:"frame_prob_a"`
	MatchA         float64               `json:"match_a"`
	MatchB         float64               `json:"match_b"`
	Decided        bool                  `json:"decided"`
	ExpectedFrames float64               `json:"expected_frames"`
	Frames         models.Distribution   `json:"frames"`
	Scores         []models.ScoreOutcome `json:"scores"`
	Markets        series.Markets        `json:"markets"`
}

// PriceSeriesMarkets prices a best-of-N series from side A's per-frame win
// probability. A nil score prices the series from 0-0.
func (e *Engine) PriceSeriesMarkets(ctx context.Context, perEventProbA float64, bestOf int, score *models.ScoreState, margins odds.MarginConfig) (*SeriesQuote, error) {
	start := e.now()
	fields := logrus.Fields{"best_of": bestOf, "frame_prob": perEventProbA}
	if err := ctx.Err(); err != nil {
		return nil, e.fail(MarketSeries, start, err, fields)
	}
	if err := margins.Validate(); err != nil {
		return nil, e.fail(MarketSeries, start, err, fields)
	}

	state, err := series.NewState(bestOf, score, e.maxBestOf)
	if err != nil {
		return nil, e.fail(MarketSeries, start, err, fields)
	}

	id := QuoteID(fingerprint(MarketSeries, perEventProbA, bestOf, state.FramesA, state.FramesB,
		margins.Match, margins.Lines, margins.MultiWay))
	if q, ok := e.cached(MarketSeries, id); ok {
		if quote, ok := q.(*SeriesQuote); ok {
			hit := quote.clone()
			hit.Cached = true
			return hit, nil
		}
	}

	result, err := series.Compute(perEventProbA, state)
	if err != nil {
		return nil, e.fail(MarketSeries, start, err, fields)
	}

	quote := &SeriesQuote{
		QuoteID:        id,
		EngineVersion:  EngineVersion,
		BestOf:         bestOf,
		State:          state,
		FrameProbA:     perEventProbA,
		MatchA:         result.MatchA,
		MatchB:         result.MatchB,
		Decided:        result.Decided,
		ExpectedFrames: result.ExpectedFrames(),
		Frames:         result.Frames,
		Scores:         result.Scores,
		Markets:        series.PriceMarkets(result, margins),
	}

	e.store(id, quote.clone())
	e.log.LogSeriesQuote(id, bestOf, state.FramesA, state.FramesB, perEventProbA, result.MatchA, result.Decided, e.succeed(MarketSeries, start))
	return quote, nil
}

// clone returns a deep copy so cached quotes never share memory with callers
func (q *SeriesQuote) clone() *SeriesQuote {
	c := *q
	c.Frames = q.Frames.Clone()
	c.Scores = slices.Clone(q.Scores)
	c.Markets = q.Markets.Clone()
	return &c
}
