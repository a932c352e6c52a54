// Package pricing is the engine facade over the goal, series, format and
// rally models. It applies configuration, caches quotes, and records logs
// and metrics; the models below it stay pure.
package pricing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/damirmikic/betting-models/internal/config"
	"github.com/damirmikic/betting-models/internal/goals"
	"github.com/damirmikic/betting-models/internal/logger"
	"github.com/damirmikic/betting-models/internal/metrics"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/rally"
	"github.com/damirmikic/betting-models/internal/series"
)

// EngineVersion identifies the single pricing engine. It changes whenever
// a model change can move a price.
const EngineVersion = "1.2.0"

// Market names used in logs and metrics
const (
	MarketGoals  = "goals"
	MarketSeries = "series"
	MarketFormat = "format"
)

// Capabilities describes what one pricing operation supports
type Capabilities struct {
	SupportsInPlayState bool     `json:"supports_in_play_state"`
	Formats             []string `json:"formats,omitempty"`
	Markets             []string `json:"markets"`
}

// EngineInfo reports the engine version and its per-operation capabilities
type EngineInfo struct {
	Version      string                  `json:"version"`
	Capabilities map[string]Capabilities `json:"capabilities"`
	MaxBestOf    int                     `json:"max_best_of"`
	Margins      odds.MarginConfig       `json:"default_margins"`
}

// Engine prices fixtures. It is safe for concurrent use.
type Engine struct {
	goals     goals.Config
	format    series.FormatConfig
	rally     rally.Config
	margins   odds.MarginConfig
	maxBestOf int
	cache     *QuoteCache
	log       *logger.PricingLogger
	now       func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithCache enables quote caching
func WithCache(c *QuoteCache) Option {
	return func(e *Engine) { e.cache = c }
}

// NewEngine builds an engine from the pricing configuration
func NewEngine(cfg config.PricingConfig, log *logrus.Logger, opts ...Option) (*Engine, error) {
	margins := cfg.Margins()
	if err := margins.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		goals:     cfg.GoalModel(),
		format:    cfg.FormatModel(),
		rally:     cfg.RallyModel(),
		margins:   margins,
		maxBestOf: cfg.Series.MaxBestOf,
		log:       logger.NewPricingLogger(log),
		now:       time.Now,
	}
	if e.maxBestOf <= 0 || e.maxBestOf > series.MaxBestOf {
		e.maxBestOf = series.MaxBestOf
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEngineFromConfig builds an engine and, when enabled, its quote cache
func NewEngineFromConfig(cfg *config.Config, log *logrus.Logger) (*Engine, error) {
	var opts []Option
	if cfg.Cache.Enabled {
		opts = append(opts, WithCache(NewQuoteCache(cfg.Cache.CacheTTL(), cfg.Cache.MaxSize)))
	}
	return NewEngine(cfg.Pricing, log, opts...)
}

// DefaultMargins returns the margins used when a request carries none
func (e *Engine) DefaultMargins() odds.MarginConfig {
	return e.margins
}

// Cache returns the quote cache, or nil when caching is disabled
func (e *Engine) Cache() *QuoteCache {
	return e.cache
}

// Info returns the engine version and capability flags
func (e *Engine) Info() EngineInfo {
	return EngineInfo{
		Version: EngineVersion,
		Capabilities: map[string]Capabilities{
			MarketGoals: {
				SupportsInPlayState: false,
				Markets:             []string{"1x2", "total_goals", "both_teams_to_score", "correct_score"},
			},
			MarketSeries: {
				SupportsInPlayState: true,
				Markets:             []string{"match", "totals", "handicap", "correct_score"},
			},
			MarketFormat: {
				SupportsInPlayState: false,
				Formats:             []string{series.BestOf5.Name, series.BestOf7.Name, "generic"},
				Markets: []string{
					"match", "first_set", "sets_totals", "sets_handicap", "exact_total_sets",
					"correct_score", "points_totals", "points_handicap", "first_set_points",
				},
			},
		},
		MaxBestOf: e.maxBestOf,
		Margins:   e.margins,
	}
}

// SelfCheck prices the canonical best-of-5 series at 0.6 per frame. It is
// the engine's readiness probe.
func (e *Engine) SelfCheck(ctx context.Context) error {
	_, err := e.PriceSeriesMarkets(ctx, 0.6, 5, nil, e.margins)
	return err
}

// cached returns the quote stored under id, if caching is enabled
func (e *Engine) cached(market, id string) (interface{}, bool) {
	if e.cache == nil {
		return nil, false
	}
	quote, ok := e.cache.Get(id)
	if ok {
		e.log.LogCacheHit(market, id)
		metrics.RecordPricing(market, metrics.StatusCached, 0)
	}
	return quote, ok
}

func (e *Engine) store(id string, quote interface{}) {
	if e.cache != nil {
		e.cache.Set(id, quote)
	}
}

// fail logs and counts a pricing failure and returns err unchanged
func (e *Engine) fail(market string, start time.Time, err error, fields logrus.Fields) error {
	metrics.RecordPricing(market, metrics.StatusFailure, e.now().Sub(start).Seconds())
	e.log.LogPricingFailure(market, err, fields)
	return err
}

func (e *Engine) succeed(market string, start time.Time) float64 {
	elapsed := e.now().Sub(start)
	metrics.RecordPricing(market, metrics.StatusSuccess, elapsed.Seconds())
	return float64(elapsed.Microseconds()) / 1000
}

func (e *Engine) calibrated(model, method string, value, residual float64, iterations int, converged bool) {
	metrics.RecordCalibration(model, method, iterations)
	e.log.LogCalibration(model, method, value, residual, iterations, converged)
}
