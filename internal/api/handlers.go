// Package api exposes the pricing engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/damirmikic/betting-models/internal/datasource"
	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/pricing"
	"github.com/damirmikic/betting-models/internal/series"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Pricer is the engine surface served by the API
type Pricer interface {
	PriceGoalMarkets(ctx context.Context, home, away models.TeamRating, league models.LeagueBaseline, cc pricing.CorrelationConfig) (*pricing.GoalQuote, error)
	PriceSeriesMarkets(ctx context.Context, perEventProbA float64, bestOf int, score *models.ScoreState, margins odds.MarginConfig) (*pricing.SeriesQuote, error)
	PriceFormatMarkets(ctx context.Context, fairMatchProbA float64, format series.Format, margins odds.MarginConfig) (*pricing.FormatQuote, error)
	Info() pricing.EngineInfo
	DefaultMargins() odds.MarginConfig
}

// FixtureResolver looks up ratings and league baselines by ID
type FixtureResolver interface {
	Team(id string) (models.TeamRating, error)
	League(name string) (models.LeagueBaseline, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	pricer   Pricer
	fixtures FixtureResolver
	validate *validator.Validate
	logger   *logrus.Entry
}

// NewHandler creates a new handler
func NewHandler(pricer Pricer, log *logrus.Logger) *Handler {
	return &Handler{
		pricer:   pricer,
		validate: validator.New(),
		logger:   log.WithField("component", "api"),
	}
}

// WithFixtures enables pricing fixtures by team ID
func (h *Handler) WithFixtures(r FixtureResolver) *Handler {
	h.fixtures = r
	return h
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "betting-models",
		"version": h.pricer.Info().Version,
	})
}

// EngineInfo returns the engine version and capabilities
func (h *Handler) EngineInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.pricer.Info())
}

// PriceGoals prices a football fixture
func (h *Handler) PriceGoals(w http.ResponseWriter, r *http.Request) {
	var req GoalsRequest
	if !h.decode(w, r, &req) {
		return
	}

	quote, err := h.pricer.PriceGoalMarkets(r.Context(), req.Home, req.Away, req.League, pricing.CorrelationConfig{
		DrawTarget:        req.DrawTarget,
		RatingSensitivity: req.RatingSensitivity,
		Margins:           req.Margins,
	})
	if err != nil {
		h.respondPricingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// PriceFixture prices a football fixture from the loaded ratings snapshot
func (h *Handler) PriceFixture(w http.ResponseWriter, r *http.Request) {
	var req FixtureRequest
	if !h.decode(w, r, &req) {
		return
	}

	home, err := h.fixtures.Team(req.HomeID)
	if err != nil {
		h.respondPricingError(w, err)
		return
	}
	away, err := h.fixtures.Team(req.AwayID)
	if err != nil {
		h.respondPricingError(w, err)
		return
	}
	league, err := h.fixtures.League(req.League)
	if err != nil {
		h.respondPricingError(w, err)
		return
	}

	quote, err := h.pricer.PriceGoalMarkets(r.Context(), home, away, league, pricing.CorrelationConfig{
		DrawTarget:        req.DrawTarget,
		RatingSensitivity: req.RatingSensitivity,
		Margins:           req.Margins,
	})
	if err != nil {
		h.respondPricingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// PriceSeries prices a best-of-N series
func (h *Handler) PriceSeries(w http.ResponseWriter, r *http.Request) {
	var req SeriesRequest
	if !h.decode(w, r, &req) {
		return
	}

	quote, err := h.pricer.PriceSeriesMarkets(r.Context(), req.FrameProb, req.BestOf, req.Score, h.margins(req.Margins))
	if err != nil {
		h.respondPricingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// PriceFormat prices a set format
func (h *Handler) PriceFormat(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if !h.decode(w, r, &req) {
		return
	}

	format, err := series.ParseFormat(req.Format)
	if err != nil {
		h.respondPricingError(w, err)
		return
	}

	matchProb, err := fairMatchProb(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_odds", err.Error())
		return
	}

	quote, err := h.pricer.PriceFormatMarkets(r.Context(), matchProb, format, h.margins(req.Margins))
	if err != nil {
		h.respondPricingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (h *Handler) margins(m *odds.MarginConfig) odds.MarginConfig {
	if m == nil {
		return h.pricer.DefaultMargins()
	}
	return *m
}

// fairMatchProb returns the request's match probability, removing the
// margin from a quoted two-way price when no probability is given.
func fairMatchProb(req FormatRequest) (float64, error) {
	if req.MatchProb != nil {
		return *req.MatchProb, nil
	}
	a, err := odds.ParseOdds(req.OddsA)
	if err != nil {
		return 0, err
	}
	b, err := odds.ParseOdds(req.OddsB)
	if err != nil {
		return 0, err
	}
	return odds.FairFromDecimal(a.InexactFloat64(), b.InexactFloat64())
}

// decode reads and validates a JSON body, writing a 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid request: %v", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

func (h *Handler) respondPricingError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Pricing request failed unexpectedly")
	}
	respondError(w, status, kind, err.Error())
}

// classify maps a pricing error to its HTTP status and kind
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidProbability):
		return http.StatusBadRequest, "invalid_probability"
	case errors.Is(err, models.ErrInvalidFormat):
		return http.StatusBadRequest, "invalid_format"
	case errors.Is(err, models.ErrInvalidScoreState):
		return http.StatusBadRequest, "invalid_score_state"
	case errors.Is(err, models.ErrInvalidRate):
		return http.StatusUnprocessableEntity, "invalid_rate"
	case errors.Is(err, models.ErrRootBracket):
		return http.StatusUnprocessableEntity, "root_bracket"
	case errors.Is(err, models.ErrNumericDegeneracy):
		return http.StatusUnprocessableEntity, "numeric_degeneracy"
	case errors.Is(err, datasource.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Kind: kind})
}
