package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/damirmikic/betting-models/internal/config"
	"github.com/damirmikic/betting-models/internal/datasource"
	"github.com/damirmikic/betting-models/internal/metrics"
	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/pricing"
	"github.com/damirmikic/betting-models/internal/series"
)

// MockPricer is a mock implementation of Pricer
type MockPricer struct {
	mock.Mock
}

func (m *MockPricer) PriceGoalMarkets(ctx context.Context, home, away models.TeamRating, league models.LeagueBaseline, cc pricing.CorrelationConfig) (*pricing.GoalQuote, error) {
	args := m.Called(ctx, home, away, league, cc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.GoalQuote), args.Error(1)
}

func (m *MockPricer) PriceSeriesMarkets(ctx context.Context, p float64, bestOf int, score *models.ScoreState, margins odds.MarginConfig) (*pricing.SeriesQuote, error) {
	args := m.Called(ctx, p, bestOf, score, margins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.SeriesQuote), args.Error(1)
}

func (m *MockPricer) PriceFormatMarkets(ctx context.Context, p float64, format series.Format, margins odds.MarginConfig) (*pricing.FormatQuote, error) {
	args := m.Called(ctx, p, format, margins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.FormatQuote), args.Error(1)
}

func (m *MockPricer) Info() pricing.EngineInfo {
	return pricing.EngineInfo{Version: "test"}
}

func (m *MockPricer) DefaultMargins() odds.MarginConfig {
	return odds.DefaultMargins()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRouter(p Pricer) http.Handler {
	log := quietLogger()
	return NewRouter(NewHandler(p, log), RouterConfig{MetricsPath: "/metrics", MetricsHandler: metrics.Handler()}, log)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&MockPricer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}

func TestMetricsRoute(t *testing.T) {
	metrics.InitRegistry()
	metrics.RecordPricing("series", metrics.StatusSuccess, 0.01)

	rec := httptest.NewRecorder()
	newTestRouter(&MockPricer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "betting_models_pricing_requests_total")
}

func TestPriceSeriesDefaultsMargins(t *testing.T) {
	p := &MockPricer{}
	score := &models.ScoreState{SideAWins: 1, SideBWins: 0}
	p.On("PriceSeriesMarkets", mock.Anything, 0.6, 5, score, odds.DefaultMargins()).
		Return(&pricing.SeriesQuote{QuoteID: "q1", MatchA: 0.8}, nil)

	rec := post(t, newTestRouter(p), "/api/v1/price/series", `{"frame_prob":0.6,"best_of":5,"score":{"side_a_wins":1,"side_b_wins":0}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var quote pricing.SeriesQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "q1", quote.QuoteID)
	p.AssertExpectations(t)
}

func TestPriceSeriesExplicitMargins(t *testing.T) {
	p := &MockPricer{}
	margins := odds.MarginConfig{Match: 0.02, Lines: 0.03, MultiWay: 0.1}
	p.On("PriceSeriesMarkets", mock.Anything, 0.5, 7, (*models.ScoreState)(nil), margins).
		Return(&pricing.SeriesQuote{QuoteID: "q2"}, nil)

	rec := post(t, newTestRouter(p), "/api/v1/price/series", `{"frame_prob":0.5,"best_of":7,"margins":{"match":0.02,"lines":0.03,"multi_way":0.1}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	p.AssertExpectations(t)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/api/v1/price/series", `{"frame_prob":`},
		{"unknown field", "/api/v1/price/series", `{"frame_prob":0.5,"best_of":5,"sets":3}`},
		{"missing best of", "/api/v1/price/series", `{"frame_prob":0.5}`},
		{"probability above one", "/api/v1/price/series", `{"frame_prob":1.5,"best_of":5}`},
		{"negative score", "/api/v1/price/series", `{"frame_prob":0.5,"best_of":5,"score":{"side_a_wins":-1}}`},
		{"margin of one", "/api/v1/price/series", `{"frame_prob":0.5,"best_of":5,"margins":{"match":1}}`},
		{"missing format", "/api/v1/price/format", `{"match_prob":0.6}`},
		{"no probability or odds", "/api/v1/price/format", `{"format":"bo5"}`},
		{"one sided odds", "/api/v1/price/format", `{"format":"bo5","odds_a":"1.8"}`},
		{"missing home id", "/api/v1/price/goals", `{"home":{},"away":{"id":"b"},"league":{"avg_home_goals":1.5,"avg_away_goals":1.1}}`},
		{"zero league average", "/api/v1/price/goals", `{"home":{"id":"a"},"away":{"id":"b"},"league":{"avg_home_goals":0,"avg_away_goals":1.1}}`},
		{"draw target above one", "/api/v1/price/goals", `{"home":{"id":"a"},"away":{"id":"b"},"league":{"avg_home_goals":1.5,"avg_away_goals":1.1},"draw_target":1.2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MockPricer{}
			rec := post(t, newTestRouter(p), tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_request", decodeError(t, rec).Kind)
			p.AssertNotCalled(t, "PriceSeriesMarkets")
		})
	}
}

func TestPricingErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"invalid probability", models.NewInvalidProbabilityError("p", 2, "bad"), http.StatusBadRequest, "invalid_probability"},
		{"invalid format", models.NewInvalidFormatError(4, "even"), http.StatusBadRequest, "invalid_format"},
		{"invalid score", models.NewInvalidScoreStateError(5, 3, 3, "both won"), http.StatusBadRequest, "invalid_score_state"},
		{"root bracket", models.NewRootBracketError("x", 0, 1, 1, 1), http.StatusUnprocessableEntity, "root_bracket"},
		{"degenerate", models.NewNumericDegeneracyError("x", math.Inf(1), "overflow", nil), http.StatusUnprocessableEntity, "numeric_degeneracy"},
		{"invalid rate", models.NewInvalidRateError("home", -1), http.StatusUnprocessableEntity, "invalid_rate"},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, "cancelled"},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MockPricer{}
			p.On("PriceSeriesMarkets", mock.Anything, 0.6, 5, (*models.ScoreState)(nil), odds.DefaultMargins()).Return(nil, tt.err)

			rec := post(t, newTestRouter(p), "/api/v1/price/series", `{"frame_prob":0.6,"best_of":5}`)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.kind, body.Kind)
			assert.Equal(t, tt.err.Error(), body.Error)
		})
	}
}

func TestPriceFormatFromOdds(t *testing.T) {
	p := &MockPricer{}
	p.On("PriceFormatMarkets", mock.Anything,
		mock.MatchedBy(func(prob float64) bool { return math.Abs(prob-2.1/3.9) < 1e-9 }),
		series.BestOf7, odds.DefaultMargins()).
		Return(&pricing.FormatQuote{QuoteID: "f1"}, nil)

	rec := post(t, newTestRouter(p), "/api/v1/price/format", `{"format":"BO7","odds_a":"1.80","odds_b":"11/10"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p.AssertExpectations(t)
}

func TestPriceFormatBadInput(t *testing.T) {
	p := &MockPricer{}
	router := newTestRouter(p)

	rec := post(t, router, "/api/v1/price/format", `{"format":"bo9","match_prob":0.6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_format", decodeError(t, rec).Kind)

	rec = post(t, router, "/api/v1/price/format", `{"format":"bo5","odds_a":"abc","odds_b":"2.0"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_odds", decodeError(t, rec).Kind)

	rec = post(t, router, "/api/v1/price/format", `{"format":"bo5","odds_a":"1.0","odds_b":"2.0"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p.AssertNotCalled(t, "PriceFormatMarkets")
}

func TestPriceGoalsPassesCorrelationConfig(t *testing.T) {
	p := &MockPricer{}
	p.On("PriceGoalMarkets", mock.Anything,
		models.TeamRating{ID: "a", CurrentRating: 5},
		models.TeamRating{ID: "b", CurrentRating: 1},
		mock.MatchedBy(func(l models.LeagueBaseline) bool { return l.Name == "epl" && l.AvgHomeGoals == 1.5 }),
		mock.MatchedBy(func(cc pricing.CorrelationConfig) bool {
			return cc.DrawTarget != nil && *cc.DrawTarget == 0.26 && cc.RatingSensitivity == nil && cc.Margins == nil
		})).
		Return(&pricing.GoalQuote{QuoteID: "g1"}, nil)

	rec := post(t, newTestRouter(p), "/api/v1/price/goals",
		`{"home":{"id":"a","current_rating":5},"away":{"id":"b","current_rating":1},"league":{"name":"epl","avg_home_goals":1.5,"avg_away_goals":1.1},"draw_target":0.26}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p.AssertExpectations(t)
}

// TestEndToEnd runs the router against the real engine
func TestEndToEnd(t *testing.T) {
	engine, err := pricing.NewEngine(config.Default().Pricing, quietLogger())
	require.NoError(t, err)
	router := newTestRouter(engine)

	rec := post(t, router, "/api/v1/price/series", `{"frame_prob":0.6,"best_of":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var quote pricing.SeriesQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.InDelta(t, 0.68256, quote.MatchA, 1e-9)

	rec = post(t, router, "/api/v1/price/format", `{"format":"bo5","match_prob":0.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var format pricing.FormatQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &format))
	assert.Equal(t, 0.5, format.SetProb)

	rec = post(t, router, "/api/v1/price/series", `{"frame_prob":0.6,"best_of":4}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_format", decodeError(t, rec).Kind)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/engine", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var info pricing.EngineInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, pricing.EngineVersion, info.Version)
	assert.True(t, info.Capabilities["series"].SupportsInPlayState)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/price/series", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	newTestRouter(&MockPricer{}).ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

type stubFixtures struct {
	teams   map[string]models.TeamRating
	leagues map[string]models.LeagueBaseline
}

func (s stubFixtures) Team(id string) (models.TeamRating, error) {
	if t, ok := s.teams[id]; ok {
		return t, nil
	}
	return models.TeamRating{}, datasource.NewDataSourceError("stub", datasource.ErrCodeNotFound, "no team "+id, nil)
}

func (s stubFixtures) League(name string) (models.LeagueBaseline, error) {
	return datasource.FindLeague(s.leagues, name)
}

func TestPriceFixture(t *testing.T) {
	fixtures := stubFixtures{
		teams: map[string]models.TeamRating{
			"ars": {ID: "ars", CurrentRating: 8.5},
			"che": {ID: "che", CurrentRating: 3},
		},
		leagues: map[string]models.LeagueBaseline{"epl": {Name: "epl", AvgHomeGoals: 1.55, AvgAwayGoals: 1.2}},
	}

	p := &MockPricer{}
	p.On("PriceGoalMarkets", mock.Anything, fixtures.teams["ars"], fixtures.teams["che"], fixtures.leagues["epl"], mock.Anything).
		Return(&pricing.GoalQuote{QuoteID: "fx"}, nil)

	log := quietLogger()
	router := NewRouter(NewHandler(p, log).WithFixtures(fixtures), RouterConfig{}, log)

	rec := post(t, router, "/api/v1/price/fixture", `{"home_id":"ars","away_id":"che","league":"epl"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p.AssertExpectations(t)

	rec = post(t, router, "/api/v1/price/fixture", `{"home_id":"ars","away_id":"lut","league":"epl"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Kind)

	rec = post(t, router, "/api/v1/price/fixture", `{"home_id":"ars","away_id":"che","league":"laliga"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(t, router, "/api/v1/price/fixture", `{"home_id":"ars","away_id":"ars","league":"epl"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFixtureRouteRequiresResolver(t *testing.T) {
	rec := post(t, newTestRouter(&MockPricer{}), "/api/v1/price/fixture", `{"home_id":"a","away_id":"b","league":"epl"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
