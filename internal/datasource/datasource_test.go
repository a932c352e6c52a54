package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damirmikic/betting-models/internal/config"
)

const ratingsBody = `[{"contestantId":"ars","contestantName":"Arsenal","currentRating":8.5},{"contestantId":"che","contestantName":"Chelsea","currentRating":0}]`

func testHTTPConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:               time.Second,
		MaxRetries:            0,
		RetryWaitMin:          time.Millisecond,
		RetryWaitMax:          time.Millisecond,
		CircuitBreakerMax:     2,
		CircuitBreakerTimeout: time.Minute,
	}
}

func TestDecodeRatings(t *testing.T) {
	ratings, err := DecodeRatings("test", strings.NewReader(ratingsBody))
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, "ars", ratings[0].ID)
	assert.Equal(t, "Arsenal", ratings[0].DisplayName)
	assert.Equal(t, 8.5, ratings[0].CurrentRating)
	assert.Equal(t, 0.0, ratings[1].CurrentRating)
}

func TestDecodeRatingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"object instead of array", `{"contestantId":"ars"}`},
		{"missing id", `[{"contestantName":"Arsenal","currentRating":1}]`},
		{"missing rating", `[{"contestantId":"ars"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRatings("test", strings.NewReader(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidData), "got %v", err)
		})
	}
}

func TestDecodeLeagues(t *testing.T) {
	leagues, err := DecodeLeagues("test", strings.NewReader(`{"epl":{"avgHome":1.5,"avgAway":1.1,"drawRate":0.27},"mls":{"avgHome":1.6,"avgAway":1.3}}`))
	require.NoError(t, err)
	require.Len(t, leagues, 2)

	epl := leagues["epl"]
	assert.Equal(t, "epl", epl.Name)
	assert.Equal(t, 1.5, epl.AvgHomeGoals)
	require.NotNil(t, epl.DrawRate)
	assert.Equal(t, 0.27, *epl.DrawRate)
	assert.False(t, leagues["mls"].HasDrawRate())

	_, err = DecodeLeagues("test", strings.NewReader(`{"bad":{"avgHome":0,"avgAway":1.1}}`))
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = DecodeLeagues("test", strings.NewReader(`{"bad":{"avgHome":1.5,"avgAway":1.1,"drawRate":1.2}}`))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestFileSource(t *testing.T) {
	src := NewFileSource("testdata/ratings.json", "testdata/leagues.json", nil)
	assert.Equal(t, "file", src.Name())

	ratings, err := src.FetchRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 3)

	lut, err := FindRating(ratings, "lut")
	require.NoError(t, err)
	assert.Equal(t, -6.25, lut.CurrentRating)

	_, err = FindRating(ratings, "mci")
	assert.ErrorIs(t, err, ErrNotFound)

	leagues, err := src.FetchLeagues(context.Background())
	require.NoError(t, err)
	epl, err := FindLeague(leagues, "epl")
	require.NoError(t, err)
	assert.True(t, epl.HasDrawRate())

	_, err = FindLeague(leagues, "laliga")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileSourceErrors(t *testing.T) {
	src := NewFileSource("testdata/missing.json", "", nil)

	_, err := src.FetchRatings(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.FetchLeagues(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource("testdata/ratings.json", "", nil).FetchRatings(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPRatingsSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ratingsBody))
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient("test", testHTTPConfig(), nil)
	defer client.Close()
	src := NewHTTPRatingsSource(client, server.URL, nil)

	ratings, err := src.FetchRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, "che", ratings[1].ID)
	assert.Equal(t, "ratings_http", src.Name())
}

func TestHTTPRatingsSourceStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, ErrAuthenticationFailed},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimitExceeded},
		{"server error", http.StatusServiceUnavailable, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			src := NewHTTPRatingsSource(NewRateLimitedHTTPClient("test", testHTTPConfig(), nil), server.URL, nil)
			_, err := src.FetchRatings(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var dsErr DataSourceError
			require.True(t, errors.As(err, &dsErr))
			assert.Equal(t, "ratings_http", dsErr.Source)
		})
	}
}

func TestHTTPRatingsSourceInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	src := NewHTTPRatingsSource(NewRateLimitedHTTPClient("test", testHTTPConfig(), nil), server.URL, nil)
	_, err := src.FetchRatings(context.Background())
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient("test", testHTTPConfig(), nil)
	src := NewHTTPRatingsSource(client, server.URL, nil)

	for i := 0; i < 2; i++ {
		_, err := src.FetchRatings(context.Background())
		assert.ErrorIs(t, err, ErrServerError)
	}
	assert.True(t, client.IsOpen())

	_, err := src.FetchRatings(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(ratingsBody))
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient("test", testHTTPConfig(), nil)
	src := NewHTTPRatingsSource(client, server.URL, nil)

	_, err := src.FetchRatings(context.Background())
	require.Error(t, err)

	fail.Store(false)
	_, err = src.FetchRatings(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	_, err = src.FetchRatings(context.Background())
	require.Error(t, err)
	assert.False(t, client.IsOpen(), "one failure after a success must not trip the breaker")
}

func TestCircuitBreakerHalfOpen(t *testing.T) {
	cfg := testHTTPConfig()
	cfg.CircuitBreakerTimeout = time.Millisecond
	client := NewRateLimitedHTTPClient("test", cfg, nil)

	client.record(errors.New("boom"))
	client.record(errors.New("boom"))
	require.True(t, client.IsOpen())

	time.Sleep(5 * time.Millisecond)
	assert.NoError(t, client.allow())
	assert.False(t, client.IsOpen())

	client.record(errors.New("boom"))
	assert.True(t, client.IsOpen(), "a failed trial request reopens the breaker")
}

func TestNewRatingsSource(t *testing.T) {
	src, err := NewRatingsSource(config.DataSourceConfig{RatingsURL: "https://ratings.example.com", MaxRetries: 1, RateLimit: 2}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPRatingsSource{}, src)

	src, err = NewRatingsSource(config.DataSourceConfig{RatingsPath: "testdata/ratings.json"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	_, err = NewRatingsSource(config.DataSourceConfig{}, nil)
	assert.Error(t, err)
}

func TestNewLeagueSource(t *testing.T) {
	src, err := NewLeagueSource(config.DataSourceConfig{LeaguesPath: "testdata/leagues.json"}, nil)
	require.NoError(t, err)

	leagues, err := src.FetchLeagues(context.Background())
	require.NoError(t, err)
	assert.Len(t, leagues, 2)

	_, err = NewLeagueSource(config.DataSourceConfig{}, nil)
	assert.Error(t, err)
}
