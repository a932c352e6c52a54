package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damirmikic/betting-models/internal/logger"
	"github.com/damirmikic/betting-models/internal/metrics"
	"github.com/damirmikic/betting-models/internal/models"
)

const httpSourceName = "ratings_http"

// HTTPRatingsSource fetches the ratings feed from a ratings service
type HTTPRatingsSource struct {
	httpClient *RateLimitedHTTPClient
	url        string
	logger     *logger.SourceLogger
}

// NewHTTPRatingsSource creates a ratings source reading url
func NewHTTPRatingsSource(httpClient *RateLimitedHTTPClient, url string, log *logger.SourceLogger) *HTTPRatingsSource {
	if log == nil {
		log = discardLogger()
	}
	return &HTTPRatingsSource{httpClient: httpClient, url: url, logger: log}
}

// Name returns the name of the data source
func (s *HTTPRatingsSource) Name() string {
	return httpSourceName
}

// FetchRatings retrieves the current ratings
func (s *HTTPRatingsSource) FetchRatings(ctx context.Context) ([]models.TeamRating, error) {
	start := time.Now()
	ratings, err := s.fetch(ctx)
	if err != nil {
		metrics.RecordDataSourceFetch(httpSourceName, metrics.StatusFailure)
		s.logger.LogFetchError(httpSourceName, "ratings", err)
		return nil, err
	}

	metrics.RecordDataSourceFetch(httpSourceName, metrics.StatusSuccess)
	s.logger.LogFetch(httpSourceName, "ratings", len(ratings), float64(time.Since(start).Microseconds())/1000)
	return ratings, nil
}

func (s *HTTPRatingsSource) fetch(ctx context.Context) ([]models.TeamRating, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, NewDataSourceError(httpSourceName, ErrCodeUnknown, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		if _, ok := err.(DataSourceError); ok {
			return nil, err
		}
		return nil, NewDataSourceError(httpSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if code := statusCode(resp.StatusCode); code != "" {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(httpSourceName, code, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body), nil)
	}

	return DecodeRatings(httpSourceName, resp.Body)
}

// statusCode maps a non-success HTTP status to an error code
func statusCode(status int) string {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimitExceeded
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeAuthenticationFailed
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status >= 500:
		return ErrCodeServerError
	default:
		return ErrCodeUnknown
	}
}
