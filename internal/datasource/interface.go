// Package datasource loads team ratings and league baselines for the goal
// model from files or a ratings HTTP service.
package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/damirmikic/betting-models/internal/models"
)

// RatingsSource supplies current team ratings
type RatingsSource interface {
	// FetchRatings retrieves every rating the source knows
	FetchRatings(ctx context.Context) ([]models.TeamRating, error)

	// Name returns the name of the data source
	Name() string
}

// LeagueSource supplies league scoring baselines keyed by league name
type LeagueSource interface {
	FetchLeagues(ctx context.Context) (map[string]models.LeagueBaseline, error)
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string
	Err     error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error code
func (e DataSourceError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]
	return ok && target == sentinel
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeCircuitOpen          = "circuit_open"
	ErrCodeUnknown              = "unknown"
)

// Sentinels matched by DataSourceError through errors.Is
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

var codeSentinels = map[string]error{
	ErrCodeRateLimitExceeded:    ErrRateLimitExceeded,
	ErrCodeAuthenticationFailed: ErrAuthenticationFailed,
	ErrCodeNotFound:             ErrNotFound,
	ErrCodeInvalidData:          ErrInvalidData,
	ErrCodeNetworkError:         ErrNetworkError,
	ErrCodeServerError:          ErrServerError,
	ErrCodeCircuitOpen:          ErrCircuitOpen,
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FindRating returns the rating with the given contestant ID
func FindRating(ratings []models.TeamRating, id string) (models.TeamRating, error) {
	for _, r := range ratings {
		if r.ID == id {
			return r, nil
		}
	}
	return models.TeamRating{}, NewDataSourceError("ratings", ErrCodeNotFound, fmt.Sprintf("no rating for contestant %q", id), nil)
}

// FindLeague returns the named league baseline
func FindLeague(leagues map[string]models.LeagueBaseline, name string) (models.LeagueBaseline, error) {
	league, ok := leagues[name]
	if !ok {
		return models.LeagueBaseline{}, NewDataSourceError("leagues", ErrCodeNotFound, fmt.Sprintf("no baseline for league %q", name), nil)
	}
	return league, nil
}
