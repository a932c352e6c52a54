package datasource

import (
	"fmt"

	"github.com/damirmikic/betting-models/internal/config"
	"github.com/damirmikic/betting-models/internal/logger"
)

// NewRatingsSource creates the ratings source selected by configuration:
// the HTTP feed when ratings_url is set, otherwise the ratings file.
func NewRatingsSource(cfg config.DataSourceConfig, log *logger.SourceLogger) (RatingsSource, error) {
	switch {
	case cfg.RatingsURL != "":
		httpCfg := DefaultHTTPClientConfig()
		if cfg.Timeout() > 0 {
			httpCfg.Timeout = cfg.Timeout()
		}
		httpCfg.MaxRetries = cfg.MaxRetries
		httpCfg.RateLimit = cfg.RateLimit
		return NewHTTPRatingsSource(NewRateLimitedHTTPClient(httpSourceName, httpCfg, log), cfg.RatingsURL, log), nil
	case cfg.RatingsPath != "":
		return NewFileSource(cfg.RatingsPath, "", log), nil
	default:
		return nil, fmt.Errorf("no ratings source configured: set data_sources.ratings_url or data_sources.ratings_path")
	}
}

// NewLeagueSource creates the league baseline source
func NewLeagueSource(cfg config.DataSourceConfig, log *logger.SourceLogger) (LeagueSource, error) {
	if cfg.LeaguesPath == "" {
		return nil, fmt.Errorf("no league source configured: set data_sources.leagues_path")
	}
	return NewFileSource("", cfg.LeaguesPath, log), nil
}
