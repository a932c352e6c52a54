package datasource

import (
	"context"
	"os"
	"time"

	"github.com/damirmikic/betting-models/internal/logger"
	"github.com/damirmikic/betting-models/internal/metrics"
	"github.com/damirmikic/betting-models/internal/models"
)

const fileSourceName = "file"

// FileSource reads ratings and league baselines from local JSON files
type FileSource struct {
	ratingsPath string
	leaguesPath string
	logger      *logger.SourceLogger
}

// NewFileSource creates a file source. Either path may be empty when that
// input is not needed.
func NewFileSource(ratingsPath, leaguesPath string, log *logger.SourceLogger) *FileSource {
	if log == nil {
		log = discardLogger()
	}
	return &FileSource{ratingsPath: ratingsPath, leaguesPath: leaguesPath, logger: log}
}

// Name returns the name of the data source
func (s *FileSource) Name() string {
	return fileSourceName
}

// FetchRatings reads the ratings file
func (s *FileSource) FetchRatings(ctx context.Context) ([]models.TeamRating, error) {
	var ratings []models.TeamRating
	err := s.read(ctx, "ratings", s.ratingsPath, func(f *os.File) (int, error) {
		var err error
		ratings, err = DecodeRatings(fileSourceName, f)
		return len(ratings), err
	})
	return ratings, err
}

// FetchLeagues reads the leagues file
func (s *FileSource) FetchLeagues(ctx context.Context) (map[string]models.LeagueBaseline, error) {
	var leagues map[string]models.LeagueBaseline
	err := s.read(ctx, "leagues", s.leaguesPath, func(f *os.File) (int, error) {
		var err error
		leagues, err = DecodeLeagues(fileSourceName, f)
		return len(leagues), err
	})
	return leagues, err
}

func (s *FileSource) read(ctx context.Context, kind, path string, decode func(*os.File) (int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	err := func() error {
		if path == "" {
			return NewDataSourceError(fileSourceName, ErrCodeNotFound, "no "+kind+" file configured", nil)
		}
		f, err := os.Open(path)
		if err != nil {
			code := ErrCodeUnknown
			if os.IsNotExist(err) {
				code = ErrCodeNotFound
			}
			return NewDataSourceError(fileSourceName, code, "failed to open "+path, err)
		}
		defer f.Close()

		n, err := decode(f)
		if err != nil {
			return err
		}
		s.logger.LogFetch(fileSourceName, kind, n, float64(time.Since(start).Microseconds())/1000)
		return nil
	}()

	if err != nil {
		metrics.RecordDataSourceFetch(fileSourceName, metrics.StatusFailure)
		s.logger.LogFetchError(fileSourceName, kind, err)
		return err
	}
	metrics.RecordDataSourceFetch(fileSourceName, metrics.StatusSuccess)
	return nil
}
