package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/damirmikic/betting-models/internal/datasource"
	"github.com/damirmikic/betting-models/internal/models"
)

// Snapshot is the most recently loaded set of ratings and league baselines.
// Readers always see a complete load; a failed refresh keeps the previous one.
type Snapshot struct {
	mu          sync.RWMutex
	ratings     map[string]models.TeamRating
	leagues     map[string]models.LeagueBaseline
	refreshedAt time.Time
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ratings: make(map[string]models.TeamRating),
		leagues: make(map[string]models.LeagueBaseline),
	}
}

func (s *Snapshot) replace(ratings []models.TeamRating, leagues map[string]models.LeagueBaseline, at time.Time) {
	byID := make(map[string]models.TeamRating, len(ratings))
	for _, r := range ratings {
		byID[r.ID] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings = byID
	if leagues != nil {
		s.leagues = leagues
	}
	s.refreshedAt = at
}

// Team returns the rating for a contestant ID
func (s *Snapshot) Team(id string) (models.TeamRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.ratings[id]; ok {
		return r, nil
	}
	return models.TeamRating{}, datasource.NewDataSourceError("snapshot", datasource.ErrCodeNotFound, fmt.Sprintf("no rating for contestant %q", id), nil)
}

// League returns the baseline for a league name
func (s *Snapshot) League(name string) (models.LeagueBaseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return datasource.FindLeague(s.leagues, name)
}

// RefreshedAt returns when the snapshot was last loaded, zero if never
func (s *Snapshot) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Counts returns the number of loaded ratings and leagues
func (s *Snapshot) Counts() (ratings, leagues int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ratings), len(s.leagues)
}
