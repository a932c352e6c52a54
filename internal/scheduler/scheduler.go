// Package scheduler keeps an in-memory ratings snapshot fresh on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/damirmikic/betting-models/internal/datasource"
	"github.com/damirmikic/betting-models/internal/models"
)

// ErrNotLoaded is returned by SelfCheck before the first successful refresh
var ErrNotLoaded = errors.New("ratings snapshot not loaded")

// Scheduler refreshes a Snapshot from the configured sources
type Scheduler struct {
	cron            *cron.Cron
	ratings         datasource.RatingsSource
	leagues         datasource.LeagueSource
	snapshot        *Snapshot
	logger          *logrus.Entry
	mu              sync.RWMutex
	refreshMu       sync.Mutex
	isRunning       bool
	jobIDs          []cron.EntryID
	refreshTimeout  time.Duration
	gracefulTimeout time.Duration
	now             func() time.Time
}

// NewScheduler creates a new scheduler. leagues may be nil when only
// ratings are served.
func NewScheduler(ratings datasource.RatingsSource, leagues datasource.LeagueSource, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		ratings:         ratings,
		leagues:         leagues,
		snapshot:        NewSnapshot(),
		logger:          log.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		refreshTimeout:  time.Minute,
		gracefulTimeout: 30 * time.Second,
		now:             time.Now,
	}
}

// Snapshot returns the snapshot this scheduler keeps fresh
func (s *Scheduler) Snapshot() *Snapshot {
	return s.snapshot
}

// Refresh loads ratings and leagues and swaps them into the snapshot
func (s *Scheduler) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.now()
	ratings, err := s.ratings.FetchRatings(ctx)
	if err != nil {
		return fmt.Errorf("refresh ratings from %s: %w", s.ratings.Name(), err)
	}

	var leagues map[string]models.LeagueBaseline
	if s.leagues != nil {
		if leagues, err = s.leagues.FetchLeagues(ctx); err != nil {
			return fmt.Errorf("refresh leagues from %s: %w", s.leagues.Name(), err)
		}
	}

	s.snapshot.replace(ratings, leagues, s.now())
	nRatings, nLeagues := s.snapshot.Counts()
	s.logger.WithFields(logrus.Fields{
		"ratings":     nRatings,
		"leagues":     nLeagues,
		"duration_ms": float64(s.now().Sub(start).Microseconds()) / 1000,
	}).Info("Ratings snapshot refreshed")
	return nil
}

// ScheduleRefresh adds a refresh job on a standard cron spec or descriptor
func (s *Scheduler) ScheduleRefresh(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
		defer cancel()

		if err := s.Refresh(ctx); err != nil {
			s.logger.WithError(err).Warn("Scheduled refresh failed, keeping previous snapshot")
		}
	}

	entryID, err := s.cron.AddFunc(spec, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", spec).Info("Scheduled ratings refresh")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled refresh, zero when stopped
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// SelfCheck fails until the snapshot has loaded once
func (s *Scheduler) SelfCheck(ctx context.Context) error {
	if s.snapshot.RefreshedAt().IsZero() {
		return ErrNotLoaded
	}
	return nil
}
