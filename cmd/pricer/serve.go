package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/damirmikic/betting-models/internal/api"
	"github.com/damirmikic/betting-models/internal/datasource"
	"github.com/damirmikic/betting-models/internal/health"
	"github.com/damirmikic/betting-models/internal/logger"
	"github.com/damirmikic/betting-models/internal/metrics"
	"github.com/damirmikic/betting-models/internal/scheduler"
)

var allowedOrigins []string

func init() {
	serveCmd.Flags().StringSliceVar(&allowedOrigins, "allowed-origin", nil, "CORS origin allowed to call the API (repeatable)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pricing API with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	routerCfg := api.RouterConfig{
		AllowedOrigins: allowedOrigins,
		RequestTimeout: cfg.Server.WriteTimeout(),
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.MetricsHandler = metrics.Handler()
	}
	handler := api.NewHandler(engine, appLog)
	checks := map[string]health.Checker{"engine": engine}

	refresher, err := startRefresher(ctx)
	if err != nil {
		return err
	}
	if refresher != nil {
		defer func() {
			if err := refresher.Stop(); err != nil {
				appLog.WithError(err).Error("Error during scheduler shutdown")
			}
		}()
		handler.WithFixtures(refresher.Snapshot())
		checks["ratings"] = refresher
	}
	router := api.NewRouter(handler, routerCfg, appLog)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout() + time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var healthServer *health.Server
	if cfg.Server.HealthPort != 0 {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        cfg.Server.HealthPort,
			Logger:      appLog,
			Checks:      checks,
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.App.Environment,
			"version":     Version,
			"build_date":  BuildDate,
		}).Info("Pricing API starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if healthServer != nil {
		if err := engine.SelfCheck(ctx); err != nil {
			appLog.WithError(err).Error("Engine self-check failed, staying unready")
		} else {
			healthServer.SetReady(true)
		}
	}

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLog.Info("Shutdown signal received")
	if healthServer != nil {
		healthServer.SetReady(false)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}

	appLog.Info("Pricing API shut down successfully")
	return nil
}

// startRefresher loads the ratings snapshot and schedules its refresh.
// It returns nil when no ratings source is configured.
func startRefresher(ctx context.Context) (*scheduler.Scheduler, error) {
	sourceLog := logger.NewSourceLogger(appLog)
	ratings, err := datasource.NewRatingsSource(cfg.DataSources, sourceLog)
	if err != nil {
		appLog.WithError(err).Info("Fixture pricing by ID disabled")
		return nil, nil
	}
	var leagues datasource.LeagueSource
	if cfg.DataSources.LeaguesPath != "" {
		if leagues, err = datasource.NewLeagueSource(cfg.DataSources, sourceLog); err != nil {
			return nil, err
		}
	}

	s := scheduler.NewScheduler(ratings, leagues, appLog)
	loadCtx, cancel := context.WithTimeout(ctx, cfg.DataSources.Timeout()+5*time.Second)
	defer cancel()
	if err := s.Refresh(loadCtx); err != nil {
		appLog.WithError(err).Warn("Initial ratings load failed")
	}

	if spec := cfg.DataSources.RefreshSchedule; spec != "" {
		if err := s.ScheduleRefresh(spec); err != nil {
			return nil, err
		}
		if err := s.Start(); err != nil {
			return nil, err
		}
	}
	return s, nil
}
