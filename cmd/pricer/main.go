// Package main provides the pricer CLI and HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/damirmikic/betting-models/internal/config"
	"github.com/damirmikic/betting-models/internal/logger"
	"github.com/damirmikic/betting-models/internal/metrics"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/pricing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	engine     *pricing.Engine

	marginMatch    float64
	marginLines    float64
	marginMultiWay float64
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().Float64Var(&marginMatch, "margin-match", 0, "Overround for two-way match markets (default from config)")
	rootCmd.PersistentFlags().Float64Var(&marginLines, "margin-lines", 0, "Overround for totals and handicap lines (default from config)")
	rootCmd.PersistentFlags().Float64Var(&marginMultiWay, "margin-multiway", 0, "Overround for correct score markets (default from config)")

	rootCmd.AddCommand(goalsCmd, seriesCmd, formatCmd, engineCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:           "pricer",
	Short:         "Price football, series and set-format betting markets",
	Long:          `Computes fair and margined prices for goal, best-of-N series and set-format markets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	var err error
	engine, err = pricing.NewEngineFromConfig(cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to create pricing engine: %w", err)
	}
	return nil
}

// margins applies any margin flags over the configured defaults
func margins(cmd *cobra.Command) odds.MarginConfig {
	m := engine.DefaultMargins()
	flags := cmd.Flags()
	if flags.Changed("margin-match") {
		m.Match = marginMatch
	}
	if flags.Changed("margin-lines") {
		m.Lines = marginLines
	}
	if flags.Changed("margin-multiway") {
		m.MultiWay = marginMultiWay
	}
	return m
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
