// Package config provides configuration management for the betting-models pricing engine.
package config

import (
	"time"

	"github.com/damirmikic/betting-models/internal/goals"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/rally"
	"github.com/damirmikic/betting-models/internal/series"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig        `mapstructure:"app" validate:"required"`
	Pricing     PricingConfig    `mapstructure:"pricing" validate:"required"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Server      ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics     MetricsConfig    `mapstructure:"metrics"`
	DataSources DataSourceConfig `mapstructure:"data_sources"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// PricingConfig holds the settings of every pricing model
type PricingConfig struct {
	Margin      MarginConfig      `mapstructure:"margin" validate:"required"`
	Goals       GoalsConfig       `mapstructure:"goals" validate:"required"`
	Series      SeriesConfig      `mapstructure:"series" validate:"required"`
	Rally       RallyConfig       `mapstructure:"rally" validate:"required"`
	PointsModel PointsModelConfig `mapstructure:"points_model" validate:"required"`
}

// MarginConfig is the overround per market family
type MarginConfig struct {
	Match    float64 `mapstructure:"match" validate:"oddprob"`
	Lines    float64 `mapstructure:"lines" validate:"oddprob"`
	MultiWay float64 `mapstructure:"multi_way" validate:"oddprob"`
}

// GoalsConfig represents the correlated goal model settings
type GoalsConfig struct {
	BaseGoalCap              int     `mapstructure:"base_goal_cap" validate:"required,gt=0"`
	MaxGoalCap               int     `mapstructure:"max_goal_cap" validate:"required,gt=0"`
	TailTolerance            float64 `mapstructure:"tail_tolerance" validate:"required,gt=0,lt=1"`
	MinRate                  float64 `mapstructure:"min_rate" validate:"required,gt=0"`
	DefaultCorrelation       float64 `mapstructure:"default_correlation" validate:"gte=0"`
	InitialBracket           float64 `mapstructure:"initial_bracket" validate:"required,gt=0"`
	CalibrationMaxIterations int     `mapstructure:"calibration_max_iterations" validate:"required,gt=0"`
	CalibrationTolerance     float64 `mapstructure:"calibration_tolerance" validate:"required,gt=0"`
	RatingSensitivity        float64 `mapstructure:"rating_sensitivity" validate:"gte=0"`
	TopScores                int     `mapstructure:"top_scores" validate:"gte=0"`
}

// SeriesConfig represents the best-of-N and set format settings
type SeriesConfig struct {
	MaxBestOf              int     `mapstructure:"max_best_of" validate:"required,gt=0"`
	InversionTolerance     float64 `mapstructure:"inversion_tolerance" validate:"required,gt=0"`
	InversionMaxIterations int     `mapstructure:"inversion_max_iterations" validate:"required,gt=0"`
	BalanceTolerance       float64 `mapstructure:"balance_tolerance" validate:"gte=0"`
	MaxSetsTotals          int     `mapstructure:"max_sets_totals" validate:"required,gt=0"`
}

// RallyConfig represents the rally-level sub-model settings
type RallyConfig struct {
	SolveTolerance      float64 `mapstructure:"solve_tolerance" validate:"required,gt=0"`
	SolveMaxIterations  int     `mapstructure:"solve_max_iterations" validate:"required,gt=0"`
	PointsTotalsCount   int     `mapstructure:"points_totals_count" validate:"required,gt=0"`
	PointsHandicapCount int     `mapstructure:"points_handicap_count" validate:"required,gt=0"`
}

// PointsModelConfig is the linear set points estimate a + b*competitiveness
type PointsModelConfig struct {
	A float64 `mapstructure:"a" validate:"gt=0"`
	B float64 `mapstructure:"b" validate:"gte=0"`
}

// CacheConfig represents quote cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort          int `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// DataSourceConfig represents the rating and league input adapters
type DataSourceConfig struct {
	RatingsURL     string  `mapstructure:"ratings_url" validate:"omitempty,url"`
	RatingsPath    string  `mapstructure:"ratings_path"`
	LeaguesPath    string  `mapstructure:"leagues_path"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`

	// RefreshSchedule reloads the served ratings snapshot, e.g. "@every 15m"
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

// Default returns the documented default configuration
func Default() *Config {
	g := goals.DefaultConfig()
	f := series.DefaultFormatConfig()
	r := rally.DefaultConfig()
	m := odds.DefaultMargins()

	return &Config{
		App: AppConfig{
			Name:        "betting-models",
			Environment: "development",
			LogLevel:    "info",
		},
		Pricing: PricingConfig{
			Margin: MarginConfig{Match: m.Match, Lines: m.Lines, MultiWay: m.MultiWay},
			Goals: GoalsConfig{
				BaseGoalCap:              g.BaseGoalCap,
				MaxGoalCap:               g.MaxGoalCap,
				TailTolerance:            g.TailTolerance,
				MinRate:                  g.MinRate,
				DefaultCorrelation:       g.DefaultCorrelation,
				InitialBracket:           g.InitialBracket,
				CalibrationMaxIterations: g.CalibrationMaxIterations,
				CalibrationTolerance:     g.CalibrationTolerance,
				RatingSensitivity:        g.RatingSensitivity,
				TopScores:                g.TopScores,
			},
			Series: SeriesConfig{
				MaxBestOf:              series.MaxBestOf,
				InversionTolerance:     f.Invert.Tolerance,
				InversionMaxIterations: f.Invert.MaxIterations,
				BalanceTolerance:       f.BalanceTolerance,
				MaxSetsTotals:          f.MaxSetsTotals,
			},
			Rally: RallyConfig{
				SolveTolerance:      r.SolveTolerance,
				SolveMaxIterations:  r.SolveMaxIterations,
				PointsTotalsCount:   r.PointsTotalsCount,
				PointsHandicapCount: r.PointsHandicapCount,
			},
			PointsModel: PointsModelConfig{A: r.PointsModel.A, B: r.PointsModel.B},
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 300,
			MaxSize:    10000,
		},
		Server: ServerConfig{
			Port:                8080,
			HealthPort:          8081,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		DataSources: DataSourceConfig{
			TimeoutSeconds: 10,
			MaxRetries:     3,
			RateLimit:      5,
		},
	}
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Margins converts the margin section to the pricing layer's form
func (p PricingConfig) Margins() odds.MarginConfig {
	return odds.MarginConfig{Match: p.Margin.Match, Lines: p.Margin.Lines, MultiWay: p.Margin.MultiWay}
}

// GoalModel converts the goals section to the goal model's settings
func (p PricingConfig) GoalModel() goals.Config {
	return goals.Config{
		BaseGoalCap:              p.Goals.BaseGoalCap,
		MaxGoalCap:               p.Goals.MaxGoalCap,
		TailTolerance:            p.Goals.TailTolerance,
		MinRate:                  p.Goals.MinRate,
		DefaultCorrelation:       p.Goals.DefaultCorrelation,
		InitialBracket:           p.Goals.InitialBracket,
		CalibrationMaxIterations: p.Goals.CalibrationMaxIterations,
		CalibrationTolerance:     p.Goals.CalibrationTolerance,
		RatingSensitivity:        p.Goals.RatingSensitivity,
		TopScores:                p.Goals.TopScores,
	}
}

// FormatModel converts the series section to the format pricer's settings
func (p PricingConfig) FormatModel() series.FormatConfig {
	return series.FormatConfig{
		Invert: series.InvertOptions{
			Tolerance:     p.Series.InversionTolerance,
			MaxIterations: p.Series.InversionMaxIterations,
		},
		BalanceTolerance: p.Series.BalanceTolerance,
		MaxSetsTotals:    p.Series.MaxSetsTotals,
	}
}

// RallyModel converts the rally and points sections to the rally model's settings
func (p PricingConfig) RallyModel() rally.Config {
	r := rally.DefaultConfig()
	r.SolveTolerance = p.Rally.SolveTolerance
	r.SolveMaxIterations = p.Rally.SolveMaxIterations
	r.PointsTotalsCount = p.Rally.PointsTotalsCount
	r.PointsHandicapCount = p.Rally.PointsHandicapCount
	r.BalanceTolerance = p.Series.BalanceTolerance
	r.PointsModel = rally.PointsModel{A: p.PointsModel.A, B: p.PointsModel.B}
	return r
}

// CacheTTL returns the quote cache expiry
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// Timeout returns the data source request timeout
func (d DataSourceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}
