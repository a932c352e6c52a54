package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "BETTING_MODELS"

// DefaultConfigPath is read when no path is given
const DefaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v, Default())

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv replaces cfg with the file named by BETTING_MODELS_CONFIG_PATH, if set
func ReloadFromEnv(cfg *Config) error {
	envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH")
	if envPath == "" {
		return nil
	}

	newCfg, err := LoadWithDefaults(envPath)
	if err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// BETTING_MODELS_PRICING_MARGIN_MATCH overrides pricing.margin.match
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.environment", d.App.Environment)
	v.SetDefault("app.log_level", d.App.LogLevel)

	v.SetDefault("pricing.margin.match", d.Pricing.Margin.Match)
	v.SetDefault("pricing.margin.lines", d.Pricing.Margin.Lines)
	v.SetDefault("pricing.margin.multi_way", d.Pricing.Margin.MultiWay)

	g := d.Pricing.Goals
	v.SetDefault("pricing.goals.base_goal_cap", g.BaseGoalCap)
	v.SetDefault("pricing.goals.max_goal_cap", g.MaxGoalCap)
	v.SetDefault("pricing.goals.tail_tolerance", g.TailTolerance)
	v.SetDefault("pricing.goals.min_rate", g.MinRate)
	v.SetDefault("pricing.goals.default_correlation", g.DefaultCorrelation)
	v.SetDefault("pricing.goals.initial_bracket", g.InitialBracket)
	v.SetDefault("pricing.goals.calibration_max_iterations", g.CalibrationMaxIterations)
	v.SetDefault("pricing.goals.calibration_tolerance", g.CalibrationTolerance)
	v.SetDefault("pricing.goals.rating_sensitivity", g.RatingSensitivity)
	v.SetDefault("pricing.goals.top_scores", g.TopScores)

	s := d.Pricing.Series
	v.SetDefault("pricing.series.max_best_of", s.MaxBestOf)
	v.SetDefault("pricing.series.inversion_tolerance", s.InversionTolerance)
	v.SetDefault("pricing.series.inversion_max_iterations", s.InversionMaxIterations)
	v.SetDefault("pricing.series.balance_tolerance", s.BalanceTolerance)
	v.SetDefault("pricing.series.max_sets_totals", s.MaxSetsTotals)

	r := d.Pricing.Rally
	v.SetDefault("pricing.rally.solve_tolerance", r.SolveTolerance)
	v.SetDefault("pricing.rally.solve_max_iterations", r.SolveMaxIterations)
	v.SetDefault("pricing.rally.points_totals_count", r.PointsTotalsCount)
	v.SetDefault("pricing.rally.points_handicap_count", r.PointsHandicapCount)

	v.SetDefault("pricing.points_model.a", d.Pricing.PointsModel.A)
	v.SetDefault("pricing.points_model.b", d.Pricing.PointsModel.B)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl_seconds", d.Cache.TTLSeconds)
	v.SetDefault("cache.max_size", d.Cache.MaxSize)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.health_port", d.Server.HealthPort)
	v.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeoutSeconds)
	v.SetDefault("server.write_timeout_seconds", d.Server.WriteTimeoutSeconds)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("data_sources.ratings_url", d.DataSources.RatingsURL)
	v.SetDefault("data_sources.ratings_path", d.DataSources.RatingsPath)
	v.SetDefault("data_sources.leagues_path", d.DataSources.LeaguesPath)
	v.SetDefault("data_sources.timeout_seconds", d.DataSources.TimeoutSeconds)
	v.SetDefault("data_sources.max_retries", d.DataSources.MaxRetries)
	v.SetDefault("data_sources.rate_limit", d.DataSources.RateLimit)
	v.SetDefault("data_sources.refresh_schedule", d.DataSources.RefreshSchedule)
}
