package config

import (
	"time"

	"tradeidea/pkg/config"
)

// Engine holds engine-service specific configuration.
type Engine struct {
	DailyRunCron         string        `mapstructure:"daily_run_cron"`
	RunOnStart           bool          `mapstructure:"run_on_start"`
	MaxConcurrentSymbols int           `mapstructure:"max_concurrent_symbols"`
	SnapshotMaxAge       time.Duration `mapstructure:"snapshot_max_age"`
	SnapshotCacheTTL     time.Duration `mapstructure:"snapshot_cache_ttl"`
}

// Config holds the full configuration for the engine service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Engine   Engine          `mapstructure:"engine"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the engine configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.DailyRunCron == "" {
		cfg.Engine.DailyRunCron = "0 18 * * 1-5"
	}
	if cfg.Engine.MaxConcurrentSymbols <= 0 {
		cfg.Engine.MaxConcurrentSymbols = 10
	}
	if cfg.Engine.SnapshotMaxAge <= 0 {
		cfg.Engine.SnapshotMaxAge = 72 * time.Hour
	}
	if cfg.Engine.SnapshotCacheTTL <= 0 {
		cfg.Engine.SnapshotCacheTTL = 15 * time.Minute
	}
}
