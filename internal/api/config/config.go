package config

import (
	"time"

	"tradeidea/pkg/config"
)

// Risk holds the portfolio analytics parameters served by the API.
type Risk struct {
	RiskFreeRatePct      float64       `mapstructure:"risk_free_rate_pct"`
	BenchmarkSymbol      string        `mapstructure:"benchmark_symbol"`
	ReturnLookbackDays   int           `mapstructure:"return_lookback_days"`
	MaxConcurrentSymbols int           `mapstructure:"max_concurrent_symbols"`
	SnapshotCacheTTL     time.Duration `mapstructure:"snapshot_cache_ttl"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Risk     Risk            `mapstructure:"risk"`
}

// Load loads the API configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.Risk.BenchmarkSymbol == "" {
		cfg.Risk.BenchmarkSymbol = "NIFTY50"
	}
	if cfg.Risk.ReturnLookbackDays <= 0 {
		cfg.Risk.ReturnLookbackDays = 90
	}
	if cfg.Risk.MaxConcurrentSymbols <= 0 {
		cfg.Risk.MaxConcurrentSymbols = 10
	}
	if cfg.Risk.SnapshotCacheTTL <= 0 {
		cfg.Risk.SnapshotCacheTTL = 15 * time.Minute
	}
	return &cfg, nil
}
