package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
)

type Config struct {
	Port      string `env:"PORT" default:"8080"`
	DBPath    string `env:"DB_PATH" default:"jobtracker.db"`
	Backend   string `env:"STORE_BACKEND" default:"sqlite"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	SupabaseURL string `env:"SUPABASE_URL"`
	SupabaseKey string `env:"SUPABASE_KEY"`

	// SweepInterval is the period of the background staleness sweep. Zero
	// disables it; dashboard loads still sweep.
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" default:"1h"`
	StaleAfterDays int           `env:"STALE_AFTER_DAYS" default:"30"`

	// AdminEmails are space-separated addresses that receive the admin role
	// when they sign up.
	AdminEmails []string `env:"ADMIN_EMAILS"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite backend")
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("SWEEP_INTERVAL must not be negative")
	}
	if c.StaleAfterDays <= 0 {
		return fmt.Errorf("STALE_AFTER_DAYS must be positive")
	}
	return nil
}
