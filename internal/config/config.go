package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Destination drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// CollegeFootballData API. An empty key is reported by the client on first fetch.
	CFBDAPIKey  string        `envconfig:"CFBD_API_KEY"`
	CFBDBaseURL string        `envconfig:"CFBD_BASE_URL" default:"https://api.collegefootballdata.com"`
	CFBDTimeout time.Duration `envconfig:"CFBD_TIMEOUT" default:"30s"`

	// What to sync
	TargetTeam string `envconfig:"TARGET_TEAM" default:"Oklahoma"`
	StartYear  int    `envconfig:"START_YEAR" default:"2014"`
	EndYear    int    `envconfig:"END_YEAR" default:"2024"`

	// Destination
	DestinationDriver string `envconfig:"DESTINATION_DRIVER" default:"sqlite"`
	DestinationPath   string `envconfig:"DESTINATION_PATH" default:"data/cfb.db"`
	DatabaseURL       string `envconfig:"DATABASE_URL" default:""`
	DatasetName       string `envconfig:"DATASET_NAME" default:"main"`
	PipelineName      string `envconfig:"PIPELINE_NAME" default:"cfb_analytics"`

	// Redis run-status cache, disabled when RedisHost is empty
	RedisHost     string `envconfig:"REDIS_HOST" default:""`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	SyncCron string `envconfig:"SYNC_CRON" default:"0 6 * * *"`

	// Monitoring
	MetricsPort           int    `envconfig:"METRICS_PORT" default:"9090"`
	MetricsPushgatewayURL string `envconfig:"METRICS_PUSHGATEWAY_URL" default:""`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if one exists
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.StartYear > c.EndYear {
		return fmt.Errorf("START_YEAR (%d) must not be after END_YEAR (%d)", c.StartYear, c.EndYear)
	}

	if c.TargetTeam == "" {
		return fmt.Errorf("TARGET_TEAM is required")
	}

	switch c.DestinationDriver {
	case DriverSQLite:
		if c.DestinationPath == "" {
			return fmt.Errorf("DESTINATION_PATH is required for the sqlite destination")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres destination")
		}
	default:
		return fmt.Errorf("unknown DESTINATION_DRIVER %q", c.DestinationDriver)
	}

	if c.DatasetName == "" {
		return fmt.Errorf("DATASET_NAME is required")
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// RedisEnabled reports whether a run-status cache is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
