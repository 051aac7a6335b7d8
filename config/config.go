// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port int `envconfig:"PORT" default:"8080"`

	DB struct {
		Driver string `envconfig:"DB_DRIVER" default:"sqlite"`
		Path   string `envconfig:"DB_PATH" default:"./data/ledger.db"`
		URL    string `envconfig:"DATABASE_URL"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	AMQP struct {
		URL        string `envconfig:"AMQP_URL"`
		Exchange   string `envconfig:"AMQP_EXCHANGE" default:"labour-ledger"`
		RoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"balance.changed"`
	}

	Repair struct {
		Enabled  bool          `envconfig:"REPAIR_ENABLED" default:"false"`
		Interval time.Duration `envconfig:"REPAIR_INTERVAL" default:"1h"`
	}

	RecalcConcurrency int `envconfig:"RECALC_CONCURRENCY" default:"4"`

	Server struct {
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
		IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when DB_DRIVER=sqlite"))
		}
	case "postgres":
		if c.DB.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid DB_DRIVER %q: must be sqlite or postgres", c.DB.Driver))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.Log.Format))
	}

	if c.AMQP.URL != "" && (c.AMQP.Exchange == "" || c.AMQP.RoutingKey == "") {
		errs = append(errs, errors.New("AMQP_EXCHANGE and AMQP_ROUTING_KEY are required when AMQP_URL is set"))
	}
	if c.Repair.Enabled && c.Repair.Interval <= 0 {
		errs = append(errs, fmt.Errorf("invalid REPAIR_INTERVAL %s: must be positive", c.Repair.Interval))
	}
	if c.RecalcConcurrency < 1 {
		errs = append(errs, fmt.Errorf("invalid RECALC_CONCURRENCY %d: must be at least 1", c.RecalcConcurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
