// Package server provides server configuration and management
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/auditops/cadence/pkg/api"
	"github.com/auditops/cadence/pkg/redis"
	"github.com/auditops/cadence/pkg/scheduler"
	"github.com/auditops/cadence/pkg/worker"
)

// Define static errors
var (
	ErrRedisConfigRequired = errors.New("redis configuration is required")
)

// Config holds server configuration
type Config struct { // MetricsAddr is the address to listen on for metrics.
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr is the address to listen on for healthcheck.
	HealthCheckAddr *string `yaml:"healthCheckAddr"`
	// PProfAddr is the address to listen on for pprof.
	PProfAddr *string `yaml:"pprofAddr"`
	// LoggingLevel is the logging level to use.
	LoggingLevel string `yaml:"logging" default:"info"`
	// Redis is the redis configuration.
	Redis *redis.Config `yaml:"redis"`
	// API is the HTTP API configuration.
	API *api.Config `yaml:"api"`
	// Worker is the run executor configuration.
	Worker *worker.Config `yaml:"worker"`
	// Scheduler is the cron scheduler configuration.
	Scheduler *scheduler.Config `yaml:"scheduler"`
	// ShutdownTimeout is the timeout for shutting down the server.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"10s"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Redis == nil {
		return ErrRedisConfigRequired
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("invalid redis configuration: %w", err)
	}

	if c.API != nil {
		if err := c.API.Validate(); err != nil {
			return fmt.Errorf("invalid api configuration: %w", err)
		}
	}

	if c.Worker != nil {
		if err := c.Worker.Validate(); err != nil {
			return fmt.Errorf("invalid worker configuration: %w", err)
		}
	}

	if c.Scheduler != nil {
		if err := c.Scheduler.Validate(); err != nil {
			return fmt.Errorf("invalid scheduler configuration: %w", err)
		}
	}

	return nil
}
