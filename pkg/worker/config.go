// Package worker executes queued cadence runs from the task queue.
package worker

import (
	"errors"
	"time"
)

// Define static errors
var (
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("worker concurrency must be positive")
)

// Config holds worker configuration
type Config struct {
	// Concurrency is the number of runs processed in parallel. Each run
	// owns its input tables, so parallel runs never share mutable state.
	Concurrency int `yaml:"concurrency" default:"1"`
	// OutputDir is where finalized cadence workbooks are written.
	OutputDir string `yaml:"outputDir" default:"./output"`
	// ResultTTL is how long run summaries are retained in redis.
	ResultTTL time.Duration `yaml:"resultTTL" default:"24h"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}
