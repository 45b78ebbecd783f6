// Package scheduler enqueues cadence runs on cron schedules, automating
// the monthly batch from configured input locations.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Define static errors
var (
	// ErrNodeRequired is returned when a schedule entry has no node
	ErrNodeRequired = errors.New("schedule entry node is required")
	// ErrScheduleRequired is returned when a schedule entry has no cron expression
	ErrScheduleRequired = errors.New("schedule entry cron expression is required")
	// ErrPathsRequired is returned when a schedule entry misses an input path
	ErrPathsRequired = errors.New("schedule entry requires armt, outflow, and master paths")
)

// Entry schedules recurring runs for one node variant.
type Entry struct {
	// Node is the variant name (BLR, IAS, GDN).
	Node string `yaml:"node"`
	// Schedule is a cron expression, e.g. "0 6 1 * *" for 06:00 on the
	// first of every month.
	Schedule string `yaml:"schedule"`
	// ARMTPath, OutflowPath, MasterPath locate the input workbooks at
	// trigger time.
	ARMTPath    string `yaml:"armtPath"`
	OutflowPath string `yaml:"outflowPath"`
	MasterPath  string `yaml:"masterPath"`
	// OutputDir overrides the worker's output directory when set.
	OutputDir string `yaml:"outputDir,omitempty"`
}

// Config holds scheduler configuration
type Config struct {
	Enabled bool    `yaml:"enabled" default:"false"`
	Entries []Entry `yaml:"entries,omitempty"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for i, entry := range c.Entries {
		if entry.Node == "" {
			return fmt.Errorf("%w: entry %d", ErrNodeRequired, i)
		}
		if entry.Schedule == "" {
			return fmt.Errorf("%w: entry %d", ErrScheduleRequired, i)
		}
		if _, err := parser.Parse(entry.Schedule); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", entry.Schedule, err)
		}
		if entry.ARMTPath == "" || entry.OutflowPath == "" || entry.MasterPath == "" {
			return fmt.Errorf("%w: entry %d", ErrPathsRequired, i)
		}
	}

	return nil
}
