package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/observability"
	"github.com/auditops/cadence/pkg/tasks"
)

// Service defines the public interface for the scheduler service
type Service interface {
	// Start registers the cron entries and begins triggering runs
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler
	Stop() error
}

type service struct {
	log      logrus.FieldLogger
	config   *Config
	registry *node.Registry
	queue    *tasks.QueueManager

	cron *cron.Cron
}

// NewService creates a new scheduler service
func NewService(log logrus.FieldLogger, cfg *Config, registry *node.Registry, queue *tasks.QueueManager) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &service{
		log:      log.WithField("service", "scheduler"),
		config:   cfg,
		registry: registry,
		queue:    queue,
	}, nil
}

// Start registers the cron entries and begins triggering runs
func (s *service) Start(_ context.Context) error {
	if !s.config.Enabled {
		s.log.Info("Scheduler is disabled")
		return nil
	}

	s.cron = cron.New()

	for _, entry := range s.config.Entries {
		if _, err := s.registry.Get(entry.Node); err != nil {
			return err
		}

		e := entry
		if _, err := s.cron.AddFunc(e.Schedule, func() { s.trigger(e) }); err != nil {
			return fmt.Errorf("failed to register schedule for %s: %w", e.Node, err)
		}

		s.log.WithFields(logrus.Fields{
			"node":     e.Node,
			"schedule": e.Schedule,
		}).Info("Registered scheduled cadence run")
	}

	s.cron.Start()

	s.log.WithField("entries", len(s.config.Entries)).Info("Scheduler started")

	return nil
}

// trigger enqueues one scheduled run, labeling the period after the
// month being processed.
func (s *service) trigger(entry Entry) {
	payload := tasks.RunPayload{
		RunID:       uuid.NewString(),
		Node:        entry.Node,
		Period:      time.Now().UTC().Format("January 2006"),
		ARMTPath:    entry.ARMTPath,
		OutflowPath: entry.OutflowPath,
		MasterPath:  entry.MasterPath,
		OutputDir:   entry.OutputDir,
		Trigger:     tasks.TriggerSchedule,
		EnqueuedAt:  time.Now().UTC(),
	}

	if err := s.queue.EnqueueRun(payload); err != nil {
		s.log.WithError(err).WithField("node", entry.Node).Error("Failed to enqueue scheduled run")
		return
	}

	observability.RunsQueued.WithLabelValues(entry.Node, tasks.TriggerSchedule).Inc()

	s.log.WithFields(logrus.Fields{
		"node":   entry.Node,
		"run_id": payload.RunID,
	}).Info("Enqueued scheduled cadence run")
}

// Stop gracefully shuts down the scheduler
func (s *service) Stop() error {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.log.Info("Scheduler stopped")

	return nil
}
