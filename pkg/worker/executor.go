package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/pipeline"
	"github.com/auditops/cadence/pkg/tabular"
	"github.com/auditops/cadence/pkg/tasks"
)

// Executor runs one queued cadence run end to end: reads the three input
// workbooks, drives the pipeline, writes the cadence workbook, and
// persists the summary.
type Executor struct {
	log      logrus.FieldLogger
	registry *node.Registry
	results  *ResultStore
	output   string
}

// NewExecutor creates a run executor.
func NewExecutor(log logrus.FieldLogger, registry *node.Registry, results *ResultStore, outputDir string) *Executor {
	return &Executor{
		log:      log.WithField("component", "executor"),
		registry: registry,
		results:  results,
		output:   outputDir,
	}
}

// HandleRun is the asynq handler for cadence run tasks. Pipeline failures
// are recorded in the result summary and do not requeue the task; only
// infrastructure failures (unreadable inputs, redis) return an error.
func (e *Executor) HandleRun(ctx context.Context, task *asynq.Task) error {
	var payload tasks.RunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode run payload: %w", err)
	}

	log := e.log.WithFields(logrus.Fields{
		"run_id": payload.RunID,
		"node":   payload.Node,
		"period": payload.Period,
	})
	log.Info("Executing queued cadence run")

	started := time.Now()

	cfg, err := e.registry.Get(payload.Node)
	if err != nil {
		return err
	}

	inputs, err := readInputs(payload)
	if err != nil {
		return err
	}

	p, err := pipeline.New(log, cfg, nil)
	if err != nil {
		return err
	}

	run := p.Run(ctx, inputs, payload.Period)

	summary := &tasks.RunResult{
		RunID:       payload.RunID,
		Node:        payload.Node,
		Period:      payload.Period,
		Success:     run.Success,
		Error:       run.Error,
		Duration:    time.Since(started),
		CompletedAt: time.Now().UTC(),
		Logs:        run.Logs,
	}

	if run.Success {
		summary.TotalRecords = run.Cadence.Len()
		summary.ValidRecords = run.CadenceFiltered.Len()

		path, writeErr := e.writeCadence(payload, run.Cadence)
		if writeErr != nil {
			return writeErr
		}
		summary.CadencePath = path
	}

	if err := e.results.Save(ctx, summary); err != nil {
		return err
	}

	if !run.Success {
		log.WithField("error", run.Error).Warn("Cadence run was unsuccessful")
	} else {
		log.WithFields(logrus.Fields{
			"total": summary.TotalRecords,
			"valid": summary.ValidRecords,
		}).Info("Cadence run completed")
	}

	return nil
}

func (e *Executor) writeCadence(payload tasks.RunPayload, cadence *tabular.Table) (string, error) {
	dir := payload.OutputDir
	if dir == "" {
		dir = e.output
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("%s_Cadence_%s.xlsx", payload.Node, payload.Period)
	path := filepath.Join(dir, name)

	f, err := os.Create(path) //nolint:gosec // Path is derived from operator configuration
	if err != nil {
		return "", fmt.Errorf("failed to create cadence workbook: %w", err)
	}
	defer f.Close()

	if err := tabular.WriteWorkbook(f, cadence); err != nil {
		return "", err
	}

	return path, nil
}

func readInputs(payload tasks.RunPayload) (pipeline.Inputs, error) {
	var inputs pipeline.Inputs

	read := func(path string) (*tabular.Table, error) {
		f, err := os.Open(path) //nolint:gosec // Paths come from operator-supplied run requests
		if err != nil {
			return nil, fmt.Errorf("failed to open input workbook: %w", err)
		}
		defer f.Close()
		return tabular.ReadWorkbook(f)
	}

	var err error
	if inputs.ARMT, err = read(payload.ARMTPath); err != nil {
		return inputs, err
	}
	if inputs.Outflow, err = read(payload.OutflowPath); err != nil {
		return inputs, err
	}
	if inputs.Master, err = read(payload.MasterPath); err != nil {
		return inputs, err
	}

	return inputs, nil
}
