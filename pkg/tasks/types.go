// Package tasks provides task queue management using Asynq
package tasks

import (
	"fmt"
	"time"
)

const (
	// TypeCadenceRun is the task type for queued cadence pipeline runs
	TypeCadenceRun = "cadence:run"
)

// Run triggers.
const (
	// TriggerAPI marks runs requested through the HTTP API
	TriggerAPI = "api"
	// TriggerSchedule marks runs enqueued by the cron scheduler
	TriggerSchedule = "schedule"
)

// RunPayload describes one queued cadence run: which node variant to
// process, the period label, and where the three input workbooks live.
type RunPayload struct {
	RunID       string    `json:"run_id"`
	Node        string    `json:"node"`
	Period      string    `json:"period"`
	ARMTPath    string    `json:"armt_path"`
	OutflowPath string    `json:"outflow_path"`
	MasterPath  string    `json:"master_path"`
	OutputDir   string    `json:"output_dir"`
	Trigger     string    `json:"trigger"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// UniqueID returns a unique identifier for this task
func (p RunPayload) UniqueID() string {
	return fmt.Sprintf("%s:%s", p.Node, p.RunID)
}

// QueueName returns the queue name for this task payload
func (p RunPayload) QueueName() string {
	return p.Node
}

// RunResult is the summary persisted after a queued run completes.
type RunResult struct {
	RunID        string        `json:"run_id"`
	Node         string        `json:"node"`
	Period       string        `json:"period"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	TotalRecords int           `json:"total_records"`
	ValidRecords int           `json:"valid_records"`
	Duration     time.Duration `json:"duration"`
	CompletedAt  time.Time     `json:"completed_at"`
	Logs         []string      `json:"logs"`
	CadencePath  string        `json:"cadence_path,omitempty"`
}
