package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/observability"
	"github.com/auditops/cadence/pkg/tasks"
	"github.com/auditops/cadence/pkg/worker"
)

// NodeSummary is the list representation of a node variant.
type NodeSummary struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// NodeDetail is the full representation of a node variant.
type NodeDetail struct {
	NodeSummary
	CoreSources       []string        `json:"core_sources"`
	CrossSources      []string        `json:"cross_sources,omitempty"`
	CrossDestinations []string        `json:"cross_destinations,omitempty"`
	ExcludedSources   []string        `json:"excluded_sources,omitempty"`
	ExcludedGroups    []string        `json:"excluded_groups,omitempty"`
	GroupByChild      bool            `json:"group_by_child"`
	Files             []node.FileSpec `json:"files"`
}

// RunRequest is the body of a queue-run request.
type RunRequest struct {
	Period      string `json:"period"`
	ARMTPath    string `json:"armt_path"`
	OutflowPath string `json:"outflow_path"`
	MasterPath  string `json:"master_path"`
	OutputDir   string `json:"output_dir,omitempty"`
}

// RunAccepted is the response to a successfully queued run.
type RunAccepted struct {
	RunID  string `json:"run_id"`
	Node   string `json:"node"`
	Period string `json:"period"`
	Queue  string `json:"queue"`
	Status string `json:"status"`
}

func summarize(cfg *node.Config) NodeSummary {
	return NodeSummary{
		Name:        cfg.Name,
		FullName:    cfg.FullName,
		Description: cfg.Description,
		Color:       cfg.Color,
	}
}

// ListNodes handles GET /api/v1/nodes
func (s *Server) ListNodes(c fiber.Ctx) error {
	nodes := make([]NodeSummary, 0)
	for _, cfg := range s.registry.All() {
		nodes = append(nodes, summarize(cfg))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"nodes": nodes,
		"total": len(nodes),
	})
}

// GetNode handles GET /api/v1/nodes/:node
func (s *Server) GetNode(c fiber.Ctx) error {
	cfg, err := s.registry.Get(c.Params("node"))
	if err != nil {
		return ErrNodeNotFound
	}

	detail := NodeDetail{
		NodeSummary:       summarize(cfg),
		CoreSources:       cfg.CoreSources,
		CrossSources:      cfg.CrossSources,
		CrossDestinations: cfg.CrossDestinations,
		ExcludedSources:   cfg.ExcludedSources,
		ExcludedGroups:    cfg.ExcludedGroups,
		GroupByChild:      cfg.GroupByChild,
		Files:             cfg.Files(),
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

// GetNodeFiles handles GET /api/v1/nodes/:node/files
func (s *Server) GetNodeFiles(c fiber.Ctx) error {
	cfg, err := s.registry.Get(c.Params("node"))
	if err != nil {
		return ErrNodeNotFound
	}

	files := cfg.Files()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"node":  cfg.Name,
		"files": files,
		"total": len(files),
	})
}

// QueueRun handles POST /api/v1/nodes/:node/runs
func (s *Server) QueueRun(c fiber.Ctx) error {
	cfg, err := s.registry.Get(c.Params("node"))
	if err != nil {
		return ErrNodeNotFound
	}

	var req RunRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrInvalidRunRequest
	}

	if req.ARMTPath == "" || req.OutflowPath == "" || req.MasterPath == "" {
		return fiber.NewError(fiber.StatusBadRequest, "armt_path, outflow_path and master_path are required")
	}

	period := strings.TrimSpace(req.Period)
	if period == "" {
		period = time.Now().UTC().Format("January 2006")
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = s.outputDir
	}

	payload := tasks.RunPayload{
		RunID:       uuid.NewString(),
		Node:        cfg.Name,
		Period:      period,
		ARMTPath:    req.ARMTPath,
		OutflowPath: req.OutflowPath,
		MasterPath:  req.MasterPath,
		OutputDir:   outputDir,
		Trigger:     tasks.TriggerAPI,
		EnqueuedAt:  time.Now().UTC(),
	}

	if err := s.queue.EnqueueRun(payload); err != nil {
		s.log.WithError(err).WithField("node", cfg.Name).Error("Failed to enqueue run")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to enqueue run")
	}

	observability.RunsQueued.WithLabelValues(cfg.Name, tasks.TriggerAPI).Inc()

	s.log.WithFields(map[string]interface{}{
		"node":   cfg.Name,
		"run_id": payload.RunID,
		"period": payload.Period,
	}).Info("Queued cadence run")

	return c.Status(fiber.StatusAccepted).JSON(RunAccepted{
		RunID:  payload.RunID,
		Node:   payload.Node,
		Period: payload.Period,
		Queue:  payload.QueueName(),
		Status: "queued",
	})
}

// GetRun handles GET /api/v1/runs/:id
func (s *Server) GetRun(c fiber.Ctx) error {
	result, err := s.results.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, worker.ErrResultNotFound) {
			return ErrRunNotFound
		}
		s.log.WithError(err).Error("Failed to fetch run result")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch run result")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
