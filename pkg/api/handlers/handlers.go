// Package handlers implements the request handlers for the cadence API.
package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/tasks"
	"github.com/auditops/cadence/pkg/worker"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	registry  *node.Registry
	queue     *tasks.QueueManager
	results   *worker.ResultStore
	outputDir string
	log       logrus.FieldLogger
}

// NewServer creates a new API server instance
func NewServer(registry *node.Registry, queue *tasks.QueueManager, results *worker.ResultStore, outputDir string, log logrus.FieldLogger) *Server {
	return &Server{
		registry:  registry,
		queue:     queue,
		results:   results,
		outputDir: outputDir,
		log:       log.WithField("component", "api.handlers"),
	}
}

// Register wires the handlers onto an API route group.
func (s *Server) Register(router fiber.Router) {
	router.Get("/nodes", s.ListNodes)
	router.Get("/nodes/:node", s.GetNode)
	router.Get("/nodes/:node/files", s.GetNodeFiles)
	router.Post("/nodes/:node/runs", s.QueueRun)
	router.Get("/runs/:id", s.GetRun)
}
