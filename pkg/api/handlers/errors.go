package handlers

import "github.com/gofiber/fiber/v3"

// ErrNodeNotFound is returned when a node variant is not registered
var ErrNodeNotFound = fiber.NewError(fiber.StatusNotFound, "node not found")

// ErrRunNotFound is returned when no result exists for a run ID
var ErrRunNotFound = fiber.NewError(fiber.StatusNotFound, "run not found")

// ErrInvalidRunRequest is returned when a run request body is malformed
var ErrInvalidRunRequest = fiber.NewError(fiber.StatusBadRequest, "invalid run request body")

// ErrRunAlreadyQueued is returned when an identical run is already pending or active
var ErrRunAlreadyQueued = fiber.NewError(fiber.StatusConflict, "run already queued")
