package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"ranktracker/internal/models"
	"ranktracker/internal/ranking"
)

// CallbackHandler receives the provider pingback for a finished task.
type CallbackHandler struct {
	processor CallbackProcessor
}

// NewCallbackHandler creates a new callback handler.
func NewCallbackHandler(processor CallbackProcessor) *CallbackHandler {
	return &CallbackHandler{processor: processor}
}

// Obtain handles GET /rank_tracker/obtener/?id=<task>&tag=<project>.
func (h *CallbackHandler) Obtain(c fiber.Ctx) error {
	taskID := c.Query("id")
	projectID := c.Query("tag")
	if taskID == "" || projectID == "" {
		return jsonError(c, fiber.StatusBadRequest, "id and tag are required")
	}

	res, err := h.processor.Process(c.Context(), taskID, projectID)
	if err != nil {
		switch {
		case ranking.IsProviderError(err):
			return jsonError(c, fiber.StatusBadGateway, "provider reported a task error")
		case errors.Is(err, ranking.ErrConfiguration):
			return jsonError(c, fiber.StatusNotFound, "task not found for project")
		case errors.Is(err, ranking.ErrNoResult):
			return jsonError(c, fiber.StatusBadGateway, "provider returned no result")
		default:
			zap.L().Error("callback processing failed",
				zap.String("task_id", taskID),
				zap.String("project_id", projectID),
				zap.Error(err),
			)
			return jsonError(c, fiber.StatusInternalServerError, "failed to process task")
		}
	}

	return jsonSuccess(c, models.CallbackResponse{
		TaskID:    res.TaskID,
		ProjectID: res.ProjectID,
		Records:   res.Records,
		Skipped:   len(res.Skipped),
	})
}
