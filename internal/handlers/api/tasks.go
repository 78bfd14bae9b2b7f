package api

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"ranktracker/internal/models"
	"ranktracker/internal/validation"
)

// TaskHandler re-processes tasks whose callback never arrived.
type TaskHandler struct {
	sweeper TaskSweeper
	runner  BackgroundRunner
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(sweeper TaskSweeper, runner BackgroundRunner) *TaskHandler {
	return &TaskHandler{sweeper: sweeper, runner: runner}
}

// Missing accepts {"fecha":"YYYY-MM-DD"} and sweeps that date in the background.
func (h *TaskHandler) Missing(c fiber.Ctx) error {
	var body struct {
		Date string `json:"fecha"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	date, ok := validation.ParseDate(body.Date)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "fecha must be YYYY-MM-DD")
	}

	h.runner.Go("sweep "+body.Date, func(ctx context.Context) {
		summary, err := h.sweeper.Run(ctx, date)
		if err != nil {
			zap.L().Error("missing task sweep failed", zap.String("date", body.Date), zap.Error(err))
			return
		}
		zap.L().Info("missing task sweep finished",
			zap.String("date", body.Date),
			zap.Int("tasks", summary.Tasks),
			zap.Int64("processed", summary.Processed),
			zap.Int64("failed", summary.Failed),
		)
	})

	return jsonAccepted(c, models.SweepResponse{
		Date:    formatDate(date),
		Message: "sweep started",
	})
}
