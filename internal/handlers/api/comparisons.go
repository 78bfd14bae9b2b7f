package api

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"ranktracker/internal/validation"
)

// ComparisonHandler exposes the weekly comparator and the fact tables.
type ComparisonHandler struct {
	comparator WeeklyComparison
	facts      FactReader
}

// NewComparisonHandler creates a new comparison handler.
func NewComparisonHandler(comparator WeeklyComparison, facts FactReader) *ComparisonHandler {
	return &ComparisonHandler{comparator: comparator, facts: facts}
}

// Weekly compares yesterday against the same weekday a week earlier for
// every tracked main domain.
func (h *ComparisonHandler) Weekly(c fiber.Ctx) error {
	summary, err := h.comparator.RunWeekly(c.Context())
	if err != nil {
		zap.L().Error("weekly comparison failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "weekly comparison failed")
	}

	return jsonSuccess(c, fiber.Map{
		"fecha":          formatDate(summary.Date),
		"fecha_anterior": formatDate(summary.PriorDate),
		"pairs":          summary.Pairs,
		"compared":       summary.Compared,
		"stored":         summary.Stored,
		"failed":         summary.Failed,
	})
}

// List returns the stored comparisons of a project domain on a date.
func (h *ComparisonHandler) List(c fiber.Ctx) error {
	projectID, domain, date, msg := factQuery(c)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	rows, err := h.facts.ListComparisons(c.Context(), projectID, domain, date)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch comparisons")
	}
	return jsonSuccess(c, rows)
}

// Snapshot returns the organic rank records of a project domain on a date.
func (h *ComparisonHandler) Snapshot(c fiber.Ctx) error {
	projectID, domain, date, msg := factQuery(c)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	rows, err := h.facts.QuerySnapshot(c.Context(), projectID, domain, date)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch snapshot")
	}
	return jsonSuccess(c, rows)
}

func factQuery(c fiber.Ctx) (string, string, time.Time, string) {
	projectID := c.Query("project_id")
	domain := validation.NormalizeDomain(c.Query("domain"))
	if projectID == "" || domain == "" {
		return "", "", time.Time{}, "project_id and domain are required"
	}
	date, ok := validation.ParseDate(c.Query("fecha"))
	if !ok {
		return "", "", time.Time{}, "fecha must be YYYY-MM-DD"
	}
	return projectID, domain, date, ""
}
