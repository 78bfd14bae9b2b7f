// Package api holds the JSON handlers of the rank tracker.
package api

import (
	"context"
	"time"

	"ranktracker/internal/models"
	"ranktracker/internal/tracker"
	"ranktracker/internal/validation"
)

// CallbackProcessor reconciles a provider callback.
type CallbackProcessor interface {
	Process(ctx context.Context, taskID, projectID string) (*tracker.ProcessResult, error)
}

// ProjectStore persists tracked projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, activeOnly bool) ([]models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	UpdateProjectStatus(ctx context.Context, id string, status int) error
}

// ProjectSubmitter submits project keywords to the provider.
type ProjectSubmitter interface {
	Submit(ctx context.Context, project *models.Project) *tracker.SubmitSummary
}

// TaskSweeper re-processes unresolved tasks of a date.
type TaskSweeper interface {
	Run(ctx context.Context, date time.Time) (*tracker.SweepSummary, error)
}

// WeeklyComparison runs the week-over-week comparison.
type WeeklyComparison interface {
	RunWeekly(ctx context.Context) (*tracker.CompareSummary, error)
}

// FactReader reads the rank fact tables.
type FactReader interface {
	QuerySnapshot(ctx context.Context, projectID, domain string, date time.Time) ([]models.RankRecord, error)
	ListComparisons(ctx context.Context, projectID, domain string, date time.Time) ([]models.ComparisonRecord, error)
}

// BackgroundRunner starts work that outlives the request.
type BackgroundRunner interface {
	Go(name string, fn func(ctx context.Context))
}

func formatDate(t time.Time) string {
	return t.Format(validation.DateLayout)
}
