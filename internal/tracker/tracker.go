// Package tracker drives the rank tracking workflow: submitting keyword
// tasks to the SERP provider, reconciling their callbacks into rank records,
// re-processing tasks that never resolved and running the weekly comparison.
package tracker

import (
	"context"
	"time"

	"ranktracker/internal/dataforseo"
	"ranktracker/internal/db"
	"ranktracker/internal/models"
	"ranktracker/internal/ranking"
)

// ProjectStore reads tracked projects.
type ProjectStore interface {
	GetProject(ctx context.Context, id string) (*models.Project, error)
}

// TaskStore is the registry of submitted keyword tasks.
type TaskStore interface {
	SaveTask(ctx context.Context, t *models.KeywordTask) error
	GetTask(ctx context.Context, taskID, projectID string) (*models.KeywordTask, error)
	ListUnresolvedTasks(ctx context.Context, date time.Time) ([]models.KeywordTask, error)
	ListTrackedPairs(ctx context.Context, date time.Time) ([]models.TrackedPair, error)
}

// SERPClient talks to the SERP provider.
type SERPClient interface {
	PostTask(ctx context.Context, req dataforseo.TaskRequest) (string, error)
	GetTaskResult(ctx context.Context, taskID string) (*models.TaskResult, error)
}

// FactStore is the append-only rank fact store.
type FactStore interface {
	AppendRecords(ctx context.Context, records []models.RankRecord) (*db.AppendResult, error)
	QuerySnapshot(ctx context.Context, projectID, domain string, date time.Time) ([]models.RankRecord, error)
	AppendComparisons(ctx context.Context, comparisons []models.ComparisonRecord) (int64, error)
}

// Clock returns the current time.
type Clock func() time.Time

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return ranking.CivilDate(now.In(loc))
}
