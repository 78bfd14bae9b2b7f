package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"ranktracker/internal/db"
	"ranktracker/internal/metrics"
	"ranktracker/internal/models"
	"ranktracker/internal/ranking"
)

// ProcessResult summarises one reconciled callback.
type ProcessResult struct {
	TaskID     string
	ProjectID  string
	Records    int
	Inserted   int64
	Duplicates int64
	Skipped    []db.SkippedRecord
}

// Processor reconciles provider callbacks into rank records. Processing the
// same task twice stores nothing new.
type Processor struct {
	tasks TaskStore
	serp  SERPClient
	facts FactStore
	loc   *time.Location
	now   Clock
}

// NewProcessor creates a Processor. Tasks without a stored run date are dated
// with the current day in loc.
func NewProcessor(tasks TaskStore, serp SERPClient, facts FactStore, loc *time.Location) *Processor {
	return &Processor{tasks: tasks, serp: serp, facts: facts, loc: loc, now: time.Now}
}

// WithClock overrides the processor clock.
func (p *Processor) WithClock(now Clock) *Processor {
	p.now = now
	return p
}

// Process fetches the result of taskID, reconciles it against the context the
// task was submitted with and appends the records.
func (p *Processor) Process(ctx context.Context, taskID, projectID string) (*ProcessResult, error) {
	res, err := p.process(ctx, taskID, projectID)
	metrics.RecordCallback(callbackOutcome(err))
	return res, err
}

func (p *Processor) process(ctx context.Context, taskID, projectID string) (*ProcessResult, error) {
	log := zap.L().With(zap.String("task_id", taskID), zap.String("project_id", projectID))

	task, err := p.tasks.GetTask(ctx, taskID, projectID)
	if errors.Is(err, db.ErrTaskNotFound) {
		return nil, eris.Wrapf(ranking.ErrConfiguration, "tracker: no task %s for project %s", taskID, projectID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "tracker: load task")
	}

	resp, err := p.serp.GetTaskResult(ctx, taskID)
	if errors.Is(err, ranking.ErrNoResult) {
		log.Warn("task has no result yet, leaving it unresolved", zap.Error(err))
	}
	if err != nil {
		return nil, eris.Wrap(err, "tracker: fetch task result")
	}

	records, err := ranking.Reconcile(taskID, ranking.ContextFromTask(task), resp, p.runDate(task))
	if err != nil {
		log.Warn("reconciliation aborted", zap.Error(err))
		return nil, err
	}

	appended, err := p.facts.AppendRecords(ctx, records)
	if err != nil {
		return nil, eris.Wrap(err, "tracker: append records")
	}

	for _, s := range appended.Skipped {
		log.Warn("rank record skipped",
			zap.String("domain", s.Record.Domain),
			zap.String("keyword", s.Record.Keyword),
			zap.String("reason", s.Reason),
		)
	}
	metrics.RecordSkipped(len(appended.Skipped))

	log.Info("task reconciled",
		zap.String("keyword", task.Keyword.Keyword),
		zap.Int("records", len(records)),
		zap.Int64("inserted", appended.Inserted),
		zap.Int64("duplicates", appended.Duplicates),
	)

	return &ProcessResult{
		TaskID:     taskID,
		ProjectID:  projectID,
		Records:    len(records),
		Inserted:   appended.Inserted,
		Duplicates: appended.Duplicates,
		Skipped:    appended.Skipped,
	}, nil
}

// runDate is the date the task was submitted for, so late and swept
// callbacks land on the day they belong to.
func (p *Processor) runDate(task *models.KeywordTask) time.Time {
	if task.RunDate.IsZero() {
		return Today(p.now(), p.loc)
	}
	return task.RunDate
}

func callbackOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case ranking.IsProviderError(err), errors.Is(err, ranking.ErrNoResult):
		return metrics.OutcomeProviderError
	case errors.Is(err, ranking.ErrConfiguration):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
