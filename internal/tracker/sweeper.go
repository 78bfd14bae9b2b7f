package tracker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepSummary counts the outcome of a missing-tasks sweep.
type SweepSummary struct {
	Date      time.Time
	Tasks     int
	Processed int64
	Failed    int64
}

// Sweeper re-processes tasks of a run date that never produced records,
// typically because their callback was lost.
type Sweeper struct {
	tasks       TaskStore
	processor   *Processor
	concurrency int
}

// NewSweeper creates a Sweeper.
func NewSweeper(tasks TaskStore, processor *Processor, concurrency int) *Sweeper {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Sweeper{tasks: tasks, processor: processor, concurrency: concurrency}
}

// Run processes every unresolved task submitted on date.
func (s *Sweeper) Run(ctx context.Context, date time.Time) (*SweepSummary, error) {
	tasks, err := s.tasks.ListUnresolvedTasks(ctx, date)
	if err != nil {
		return nil, eris.Wrap(err, "tracker: list unresolved tasks")
	}

	summary := &SweepSummary{Date: date, Tasks: len(tasks)}
	var processed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, t := range tasks {
		g.Go(func() error {
			if _, err := s.processor.Process(gctx, t.TaskID, t.ProjectID); err != nil {
				failed.Add(1)
				zap.L().Warn("missing task still unresolved",
					zap.String("task_id", t.TaskID),
					zap.String("project_id", t.ProjectID),
					zap.Error(err),
				)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	summary.Processed = processed.Load()
	summary.Failed = failed.Load()

	zap.L().Info("missing tasks sweep complete",
		zap.String("date", date.Format(time.DateOnly)),
		zap.Int("tasks", summary.Tasks),
		zap.Int64("processed", summary.Processed),
		zap.Int64("failed", summary.Failed),
	)
	return summary, nil
}
