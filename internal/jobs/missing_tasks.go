package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ranktracker/internal/tracker"
)

// SweepRunner re-processes unresolved tasks of a date.
type SweepRunner interface {
	Run(ctx context.Context, date time.Time) (*tracker.SweepSummary, error)
}

// MissingTaskSweeper periodically retries tasks of the current and previous
// day whose callback never arrived.
type MissingTaskSweeper struct {
	runner   SweepRunner
	interval time.Duration
	loc      *time.Location
	now      tracker.Clock
}

// NewMissingTaskSweeper creates a new sweep job.
func NewMissingTaskSweeper(runner SweepRunner, interval time.Duration, loc *time.Location) *MissingTaskSweeper {
	return &MissingTaskSweeper{runner: runner, interval: interval, loc: loc, now: time.Now}
}

// Start begins the background sweep loop. The first sweep waits one interval
// so that callbacks of freshly submitted tasks have time to arrive.
func (m *MissingTaskSweeper) Start(ctx context.Context) {
	zap.L().Info("missing task sweeper started", zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("missing task sweeper stopped")
			return
		case <-ticker.C:
			m.RunOnce(ctx)
		}
	}
}

// RunOnce sweeps yesterday and today.
func (m *MissingTaskSweeper) RunOnce(ctx context.Context) {
	today := tracker.Today(m.now(), m.loc)
	for _, date := range []time.Time{today.AddDate(0, 0, -1), today} {
		if ctx.Err() != nil {
			return
		}
		if _, err := m.runner.Run(ctx, date); err != nil {
			zap.L().Error("missing task sweeper: run failed",
				zap.String("date", date.Format(time.DateOnly)),
				zap.Error(err),
			)
		}
	}
}
