package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ranktracker/internal/tracker"
)

// ComparatorRunner runs one comparison pass for a date.
type ComparatorRunner interface {
	RunForDate(ctx context.Context, date time.Time) (*tracker.CompareSummary, error)
}

// WeeklyComparator periodically compares yesterday's snapshot against the
// one a week earlier. Each date is compared at most once per process.
type WeeklyComparator struct {
	runner   ComparatorRunner
	interval time.Duration
	loc      *time.Location
	now      tracker.Clock

	mu       sync.Mutex
	lastDate time.Time
}

// NewWeeklyComparator creates a new comparator job.
func NewWeeklyComparator(runner ComparatorRunner, interval time.Duration, loc *time.Location) *WeeklyComparator {
	return &WeeklyComparator{runner: runner, interval: interval, loc: loc, now: time.Now}
}

// Start begins the background comparison loop.
func (w *WeeklyComparator) Start(ctx context.Context) {
	zap.L().Info("weekly comparator started", zap.Duration("interval", w.interval))

	// Run immediately on start
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("weekly comparator stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce compares yesterday unless that date was already done. A date is
// done only when every pair compared. It reports whether that happened.
func (w *WeeklyComparator) RunOnce(ctx context.Context) bool {
	date := tracker.Today(w.now(), w.loc).AddDate(0, 0, -1)

	w.mu.Lock()
	defer w.mu.Unlock()
	if date.Equal(w.lastDate) {
		return false
	}

	summary, err := w.runner.RunForDate(ctx, date)
	if err != nil {
		zap.L().Error("weekly comparator: run failed", zap.Error(err))
		return false
	}
	if summary.Failed > 0 {
		// Comparison IDs are deterministic, so the next tick re-runs the
		// whole date without duplicating the pairs that succeeded.
		zap.L().Warn("weekly comparator: some pairs failed, date will be retried",
			zap.Int("failed", summary.Failed),
			zap.Int("pairs", summary.Pairs),
		)
		return false
	}
	w.lastDate = date
	return true
}
