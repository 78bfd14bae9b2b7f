package tracker

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"ranktracker/internal/models"
	"ranktracker/internal/ranking"
)

// comparisonWindow is the distance between the two compared snapshots.
const comparisonWindow = 7 * 24 * time.Hour

// CompareSummary counts the outcome of a comparator run.
type CompareSummary struct {
	Date      time.Time
	PriorDate time.Time
	Pairs     int
	Compared  int
	Stored    int64
	Failed    int
}

// Comparator builds week-over-week comparisons for every tracked main domain.
type Comparator struct {
	tasks TaskStore
	facts FactStore
	loc   *time.Location
	now   Clock
}

// NewComparator creates a Comparator.
func NewComparator(tasks TaskStore, facts FactStore, loc *time.Location) *Comparator {
	return &Comparator{tasks: tasks, facts: facts, loc: loc, now: time.Now}
}

// WithClock overrides the comparator clock.
func (c *Comparator) WithClock(now Clock) *Comparator {
	c.now = now
	return c
}

// RunWeekly compares yesterday against the same weekday one week earlier.
func (c *Comparator) RunWeekly(ctx context.Context) (*CompareSummary, error) {
	yesterday := Today(c.now(), c.loc).AddDate(0, 0, -1)
	return c.RunForDate(ctx, yesterday)
}

// RunForDate compares the snapshots of date and date minus seven days for
// every (project, main domain) pair that had tasks on date. A failing pair is
// logged and counted; it does not stop the run.
func (c *Comparator) RunForDate(ctx context.Context, date time.Time) (*CompareSummary, error) {
	date = ranking.CivilDate(date)
	prior := date.Add(-comparisonWindow)

	pairs, err := c.tasks.ListTrackedPairs(ctx, date)
	if err != nil {
		return nil, eris.Wrap(err, "tracker: list tracked pairs")
	}

	summary := &CompareSummary{Date: date, PriorDate: prior, Pairs: len(pairs)}
	for _, pair := range pairs {
		stored, n, err := c.comparePair(ctx, pair, date, prior)
		if err != nil {
			summary.Failed++
			zap.L().Error("weekly comparison failed",
				zap.String("project_id", pair.ProjectID),
				zap.String("domain", pair.Domain),
				zap.Error(err),
			)
			continue
		}
		summary.Compared += n
		summary.Stored += stored
	}

	zap.L().Info("weekly comparison complete",
		zap.String("date", date.Format(time.DateOnly)),
		zap.String("prior_date", prior.Format(time.DateOnly)),
		zap.Int("pairs", summary.Pairs),
		zap.Int("compared", summary.Compared),
		zap.Int64("stored", summary.Stored),
	)
	return summary, nil
}

func (c *Comparator) comparePair(ctx context.Context, pair models.TrackedPair, date, prior time.Time) (int64, int, error) {
	current, err := c.facts.QuerySnapshot(ctx, pair.ProjectID, pair.Domain, date)
	if err != nil {
		return 0, 0, eris.Wrap(err, "tracker: current snapshot")
	}
	previous, err := c.facts.QuerySnapshot(ctx, pair.ProjectID, pair.Domain, prior)
	if err != nil {
		return 0, 0, eris.Wrap(err, "tracker: prior snapshot")
	}
	if len(previous) == 0 {
		zap.L().Info("no prior snapshot to compare",
			zap.String("project_id", pair.ProjectID),
			zap.String("domain", pair.Domain),
			zap.String("prior_date", prior.Format(time.DateOnly)),
		)
	}

	comparisons := ranking.Compare(current, previous)
	stored, err := c.facts.AppendComparisons(ctx, comparisons)
	if err != nil {
		return 0, 0, eris.Wrap(err, "tracker: store comparisons")
	}
	return stored, len(comparisons), nil
}
