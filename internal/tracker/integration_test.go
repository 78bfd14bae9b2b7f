package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranktracker/internal/models"
	"ranktracker/internal/testutil"
)

func TestIntegration_SubmitProcessCompare(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	testutil.CreateTestProject(t, database, "itest", "tienda.com", []string{"rival.com"}, "zapatos")

	serp := &fakeSERP{results: map[string]*models.TaskResult{}}
	setItems := func(items ...models.SearchResultItem) {
		serp.results["task-zapatos"] = &models.TaskResult{TaskID: "task-zapatos", Keyword: "zapatos", Complete: true, Items: items}
	}
	lastWeek := func() time.Time { return fixedClock().AddDate(0, 0, -7) }

	// A week earlier the main domain ranked 4th.
	summary, err := NewSubmitter(database, database, serp, bogota, 2, 30).WithClock(lastWeek).SubmitProject(ctx, "itest")
	require.NoError(t, err)
	require.EqualValues(t, 1, summary.Submitted)
	setItems(models.SearchResultItem{Type: models.ItemOrganic, Domain: "tienda.com", RankGroup: 4, RankAbsolute: 4})
	_, err = NewProcessor(database, serp, database, bogota).WithClock(lastWeek).Process(ctx, "task-zapatos", "itest")
	require.NoError(t, err)

	// The fake provider reuses task ids, so drop last week's task row before
	// submitting again.
	_, err = database.Pool.Exec(ctx, "DELETE FROM keyword_tasks")
	require.NoError(t, err)

	_, err = NewSubmitter(database, database, serp, bogota, 2, 30).WithClock(fixedClock).SubmitProject(ctx, "itest")
	require.NoError(t, err)
	setItems(
		models.SearchResultItem{Type: models.ItemOrganic, Domain: "rival.com", RankGroup: 1, RankAbsolute: 1},
		models.SearchResultItem{Type: models.ItemOrganic, Domain: "tienda.com", RankGroup: 2, RankAbsolute: 2},
	)
	proc := NewProcessor(database, serp, database, bogota).WithClock(fixedClock)
	res, err := proc.Process(ctx, "task-zapatos", "itest")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)

	// Processing the same callback again stores nothing new.
	res, err = proc.Process(ctx, "task-zapatos", "itest")
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Inserted)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	cmp, err := NewComparator(database, database, bogota).RunForDate(ctx, date)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cmp.Stored)

	rows, err := database.ListComparisons(ctx, "itest", "tienda.com", date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].CurrentPosition)
	assert.Equal(t, 4, rows[0].PriorPosition)
	assert.Equal(t, models.TrendUp, rows[0].Trend)
}
