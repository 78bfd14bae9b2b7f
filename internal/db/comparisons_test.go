package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranktracker/internal/models"
)

func TestAppendComparisons(t *testing.T) {
	d, mock := newMockDB(t)
	date := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rank_comparisons .+ ON CONFLICT \(id\) DO NOTHING`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO rank_comparisons`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := d.AppendComparisons(context.Background(), []models.ComparisonRecord{
		{ID: uuid.New(), ProjectID: "p1", Keyword: "k1", Trend: models.TrendUp, Date: date, PriorDate: date.AddDate(0, 0, -7)},
		{ID: uuid.New(), ProjectID: "p1", Keyword: "k2", Trend: models.TrendSame, Date: date, PriorDate: date.AddDate(0, 0, -7)},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendComparisons_Empty(t *testing.T) {
	d, mock := newMockDB(t)

	n, err := d.AppendComparisons(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
