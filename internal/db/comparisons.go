package db

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"ranktracker/internal/models"
)

// AppendComparisons stores comparator output in one transaction and returns
// how many rows were new. Re-running a comparison for the same dates is a
// no-op.
func (d *DB) AppendComparisons(ctx context.Context, comparisons []models.ComparisonRecord) (int64, error) {
	if len(comparisons) == 0 {
		return 0, nil
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: begin comparisons")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var inserted int64
	for _, c := range comparisons {
		tag, err := tx.Exec(ctx, `
			INSERT INTO rank_comparisons (id, project_id, domain, keyword, category, subcategory, intent,
				volume, url, current_position, prior_position, trend, date, prior_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO NOTHING
		`, c.ID, c.ProjectID, c.Domain, c.Keyword, c.Category, c.Subcategory, c.Intent,
			c.Volume, c.URL, c.CurrentPosition, c.PriorPosition, c.Trend, c.Date, c.PriorDate)
		if err != nil {
			return 0, eris.Wrapf(err, "db: insert comparison for %s", c.Keyword)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: commit comparisons")
	}
	return inserted, nil
}

// ListComparisons returns the stored comparisons of a project domain on date.
func (d *DB) ListComparisons(ctx context.Context, projectID, domain string, date time.Time) ([]models.ComparisonRecord, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, project_id, domain, keyword, category, subcategory, intent, volume, url,
			current_position, prior_position, trend, date, prior_date
		FROM rank_comparisons
		WHERE project_id = $1 AND domain = $2 AND date = $3
		ORDER BY keyword
	`, projectID, domain, date)
	if err != nil {
		return nil, eris.Wrap(err, "db: list comparisons")
	}
	defer rows.Close()

	comparisons := []models.ComparisonRecord{}
	for rows.Next() {
		var c models.ComparisonRecord
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.Domain, &c.Keyword, &c.Category, &c.Subcategory, &c.Intent,
			&c.Volume, &c.URL, &c.CurrentPosition, &c.PriorPosition, &c.Trend, &c.Date, &c.PriorDate,
		); err != nil {
			return nil, eris.Wrap(err, "db: scan comparison")
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, rows.Err()
}

// CountComparisonsByTrend counts stored comparisons per trend label.
func (d *DB) CountComparisonsByTrend(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT trend, COUNT(*) FROM rank_comparisons GROUP BY trend`)
	if err != nil {
		return nil, eris.Wrap(err, "db: count comparisons")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			trend string
			n     int64
		)
		if err := rows.Scan(&trend, &n); err != nil {
			return nil, eris.Wrap(err, "db: scan comparison count")
		}
		counts[trend] = n
	}
	return counts, rows.Err()
}
