package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"ranktracker/internal/models"
)

// Column size limits of rank_records. Records exceeding any of them are
// skipped instead of failing the whole batch.
const (
	MaxDomainLen      = 255
	MaxURLLen         = 2048
	MaxBreadcrumbLen  = 2048
	MaxTitleLen       = 1024
	MaxDescriptionLen = 4096
)

// SkippedRecord is a record left out of an append and the reason why.
type SkippedRecord struct {
	Record models.RankRecord
	Reason string
}

// AppendResult summarises an append. Duplicates are records whose ID was
// already stored, which happens when a callback is replayed.
type AppendResult struct {
	Inserted   int64
	Duplicates int64
	Skipped    []SkippedRecord
}

// Partial reports whether some records were rejected.
func (r *AppendResult) Partial() bool {
	return len(r.Skipped) > 0
}

const insertRankRecord = `
	INSERT INTO rank_records (id, project_id, keyword, category, subcategory, intent, volume, task_id,
		date, domain, position_group, position_group_range, position_absolute, position_absolute_range,
		url, breadcrumb, title, description, result_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	ON CONFLICT (id) DO NOTHING`

// AppendRecords stores a reconciliation batch in one transaction. Valid
// records are committed together; invalid ones are reported in Skipped.
func (d *DB) AppendRecords(ctx context.Context, records []models.RankRecord) (*AppendResult, error) {
	result := &AppendResult{}

	valid := make([]models.RankRecord, 0, len(records))
	for _, r := range records {
		if reason := checkRecordLimits(&r); reason != "" {
			result.Skipped = append(result.Skipped, SkippedRecord{Record: r, Reason: reason})
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return result, nil
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "db: begin append")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, r := range valid {
		tag, err := tx.Exec(ctx, insertRankRecord,
			r.ID, r.ProjectID, r.Keyword, r.Category, r.Subcategory, r.Intent, r.Volume, r.TaskID,
			r.Date, r.Domain, r.PositionGroup, r.PositionGroupRange, r.PositionAbsolute, r.PositionAbsoluteRange,
			r.URL, r.Breadcrumb, r.Title, r.Description, r.ResultType,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "db: insert rank record for %s", r.Domain)
		}
		if tag.RowsAffected() == 0 {
			result.Duplicates++
		} else {
			result.Inserted++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "db: commit append")
	}
	return result, nil
}

func checkRecordLimits(r *models.RankRecord) string {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"domain", r.Domain, MaxDomainLen},
		{"url", r.URL, MaxURLLen},
		{"breadcrumb", r.Breadcrumb, MaxBreadcrumbLen},
		{"title", r.Title, MaxTitleLen},
		{"description", r.Description, MaxDescriptionLen},
	}
	for _, c := range checks {
		if n := len([]rune(c.value)); n > c.max {
			return fmt.Sprintf("%s exceeds %d characters (%d)", c.field, c.max, n)
		}
	}
	return ""
}

// QuerySnapshot returns the organic records of a project domain on date,
// ordered by keyword and best position first.
func (d *DB) QuerySnapshot(ctx context.Context, projectID, domain string, date time.Time) ([]models.RankRecord, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT project_id, keyword, category, subcategory, intent, volume, task_id, date, domain,
			position_group, position_group_range, position_absolute, position_absolute_range,
			url, breadcrumb, title, description, result_type
		FROM rank_records
		WHERE project_id = $1 AND domain = $2 AND date = $3 AND result_type = $4
		ORDER BY keyword, position_absolute
	`, projectID, domain, date, models.ResultOrganic)
	if err != nil {
		return nil, eris.Wrap(err, "db: query snapshot")
	}
	defer rows.Close()

	records := []models.RankRecord{}
	for rows.Next() {
		var r models.RankRecord
		if err := rows.Scan(
			&r.ProjectID, &r.Keyword, &r.Category, &r.Subcategory, &r.Intent, &r.Volume, &r.TaskID,
			&r.Date, &r.Domain, &r.PositionGroup, &r.PositionGroupRange, &r.PositionAbsolute,
			&r.PositionAbsoluteRange, &r.URL, &r.Breadcrumb, &r.Title, &r.Description, &r.ResultType,
		); err != nil {
			return nil, eris.Wrap(err, "db: scan rank record")
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountRecordsByResultType counts stored rank records per result type.
func (d *DB) CountRecordsByResultType(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT result_type, COUNT(*) FROM rank_records GROUP BY result_type`)
	if err != nil {
		return nil, eris.Wrap(err, "db: count rank records")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			resultType string
			n          int64
		)
		if err := rows.Scan(&resultType, &n); err != nil {
			return nil, eris.Wrap(err, "db: scan record count")
		}
		counts[resultType] = n
	}
	return counts, rows.Err()
}
