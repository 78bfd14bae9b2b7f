package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"ranktracker/internal/models"
)

const taskColumns = `task_id, project_id, project_name, keyword, run_date, main_domain, domains,
	subdomains_enabled, paid_enabled, created_at`

func scanTask(row pgx.Row) (*models.KeywordTask, error) {
	var (
		t       models.KeywordTask
		keyword []byte
	)
	err := row.Scan(
		&t.TaskID,
		&t.ProjectID,
		&t.ProjectName,
		&keyword,
		&t.RunDate,
		&t.MainDomain,
		&t.Domains,
		&t.SubdomainsEnabled,
		&t.PaidEnabled,
		&t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(keyword, &t.Keyword); err != nil {
		return nil, eris.Wrapf(err, "db: decode keyword of task %s", t.TaskID)
	}
	return &t, nil
}

// SaveTask records a submitted keyword task. Saving the same task twice is a
// no-op.
func (d *DB) SaveTask(ctx context.Context, t *models.KeywordTask) error {
	keyword, err := json.Marshal(t.Keyword)
	if err != nil {
		return eris.Wrap(err, "db: encode task keyword")
	}

	_, err = d.Pool.Exec(ctx, `
		INSERT INTO keyword_tasks (task_id, project_id, project_name, keyword, run_date, main_domain,
			domains, subdomains_enabled, paid_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (task_id) DO NOTHING
	`, t.TaskID, t.ProjectID, t.ProjectName, keyword, t.RunDate, t.MainDomain, nonNil(t.Domains),
		t.SubdomainsEnabled, t.PaidEnabled)
	if err != nil {
		return eris.Wrapf(err, "db: save task %s", t.TaskID)
	}
	return nil
}

// GetTask retrieves the task snapshot for a callback. Both the task and the
// project it was tagged with must match.
func (d *DB) GetTask(ctx context.Context, taskID, projectID string) (*models.KeywordTask, error) {
	row := d.Pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM keyword_tasks
		WHERE task_id = $1 AND project_id = $2
	`, taskID, projectID)
	return scanTask(row)
}

// ListUnresolvedTasks returns the tasks submitted on date that have no rank
// records yet.
func (d *DB) ListUnresolvedTasks(ctx context.Context, date time.Time) ([]models.KeywordTask, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM keyword_tasks t
		WHERE t.run_date = $1
		  AND NOT EXISTS (SELECT 1 FROM rank_records r WHERE r.task_id = t.task_id)
		ORDER BY t.project_id, t.created_at
	`, date)
	if err != nil {
		return nil, eris.Wrap(err, "db: list unresolved tasks")
	}
	defer rows.Close()

	var tasks []models.KeywordTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, eris.Wrap(err, "db: scan task")
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListTrackedPairs returns every (project, main domain) pair with tasks on date.
func (d *DB) ListTrackedPairs(ctx context.Context, date time.Time) ([]models.TrackedPair, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT DISTINCT project_id, main_domain
		FROM keyword_tasks
		WHERE run_date = $1
		ORDER BY project_id, main_domain
	`, date)
	if err != nil {
		return nil, eris.Wrap(err, "db: list tracked pairs")
	}
	defer rows.Close()

	var pairs []models.TrackedPair
	for rows.Next() {
		var p models.TrackedPair
		if err := rows.Scan(&p.ProjectID, &p.Domain); err != nil {
			return nil, eris.Wrap(err, "db: scan tracked pair")
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
