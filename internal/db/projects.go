package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"ranktracker/internal/models"
)

// projectColumns is the standard column list for project queries.
const projectColumns = `id, name, main_domain, competitors, subdomains_enabled, paid_enabled,
	language, country, coordinates, keywords, status, owner, created_at, updated_at`

// scanProject scans a row into a Project struct.
func scanProject(row pgx.Row) (*models.Project, error) {
	var (
		p        models.Project
		keywords []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.MainDomain,
		&p.Competitors,
		&p.SubdomainsEnabled,
		&p.PaidEnabled,
		&p.Language,
		&p.Country,
		&p.Coordinates,
		&keywords,
		&p.Status,
		&p.Owner,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &p.Keywords); err != nil {
			return nil, eris.Wrapf(err, "db: decode keywords of project %s", p.ID)
		}
	}
	return &p, nil
}

// CreateProject inserts a new project. ErrDuplicateProject is returned when
// the ID is taken.
func (d *DB) CreateProject(ctx context.Context, p *models.Project) error {
	keywords, err := encodeKeywords(p.Keywords)
	if err != nil {
		return err
	}

	err = d.Pool.QueryRow(ctx, `
		INSERT INTO projects (id, name, main_domain, competitors, subdomains_enabled, paid_enabled,
			language, country, coordinates, keywords, status, owner)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.MainDomain, nonNil(p.Competitors), p.SubdomainsEnabled, p.PaidEnabled,
		p.Language, p.Country, p.Coordinates, keywords, p.Status, p.Owner,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateProject
	}
	if err != nil {
		return eris.Wrapf(err, "db: create project %s", p.ID)
	}
	return nil
}

// UpsertProject creates or replaces a project by ID.
func (d *DB) UpsertProject(ctx context.Context, p *models.Project) error {
	keywords, err := encodeKeywords(p.Keywords)
	if err != nil {
		return err
	}

	err = d.Pool.QueryRow(ctx, `
		INSERT INTO projects (id, name, main_domain, competitors, subdomains_enabled, paid_enabled,
			language, country, coordinates, keywords, status, owner)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			main_domain = EXCLUDED.main_domain,
			competitors = EXCLUDED.competitors,
			subdomains_enabled = EXCLUDED.subdomains_enabled,
			paid_enabled = EXCLUDED.paid_enabled,
			language = EXCLUDED.language,
			country = EXCLUDED.country,
			coordinates = EXCLUDED.coordinates,
			keywords = EXCLUDED.keywords,
			status = EXCLUDED.status,
			owner = EXCLUDED.owner,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.MainDomain, nonNil(p.Competitors), p.SubdomainsEnabled, p.PaidEnabled,
		p.Language, p.Country, p.Coordinates, keywords, p.Status, p.Owner,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return eris.Wrapf(err, "db: upsert project %s", p.ID)
	}
	return nil
}

// GetProject retrieves a project by ID.
func (d *DB) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := d.Pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// ListProjects returns all projects, optionally only the active ones.
func (d *DB) ListProjects(ctx context.Context, activeOnly bool) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if activeOnly {
		query += ` WHERE status = 1`
	}
	query += ` ORDER BY name`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "db: list projects")
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, eris.Wrap(err, "db: scan project")
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject replaces the tracking settings of an existing project. The
// ID, main domain, status and owner are left untouched.
func (d *DB) UpdateProject(ctx context.Context, p *models.Project) error {
	keywords, err := encodeKeywords(p.Keywords)
	if err != nil {
		return err
	}

	err = d.Pool.QueryRow(ctx, `
		UPDATE projects SET
			name = $2,
			competitors = $3,
			subdomains_enabled = $4,
			paid_enabled = $5,
			language = $6,
			country = $7,
			coordinates = $8,
			keywords = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.Name, nonNil(p.Competitors), p.SubdomainsEnabled, p.PaidEnabled,
		p.Language, p.Country, p.Coordinates, keywords,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProjectNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "db: update project %s", p.ID)
	}
	return nil
}

// UpdateProjectStatus activates or deactivates a project.
func (d *DB) UpdateProjectStatus(ctx context.Context, id string, status int) error {
	tag, err := d.Pool.Exec(ctx, `UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return eris.Wrapf(err, "db: update status of project %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func encodeKeywords(keywords []models.KeywordMeta) ([]byte, error) {
	if keywords == nil {
		keywords = []models.KeywordMeta{}
	}
	b, err := json.Marshal(keywords)
	if err != nil {
		return nil, eris.Wrap(err, "db: encode keywords")
	}
	return b, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CountProjectsByStatus counts projects per status value.
func (d *DB) CountProjectsByStatus(ctx context.Context) (map[int]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, eris.Wrap(err, "db: count projects")
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var (
			status int
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "db: scan project count")
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
