package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranktracker/internal/models"
)

var projectRowColumns = []string{
	"id", "name", "main_domain", "competitors", "subdomains_enabled", "paid_enabled",
	"language", "country", "coordinates", "keywords", "status", "owner", "created_at", "updated_at",
}

func TestGetProject(t *testing.T) {
	d, mock := newMockDB(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(projectRowColumns).AddRow(
			"p1", "Tienda", "tienda.com", []string{"a.com", "b.com"}, true, false,
			"Spanish", "CO", "4.6,-74.08",
			[]byte(`[{"keyword":"zapatos","categoria":"calzado","subcategoria":"","intencion":"","volumen":90}]`),
			models.ProjectActive, "ana", now, now,
		))

	p, err := d.GetProject(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "tienda.com", p.MainDomain)
	assert.Equal(t, []string{"a.com", "b.com"}, p.Competitors)
	assert.True(t, p.SubdomainsEnabled)
	require.Len(t, p.Keywords, 1)
	assert.Equal(t, "zapatos", p.Keywords[0].Keyword)
	assert.Equal(t, 90, p.Keywords[0].Volume)
	assert.True(t, p.IsActive())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProject_NotFound(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := d.GetProject(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProjectNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProject_Duplicate(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO projects`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := d.CreateProject(context.Background(), &models.Project{ID: "p1", Name: "Tienda"})

	assert.ErrorIs(t, err, ErrDuplicateProject)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProject(t *testing.T) {
	d, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO projects .+ ON CONFLICT \(id\) DO UPDATE`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := &models.Project{ID: "p1", Name: "Tienda", MainDomain: "tienda.com"}
	err := d.UpsertProject(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, now, p.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProjectStatus_NotFound(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE projects SET status`).
		WithArgs("p1", models.ProjectInactive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := d.UpdateProjectStatus(context.Background(), "p1", models.ProjectInactive)

	assert.ErrorIs(t, err, ErrProjectNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProject(t *testing.T) {
	d, mock := newMockDB(t)
	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	p := &models.Project{
		ID:          "p1",
		Name:        "Tienda",
		Competitors: []string{"a.com"},
		PaidEnabled: true,
		Language:    "Spanish",
		Keywords:    []models.KeywordMeta{{Keyword: "zapatos"}},
	}

	mock.ExpectQuery(`UPDATE projects SET .+ WHERE id = \$1\s+RETURNING updated_at`).
		WithArgs("p1", "Tienda", []string{"a.com"}, false, true, "Spanish", "", "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	err := d.UpdateProject(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, now, p.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProject_NotFound(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectQuery(`UPDATE projects SET`).
		WillReturnError(pgx.ErrNoRows)

	err := d.UpdateProject(context.Background(), &models.Project{ID: "missing"})

	assert.ErrorIs(t, err, ErrProjectNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListProjects_QueryError(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE status = 1`).
		WillReturnError(errors.New("connection reset"))

	_, err := d.ListProjects(context.Background(), true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: list projects")
	require.NoError(t, mock.ExpectationsWereMet())
}
