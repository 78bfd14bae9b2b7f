package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranktracker/internal/db"
	"ranktracker/internal/models"
)

func testProject() *models.Project {
	return &models.Project{
		ID:          "p1",
		Name:        "Tienda",
		MainDomain:  "tienda.com",
		Competitors: []string{"a.com"},
		PaidEnabled: true,
		Language:    "Spanish",
		Coordinates: "4.6,-74.08",
		Keywords: []models.KeywordMeta{
			{Keyword: "zapatos"},
			{Keyword: "botas"},
			{Keyword: "sandalias"},
		},
		Status: models.ProjectActive,
	}
}

func TestSubmitter_SubmitProject(t *testing.T) {
	serp := &fakeSERP{}
	tasks := newFakeTasks()
	s := NewSubmitter(&fakeProjects{projects: map[string]*models.Project{"p1": testProject()}}, tasks, serp, bogota, 2, 30).
		WithClock(fixedClock)

	summary, err := s.SubmitProject(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Keywords)
	assert.Equal(t, int64(3), summary.Submitted)
	assert.Zero(t, summary.Failed)
	assert.Len(t, serp.posted, 3)
	for _, req := range serp.posted {
		assert.Equal(t, "p1", req.Tag)
		assert.Equal(t, "Spanish", req.LanguageName)
		assert.Equal(t, 30, req.Depth)
	}

	task, err := tasks.GetTask(context.Background(), "task-botas", "p1")
	require.NoError(t, err)
	assert.Equal(t, "botas", task.Keyword.Keyword)
	assert.Equal(t, []string{"a.com"}, task.Domains)
	assert.True(t, task.PaidEnabled)
	assert.Equal(t, 10, task.RunDate.Day())
}

func TestSubmitter_FailureDoesNotBlockOthers(t *testing.T) {
	serp := &fakeSERP{failFor: map[string]bool{"botas": true}}
	tasks := newFakeTasks()
	s := NewSubmitter(nil, tasks, serp, bogota, 3, 30)

	summary := s.Submit(context.Background(), testProject())

	assert.Equal(t, int64(2), summary.Submitted)
	assert.Equal(t, int64(1), summary.Failed)
	assert.Len(t, tasks.tasks, 2)
}

func TestSubmitter_SaveFailureCounted(t *testing.T) {
	tasks := newFakeTasks()
	tasks.saveErr = errors.New("db down")
	s := NewSubmitter(nil, tasks, &fakeSERP{}, bogota, 1, 30)

	summary := s.Submit(context.Background(), testProject())

	assert.Zero(t, summary.Submitted)
	assert.Equal(t, int64(3), summary.Failed)
}

func TestSubmitter_UnknownProject(t *testing.T) {
	s := NewSubmitter(&fakeProjects{}, newFakeTasks(), &fakeSERP{}, bogota, 1, 30)

	_, err := s.SubmitProject(context.Background(), "missing")

	assert.ErrorIs(t, err, db.ErrProjectNotFound)
}
