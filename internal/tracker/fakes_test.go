package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"ranktracker/internal/dataforseo"
	"ranktracker/internal/db"
	"ranktracker/internal/models"
)

type fakeProjects struct {
	projects map[string]*models.Project
}

func (f *fakeProjects) GetProject(_ context.Context, id string) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, db.ErrProjectNotFound
	}
	return p, nil
}

type fakeTasks struct {
	mu      sync.Mutex
	tasks   map[string]models.KeywordTask
	saveErr error
}

func newFakeTasks(tasks ...models.KeywordTask) *fakeTasks {
	f := &fakeTasks{tasks: make(map[string]models.KeywordTask)}
	for _, t := range tasks {
		f.tasks[t.TaskID] = t
	}
	return f
}

func (f *fakeTasks) SaveTask(_ context.Context, t *models.KeywordTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.tasks[t.TaskID] = *t
	return nil
}

func (f *fakeTasks) GetTask(_ context.Context, taskID, projectID string) (*models.KeywordTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return nil, db.ErrTaskNotFound
	}
	return &t, nil
}

func (f *fakeTasks) ListUnresolvedTasks(_ context.Context, date time.Time) ([]models.KeywordTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.KeywordTask
	for _, t := range f.tasks {
		if t.RunDate.Equal(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) ListTrackedPairs(_ context.Context, date time.Time) ([]models.TrackedPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[models.TrackedPair]bool)
	var out []models.TrackedPair
	for _, t := range f.tasks {
		pair := models.TrackedPair{ProjectID: t.ProjectID, Domain: t.MainDomain}
		if t.RunDate.Equal(date) && !seen[pair] {
			seen[pair] = true
			out = append(out, pair)
		}
	}
	return out, nil
}

type fakeSERP struct {
	mu      sync.Mutex
	posted  []dataforseo.TaskRequest
	results map[string]*models.TaskResult
	failFor map[string]bool
	nextID  int
}

func (f *fakeSERP) PostTask(_ context.Context, req dataforseo.TaskRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[req.Keyword] {
		return "", errors.New("provider rejected task")
	}
	f.posted = append(f.posted, req)
	f.nextID++
	return "task-" + req.Keyword, nil
}

func (f *fakeSERP) GetTaskResult(_ context.Context, taskID string) (*models.TaskResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.results[taskID]
	if !ok {
		return nil, errors.New("unknown task")
	}
	return res, nil
}

type fakeFacts struct {
	mu          sync.Mutex
	records     map[string]models.RankRecord
	snapshots   map[string][]models.RankRecord
	comparisons []models.ComparisonRecord
	appendErr   error
}

func newFakeFacts() *fakeFacts {
	return &fakeFacts{records: make(map[string]models.RankRecord), snapshots: make(map[string][]models.RankRecord)}
}

func snapshotKey(projectID, domain string, date time.Time) string {
	return projectID + "|" + domain + "|" + date.Format(time.DateOnly)
}

func (f *fakeFacts) AppendRecords(_ context.Context, records []models.RankRecord) (*db.AppendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	res := &db.AppendResult{}
	for _, r := range records {
		if _, ok := f.records[r.ID.String()]; ok {
			res.Duplicates++
			continue
		}
		f.records[r.ID.String()] = r
		res.Inserted++
	}
	return res, nil
}

func (f *fakeFacts) QuerySnapshot(_ context.Context, projectID, domain string, date time.Time) ([]models.RankRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[snapshotKey(projectID, domain, date)], nil
}

func (f *fakeFacts) AppendComparisons(_ context.Context, comparisons []models.ComparisonRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comparisons = append(f.comparisons, comparisons...)
	return int64(len(comparisons)), nil
}
