package ranking

import (
	"fmt"
	"time"

	"ranktracker/internal/models"
)

// ProjectContext is everything a reconciliation run needs to know about the
// project and keyword a task was issued for.
type ProjectContext struct {
	ProjectID         string
	ProjectName       string
	Keyword           models.KeywordMeta
	MainDomain        string
	Competitors       []string
	SubdomainsEnabled bool
	PaidEnabled       bool
}

// ContextFromTask builds the context from the snapshot stored at submission.
func ContextFromTask(task *models.KeywordTask) ProjectContext {
	return ProjectContext{
		ProjectID:         task.ProjectID,
		ProjectName:       task.ProjectName,
		Keyword:           task.Keyword,
		MainDomain:        task.MainDomain,
		Competitors:       task.Domains,
		SubdomainsEnabled: task.SubdomainsEnabled,
		PaidEnabled:       task.PaidEnabled,
	}
}

// Domains returns the tracked domain list: competitors first, main domain last.
func (pc ProjectContext) Domains() []string {
	return models.TrackedDomains(pc.Competitors, pc.MainDomain)
}

// Reconcile turns a provider response into the rank records of one task.
//
// A response carrying task errors yields a *ProviderError and no records. A
// response without a finished result set yields ErrNoResult: an unknown SERP
// must not be recorded as "not ranking".
// A project with no tracked domains yields an empty batch. For identical
// inputs the output is identical, record IDs included, so a callback can be
// replayed safely.
func Reconcile(taskID string, pc ProjectContext, resp *models.TaskResult, runDate time.Time) ([]models.RankRecord, error) {
	if resp == nil {
		return nil, ErrNoResult
	}
	if resp.TasksError != 0 {
		return nil, &ProviderError{
			TaskID:        taskID,
			StatusCode:    resp.StatusCode,
			StatusMessage: resp.StatusMessage,
			TasksError:    resp.TasksError,
		}
	}
	if !resp.Complete {
		return nil, fmt.Errorf("%w: task %s (status %d)", ErrNoResult, taskID, resp.StatusCode)
	}

	domains := pc.Domains()
	if len(domains) == 0 {
		return []models.RankRecord{}, nil
	}

	date := CivilDate(runDate)
	outcomes := Classify(resp.Items, domains, pc.SubdomainsEnabled, pc.PaidEnabled)

	records := make([]models.RankRecord, 0, len(outcomes))
	for _, o := range outcomes {
		records = append(records, o.Record(pc, taskID, date))
	}
	return records, nil
}

// CivilDate drops the clock and location of t, keeping its calendar date.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
