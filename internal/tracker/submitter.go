package tracker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ranktracker/internal/dataforseo"
	"ranktracker/internal/metrics"
	"ranktracker/internal/models"
)

// SubmitSummary counts the outcome of one submission pass.
type SubmitSummary struct {
	ProjectID string
	Keywords  int
	Submitted int64
	Failed    int64
}

// Submitter issues one SERP task per project keyword and records the task
// snapshot used later by the callback.
type Submitter struct {
	projects    ProjectStore
	tasks       TaskStore
	serp        SERPClient
	loc         *time.Location
	now         Clock
	concurrency int
	depth       int
}

// NewSubmitter creates a Submitter. concurrency bounds in-flight submissions.
func NewSubmitter(projects ProjectStore, tasks TaskStore, serp SERPClient, loc *time.Location, concurrency, depth int) *Submitter {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Submitter{
		projects:    projects,
		tasks:       tasks,
		serp:        serp,
		loc:         loc,
		now:         time.Now,
		concurrency: concurrency,
		depth:       depth,
	}
}

// WithClock overrides the submitter clock.
func (s *Submitter) WithClock(now Clock) *Submitter {
	s.now = now
	return s
}

// SubmitProject loads a project and submits all of its keywords.
func (s *Submitter) SubmitProject(ctx context.Context, projectID string) (*SubmitSummary, error) {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, eris.Wrapf(err, "tracker: load project %s", projectID)
	}
	return s.Submit(ctx, project), nil
}

// Submit sends every keyword of project to the provider concurrently. A
// failed keyword is logged and skipped; it does not affect the others and is
// not retried in the same pass.
func (s *Submitter) Submit(ctx context.Context, project *models.Project) *SubmitSummary {
	summary := &SubmitSummary{ProjectID: project.ID, Keywords: len(project.Keywords)}
	runDate := Today(s.now(), s.loc)

	var submitted, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, kw := range project.Keywords {
		g.Go(func() error {
			log := zap.L().With(zap.String("project_id", project.ID), zap.String("keyword", kw.Keyword))

			if err := s.submitKeyword(gctx, project, kw, runDate); err != nil {
				failed.Add(1)
				metrics.RecordSubmission(metrics.OutcomeError)
				log.Error("keyword submission failed", zap.Error(err))
				return nil
			}

			submitted.Add(1)
			metrics.RecordSubmission(metrics.OutcomeOK)
			return nil
		})
	}
	_ = g.Wait()

	summary.Submitted = submitted.Load()
	summary.Failed = failed.Load()

	zap.L().Info("project submission complete",
		zap.String("project_id", project.ID),
		zap.Int("keywords", summary.Keywords),
		zap.Int64("submitted", summary.Submitted),
		zap.Int64("failed", summary.Failed),
	)
	return summary
}

func (s *Submitter) submitKeyword(ctx context.Context, project *models.Project, kw models.KeywordMeta, runDate time.Time) error {
	taskID, err := s.serp.PostTask(ctx, dataforseo.TaskRequest{
		Keyword:            kw.Keyword,
		LanguageName:       project.Language,
		LocationCoordinate: project.Coordinates,
		Tag:                project.ID,
		Depth:              s.depth,
	})
	if err != nil {
		return eris.Wrap(err, "tracker: post task")
	}

	task := &models.KeywordTask{
		TaskID:            taskID,
		ProjectID:         project.ID,
		ProjectName:       project.Name,
		Keyword:           kw,
		RunDate:           runDate,
		MainDomain:        project.MainDomain,
		Domains:           project.Competitors,
		SubdomainsEnabled: project.SubdomainsEnabled,
		PaidEnabled:       project.PaidEnabled,
	}
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return eris.Wrapf(err, "tracker: save task %s", taskID)
	}
	return nil
}
