package dataforseo

import (
	"github.com/rotisserie/eris"

	"ranktracker/internal/models"
	"ranktracker/internal/ranking"
)

// StatusOK is the status_code DataForSEO reports for a successful call.
const StatusOK = 20000

// TaskRequest describes one organic SERP task to submit.
type TaskRequest struct {
	Keyword            string
	LanguageName       string
	LocationCoordinate string
	Tag                string
	Depth              int
}

// taskPostItem is the wire form of a task_post entry.
type taskPostItem struct {
	Priority           int    `json:"priority"`
	Keyword            string `json:"keyword"`
	LanguageName       string `json:"language_name,omitempty"`
	LocationCoordinate string `json:"location_coordinate,omitempty"`
	SEDomain           string `json:"se_domain"`
	Tag                string `json:"tag,omitempty"`
	Depth              int    `json:"depth"`
	MaxCrawlPages      int    `json:"max_crawl_pages"`
	SearchParam        string `json:"search_param,omitempty"`
	PingbackURL        string `json:"pingback_url,omitempty"`
}

// envelope is shared by every v3 response.
type envelope struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	TasksCount    int    `json:"tasks_count"`
	TasksError    int    `json:"tasks_error"`
	Tasks         []task `json:"tasks"`
}

type task struct {
	ID            string       `json:"id"`
	StatusCode    int          `json:"status_code"`
	StatusMessage string       `json:"status_message"`
	Data          taskData     `json:"data"`
	Result        []taskResult `json:"result"`
}

type taskData struct {
	Keyword string `json:"keyword"`
	Tag     string `json:"tag"`
}

type taskResult struct {
	Keyword string     `json:"keyword"`
	Items   []wireItem `json:"items"`
}

type wireItem struct {
	Type         string  `json:"type"`
	RankGroup    int     `json:"rank_group"`
	RankAbsolute int     `json:"rank_absolute"`
	Domain       string  `json:"domain"`
	URL          *string `json:"url"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Breadcrumb   *string `json:"breadcrumb"`
}

// toTaskResult flattens an advanced task_get envelope. Envelopes reporting
// task errors keep their status fields and carry no items. A task that is not
// finished or has no result set yields an error wrapping ranking.ErrNoResult.
func (e *envelope) toTaskResult(taskID string) (*models.TaskResult, error) {
	res := &models.TaskResult{
		TaskID:        taskID,
		StatusCode:    e.StatusCode,
		StatusMessage: e.StatusMessage,
		TasksError:    e.TasksError,
	}
	if e.TasksError != 0 {
		return res, nil
	}
	if len(e.Tasks) == 0 {
		return nil, eris.Wrapf(ranking.ErrNoResult, "dataforseo: task %s: response has no tasks", taskID)
	}

	t := e.Tasks[0]
	if t.StatusCode != StatusOK {
		return nil, eris.Wrapf(ranking.ErrNoResult, "dataforseo: task %s: status %d: %s", taskID, t.StatusCode, t.StatusMessage)
	}
	if len(t.Result) == 0 {
		return nil, eris.Wrapf(ranking.ErrNoResult, "dataforseo: task %s: empty result", taskID)
	}

	res.StatusCode = t.StatusCode
	res.StatusMessage = t.StatusMessage
	res.Keyword = t.Data.Keyword
	res.Complete = true
	res.Items = make([]models.SearchResultItem, 0, len(t.Result[0].Items))
	for _, it := range t.Result[0].Items {
		res.Items = append(res.Items, models.SearchResultItem{
			Type:         it.Type,
			RankGroup:    it.RankGroup,
			RankAbsolute: it.RankAbsolute,
			Domain:       it.Domain,
			URL:          it.URL,
			Title:        it.Title,
			Description:  it.Description,
			Breadcrumb:   it.Breadcrumb,
		})
	}
	return res, nil
}
