package models

// Result item types reported by the SERP provider.
const (
	ItemOrganic = "organic"
	ItemPaid    = "paid"
)

// SearchResultItem is one entry of a provider result page.
type SearchResultItem struct {
	Type         string  `json:"type"`
	RankGroup    int     `json:"rank_group"`
	RankAbsolute int     `json:"rank_absolute"`
	Domain       string  `json:"domain"`
	URL          *string `json:"url"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Breadcrumb   *string `json:"breadcrumb"`
}

// TaskResult is the provider response for one task.
type TaskResult struct {
	TaskID        string `json:"task_id"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	TasksError    int    `json:"tasks_error"`
	Keyword       string `json:"keyword"`
	// Complete is set only when the provider returned a finished result
	// set. An empty Items with Complete false means the SERP is unknown.
	Complete bool               `json:"complete"`
	Items    []SearchResultItem `json:"items"`
}
