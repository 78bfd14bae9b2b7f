package models

// CallbackResponse is returned to the SERP provider pingback.
type CallbackResponse struct {
	TaskID    string `json:"task_id"`
	ProjectID string `json:"project_id"`
	Records   int    `json:"records"`
	Skipped   int    `json:"skipped"`
}

// SubmitResponse summarises a keyword submission pass.
type SubmitResponse struct {
	ProjectID string `json:"project_id"`
	Keywords  int    `json:"keywords"`
	Message   string `json:"message"`
}

// SweepResponse acknowledges a background sweep.
type SweepResponse struct {
	Date    string `json:"fecha"`
	Message string `json:"message"`
}
