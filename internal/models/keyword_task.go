package models

import "time"

// KeywordTask records one SERP task submitted for a project keyword. It keeps
// a snapshot of the project settings at submission time so that the callback
// reconciles against the configuration the query was issued with.
type KeywordTask struct {
	TaskID            string      `json:"task_id"`
	ProjectID         string      `json:"project_id"`
	ProjectName       string      `json:"nombre_proyecto"`
	Keyword           KeywordMeta `json:"keyword"`
	RunDate           time.Time   `json:"fecha"`
	MainDomain        string      `json:"dominio_principal"`
	Domains           []string    `json:"dominios"`
	SubdomainsEnabled bool        `json:"subdomains_enabled"`
	PaidEnabled       bool        `json:"paid_enabled"`
	CreatedAt         time.Time   `json:"created_at"`
}

// TrackedPair is a (project, domain) combination that had tasks on a date.
type TrackedPair struct {
	ProjectID string `json:"project_id"`
	Domain    string `json:"domain"`
}
