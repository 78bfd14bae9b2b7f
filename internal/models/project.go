package models

import (
	"time"
)

// Project status constants
const (
	ProjectInactive = 0
	ProjectActive   = 1
)

// KeywordMeta is a tracked keyword together with its reporting dimensions.
type KeywordMeta struct {
	Keyword     string `json:"keyword" yaml:"keyword"`
	Category    string `json:"categoria" yaml:"categoria"`
	Subcategory string `json:"subcategoria" yaml:"subcategoria"`
	Intent      string `json:"intencion" yaml:"intencion"`
	Volume      int    `json:"volumen" yaml:"volumen"`
}

// Project is a tracked website with its competitors and keyword list.
type Project struct {
	ID                string        `json:"project_id"`
	Name              string        `json:"nombre_proyecto"`
	MainDomain        string        `json:"dominio_principal"`
	Competitors       []string      `json:"competidores"`
	SubdomainsEnabled bool          `json:"subdomain_enabled"`
	PaidEnabled       bool          `json:"paid_enabled"`
	Language          string        `json:"idioma"`
	Country           string        `json:"pais"`
	Coordinates       string        `json:"coordenadas"`
	Keywords          []KeywordMeta `json:"keywords"`
	Status            int           `json:"estado"`
	Owner             string        `json:"usuario"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// IsActive returns true if the project is scheduled for tracking.
func (p *Project) IsActive() bool {
	return p.Status == ProjectActive
}

// TrackedDomains returns the competitor domains followed by the main domain,
// without duplicates or empty entries. The main domain is always last unless
// it was already listed as a competitor.
func (p *Project) TrackedDomains() []string {
	return TrackedDomains(p.Competitors, p.MainDomain)
}

// TrackedDomains merges competitor domains with the main domain. Order of first
// appearance is preserved.
func TrackedDomains(competitors []string, mainDomain string) []string {
	seen := make(map[string]bool, len(competitors)+1)
	domains := make([]string, 0, len(competitors)+1)
	for _, d := range append(append([]string{}, competitors...), mainDomain) {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		domains = append(domains, d)
	}
	return domains
}
