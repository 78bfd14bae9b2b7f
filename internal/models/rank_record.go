package models

import (
	"time"

	"github.com/google/uuid"
)

// Result type values stored in rank records.
const (
	ResultOrganic    = "organic"
	ResultPaid       = "paid"
	ResultNotRanking = "no posiciona"
)

// RankRecord is one row of the ranking fact table: where a domain appeared
// for a keyword on a given date.
type RankRecord struct {
	ID                    uuid.UUID `json:"id"`
	ProjectID             string    `json:"id_proyecto"`
	Keyword               string    `json:"keyword"`
	Category              string    `json:"categoria"`
	Subcategory           string    `json:"subcategoria"`
	Intent                string    `json:"intencion"`
	Volume                int       `json:"volumen"`
	TaskID                string    `json:"task_id"`
	Date                  time.Time `json:"fecha"`
	Domain                string    `json:"dominio"`
	PositionGroup         int       `json:"posicion_grupo"`
	PositionGroupRange    string    `json:"rango_grupo"`
	PositionAbsolute      int       `json:"posicion_absoluto"`
	PositionAbsoluteRange string    `json:"rango_absoluto"`
	URL                   string    `json:"url"`
	Breadcrumb            string    `json:"breadcrumb"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	ResultType            string    `json:"tipo_resultado"`
}

// IsRanking returns true if the record points at an actual result item.
func (r *RankRecord) IsRanking() bool {
	return r.ResultType != ResultNotRanking
}
