package models

import (
	"time"

	"github.com/google/uuid"
)

// Trend labels for week-over-week movement.
const (
	TrendUp   = "Subió"
	TrendDown = "Bajó"
	TrendSame = "Se mantuvo"
)

// ComparisonRecord pairs the current and prior position of a keyword for one
// project domain.
type ComparisonRecord struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       string    `json:"id_proyecto"`
	Domain          string    `json:"dominio"`
	Keyword         string    `json:"keyword"`
	Category        string    `json:"categoria"`
	Subcategory     string    `json:"subcategoria"`
	Intent          string    `json:"intencion"`
	Volume          int       `json:"volumen"`
	URL             string    `json:"url"`
	CurrentPosition int       `json:"posicion_actual"`
	PriorPosition   int       `json:"posicion_anterior"`
	Trend           string    `json:"comparacion"`
	Date            time.Time `json:"fecha"`
	PriorDate       time.Time `json:"fecha_anterior"`
}
