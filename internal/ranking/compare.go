package ranking

import (
	"strings"

	"github.com/google/uuid"

	"ranktracker/internal/models"
)

var comparisonNamespace = uuid.MustParse("0b7e9c52-8d4f-5a31-b6e2-94c1f0a3d7e8")

// Trend labels the movement between two group positions. A lower position is
// a better rank.
func Trend(current, prior int) string {
	switch {
	case current < prior:
		return models.TrendUp
	case current > prior:
		return models.TrendDown
	default:
		return models.TrendSame
	}
}

// Compare joins two snapshots of the same project domain on keyword and
// labels each pair with its trend. Keywords present in only one snapshot are
// dropped. When a keyword repeats in the prior snapshot its first row is used.
func Compare(current, prior []models.RankRecord) []models.ComparisonRecord {
	if len(current) == 0 || len(prior) == 0 {
		return []models.ComparisonRecord{}
	}

	priorByKeyword := make(map[string]models.RankRecord, len(prior))
	for _, r := range prior {
		if _, ok := priorByKeyword[r.Keyword]; !ok {
			priorByKeyword[r.Keyword] = r
		}
	}

	comparisons := make([]models.ComparisonRecord, 0, len(current))
	for _, cur := range current {
		prev, ok := priorByKeyword[cur.Keyword]
		if !ok {
			continue
		}
		comparisons = append(comparisons, models.ComparisonRecord{
			ID:              comparisonID(cur, prev),
			ProjectID:       cur.ProjectID,
			Domain:          cur.Domain,
			Keyword:         cur.Keyword,
			Category:        cur.Category,
			Subcategory:     cur.Subcategory,
			Intent:          cur.Intent,
			Volume:          cur.Volume,
			URL:             cur.URL,
			CurrentPosition: cur.PositionGroup,
			PriorPosition:   prev.PositionGroup,
			Trend:           Trend(cur.PositionGroup, prev.PositionGroup),
			Date:            cur.Date,
			PriorDate:       prev.Date,
		})
	}
	return comparisons
}

func comparisonID(cur, prev models.RankRecord) uuid.UUID {
	name := strings.Join([]string{
		cur.ProjectID,
		cur.Domain,
		cur.Keyword,
		cur.Date.Format("2006-01-02"),
		prev.Date.Format("2006-01-02"),
	}, "\x00")
	return uuid.NewSHA1(comparisonNamespace, []byte(name))
}
