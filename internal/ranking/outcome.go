package ranking

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ranktracker/internal/models"
)

// Placeholders written when a matched item lacks a field.
const (
	NoTitle       = "No meta-title"
	NoDescription = "No meta-description"
	NoBreadcrumbs = "No breadcrumbs"
)

// Kind tags what an Outcome represents.
type Kind int

const (
	// KindMatched is the first organic item matching a tracked domain.
	KindMatched Kind = iota
	// KindPaid is a paid item from the top of the page. Paid items are not
	// matched against tracked domains.
	KindPaid
	// KindNotRanking means no organic item matched the tracked domain.
	KindNotRanking
)

func (k Kind) String() string {
	switch k {
	case KindMatched:
		return models.ResultOrganic
	case KindPaid:
		return models.ResultPaid
	case KindNotRanking:
		return models.ResultNotRanking
	default:
		return "unknown"
	}
}

// Outcome is the classification of one tracked domain (or one paid slot)
// against a result page. Item is the zero value for KindNotRanking.
type Outcome struct {
	Kind          Kind
	TrackedDomain string
	Item          models.SearchResultItem
}

// Matched builds an organic outcome for a tracked domain.
func Matched(trackedDomain string, item models.SearchResultItem) Outcome {
	return Outcome{Kind: KindMatched, TrackedDomain: trackedDomain, Item: item}
}

// Paid builds a paid-slot outcome.
func Paid(item models.SearchResultItem) Outcome {
	return Outcome{Kind: KindPaid, Item: item}
}

// NotRankingFor builds the outcome for a tracked domain absent from the page.
func NotRankingFor(trackedDomain string) Outcome {
	return Outcome{Kind: KindNotRanking, TrackedDomain: trackedDomain}
}

// recordNamespace seeds the name-based record IDs.
var recordNamespace = uuid.MustParse("6f1c2d4e-3b0a-5c8e-9f71-2a4b6c8d0e13")

// Record converts the outcome into its fact-table row. The literal sentinel
// and placeholder strings only exist from this point on.
func (o Outcome) Record(pc ProjectContext, taskID string, date time.Time) models.RankRecord {
	rec := models.RankRecord{
		ID:          o.recordID(taskID),
		ProjectID:   pc.ProjectID,
		Keyword:     pc.Keyword.Keyword,
		Category:    pc.Keyword.Category,
		Subcategory: pc.Keyword.Subcategory,
		Intent:      pc.Keyword.Intent,
		Volume:      pc.Keyword.Volume,
		TaskID:      taskID,
		Date:        date,
		ResultType:  o.Kind.String(),
	}

	if o.Kind == KindNotRanking {
		rec.Domain = o.TrackedDomain
		rec.PositionGroupRange = NotRanking
		rec.PositionAbsoluteRange = NotRanking
		rec.URL = NotRanking
		rec.Title = NotRanking
		rec.Description = NotRanking
		rec.Breadcrumb = NotRanking
		return rec
	}

	rec.Domain = o.Item.Domain
	rec.PositionGroup = o.Item.RankGroup
	rec.PositionGroupRange = Bucket(o.Item.RankGroup)
	rec.PositionAbsolute = o.Item.RankAbsolute
	rec.PositionAbsoluteRange = Bucket(o.Item.RankAbsolute)
	rec.URL = valueOr(o.Item.URL, "")
	rec.Title = valueOr(o.Item.Title, NoTitle)
	rec.Description = valueOr(o.Item.Description, NoDescription)
	rec.Breadcrumb = valueOr(o.Item.Breadcrumb, NoBreadcrumbs)
	return rec
}

// recordID is stable for a given task and outcome so replays of the same
// callback collapse onto the same rows.
func (o Outcome) recordID(taskID string) uuid.UUID {
	name := strings.Join([]string{
		taskID,
		o.Kind.String(),
		o.TrackedDomain,
		o.Item.Domain,
		strconv.Itoa(o.Item.RankAbsolute),
	}, "\x00")
	return uuid.NewSHA1(recordNamespace, []byte(name))
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
