package ranking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranktracker/internal/models"
)

func strPtr(s string) *string { return &s }

func testContext() ProjectContext {
	return ProjectContext{
		ProjectID: "p1",
		Keyword: models.KeywordMeta{
			Keyword:     "zapatos running",
			Category:    "calzado",
			Subcategory: "deporte",
			Intent:      "transaccional",
			Volume:      1200,
		},
		MainDomain:  "main.com",
		Competitors: []string{"a.com", "b.com"},
	}
}

func testResult() *models.TaskResult {
	return &models.TaskResult{
		TaskID:     "task-1",
		StatusCode: 20000,
		Keyword:    "zapatos running",
		Complete:   true,
		Items: []models.SearchResultItem{
			{
				Type: models.ItemOrganic, Domain: "a.com", RankGroup: 2, RankAbsolute: 3,
				URL: strPtr("https://a.com/x"), Title: strPtr("A"), Description: strPtr("desc"),
				Breadcrumb: strPtr("a.com > x"),
			},
			{Type: models.ItemOrganic, Domain: "main.com", RankGroup: 12, RankAbsolute: 15, URL: strPtr("https://main.com/")},
		},
	}
}

var runDate = time.Date(2024, 3, 10, 22, 30, 0, 0, time.FixedZone("COT", -5*3600))

func TestReconcile(t *testing.T) {
	records, err := Reconcile("task-1", testContext(), testResult(), runDate)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byDomain := make(map[string]models.RankRecord)
	for _, r := range records {
		assert.Equal(t, "p1", r.ProjectID)
		assert.Equal(t, "zapatos running", r.Keyword)
		assert.Equal(t, "calzado", r.Category)
		assert.Equal(t, "deporte", r.Subcategory)
		assert.Equal(t, "transaccional", r.Intent)
		assert.Equal(t, 1200, r.Volume)
		assert.Equal(t, "task-1", r.TaskID)
		assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), r.Date)
		byDomain[r.Domain] = r
	}

	a := byDomain["a.com"]
	assert.Equal(t, 2, a.PositionGroup)
	assert.Equal(t, RangeTop3, a.PositionGroupRange)
	assert.Equal(t, 3, a.PositionAbsolute)
	assert.Equal(t, RangeTop3, a.PositionAbsoluteRange)
	assert.Equal(t, "https://a.com/x", a.URL)
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, models.ResultOrganic, a.ResultType)

	b := byDomain["b.com"]
	assert.Equal(t, 0, b.PositionGroup)
	assert.Equal(t, 0, b.PositionAbsolute)
	assert.Equal(t, NotRanking, b.PositionGroupRange)
	assert.Equal(t, NotRanking, b.PositionAbsoluteRange)
	assert.Equal(t, NotRanking, b.URL)
	assert.Equal(t, NotRanking, b.Title)
	assert.Equal(t, NotRanking, b.Description)
	assert.Equal(t, NotRanking, b.Breadcrumb)
	assert.Equal(t, models.ResultNotRanking, b.ResultType)

	main := byDomain["main.com"]
	assert.Equal(t, RangeTop20, main.PositionGroupRange)
	assert.Equal(t, NoTitle, main.Title)
	assert.Equal(t, NoDescription, main.Description)
	assert.Equal(t, NoBreadcrumbs, main.Breadcrumb)

	assert.Equal(t, "main.com", records[2].Domain, "main domain is classified last")
}

func TestReconcile_Idempotent(t *testing.T) {
	first, err := Reconcile("task-1", testContext(), testResult(), runDate)
	require.NoError(t, err)
	second, err := Reconcile("task-1", testContext(), testResult(), runDate)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestReconcile_DistinctIDs(t *testing.T) {
	pc := testContext()
	pc.Competitors = []string{"a.com", "www.a.com"}
	pc.SubdomainsEnabled = true

	records, err := Reconcile("task-1", pc, testResult(), runDate)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, r := range records {
		assert.False(t, seen[r.ID.String()], "duplicate id %s", r.ID)
		seen[r.ID.String()] = true
	}
}

func TestReconcile_ProviderError(t *testing.T) {
	resp := testResult()
	resp.TasksError = 1
	resp.StatusMessage = "Task In Queue."

	records, err := Reconcile("task-1", testContext(), resp, runDate)

	assert.Nil(t, records)
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "task-1", pe.TaskID)
}

func TestReconcile_NoResult(t *testing.T) {
	_, err := Reconcile("task-1", testContext(), nil, runDate)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestReconcile_IncompleteResult(t *testing.T) {
	resp := testResult()
	resp.Complete = false
	resp.Items = nil
	resp.StatusCode = 40602

	records, err := Reconcile("task-1", testContext(), resp, runDate)

	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrNoResult)
	assert.False(t, IsProviderError(err))
}

func TestReconcile_CompleteEmptySERP(t *testing.T) {
	resp := testResult()
	resp.Items = []models.SearchResultItem{}

	records, err := Reconcile("task-1", testContext(), resp, runDate)

	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, NotRanking, r.PositionGroupRange)
	}
}

func TestReconcile_NoDomains(t *testing.T) {
	records, err := Reconcile("task-1", ProjectContext{ProjectID: "p1"}, testResult(), runDate)

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestReconcile_PaidFirst(t *testing.T) {
	pc := testContext()
	pc.PaidEnabled = true
	resp := testResult()
	resp.Items = append([]models.SearchResultItem{{
		Type: models.ItemPaid, Domain: "ads.com", RankGroup: 1, RankAbsolute: 1, URL: strPtr("https://ads.com"),
	}}, resp.Items...)

	records, err := Reconcile("task-1", pc, resp, runDate)

	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, models.ResultPaid, records[0].ResultType)
	assert.Equal(t, "ads.com", records[0].Domain)
}

func TestContextFromTask(t *testing.T) {
	task := &models.KeywordTask{
		TaskID:            "t",
		ProjectID:         "p1",
		Keyword:           models.KeywordMeta{Keyword: "kw"},
		MainDomain:        "main.com",
		Domains:           []string{"a.com"},
		SubdomainsEnabled: true,
	}

	pc := ContextFromTask(task)

	assert.Equal(t, "p1", pc.ProjectID)
	assert.Equal(t, []string{"a.com", "main.com"}, pc.Domains())
	assert.True(t, pc.SubdomainsEnabled)
	assert.False(t, pc.PaidEnabled)
}
