package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	rankRecordsDesc = prometheus.NewDesc(
		"ranktracker_rank_records",
		"Stored rank records by result type",
		[]string{"result_type"},
		nil,
	)
	comparisonsDesc = prometheus.NewDesc(
		"ranktracker_comparisons",
		"Stored weekly comparisons by trend",
		[]string{"trend"},
		nil,
	)
	projectsDesc = prometheus.NewDesc(
		"ranktracker_projects",
		"Projects by status",
		[]string{"status"},
		nil,
	)
)

// StatsSource is the read side the collector scrapes.
type StatsSource interface {
	CountRecordsByResultType(ctx context.Context) (map[string]int64, error)
	CountComparisonsByTrend(ctx context.Context) (map[string]int64, error)
	CountProjectsByStatus(ctx context.Context) (map[int]int64, error)
}

// StoreCollector is a custom Prometheus collector that reads fact table
// counts from the database on each scrape.
type StoreCollector struct {
	source  StatsSource
	timeout time.Duration
}

// NewStoreCollector creates a collector over source.
func NewStoreCollector(source StatsSource) *StoreCollector {
	return &StoreCollector{source: source, timeout: 5 * time.Second}
}

// Describe sends the metric descriptors to the channel.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- rankRecordsDesc
	ch <- comparisonsDesc
	ch <- projectsDesc
}

// Collect queries the database and emits the counts as gauges. A failing
// query only drops its own series.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if counts, err := c.source.CountRecordsByResultType(ctx); err != nil {
		zap.L().Error("failed to collect rank record metrics", zap.Error(err))
	} else {
		for resultType, n := range counts {
			ch <- prometheus.MustNewConstMetric(rankRecordsDesc, prometheus.GaugeValue, float64(n), resultType)
		}
	}

	if counts, err := c.source.CountComparisonsByTrend(ctx); err != nil {
		zap.L().Error("failed to collect comparison metrics", zap.Error(err))
	} else {
		for trend, n := range counts {
			ch <- prometheus.MustNewConstMetric(comparisonsDesc, prometheus.GaugeValue, float64(n), trend)
		}
	}

	if counts, err := c.source.CountProjectsByStatus(ctx); err != nil {
		zap.L().Error("failed to collect project metrics", zap.Error(err))
	} else {
		for status, n := range counts {
			ch <- prometheus.MustNewConstMetric(projectsDesc, prometheus.GaugeValue, float64(n), strconv.Itoa(status))
		}
	}
}

// Outcome labels used by the counters.
const (
	OutcomeOK            = "ok"
	OutcomeProviderError = "provider_error"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
)

var (
	callbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ranktracker_callbacks_total",
		Help: "Processed provider callbacks by outcome",
	}, []string{"outcome"})

	submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ranktracker_task_submissions_total",
		Help: "Keyword task submissions by outcome",
	}, []string{"outcome"})

	skippedRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ranktracker_skipped_records_total",
		Help: "Rank records rejected by column limits",
	})

	initOnce sync.Once
)

// Init registers the collector and the counters. Must be called once at
// startup.
func Init(source StatsSource) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			NewStoreCollector(source),
			callbacksTotal,
			submissionsTotal,
			skippedRecordsTotal,
		)
	})
}

// RecordCallback counts a processed callback.
func RecordCallback(outcome string) {
	callbacksTotal.WithLabelValues(outcome).Inc()
}

// RecordSubmission counts a keyword task submission.
func RecordSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordSkipped counts records left out of an append.
func RecordSkipped(n int) {
	if n > 0 {
		skippedRecordsTotal.Add(float64(n))
	}
}
