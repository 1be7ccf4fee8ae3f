// Package metrics provides Prometheus metrics for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newshub"

// Work unit outcomes.
const (
	UnitSkipped = "skipped"
	UnitFetched = "fetched"
	UnitFailed  = "failed"
)

// Article outcomes.
const (
	ArticleInserted  = "inserted"
	ArticleDuplicate = "duplicate"
	ArticleRejected  = "rejected"
	ArticleFailed    = "failed"
)

var (
	// IngestRuns counts completed ingestion runs.
	IngestRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Total number of ingestion runs",
		},
	)

	// IngestDuration measures full ingestion runs.
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Duration of ingestion runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// WorkUnits counts work units by outcome.
	WorkUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_units_total",
			Help:      "Total number of work units by outcome",
		},
		[]string{"category", "outcome"},
	)

	// FetchDuration measures upstream calls per category.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// Articles counts fetched articles by outcome.
	Articles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_total",
			Help:      "Total number of fetched articles by outcome",
		},
		[]string{"category", "outcome"},
	)
)

func RecordUnit(category, outcome string) {
	WorkUnits.WithLabelValues(category, outcome).Inc()
}

func RecordFetch(category string, seconds float64) {
	FetchDuration.WithLabelValues(category).Observe(seconds)
}

func RecordArticle(category, outcome string) {
	Articles.WithLabelValues(category, outcome).Inc()
}

func RecordRun(seconds float64) {
	IngestRuns.Inc()
	IngestDuration.Observe(seconds)
}
