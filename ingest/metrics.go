package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpulse_ingest_entries_fetched_total",
		Help: "The total number of usable feed entries fetched",
	})

	articlesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpulse_ingest_articles_saved_total",
		Help: "The total number of new articles written to the store",
	})

	sourceErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpulse_ingest_source_errors_total",
		Help: "The total number of per-source fetch or save errors",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adpulse_ingest_run_duration_seconds",
		Help:    "Duration of full ingestion runs",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10), // Start at 1s, double each bucket, 10 buckets
	})
)
