// Package ingest implements the feed ingestion pipeline: fetching the
// configured sources, normalizing and classifying their entries, and
// upserting the results into the article store.
package ingest

import (
	"context"
	"sync"
	"time"

	"adpulse/config"
	"adpulse/db"
	"adpulse/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Ingestor drives full ingestion runs over the configured source set.
type Ingestor struct {
	fetcher *Fetcher
	writer  *db.Writer
	sources []config.Source
	workers int
}

// NewIngestor wires a fetcher and the article store writer for the
// configured sources.
func NewIngestor(cfg *config.Config, writer *db.Writer) *Ingestor {
	workers := cfg.App.Workers
	if workers < 1 {
		workers = 1
	}
	return &Ingestor{
		fetcher: NewFetcher(cfg.Categories),
		writer:  writer,
		sources: cfg.AllSources(),
		workers: workers,
	}
}

type sourceResult struct {
	source config.Source
	stats  models.SourceStats
}

// Run ingests every configured source and returns aggregate counters,
// grouped by content class for reporting. Sources are fetched by a bounded
// worker pool; a single collecting loop sums the per-source counters so the
// aggregates stay exact. Per-source failures are absorbed into the error
// counter and never abort the run.
func (ing *Ingestor) Run(ctx context.Context) models.RunSummary {
	start := time.Now()
	summary := models.RunSummary{
		RunID:         uuid.New().String(),
		StartedAt:     start,
		ByContentType: make(map[string]models.ClassSummary),
	}

	log.WithFields(log.Fields{
		"run":     summary.RunID,
		"sources": len(ing.sources),
		"workers": ing.workers,
	}).Info("Starting ingestion run")

	sourceChan := make(chan config.Source)
	resultChan := make(chan sourceResult, len(ing.sources))

	var wg sync.WaitGroup
	for i := 0; i < ing.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range sourceChan {
				resultChan <- sourceResult{
					source: source,
					stats:  ing.processSource(ctx, source),
				}
			}
		}()
	}

	go func() {
		defer close(sourceChan)
		for _, source := range ing.sources {
			select {
			case <-ctx.Done():
				return
			case sourceChan <- source:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		class := summary.ByContentType[result.source.ContentType]
		class.SourcesChecked++
		class.Fetched += result.stats.Fetched
		class.Saved += result.stats.Saved
		class.Errors += result.stats.Errors
		summary.ByContentType[result.source.ContentType] = class

		summary.SourcesChecked++
		summary.TotalFetched += result.stats.Fetched
		summary.TotalSaved += result.stats.Saved
		summary.TotalErrors += result.stats.Errors
	}

	summary.Duration = time.Since(start)
	runDuration.Observe(summary.Duration.Seconds())

	log.WithFields(log.Fields{
		"run":      summary.RunID,
		"fetched":  summary.TotalFetched,
		"saved":    summary.TotalSaved,
		"errors":   summary.TotalErrors,
		"sources":  summary.SourcesChecked,
		"duration": summary.Duration,
	}).Info("Ingestion run complete")

	return summary
}

// processSource fetches one source and drains its drafts into the store.
// Anything unexpected, including panics, stays inside this boundary and
// becomes an error count.
func (ing *Ingestor) processSource(ctx context.Context, source config.Source) (stats models.SourceStats) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"source": source.Name,
				"panic":  r,
			}).Error("Recovered while processing source")
			stats.Errors++
		}
	}()

	drafts, fetchStats := ing.fetcher.Fetch(ctx, source)
	stats = fetchStats

	for _, draft := range drafts {
		saved, err := ing.writer.SaveArticle(ctx, draft)
		if err != nil {
			log.WithFields(log.Fields{
				"source": source.Name,
				"link":   draft.Link,
				"error":  err,
			}).Error("Error saving article")
			stats.Errors++
			continue
		}
		if saved {
			stats.Saved++
		}
	}

	entriesFetched.Add(float64(stats.Fetched))
	articlesSaved.Add(float64(stats.Saved))
	sourceErrors.Add(float64(stats.Errors))

	return stats
}
