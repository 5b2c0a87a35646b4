package ingest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"adpulse/config"
	"adpulse/models"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
)

const (
	// Some feed hosts reject anonymous default clients, so identify ourselves.
	userAgent = "adpulse/1.0 (ad industry feed aggregator)"

	// A slow source must not hang the whole run.
	fetchTimeout = 15 * time.Second
)

// Fetcher downloads and parses one source at a time, turning raw feed
// entries into storable article drafts.
type Fetcher struct {
	parser   *gofeed.Parser
	taxonomy []config.Category
	now      func() time.Time
}

// NewFetcher creates a fetcher classifying against the given taxonomy.
func NewFetcher(taxonomy []config.Category) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: fetchTimeout}

	return &Fetcher{
		parser:   parser,
		taxonomy: taxonomy,
		now:      time.Now,
	}
}

// Fetch retrieves a single source and returns article drafts plus per-source
// counters. Transport and parse failures are folded into the error counter,
// never returned: one bad source must not abort a run. Entries missing a
// title or link are dropped silently and appear in no counter.
func (f *Fetcher) Fetch(ctx context.Context, source config.Source) ([]models.Article, models.SourceStats) {
	stats := models.SourceStats{}

	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil || feed == nil {
		log.WithFields(log.Fields{
			"source": source.Name,
			"url":    source.URL,
			"error":  err,
		}).Warn("Feed error, skipping source")
		stats.Errors++
		return nil, stats
	}

	fetchedAt := f.now().UTC().Format(models.TimeLayout)

	var drafts []models.Article
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}
		description = CleanText(description)

		category := Classify(title, description, f.taxonomy, source.Category)

		draft := models.Article{
			Title:       title,
			Link:        link,
			Description: description,
			SourceName:  source.Name,
			ContentType: source.ContentType,
			Category:    category,
			PublishedAt: NormalizeDate(item, f.now()),
			FetchedAt:   fetchedAt,
		}

		if source.ContentType == config.ContentTypePodcast {
			if len(item.Enclosures) > 0 {
				draft.AudioURL = item.Enclosures[0].URL
			}
			if item.ITunesExt != nil {
				draft.AudioDuration = item.ITunesExt.Duration
			}
		}

		drafts = append(drafts, draft)
		stats.Fetched++
	}

	log.WithFields(log.Fields{
		"source":  source.Name,
		"entries": len(feed.Items),
		"usable":  stats.Fetched,
	}).Info("Fetched source")

	return drafts, stats
}
