package models

import "time"

// TimeLayout is the canonical timestamp format stored in the database.
// Lexical sort on this layout equals chronological sort.
const TimeLayout = "2006-01-02 15:04:05"

// Article is the persisted unit, covering news articles, podcast episodes
// and social posts alike. The link is the dedup key: an article is written
// once on first sight and never mutated by the ingestion path afterwards.
type Article struct {
	Id          int64  `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	SourceName  string `json:"sourceName"`
	ContentType string `json:"contentType"`
	Category    string `json:"category"`
	// PublishedAt is normally TimeLayout formatted. Entries whose dates
	// could not be parsed keep the raw feed string instead.
	PublishedAt string `json:"publishedAt"`
	FetchedAt   string `json:"fetchedAt"`

	// Podcast episodes only
	AudioURL      string `json:"audioUrl,omitempty"`
	AudioDuration string `json:"audioDuration,omitempty"`

	// Reserved extension points, persisted with inert defaults
	SentimentScore float64 `json:"sentimentScore"`
	IsTrending     bool    `json:"isTrending"`
}

// SourceStats counts the outcome of ingesting a single source.
type SourceStats struct {
	Fetched int `json:"fetched"`
	Saved   int `json:"saved"`
	Errors  int `json:"errors"`
}

// Add accumulates the counters of another stats value.
func (s *SourceStats) Add(other SourceStats) {
	s.Fetched += other.Fetched
	s.Saved += other.Saved
	s.Errors += other.Errors
}

// ClassSummary aggregates stats for one content class within a run.
type ClassSummary struct {
	SourcesChecked int `json:"sourcesChecked"`
	Fetched        int `json:"fetched"`
	Saved          int `json:"saved"`
	Errors         int `json:"errors"`
}

// RunSummary is the result of a full ingestion run. It is always produced,
// even when every source failed.
type RunSummary struct {
	RunID          string                  `json:"runId"`
	StartedAt      time.Time               `json:"startedAt"`
	Duration       time.Duration           `json:"duration"`
	TotalFetched   int                     `json:"totalFetched"`
	TotalSaved     int                     `json:"totalSaved"`
	TotalErrors    int                     `json:"totalErrors"`
	SourcesChecked int                     `json:"sourcesChecked"`
	ByContentType  map[string]ClassSummary `json:"byContentType"`
}

// NameCount is a grouped count row, e.g. articles per category or source.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
