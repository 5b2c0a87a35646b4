package db

import (
	"database/sql"
	"fmt"
	"time"

	"adpulse/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

var articleColumns = []string{
	"id", "title", "link", "description", "source_name", "content_type",
	"category", "published_at", "fetched_at", "audio_url", "audio_duration",
	"sentiment_score", "is_trending",
}

// Reader serves all article queries over a read-only connection pool.
type Reader struct {
	db *sql.DB
}

// NewReader opens the store in read-only mode with settings tuned for
// concurrent readers.
func NewReader(database string) (*Reader, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?mode=ro&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", database))
	if err != nil {
		return nil, err
	}

	// Set connection pool settings for reader
	db.SetMaxOpenConns(4)            // Allow multiple concurrent readers
	db.SetMaxIdleConns(2)            // Keep some connections ready
	db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -32000; -- 32MB cache
		PRAGMA temp_store = MEMORY;
		PRAGMA mmap_size = 268435456; -- 256MB memory mapped I/O
	`); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	return &Reader{db: db}, nil
}

// Close closes the underlying connection pool.
func (reader *Reader) Close() error {
	return reader.db.Close()
}

// LatestArticles returns the most recent articles, optionally filtered by
// content type and/or category. Empty filter values match everything.
func (reader *Reader) LatestArticles(limit int, contentType string, category string) ([]models.Article, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(articleColumns...).From("articles")

	if contentType != "" {
		sb.Where(sb.Equal("content_type", contentType))
	}
	if category != "" {
		sb.Where(sb.Equal("category", category))
	}

	sb.OrderBy("published_at").Desc()
	sb.Limit(limit)

	return reader.queryArticles(sb)
}

// SearchArticles performs a substring search over titles and descriptions.
func (reader *Reader) SearchArticles(term string, limit int) ([]models.Article, error) {
	pattern := "%" + term + "%"

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(articleColumns...).From("articles")
	sb.Where(sb.Or(sb.Like("title", pattern), sb.Like("description", pattern)))
	sb.OrderBy("published_at").Desc()
	sb.Limit(limit)

	return reader.queryArticles(sb)
}

// ArticlesByDateRange returns articles published between start and end,
// both in the models.TimeLayout format (prefixes like "2026-02-16" work
// too since the layout sorts lexically).
func (reader *Reader) ArticlesByDateRange(start string, end string) ([]models.Article, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(articleColumns...).From("articles")
	sb.Where(sb.Between("published_at", start, end))
	sb.OrderBy("published_at").Desc()

	return reader.queryArticles(sb)
}

// CountArticles returns the total number of stored articles.
func (reader *Reader) CountArticles() (int64, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("COUNT(*)").From("articles")

	query, args := sb.Build()

	var count int64
	if err := reader.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query error: %w", err)
	}
	return count, nil
}

// CountByCategory returns article counts per category, largest first.
func (reader *Reader) CountByCategory() ([]models.NameCount, error) {
	return reader.countGrouped("category")
}

// CountBySource returns article counts per source name, largest first.
func (reader *Reader) CountBySource() ([]models.NameCount, error) {
	return reader.countGrouped("source_name")
}

func (reader *Reader) countGrouped(column string) ([]models.NameCount, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(column, "COUNT(*) AS count").From("articles")
	sb.GroupBy(column)
	sb.OrderBy("count").Desc()

	query, args := sb.Build()

	rows, err := reader.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var counts []models.NameCount
	for rows.Next() {
		var nc models.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		counts = append(counts, nc)
	}
	return counts, rows.Err()
}

func (reader *Reader) queryArticles(sb *sqlbuilder.SelectBuilder) ([]models.Article, error) {
	query, args := sb.Build()

	rows, err := reader.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		var description, audioURL, audioDuration sql.NullString
		if err := rows.Scan(
			&a.Id, &a.Title, &a.Link, &description, &a.SourceName,
			&a.ContentType, &a.Category, &a.PublishedAt, &a.FetchedAt,
			&audioURL, &audioDuration, &a.SentimentScore, &a.IsTrending,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		a.Description = description.String
		a.AudioURL = audioURL.String
		a.AudioDuration = audioDuration.String
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
