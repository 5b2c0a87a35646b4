package db

import (
	"context"
	"database/sql"

	"adpulse/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// Writer owns the single write connection to the article store.
type Writer struct {
	db *sql.DB
}

// NewWriter opens the store for writing. A store that cannot be opened is
// fatal for the caller: nothing can be persisted without it.
func NewWriter(database string) (*Writer, error) {
	db, err := connection(database)
	if err != nil {
		return nil, err
	}
	return &Writer{db: db}, nil
}

// Close closes the underlying connection.
func (writer *Writer) Close() error {
	return writer.db.Close()
}

// SaveArticle inserts an article unless its link is already stored. Returns
// true when a new row was written. A duplicate link is the expected
// non-exceptional outcome of refetching and reports false, not an error.
func (writer *Writer) SaveArticle(ctx context.Context, article models.Article) (bool, error) {
	insert := sqlbuilder.SQLite.NewInsertBuilder()
	insert.InsertIgnoreInto("articles").Cols(
		"title", "link", "description", "source_name", "content_type",
		"category", "published_at", "fetched_at", "audio_url",
		"audio_duration", "sentiment_score", "is_trending",
	).Values(
		article.Title, article.Link, article.Description, article.SourceName,
		article.ContentType, article.Category, article.PublishedAt,
		article.FetchedAt, article.AudioURL, article.AudioDuration,
		article.SentimentScore, article.IsTrending,
	)

	query, args := insert.Build()
	res, err := writer.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
