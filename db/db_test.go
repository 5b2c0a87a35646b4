package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"adpulse/db"
	"adpulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (string, *db.Writer, *db.Reader) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Migrate(dbPath))

	writer, err := db.NewWriter(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { writer.Close() })

	reader, err := db.NewReader(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })

	return dbPath, writer, reader
}

func article(link string) models.Article {
	return models.Article{
		Title:       "Some headline",
		Link:        link,
		Description: "Some description",
		SourceName:  "Test Source",
		ContentType: "news",
		Category:    "adtech",
		PublishedAt: "2026-02-16 10:30:00",
		FetchedAt:   "2026-02-18 12:00:00",
	}
}

func TestSaveArticleDedup(t *testing.T) {
	_, writer, reader := setup(t)
	ctx := context.Background()

	saved, err := writer.SaveArticle(ctx, article("https://example.com/a"))
	require.NoError(t, err)
	assert.True(t, saved)

	// Same link again: a no-op, not an error, even with different fields.
	dup := article("https://example.com/a")
	dup.Title = "Rewritten headline"
	saved, err = writer.SaveArticle(ctx, dup)
	require.NoError(t, err)
	assert.False(t, saved)

	count, err := reader.CountArticles()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The first write wins; refetches never mutate a stored article.
	articles, err := reader.LatestArticles(10, "", "")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Some headline", articles[0].Title)
}

func TestReaderQueries(t *testing.T) {
	_, writer, reader := setup(t)
	ctx := context.Background()

	older := article("https://example.com/privacy")
	older.Title = "Cookieless consent strategies"
	older.Category = "privacy"
	older.PublishedAt = "2026-02-14 09:00:00"
	_, err := writer.SaveArticle(ctx, older)
	require.NoError(t, err)

	newer := article("https://example.com/ctv")
	newer.Title = "Streaming ad spend climbs"
	newer.Category = "ctv"
	newer.SourceName = "Other Source"
	newer.PublishedAt = "2026-02-17 09:00:00"
	_, err = writer.SaveArticle(ctx, newer)
	require.NoError(t, err)

	episode := article("https://example.com/ep1")
	episode.Title = "Podcast on retail media"
	episode.ContentType = "podcast"
	episode.Category = "retail_media"
	episode.PublishedAt = "2026-02-16 06:00:00"
	episode.AudioURL = "https://cdn.example.com/ep1.mp3"
	episode.AudioDuration = "31:07"
	_, err = writer.SaveArticle(ctx, episode)
	require.NoError(t, err)

	t.Run("latest ordered newest first", func(t *testing.T) {
		articles, err := reader.LatestArticles(10, "", "")
		require.NoError(t, err)
		require.Len(t, articles, 3)
		assert.Equal(t, "https://example.com/ctv", articles[0].Link)
		assert.Equal(t, "https://example.com/privacy", articles[2].Link)
	})

	t.Run("filter by content type", func(t *testing.T) {
		articles, err := reader.LatestArticles(10, "podcast", "")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "https://cdn.example.com/ep1.mp3", articles[0].AudioURL)
		assert.Equal(t, "31:07", articles[0].AudioDuration)
	})

	t.Run("filter by category", func(t *testing.T) {
		articles, err := reader.LatestArticles(10, "", "privacy")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "Cookieless consent strategies", articles[0].Title)
	})

	t.Run("search over title and description", func(t *testing.T) {
		articles, err := reader.SearchArticles("streaming", 10)
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "https://example.com/ctv", articles[0].Link)

		articles, err = reader.SearchArticles("description", 10)
		require.NoError(t, err)
		assert.Len(t, articles, 3)
	})

	t.Run("date range", func(t *testing.T) {
		articles, err := reader.ArticlesByDateRange("2026-02-15 00:00:00", "2026-02-16 23:59:59")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "https://example.com/ep1", articles[0].Link)
	})

	t.Run("counts per category", func(t *testing.T) {
		counts, err := reader.CountByCategory()
		require.NoError(t, err)
		assert.Len(t, counts, 3)
		for _, nc := range counts {
			assert.Equal(t, int64(1), nc.Count)
		}
	})

	t.Run("counts per source", func(t *testing.T) {
		counts, err := reader.CountBySource()
		require.NoError(t, err)
		require.Len(t, counts, 2)
		// Largest group first
		assert.Equal(t, "Test Source", counts[0].Name)
		assert.Equal(t, int64(2), counts[0].Count)
	})
}

func TestTidy(t *testing.T) {
	dbPath, writer, reader := setup(t)
	ctx := context.Background()

	stale := article("https://example.com/stale")
	stale.PublishedAt = "2020-01-01 00:00:00"
	_, err := writer.SaveArticle(ctx, stale)
	require.NoError(t, err)

	fresh := article("https://example.com/fresh")
	fresh.PublishedAt = "2099-01-01 00:00:00"
	_, err = writer.SaveArticle(ctx, fresh)
	require.NoError(t, err)

	removed, err := db.Tidy(dbPath, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := reader.CountArticles()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
