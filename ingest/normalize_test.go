package ingest_test

import (
	"strings"
	"testing"
	"time"

	"adpulse/ingest"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "plain text passes through",
			raw:      "No markup here",
			expected: "No markup here",
		},
		{
			name:     "tags removed and entity decoded",
			raw:      "<p>Cookies &amp; consent</p>",
			expected: "Cookies & consent",
		},
		{
			name:     "nested markup with link",
			raw:      `<div><a href="https://example.com">The Trade Desk</a> posts <b>record</b> quarter</div>`,
			expected: "The Trade Desk posts record quarter",
		},
		{
			name:     "whitespace runs collapse",
			raw:      "  too\n\n  much \t space  ",
			expected: "too much space",
		},
		{
			name:     "non-breaking space becomes a regular space",
			raw:      "retail&nbsp;media",
			expected: "retail media",
		},
		{
			name:     "quote and apostrophe entities",
			raw:      "&quot;cookieless&quot; isn&#39;t here &lt;yet&gt;",
			expected: `"cookieless" isn't here <yet>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ingest.CleanText(tt.raw))
		})
	}
}

func TestCleanTextTruncation(t *testing.T) {
	long := strings.Repeat("x", 600)

	cleaned := ingest.CleanText(long)

	assert.Len(t, cleaned, 500)
	assert.True(t, strings.HasSuffix(cleaned, "..."))
	assert.Equal(t, strings.Repeat("x", 497), strings.TrimSuffix(cleaned, "..."))

	// At the cap there is nothing to truncate.
	exact := strings.Repeat("y", 500)
	assert.Equal(t, exact, ingest.CleanText(exact))
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	published := time.Date(2026, 2, 16, 10, 30, 0, 0, time.UTC)
	updated := time.Date(2026, 2, 17, 8, 15, 0, 0, time.UTC)

	tests := []struct {
		name     string
		item     *gofeed.Item
		expected string
	}{
		{
			name:     "parsed publication date wins",
			item:     &gofeed.Item{PublishedParsed: &published, UpdatedParsed: &updated, Published: "whatever"},
			expected: "2026-02-16 10:30:00",
		},
		{
			name:     "parsed update date is second choice",
			item:     &gofeed.Item{UpdatedParsed: &updated, Published: "whatever"},
			expected: "2026-02-17 08:15:00",
		},
		{
			name:     "unparseable raw string passes through",
			item:     &gofeed.Item{Published: "three days after the solstice"},
			expected: "three days after the solstice",
		},
		{
			name:     "nothing present falls back to now",
			item:     &gofeed.Item{},
			expected: "2026-02-18 12:00:00",
		},
		{
			name:     "nil item falls back to now",
			item:     nil,
			expected: "2026-02-18 12:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ingest.NormalizeDate(tt.item, now))
		})
	}
}

func TestNormalizeDateConvertsToUTC(t *testing.T) {
	oslo := time.FixedZone("CET", 1*60*60)
	published := time.Date(2026, 2, 16, 11, 30, 0, 0, oslo)

	result := ingest.NormalizeDate(&gofeed.Item{PublishedParsed: &published}, time.Now())

	assert.Equal(t, "2026-02-16 10:30:00", result)
}
