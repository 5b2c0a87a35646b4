package ingest

import (
	"strings"
	"time"

	"adpulse/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Feed summaries routinely arrive as HTML fragments. Anything longer than
// maxDescription runes is cut and marked with an ellipsis.
const maxDescription = 500

// CleanText strips markup from a feed summary and returns plain text:
// tags removed, entities decoded, whitespace runs collapsed to single
// spaces, edges trimmed. Total over arbitrary input; empty input yields "".
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}

	// Collapses all unicode whitespace, including the NBSP that entity
	// decoding produces from &nbsp;.
	text = strings.Join(strings.Fields(text), " ")

	if runes := []rune(text); len(runes) > maxDescription {
		text = string(runes[:maxDescription-3]) + "..."
	}

	return text
}

// NormalizeDate reconciles the timestamp of a feed entry into the sortable
// models.TimeLayout format. Precedence: parsed publication date, parsed
// update date, the raw publication string as-is, and finally now. Never
// fails.
func NormalizeDate(item *gofeed.Item, now time.Time) string {
	if item != nil {
		if item.PublishedParsed != nil {
			return item.PublishedParsed.UTC().Format(models.TimeLayout)
		}
		if item.UpdatedParsed != nil {
			return item.UpdatedParsed.UTC().Format(models.TimeLayout)
		}
		// Unparseable date string: keep it rather than lose it. Sort order
		// may be imperfect for these entries.
		if item.Published != "" {
			return item.Published
		}
	}
	return now.UTC().Format(models.TimeLayout)
}
