package ingest

import (
	"strings"

	"adpulse/config"
)

// Classify scores the combined title and description against the taxonomy
// and returns the key of the category with the strictly highest number of
// keyword hits. Keywords match as case-insensitive substrings anywhere in
// the text ("attribution" matches inside "reattribution"). Ties keep the
// first category in taxonomy order that reached the top score.
//
// When nothing matches, the fallback (normally the source's configured
// default category) is returned instead, so auto-classification always
// takes priority over the source default.
func Classify(title, description string, taxonomy []config.Category, fallback string) string {
	text := strings.ToLower(title + " " + description)

	best := ""
	bestScore := 0

	for _, category := range taxonomy {
		score := 0
		for _, keyword := range category.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category.Key
		}
	}

	if bestScore == 0 {
		if fallback == "" {
			return config.CategoryGeneral
		}
		return fallback
	}

	return best
}
