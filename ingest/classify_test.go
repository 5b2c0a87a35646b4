package ingest_test

import (
	"testing"

	"adpulse/config"
	"adpulse/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cfg, err := config.DefaultConfig()
	require.NoError(t, err)
	taxonomy := cfg.Categories

	tests := []struct {
		name        string
		title       string
		description string
		fallback    string
		expected    string
	}{
		{
			name:     "multiple programmatic keywords",
			title:    "Prebid header bidding auction update",
			fallback: "general",
			expected: "programmatic",
		},
		{
			name:     "no keyword hits falls back to source default",
			title:    "Quarterly report",
			fallback: "adtech",
			expected: "adtech",
		},
		{
			name:     "no keyword hits and no fallback yields general",
			title:    "Quarterly report",
			fallback: "",
			expected: "general",
		},
		{
			name:        "keywords match case-insensitively",
			title:       "PRIVACY Sandbox and the COOKIE crackdown",
			description: "What GDPR consent means now",
			fallback:    "general",
			expected:    "privacy",
		},
		{
			name:     "keywords match as substrings",
			title:    "The reattribution problem and incrementality",
			fallback: "general",
			expected: "measurement",
		},
		{
			name:        "description contributes to the score",
			title:       "Weekly roundup",
			description: "Retail media networks from Instacart to Walmart Connect",
			fallback:    "general",
			expected:    "retail_media",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ingest.Classify(tt.title, tt.description, taxonomy, tt.fallback)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestClassifyTieBreak(t *testing.T) {
	taxonomy := []config.Category{
		{Key: "first", Keywords: []string{"alpha"}},
		{Key: "second", Keywords: []string{"beta", "gamma"}},
	}

	// One hit each: the earlier category keeps the lead.
	assert.Equal(t, "first", ingest.Classify("alpha beta", "", taxonomy, "general"))

	// A strictly higher score takes over regardless of order.
	assert.Equal(t, "second", ingest.Classify("alpha beta gamma", "", taxonomy, "general"))
}
