package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

// Content classes. Podcast is the only media class and gets enclosure
// extraction during ingestion; the rest only affect default categories
// and reporting.
const (
	ContentTypeNews       = "news"
	ContentTypePodcast    = "podcast"
	ContentTypeReddit     = "reddit"
	ContentTypeBluesky    = "bluesky"
	ContentTypeMastodon   = "mastodon"
	ContentTypeHackerNews = "hackernews"
	ContentTypeSubstack   = "substack"
)

//go:embed adpulse.toml
var defaultConfig []byte

// AppConfig holds process-wide settings.
type AppConfig struct {
	Name                 string `toml:"name"`
	Tagline              string `toml:"tagline"`
	Hostname             string `toml:"hostname"`
	Port                 int    `toml:"port"`
	Database             string `toml:"database"`
	FetchIntervalMinutes int    `toml:"fetch_interval_minutes"`
	RetentionDays        int    `toml:"retention_days"`
	StartupFetch         bool   `toml:"startup_fetch"`
	Workers              int    `toml:"workers"`
}

// Source describes one syndication endpoint. ContentType is stamped from
// the class list the source was configured under, not from the TOML itself.
type Source struct {
	Name        string `toml:"name"`
	URL         string `toml:"url"`
	Category    string `toml:"category"`
	ContentType string `toml:"-"`
}

// Sources groups the configured endpoints by content class.
type Sources struct {
	News       []Source `toml:"news"`
	Podcasts   []Source `toml:"podcasts"`
	Reddit     []Source `toml:"reddit"`
	Bluesky    []Source `toml:"bluesky"`
	Mastodon   []Source `toml:"mastodon"`
	HackerNews []Source `toml:"hackernews"`
	Substack   []Source `toml:"substack"`
}

// Category is one taxonomy entry. Slice order in the config decides
// classification tie-breaks, so the taxonomy is a slice, not a map.
type Category struct {
	Key         string   `toml:"key"`
	DisplayName string   `toml:"display_name"`
	Keywords    []string `toml:"keywords"`
}

// Config is the full application configuration. Loaded once at startup and
// passed explicitly; nothing in the codebase reads it through a global.
type Config struct {
	App        AppConfig  `toml:"app"`
	Sources    Sources    `toml:"sources"`
	Categories []Category `toml:"categories"`
}

// DefaultConfig returns the embedded configuration with the full ad
// industry source roster and taxonomy.
func DefaultConfig() (*Config, error) {
	var config Config
	if err := toml.Unmarshal(defaultConfig, &config); err != nil {
		return nil, fmt.Errorf("error parsing embedded config: %w", err)
	}
	return &config, nil
}

// LoadConfig reads configuration from path, or the embedded defaults when
// path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

// AllSources flattens the class lists into one ordered slice with the
// content type stamped on each source. This is the list the ingestion run
// iterates.
func (c *Config) AllSources() []Source {
	stamp := func(contentType string) func(Source, int) Source {
		return func(s Source, _ int) Source {
			s.ContentType = contentType
			if s.Category == "" {
				s.Category = CategoryGeneral
			}
			return s
		}
	}

	var all []Source
	all = append(all, lo.Map(c.Sources.News, stamp(ContentTypeNews))...)
	all = append(all, lo.Map(c.Sources.Podcasts, stamp(ContentTypePodcast))...)
	all = append(all, lo.Map(c.Sources.Reddit, stamp(ContentTypeReddit))...)
	all = append(all, lo.Map(c.Sources.Bluesky, stamp(ContentTypeBluesky))...)
	all = append(all, lo.Map(c.Sources.Mastodon, stamp(ContentTypeMastodon))...)
	all = append(all, lo.Map(c.Sources.HackerNews, stamp(ContentTypeHackerNews))...)
	all = append(all, lo.Map(c.Sources.Substack, stamp(ContentTypeSubstack))...)
	return all
}

// CategoryGeneral is the sentinel returned by classification when no
// taxonomy keyword matches. Sources without a configured default category
// fall back to it.
const CategoryGeneral = "general"

// DisplayName resolves a category key to its display name, falling back to
// the key itself for unknown categories.
func (c *Config) DisplayName(key string) string {
	if cat, ok := lo.Find(c.Categories, func(cat Category) bool { return cat.Key == key }); ok {
		return cat.DisplayName
	}
	return key
}

// HasCategory reports whether key is part of the configured taxonomy.
func (c *Config) HasCategory(key string) bool {
	return lo.ContainsBy(c.Categories, func(cat Category) bool { return cat.Key == key })
}
