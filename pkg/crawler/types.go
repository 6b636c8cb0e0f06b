package crawler

import (
	"time"

	"github.com/PentesterFlow/seochecker/internal/state"
)

// NoSitemapMessage is printed when a site exposes no usable sitemap.
const NoSitemapMessage = "Error: There is no sitemap.xml or sitemap.xml.gz"

// Extractor names accepted by Config.Extractor.
const (
	ExtractorPattern = "pattern"
	ExtractorDOM     = "dom"
)

// RateLimitConfig defines per-request pacing on top of the batch interval.
type RateLimitConfig struct {
	// RequestsPerSecond of zero disables per-request pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// OutputConfig defines output configuration.
type OutputConfig struct {
	Format   string `json:"format" yaml:"format"` // text, markdown, json
	FilePath string `json:"file_path" yaml:"file_path"`
	Pretty   bool   `json:"pretty" yaml:"pretty"`
}

// CheckStats summarizes a finished check for the run log.
type CheckStats struct {
	Target    string           `json:"target"`
	Locations int              `json:"locations"`
	Duration  time.Duration    `json:"duration"`
	Audit     state.AuditStats `json:"audit"`
}

// Fields flattens the stats for structured logging.
func (s CheckStats) Fields() map[string]interface{} {
	return map[string]interface{}{
		"target":             s.Target,
		"locations":          s.Locations,
		"duration_ms":        s.Duration.Milliseconds(),
		"pages_analyzed":     s.Audit.PagesAnalyzed,
		"unreachable":        s.Audit.Unreachable,
		"no_title":           s.Audit.NoTitle,
		"no_description":     s.Audit.NoDescription,
		"duplicate_titles":   s.Audit.DuplicateTitles,
		"duplicate_descs":    s.Audit.DuplicateDescs,
		"id_urls":            s.Audit.IDURLs,
		"excessive_keywords": s.Audit.ExcessiveKeywords,
		"deep_nesting":       s.Audit.DeepNesting,
	}
}
