// Package output renders a finished audit as a report.
package output

import (
	"fmt"
	"io"

	"github.com/PentesterFlow/seochecker/internal/state"
)

// Report formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Writer defines the interface for report writers.
type Writer interface {
	// WriteAudit renders the complete audit.
	WriteAudit(audit *state.Audit) error

	// WriteMessage writes a single line outside of any audit, such as the
	// notice printed when no sitemap exists.
	WriteMessage(msg string) error
}

// Config holds output configuration.
type Config struct {
	Format   string `yaml:"format" json:"format"`
	FilePath string `yaml:"file_path" json:"file_path"`
	Pretty   bool   `yaml:"pretty" json:"pretty"`
}

// NewWriter creates a writer for the configured format. An empty format
// selects text.
func NewWriter(w io.Writer, config Config) (Writer, error) {
	switch config.Format {
	case "", FormatText:
		return NewTextWriter(w), nil
	case FormatMarkdown:
		return NewMarkdownWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, config.Pretty), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", config.Format)
	}
}

// ValidFormat reports whether format names a known writer.
func ValidFormat(format string) bool {
	switch format {
	case "", FormatText, FormatMarkdown, FormatJSON:
		return true
	}
	return false
}
