package output

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/PentesterFlow/seochecker/internal/state"
)

const (
	// maxListed is how many URLs a truncated block shows.
	maxListed = 5
	// truncateAbove is the group size beyond which a block is truncated.
	truncateAbove = 6
)

// TextWriter renders the plain-text report.
type TextWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{writer: w}
}

// WriteAudit implements Writer.
func (t *TextWriter) WriteAudit(audit *state.Audit) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	bw := bufio.NewWriter(t.writer)
	for _, g := range BuildReport(audit).Groups {
		if _, err := bw.WriteString(Block(g.URLs, g.Suffix)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteMessage implements Writer.
func (t *TextWriter) WriteMessage(msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := io.WriteString(t.writer, msg+"\n")
	return err
}

// Block renders one report block: the URLs joined by ",\n", an "and ..."
// marker when the list was truncated, the suffix and a blank line.
func Block(urls []string, suffix string) string {
	shown := urls
	truncated := len(urls) > truncateAbove
	if truncated {
		shown = urls[:maxListed]
	}

	var b strings.Builder
	b.WriteString(strings.Join(shown, ",\n"))
	if truncated {
		b.WriteString(" and ...")
	}
	b.WriteString(" ")
	b.WriteString(suffix)
	b.WriteString("\n\n")
	return b.String()
}
