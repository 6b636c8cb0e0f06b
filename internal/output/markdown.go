package output

import (
	"io"
	"strconv"
	"sync"

	"github.com/nao1215/markdown"

	"github.com/PentesterFlow/seochecker/internal/state"
)

var groupTitles = map[string]string{
	KindUnreachable:          "Unreachable pages",
	KindNoTitle:              "Missing title",
	KindNoDescription:        "Missing description",
	KindDuplicateTitle:       "Duplicate title",
	KindDuplicateDescription: "Duplicate description",
	KindIDURL:                "ID numbers in URL",
	KindExcessiveKeywords:    "Excessive keywords in URL",
	KindDeepNesting:          "Deep nesting in URL",
}

// MarkdownWriter renders the report as a Markdown document. Unlike the
// text report every URL of a group is listed.
type MarkdownWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewMarkdownWriter creates a markdown writer.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{writer: w}
}

// WriteAudit implements Writer.
func (m *MarkdownWriter) WriteAudit(audit *state.Audit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := BuildReport(audit)
	md := markdown.NewMarkdown(m.writer)

	md.H1("SEO Report")
	md.PlainText("")
	m.writeSummary(md, report)

	if len(report.Groups) == 0 {
		md.Tip("No SEO issues detected.")
		md.PlainText("")
		return md.Build()
	}

	for _, g := range report.Groups {
		title := groupTitles[g.Kind]
		if g.Value != "" {
			title += ": " + g.Value
		}
		md.H2(title)
		md.PlainText("")
		md.PlainText(strconv.Itoa(len(g.URLs)) + " URL(s) " + g.Suffix)
		md.PlainText("")
		md.BulletList(g.URLs...)
		md.PlainText("")
	}

	return md.Build()
}

func (m *MarkdownWriter) writeSummary(md *markdown.Markdown, report *Report) {
	s := report.Stats
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.BaseURL + "`"},
			{"Checked", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages analyzed", strconv.Itoa(s.PagesAnalyzed)},
			{"Unreachable", strconv.Itoa(s.Unreachable)},
			{"Duplicate titles", strconv.Itoa(s.DuplicateTitles)},
			{"Duplicate descriptions", strconv.Itoa(s.DuplicateDescs)},
		},
	})
	md.PlainText("")
}

// WriteMessage implements Writer.
func (m *MarkdownWriter) WriteMessage(msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	md := markdown.NewMarkdown(m.writer)
	md.PlainText(msg)
	return md.Build()
}
