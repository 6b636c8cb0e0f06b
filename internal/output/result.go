package output

import (
	"time"

	"github.com/PentesterFlow/seochecker/internal/state"
)

// Group kinds, in report order.
const (
	KindUnreachable          = "unreachable"
	KindNoTitle              = "no_title"
	KindNoDescription        = "no_description"
	KindDuplicateTitle       = "duplicate_title"
	KindDuplicateDescription = "duplicate_description"
	KindIDURL                = "id_url"
	KindExcessiveKeywords    = "excessive_keywords"
	KindDeepNesting          = "deep_nesting"
)

// Group is one block of the report: a set of URLs sharing a finding.
type Group struct {
	Kind string `json:"kind"`
	// Value is the shared title or description for duplicate groups.
	Value  string   `json:"value,omitempty"`
	Suffix string   `json:"message"`
	URLs   []string `json:"urls"`
}

// Report is the rendered view of an audit.
type Report struct {
	BaseURL   string           `json:"base_url"`
	StartedAt time.Time        `json:"started_at"`
	Stats     state.AuditStats `json:"stats"`
	Groups    []Group          `json:"groups"`
}

// BuildReport collects the non-empty groups of an audit in report order.
func BuildReport(audit *state.Audit) *Report {
	r := &Report{
		BaseURL:   audit.BaseURL,
		StartedAt: audit.StartedAt,
		Stats:     audit.Stats(),
		Groups:    make([]Group, 0),
	}

	add := func(kind, value, suffix string, urls []string) {
		if len(urls) == 0 {
			return
		}
		r.Groups = append(r.Groups, Group{Kind: kind, Value: value, Suffix: suffix, URLs: urls})
	}

	add(KindUnreachable, "", "are unreachable.", audit.Unreachable())
	add(KindNoTitle, "", "have no title.", audit.NoTitle())
	add(KindNoDescription, "", "have no description.", audit.NoDescription())
	for _, b := range audit.DuplicateTitles() {
		add(KindDuplicateTitle, b.Value, "have the same title '"+b.Value+"'.", b.URLs)
	}
	for _, b := range audit.DuplicateDescriptions() {
		add(KindDuplicateDescription, b.Value, "have the same description '"+b.Value+"'.", b.URLs)
	}
	add(KindIDURL, "", "use ID number in URL.", audit.IDURLs())
	add(KindExcessiveKeywords, "", "use excessive keywords in URL.", audit.ExcessiveKeywords())
	add(KindDeepNesting, "", "have deep nesting of subdirectories in URL.", audit.DeepNesting())

	return r
}
