// Package parser extracts head metadata from fetched pages and classifies
// page URLs.
package parser

import (
	"regexp"
)

var (
	headPattern  = regexp.MustCompile(`(?s)<head>(.*?)</head>`)
	titlePattern = regexp.MustCompile(`<title>(.*?)</title>`)
	descPattern  = regexp.MustCompile(
		`<meta\s+name=["']description["']\s+content=["'](.*?)["']\s*/>` +
			`|<meta\s+content=["'](.*?)["']\s+name=["']description["']\s*/>`)
)

// PatternExtractor finds head values with regular expressions. Matching is
// case-sensitive and takes the first occurrence; the description must be
// written as a self-closing tag with name and content in either order.
type PatternExtractor struct{}

// NewPatternExtractor creates a pattern extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract implements Extractor.
func (p *PatternExtractor) Extract(body []byte) Head {
	m := headPattern.FindSubmatch(body)
	if m == nil {
		return Head{}
	}
	head := m[1]

	h := Head{Found: true}

	if t := titlePattern.FindSubmatch(head); t != nil {
		h.TitleFound = true
		h.Title = string(t[1])
	}

	if idx := descPattern.FindSubmatchIndex(head); idx != nil {
		h.DescriptionFound = true
		if idx[2] >= 0 {
			h.Description = string(head[idx[2]:idx[3]])
		} else {
			h.Description = string(head[idx[4]:idx[5]])
		}
	}

	return h
}
