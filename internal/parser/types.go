package parser

import "fmt"

// Extractor kinds accepted by NewExtractor.
const (
	ExtractorPattern = "pattern"
	ExtractorDOM     = "dom"
)

// Head holds the SEO-relevant values pulled from a page's <head>.
type Head struct {
	// Found is false when the page has no head section at all.
	Found bool

	Title      string
	TitleFound bool

	Description      string
	DescriptionFound bool
}

// HasTitle reports whether the page has a non-empty title.
func (h Head) HasTitle() bool {
	return h.Found && h.TitleFound && h.Title != ""
}

// HasDescription reports whether the page declares a meta description.
// An empty content attribute still counts.
func (h Head) HasDescription() bool {
	return h.Found && h.DescriptionFound
}

// Extractor pulls head values out of a page body.
type Extractor interface {
	Extract(body []byte) Head
}

// NewExtractor returns the extractor registered under kind. An empty kind
// selects the pattern extractor.
func NewExtractor(kind string) (Extractor, error) {
	switch kind {
	case "", ExtractorPattern:
		return NewPatternExtractor(), nil
	case ExtractorDOM:
		return NewDOMExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want %s or %s)", kind, ExtractorPattern, ExtractorDOM)
	}
}

// URLShape is the structural classification of a page URL.
type URLShape struct {
	Segments []string

	HasID bool
	// IDKey collapses sibling ID pages onto one entry. Only set when HasID.
	IDKey string

	ExcessiveKeywords bool
	DeepNesting       bool
}

// PageResult is everything the analyzer concluded about one page.
type PageResult struct {
	URL   string
	Head  Head
	Shape URLShape
}
