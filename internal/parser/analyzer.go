package parser

import (
	"github.com/PentesterFlow/seochecker/internal/logger"
	"github.com/PentesterFlow/seochecker/internal/state"
)

// Analyzer records the findings for successfully fetched pages.
type Analyzer struct {
	extractor Extractor
	logger    *logger.Logger
}

// NewAnalyzer creates an analyzer. A nil extractor selects the pattern
// extractor.
func NewAnalyzer(extractor Extractor, log *logger.Logger) *Analyzer {
	if extractor == nil {
		extractor = NewPatternExtractor()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Analyzer{
		extractor: extractor,
		logger:    log.WithComponent("parser"),
	}
}

// Analyze extracts head values from body, classifies pageURL and files
// the results into audit.
func (a *Analyzer) Analyze(audit *state.Audit, pageURL string, body []byte) PageResult {
	res := PageResult{
		URL:   pageURL,
		Head:  a.extractor.Extract(body),
		Shape: ClassifyURL(pageURL),
	}
	audit.MarkAnalyzed()

	h := res.Head
	switch {
	case !h.Found:
		audit.AddNoTitle(pageURL)
		audit.AddNoDescription(pageURL)
	default:
		if h.HasTitle() {
			audit.AddTitle(h.Title, pageURL)
		} else {
			audit.AddNoTitle(pageURL)
		}
		if h.HasDescription() {
			audit.AddDescription(h.Description, pageURL)
		} else {
			audit.AddNoDescription(pageURL)
		}
	}

	s := res.Shape
	if s.HasID {
		audit.SetIDURL(s.IDKey, pageURL)
	}
	if s.ExcessiveKeywords {
		audit.AddExcessiveKeywords(pageURL)
	}
	if s.DeepNesting {
		audit.AddDeepNesting(pageURL)
	}

	a.logger.Debugf("%s: head=%t title=%t description=%t id=%t keywords=%t nesting=%t",
		pageURL, h.Found, h.HasTitle(), h.HasDescription(), s.HasID, s.ExcessiveKeywords, s.DeepNesting)

	return res
}
