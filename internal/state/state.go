// Package state holds the per-run audit state: the findings collected while
// pages are analyzed and the seen set used during sitemap resolution.
package state

import (
	"sync"
	"time"
)

// Audit accumulates the findings of one run. It is created empty, only
// ever appended to, and read once by the report writer.
type Audit struct {
	mu sync.Mutex

	BaseURL   string
	StartedAt time.Time

	unreachable       []string
	noTitle           []string
	noDescription     []string
	excessiveKeywords []string
	deepNesting       []string

	titles       *Index
	descriptions *Index
	idURLs       *KeyedURLs

	analyzed int
}

// NewAudit creates the audit for baseURL.
func NewAudit(baseURL string) *Audit {
	return &Audit{
		BaseURL:      baseURL,
		StartedAt:    time.Now(),
		titles:       NewIndex(),
		descriptions: NewIndex(),
		idURLs:       NewKeyedURLs(),
	}
}

// AddUnreachable records a page whose fetch failed.
func (a *Audit) AddUnreachable(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unreachable = append(a.unreachable, url)
}

// MarkAnalyzed counts a successfully fetched page.
func (a *Audit) MarkAnalyzed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.analyzed++
}

// AddNoTitle records a page without a usable title.
func (a *Audit) AddNoTitle(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.noTitle = append(a.noTitle, url)
}

// AddNoDescription records a page without a meta description.
func (a *Audit) AddNoDescription(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.noDescription = append(a.noDescription, url)
}

// AddTitle files url under title.
func (a *Audit) AddTitle(title, url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.titles.Add(title, url)
}

// AddDescription files url under description.
func (a *Audit) AddDescription(description, url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.descriptions.Add(description, url)
}

// SetIDURL records url as the representative for a normalized ID key.
func (a *Audit) SetIDURL(key, url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.idURLs.Set(key, url)
}

// AddExcessiveKeywords records a URL with an over-hyphenated segment.
func (a *Audit) AddExcessiveKeywords(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.excessiveKeywords = append(a.excessiveKeywords, url)
}

// AddDeepNesting records a URL with too many path segments.
func (a *Audit) AddDeepNesting(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deepNesting = append(a.deepNesting, url)
}

// Unreachable returns pages whose fetch failed, in visit order.
func (a *Audit) Unreachable() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clone(a.unreachable)
}

// NoTitle returns pages without a title.
func (a *Audit) NoTitle() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clone(a.noTitle)
}

// NoDescription returns pages without a description.
func (a *Audit) NoDescription() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clone(a.noDescription)
}

// ExcessiveKeywords returns URLs flagged for hyphenated keyword stuffing.
func (a *Audit) ExcessiveKeywords() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clone(a.excessiveKeywords)
}

// DeepNesting returns URLs flagged for deep nesting.
func (a *Audit) DeepNesting() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clone(a.deepNesting)
}

// Titles returns every title bucket in first-seen order.
func (a *Audit) Titles() []Bucket {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.titles.Buckets()
}

// Descriptions returns every description bucket in first-seen order.
func (a *Audit) Descriptions() []Bucket {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.descriptions.Buckets()
}

// DuplicateTitles returns titles shared by more than one page.
func (a *Audit) DuplicateTitles() []Bucket {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.titles.Duplicates()
}

// DuplicateDescriptions returns descriptions shared by more than one page.
func (a *Audit) DuplicateDescriptions() []Bucket {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.descriptions.Duplicates()
}

// IDURLs returns the representative URL of each normalized ID key.
func (a *Audit) IDURLs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.idURLs.Values()
}

// IDKeys returns the normalized ID keys in first-insertion order.
func (a *Audit) IDKeys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.idURLs.Keys()
}

// Stats returns finding counts for the run summary.
func (a *Audit) Stats() AuditStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return AuditStats{
		PagesAnalyzed:     a.analyzed,
		Unreachable:       len(a.unreachable),
		NoTitle:           len(a.noTitle),
		NoDescription:     len(a.noDescription),
		DuplicateTitles:   len(a.titles.Duplicates()),
		DuplicateDescs:    len(a.descriptions.Duplicates()),
		IDURLs:            a.idURLs.Len(),
		ExcessiveKeywords: len(a.excessiveKeywords),
		DeepNesting:       len(a.deepNesting),
	}
}

// HasFindings reports whether the audit flagged anything.
func (a *Audit) HasFindings() bool {
	s := a.Stats()
	return s.Unreachable+s.NoTitle+s.NoDescription+s.DuplicateTitles+
		s.DuplicateDescs+s.IDURLs+s.ExcessiveKeywords+s.DeepNesting > 0
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
