package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PentesterFlow/seochecker/internal/state"
)

// =============================================================================
// Extractor Tests
// =============================================================================

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		kind    string
		want    interface{}
		wantErr bool
	}{
		{"", &PatternExtractor{}, false},
		{ExtractorPattern, &PatternExtractor{}, false},
		{ExtractorDOM, &DOMExtractor{}, false},
		{"xpath", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := NewExtractor(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExtractor(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if !tt.wantErr && reflect.TypeOf(got) != reflect.TypeOf(tt.want) {
				t.Errorf("NewExtractor(%q) = %T, want %T", tt.kind, got, tt.want)
			}
		})
	}
}

func TestPatternExtractor_Extract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Head
	}{
		{
			name: "title and description",
			body: `<html><head><title>Home</title><meta name="description" content="Welcome" /></head></html>`,
			want: Head{Found: true, Title: "Home", TitleFound: true, Description: "Welcome", DescriptionFound: true},
		},
		{
			name: "content before name single quotes",
			body: "<head>\n<meta content='Reversed' name='description'/>\n</head>",
			want: Head{Found: true, Description: "Reversed", DescriptionFound: true},
		},
		{
			name: "head spans lines",
			body: "<html>\n<head>\n  <title>Multi</title>\n</head>\n<body></body></html>",
			want: Head{Found: true, Title: "Multi", TitleFound: true},
		},
		{
			name: "no head",
			body: `<html><body><title>Body title</title></body></html>`,
			want: Head{},
		},
		{
			name: "uppercase head is not matched",
			body: `<HTML><HEAD><TITLE>Loud</TITLE></HEAD></HTML>`,
			want: Head{},
		},
		{
			name: "empty title",
			body: `<head><title></title></head>`,
			want: Head{Found: true, TitleFound: true},
		},
		{
			name: "empty description content counts",
			body: `<head><meta name="description" content="" /></head>`,
			want: Head{Found: true, DescriptionFound: true},
		},
		{
			name: "non self-closing meta is not matched",
			body: `<head><meta name="description" content="Open"></head>`,
			want: Head{Found: true},
		},
		{
			name: "title outside head ignored",
			body: `<head></head><body><title>Late</title></body>`,
			want: Head{Found: true},
		},
		{
			name: "first head wins",
			body: `<head><title>One</title></head><head><title>Two</title></head>`,
			want: Head{Found: true, Title: "One", TitleFound: true},
		},
	}

	p := NewPatternExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Extract([]byte(tt.body)); got != tt.want {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDOMExtractor_Extract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Head
	}{
		{
			name: "title and description",
			body: `<html><head><title>Home</title><meta name="description" content="Welcome" /></head></html>`,
			want: Head{Found: true, Title: "Home", TitleFound: true, Description: "Welcome", DescriptionFound: true},
		},
		{
			name: "open meta and extra attributes",
			body: `<html><head><title>T</title><meta charset="utf-8"><meta data-x="1" NAME="Description" content="Open"></head></html>`,
			want: Head{Found: true, Title: "T", TitleFound: true, Description: "Open", DescriptionFound: true},
		},
		{
			name: "uppercase tags",
			body: `<HTML><HEAD><TITLE>Loud</TITLE></HEAD></HTML>`,
			want: Head{Found: true, Title: "Loud", TitleFound: true},
		},
		{
			name: "no head content",
			body: `<html><body><p>hello</p></body></html>`,
			want: Head{},
		},
		{
			name: "meta without content",
			body: `<html><head><title>T</title><meta name="description"></head></html>`,
			want: Head{Found: true, Title: "T", TitleFound: true},
		},
	}

	d := NewDOMExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Extract([]byte(tt.body)); got != tt.want {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractors_AgreeOnWellFormedPages(t *testing.T) {
	bodies := []string{
		`<html><head><title>A</title><meta name="description" content="B" /></head><body></body></html>`,
		`<html><head><meta content="only" name="description" /><title>X</title></head></html>`,
		`<html><head><title>No desc</title></head></html>`,
	}

	p, d := NewPatternExtractor(), NewDOMExtractor()
	for _, body := range bodies {
		if pg, dg := p.Extract([]byte(body)), d.Extract([]byte(body)); pg != dg {
			t.Errorf("pattern = %+v, dom = %+v for %s", pg, dg, body)
		}
	}
}

// =============================================================================
// URL Shape Tests
// =============================================================================

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantID    bool
		wantKey   string
		wantWords bool
		wantDeep  bool
	}{
		{
			name:    "numeric middle segment",
			url:     "https://example.com/products/1234/",
			wantID:  true,
			wantKey: "https://example.com/products/id/",
		},
		{
			name:    "numeric last segment kept in key",
			url:     "https://example.com/products/1234",
			wantID:  true,
			wantKey: "https://example.com/products/1234",
		},
		{
			name:    "numeric html page kept in key",
			url:     "https://example.com/news/1234.html",
			wantID:  true,
			wantKey: "https://example.com/news/1234.html",
		},
		{
			name:    "numeric htm page",
			url:     "https://example.com/news/99.htm",
			wantID:  true,
			wantKey: "https://example.com/news/99.htm",
		},
		{
			name: "digits inside a word",
			url:  "https://example.com/product-1234/",
		},
		{
			name: "numeric html not last",
			url:  "https://example.com/1234.html/more",
		},
		{
			name: "port is not an id",
			url:  "https://example.com:8080/about",
		},
		{
			name:      "six hyphenated parts",
			url:       "https://example.com/blog/this-is-a-very-long-keyword-stuffed-slug",
			wantWords: true,
		},
		{
			name: "five hyphenated parts",
			url:  "https://example.com/blog/one-two-three-four-five",
		},
		{
			name: "trailing hyphens ignored",
			url:  "https://example.com/blog/one-two-three-four-five---",
		},
		{
			name:     "nine segments",
			url:      "https://example.com/a/b/c/d/e/f/g/h/i",
			wantDeep: true,
		},
		{
			name: "eight segments",
			url:  "https://example.com/a/b/c/d/e/f/g/h",
		},
		{
			name: "eight segments trailing slash",
			url:  "https://example.com/a/b/c/d/e/f/g/h/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyURL(tt.url)
			if got.HasID != tt.wantID {
				t.Errorf("HasID = %v, want %v", got.HasID, tt.wantID)
			}
			if got.IDKey != tt.wantKey {
				t.Errorf("IDKey = %q, want %q", got.IDKey, tt.wantKey)
			}
			if got.ExcessiveKeywords != tt.wantWords {
				t.Errorf("ExcessiveKeywords = %v, want %v", got.ExcessiveKeywords, tt.wantWords)
			}
			if got.DeepNesting != tt.wantDeep {
				t.Errorf("DeepNesting = %v, want %v", got.DeepNesting, tt.wantDeep)
			}
		})
	}
}

func TestIDKey_CollapsesSiblings(t *testing.T) {
	a := IDKey("https://example.com/users/1/profile")
	b := IDKey("https://example.com/users/42/profile")

	if a != b {
		t.Errorf("IDKey siblings differ: %q vs %q", a, b)
	}
	if a != "https://example.com/users/id/profile" {
		t.Errorf("IDKey = %q", a)
	}
}

func TestKeywordParts(t *testing.T) {
	tests := []struct {
		segment string
		want    int
	}{
		{"", 0},
		{"plain", 1},
		{"a-b", 2},
		{"a-b-", 2},
		{"-a", 2},
		{"a--b", 3},
	}
	for _, tt := range tests {
		if got := keywordParts(tt.segment); got != tt.want {
			t.Errorf("keywordParts(%q) = %d, want %d", tt.segment, got, tt.want)
		}
	}
}

// =============================================================================
// Analyzer Tests
// =============================================================================

func page(title, desc string) []byte {
	var b strings.Builder
	b.WriteString("<html><head>")
	if title != "" {
		b.WriteString("<title>" + title + "</title>")
	}
	if desc != "" {
		b.WriteString(`<meta name="description" content="` + desc + `" />`)
	}
	b.WriteString("</head><body></body></html>")
	return []byte(b.String())
}

func TestAnalyzer_GroupsExactTitles(t *testing.T) {
	audit := state.NewAudit("https://example.com")
	a := NewAnalyzer(nil, nil)

	a.Analyze(audit, "https://example.com/a", page("Shop", "d1"))
	a.Analyze(audit, "https://example.com/b", page("Shop", "d2"))
	a.Analyze(audit, "https://example.com/c", page("shop", "d3"))
	a.Analyze(audit, "https://example.com/d", page("Shop ", "d4"))

	titles := audit.Titles()
	if len(titles) != 3 {
		t.Fatalf("got %d title buckets, want 3: %+v", len(titles), titles)
	}
	if !reflect.DeepEqual(titles[0].URLs, []string{"https://example.com/a", "https://example.com/b"}) {
		t.Errorf("Shop bucket = %v", titles[0].URLs)
	}
	if dups := audit.DuplicateDescriptions(); len(dups) != 0 {
		t.Errorf("DuplicateDescriptions() = %+v, want none", dups)
	}
}

func TestAnalyzer_NoHead(t *testing.T) {
	audit := state.NewAudit("https://example.com")
	a := NewAnalyzer(NewPatternExtractor(), nil)

	res := a.Analyze(audit, "https://example.com/bare", []byte("<html><body>hi</body></html>"))

	if res.Head.Found {
		t.Error("Head.Found should be false")
	}
	if !reflect.DeepEqual(audit.NoTitle(), []string{"https://example.com/bare"}) {
		t.Errorf("NoTitle() = %v", audit.NoTitle())
	}
	if !reflect.DeepEqual(audit.NoDescription(), []string{"https://example.com/bare"}) {
		t.Errorf("NoDescription() = %v", audit.NoDescription())
	}
	if len(audit.Titles()) != 0 || len(audit.Descriptions()) != 0 {
		t.Error("page without head must not be bucketed")
	}
}

func TestAnalyzer_TitleAndDescriptionExclusive(t *testing.T) {
	audit := state.NewAudit("https://example.com")
	a := NewAnalyzer(nil, nil)

	a.Analyze(audit, "https://example.com/t", page("Only title", ""))
	a.Analyze(audit, "https://example.com/d", page("", "Only description"))

	if !reflect.DeepEqual(audit.NoDescription(), []string{"https://example.com/t"}) {
		t.Errorf("NoDescription() = %v", audit.NoDescription())
	}
	if !reflect.DeepEqual(audit.NoTitle(), []string{"https://example.com/d"}) {
		t.Errorf("NoTitle() = %v", audit.NoTitle())
	}
	if len(audit.Titles()) != 1 || len(audit.Descriptions()) != 1 {
		t.Errorf("Titles = %+v, Descriptions = %+v", audit.Titles(), audit.Descriptions())
	}
}

func TestAnalyzer_URLShapeRunsWithoutHead(t *testing.T) {
	audit := state.NewAudit("https://example.com")
	a := NewAnalyzer(nil, nil)

	deep := "https://example.com/a/b/c/d/e/f/g/h/i"
	stuffed := "https://example.com/blog/this-is-a-very-long-keyword-stuffed-slug"
	id1 := "https://example.com/products/1/"
	id2 := "https://example.com/products/2/"

	for _, u := range []string{deep, stuffed, id1, id2} {
		a.Analyze(audit, u, []byte("no head here"))
	}

	if !reflect.DeepEqual(audit.DeepNesting(), []string{deep}) {
		t.Errorf("DeepNesting() = %v", audit.DeepNesting())
	}
	if !reflect.DeepEqual(audit.ExcessiveKeywords(), []string{stuffed}) {
		t.Errorf("ExcessiveKeywords() = %v", audit.ExcessiveKeywords())
	}
	if !reflect.DeepEqual(audit.IDKeys(), []string{"https://example.com/products/id/"}) {
		t.Errorf("IDKeys() = %v", audit.IDKeys())
	}
	if !reflect.DeepEqual(audit.IDURLs(), []string{id2}) {
		t.Errorf("IDURLs() = %v, want last writer", audit.IDURLs())
	}
	if audit.Stats().PagesAnalyzed != 4 {
		t.Errorf("PagesAnalyzed = %d, want 4", audit.Stats().PagesAnalyzed)
	}
}
