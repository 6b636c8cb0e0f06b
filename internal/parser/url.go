package parser

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// MaxKeywordParts is the most hyphen-separated parts a segment may have.
	MaxKeywordParts = 5
	// MaxSegments is the most path segments a URL may have.
	MaxSegments = 8
)

var (
	numericSegment = regexp.MustCompile(`^\d+$`)
	numericPage    = regexp.MustCompile(`^\d+\.htm(l)?`)
)

// ClassifyURL applies the ID, keyword and nesting rules to a page URL.
func ClassifyURL(rawURL string) URLShape {
	segments := pathSegments(rawURL)
	shape := URLShape{Segments: segments}

	for i, seg := range segments {
		if numericSegment.MatchString(seg) || (i == len(segments)-1 && numericPage.MatchString(seg)) {
			shape.HasID = true
		}
		if keywordParts(seg) > MaxKeywordParts {
			shape.ExcessiveKeywords = true
		}
	}
	if shape.HasID {
		shape.IDKey = IDKey(rawURL)
	}

	shape.DeepNesting = len(segments) > MaxSegments
	return shape
}

// IDKey rewrites every purely numeric segment that is followed by a "/"
// to "id". A trailing segment such as "1234" or "1234.html" is kept as is.
func IDKey(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	for i := 0; i < len(parts)-1; i++ {
		if numericSegment.MatchString(parts[i]) {
			parts[i] = "id"
		}
	}
	return strings.Join(parts, "/")
}

// pathSegments returns the non-empty segments of the URL path.
func pathSegments(rawURL string) []string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// keywordParts counts the hyphen-separated parts of a segment, ignoring
// trailing empty parts.
func keywordParts(segment string) int {
	parts := strings.Split(segment, "-")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return len(parts)
}
