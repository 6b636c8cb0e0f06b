package discovery

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	locPattern    = regexp.MustCompile(`<loc>(.*?)</loc>`)
	sitemapMarker = []byte("<sitemap>")
	gzipMagic     = []byte{0x1f, 0x8b}
)

// Document is a fetched sitemap after decompression.
type Document struct {
	URL  string
	Locs []string
	// Index is set when the document lists nested sitemaps rather than pages.
	Index bool
}

// ParseSitemap extracts the <loc> values of a sitemap body and reports
// whether the body is a sitemap index.
func ParseSitemap(sitemapURL string, body []byte) *Document {
	doc := &Document{
		URL:   sitemapURL,
		Index: bytes.Contains(body, sitemapMarker),
	}
	for _, m := range locPattern.FindAllSubmatch(body, -1) {
		doc.Locs = append(doc.Locs, string(m[1]))
	}
	return doc
}

// IsCompressed reports whether a sitemap URL names a gzip document.
func IsCompressed(sitemapURL string) bool {
	return strings.HasSuffix(sitemapURL, "gz")
}

// IsGzip reports whether body starts with the gzip magic bytes. A .gz
// sitemap served with Content-Encoding: gzip arrives already decoded.
func IsGzip(body []byte) bool {
	return bytes.HasPrefix(body, gzipMagic)
}

// Gunzip decompresses a gzip body. Output beyond limit bytes is an error
// rather than a silently truncated document; limit <= 0 means no limit.
func Gunzip(body []byte, limit int64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	if limit <= 0 {
		return io.ReadAll(zr)
	}
	plain, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(plain)) > limit {
		return nil, fmt.Errorf("decompressed sitemap exceeds %d bytes", limit)
	}
	return plain, nil
}
