// Package discovery resolves a site's sitemap into the flat list of page
// locations to audit.
package discovery

import (
	"context"
	"strings"

	"github.com/PentesterFlow/seochecker/internal/errors"
	fetch "github.com/PentesterFlow/seochecker/internal/http"
	"github.com/PentesterFlow/seochecker/internal/logger"
	"github.com/PentesterFlow/seochecker/internal/metrics"
	"github.com/PentesterFlow/seochecker/internal/state"
)

// Fallback sitemap paths tried, in order, when robots.txt declares none.
var fallbackPaths = []string{"/sitemap.xml", "/sitemap.xml.gz"}

// Resolver walks robots.txt and sitemap documents.
type Resolver struct {
	fetcher       fetch.Fetcher
	logger        *logger.Logger
	metrics       *metrics.Collector
	maxSitemapLen int64
}

// NewResolver creates a resolver. A nil logger or metrics collector is
// replaced with a no-op one.
func NewResolver(fetcher fetch.Fetcher, log *logger.Logger, m *metrics.Collector) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Resolver{
		fetcher:       fetcher,
		logger:        log.WithComponent("discovery"),
		metrics:       m,
		maxSitemapLen: fetch.DefaultClientConfig().MaxBodySize,
	}
}

// Resolve returns the page locations for base. It returns
// errors.ErrNoSitemapFound when no path yields any location.
func (r *Resolver) Resolve(ctx context.Context, base string) ([]string, error) {
	base = strings.TrimRight(base, "/")
	seen := state.NewDeduplicator(0)

	var locations []string
	if sitemapURL := r.robotsSitemap(ctx, base); sitemapURL != "" {
		locations = r.resolveSitemap(ctx, sitemapURL, seen)
	}

	for _, path := range fallbackPaths {
		if len(locations) > 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		locations = r.resolveSitemap(ctx, base+path, seen)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, errors.ErrNoSitemapFound
	}

	r.metrics.RecordPagesDiscovered(len(locations))
	r.logger.Infof("resolved %d locations from %d sitemap(s)", len(locations), seen.Count())
	return locations, nil
}

func (r *Resolver) robotsSitemap(ctx context.Context, base string) string {
	body, ok := r.get(ctx, base+"/robots.txt")
	if !ok {
		return ""
	}
	return SitemapFromRobots(body)
}

// resolveSitemap expands one sitemap document. Index documents are
// expanded depth-first and their leaf lists concatenated in document
// order. A document already visited in this run yields nothing.
func (r *Resolver) resolveSitemap(ctx context.Context, sitemapURL string, seen *state.Deduplicator) []string {
	if ctx.Err() != nil || !seen.MarkSeen(sitemapURL) {
		return nil
	}

	r.logger.CheckEvent("sitemap", sitemapURL)

	body, ok := r.get(ctx, sitemapURL)
	if !ok {
		return nil
	}
	r.metrics.RecordSitemap()

	switch {
	case !IsCompressed(sitemapURL):
	case !IsGzip(body):
		// Served with Content-Encoding: gzip and decoded by the transport.
		r.logger.Debugf("%s: body already decoded", sitemapURL)
	default:
		plain, err := Gunzip(body, r.maxSitemapLen)
		if err != nil {
			cerr := errors.NewDecompressError(sitemapURL, err)
			r.metrics.RecordError(cerr.Type.String())
			r.logger.ErrorEvent(cerr, sitemapURL, "gunzip")
			return nil
		}
		body = plain
	}

	doc := ParseSitemap(sitemapURL, body)
	if !doc.Index {
		return doc.Locs
	}

	var locations []string
	for _, loc := range doc.Locs {
		locations = append(locations, r.resolveSitemap(ctx, loc, seen)...)
	}
	return locations
}

func (r *Resolver) get(ctx context.Context, target string) ([]byte, bool) {
	result, err := r.fetcher.Get(ctx, target)
	if result != nil {
		r.metrics.RecordRequest(result.Duration)
		r.metrics.RecordStatusCode(result.StatusCode)
		r.logger.RequestEvent("GET", target, result.StatusCode, result.Duration)
	}
	if err != nil {
		r.metrics.RecordError(errors.GetErrorType(err).String())
		r.logger.ErrorEvent(err, target, "fetch")
		return nil, false
	}
	r.metrics.RecordBytes(int64(len(result.Body)))
	return result.Body, true
}
