// Package http provides the HTTP fetcher used for robots.txt, sitemaps and pages.
package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/PentesterFlow/seochecker/internal/errors"
)

// DefaultUserAgent identifies the checker to the audited site.
const DefaultUserAgent = "seo-checker"

// Fetcher retrieves a URL and reports success (2xx) with the body, or a
// categorized failure.
type Fetcher interface {
	Get(ctx context.Context, targetURL string) (*Result, error)
}

// Client is the default Fetcher implementation.
type Client struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// ClientConfig holds configuration for the HTTP client.
type ClientConfig struct {
	Timeout         time.Duration
	UserAgent       string
	FollowRedirects bool
	MaxBodySize     int64
}

// DefaultClientConfig returns the defaults used by the checker.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:         30 * time.Second,
		UserAgent:       DefaultUserAgent,
		FollowRedirects: false,
		MaxBodySize:     50 * 1024 * 1024,
	}
}

// NewClient creates a new HTTP client.
func NewClient(config ClientConfig) *Client {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultClientConfig().MaxBodySize
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	hc := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}
	if !config.FollowRedirects {
		// A 3xx is reported as-is and counts as a failed fetch.
		hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else {
		hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		}
	}

	return &Client{
		client:      hc,
		userAgent:   config.UserAgent,
		maxBodySize: config.MaxBodySize,
	}
}

// Result contains the outcome of a GET request.
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Get performs a GET request. Any non-2xx status is returned as a
// *errors.CrawlError alongside the partially filled Result.
func (c *Client) Get(ctx context.Context, targetURL string) (*Result, error) {
	start := time.Now()
	result := &Result{URL: targetURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return result, errors.NewCrawlError(errors.Unknown, targetURL, "request_creation", "failed to create request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		result.Duration = time.Since(start)
		return result, errors.Categorize(err, targetURL)
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	if httpErr := errors.CategorizeHTTPStatus(resp.StatusCode, targetURL); httpErr != nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		result.Duration = time.Since(start)
		return result, httpErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		result.Duration = time.Since(start)
		return result, errors.NewNetworkError(targetURL, "body_read", err)
	}
	result.Body = body
	result.Duration = time.Since(start)

	return result, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}
