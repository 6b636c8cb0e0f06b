// Package metrics provides metrics collection for an audit run.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector collects and aggregates metrics. Safe for concurrent use by
// batch workers.
type Collector struct {
	// Counters
	requestsTotal    atomic.Int64
	errorsTotal      atomic.Int64
	sitemapsFetched  atomic.Int64
	pagesDiscovered  atomic.Int64
	pagesChecked     atomic.Int64
	batchesCompleted atomic.Int64
	bytesTotal       atomic.Int64

	// Response time tracking
	responseTimesSum atomic.Int64
	responseTimesNum atomic.Int64

	// Error breakdown
	errorCounts map[string]int64
	errorMu     sync.Mutex

	// Status code breakdown
	statusCodes map[int]int64
	statusMu    sync.Mutex

	startTime time.Time
}

// New creates a new metrics collector.
func New() *Collector {
	return &Collector{
		errorCounts: make(map[string]int64),
		statusCodes: make(map[int]int64),
		startTime:   time.Now(),
	}
}

// RecordRequest records an HTTP request and its response time.
func (c *Collector) RecordRequest(d time.Duration) {
	c.requestsTotal.Add(1)
	c.responseTimesSum.Add(d.Milliseconds())
	c.responseTimesNum.Add(1)
}

// RecordError records a failed fetch by error type.
func (c *Collector) RecordError(errorType string) {
	c.errorsTotal.Add(1)

	c.errorMu.Lock()
	c.errorCounts[errorType]++
	c.errorMu.Unlock()
}

// RecordStatusCode records an HTTP status code.
func (c *Collector) RecordStatusCode(code int) {
	if code == 0 {
		return
	}
	c.statusMu.Lock()
	c.statusCodes[code]++
	c.statusMu.Unlock()
}

// RecordSitemap increments fetched sitemap documents.
func (c *Collector) RecordSitemap() {
	c.sitemapsFetched.Add(1)
}

// RecordPagesDiscovered adds n discovered page locations.
func (c *Collector) RecordPagesDiscovered(n int) {
	c.pagesDiscovered.Add(int64(n))
}

// RecordPageChecked increments analyzed pages.
func (c *Collector) RecordPageChecked() {
	c.pagesChecked.Add(1)
}

// RecordBatch increments completed batches.
func (c *Collector) RecordBatch() {
	c.batchesCompleted.Add(1)
}

// RecordBytes records transferred bytes.
func (c *Collector) RecordBytes(n int64) {
	c.bytesTotal.Add(n)
}

// GetAverageResponseTime returns the average response time.
func (c *Collector) GetAverageResponseTime() time.Duration {
	sum := c.responseTimesSum.Load()
	num := c.responseTimesNum.Load()
	if num == 0 {
		return 0
	}
	return time.Duration(sum/num) * time.Millisecond
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() *Snapshot {
	s := &Snapshot{
		Uptime:              time.Since(c.startTime),
		RequestsTotal:       c.requestsTotal.Load(),
		ErrorsTotal:         c.errorsTotal.Load(),
		SitemapsFetched:     c.sitemapsFetched.Load(),
		PagesDiscovered:     c.pagesDiscovered.Load(),
		PagesChecked:        c.pagesChecked.Load(),
		BatchesCompleted:    c.batchesCompleted.Load(),
		BytesTotal:          c.bytesTotal.Load(),
		AverageResponseTime: c.GetAverageResponseTime(),
		ErrorCounts:         make(map[string]int64),
		StatusCodes:         make(map[int]int64),
	}

	c.errorMu.Lock()
	for k, v := range c.errorCounts {
		s.ErrorCounts[k] = v
	}
	c.errorMu.Unlock()

	c.statusMu.Lock()
	for k, v := range c.statusCodes {
		s.StatusCodes[k] = v
	}
	c.statusMu.Unlock()

	return s
}

// Snapshot represents a point-in-time view of metrics.
type Snapshot struct {
	Uptime              time.Duration    `json:"uptime"`
	RequestsTotal       int64            `json:"requests_total"`
	ErrorsTotal         int64            `json:"errors_total"`
	SitemapsFetched     int64            `json:"sitemaps_fetched"`
	PagesDiscovered     int64            `json:"pages_discovered"`
	PagesChecked        int64            `json:"pages_checked"`
	BatchesCompleted    int64            `json:"batches_completed"`
	BytesTotal          int64            `json:"bytes_total"`
	AverageResponseTime time.Duration    `json:"average_response_time"`
	ErrorCounts         map[string]int64 `json:"error_counts"`
	StatusCodes         map[int]int64    `json:"status_codes"`
}

// ErrorRate returns the error rate (errors/requests).
func (s *Snapshot) ErrorRate() float64 {
	if s.RequestsTotal == 0 {
		return 0
	}
	return float64(s.ErrorsTotal) / float64(s.RequestsTotal)
}

// Summary returns the fields logged at the end of a run.
func (s *Snapshot) Summary() map[string]interface{} {
	return map[string]interface{}{
		"uptime":               s.Uptime.String(),
		"requests_total":       s.RequestsTotal,
		"errors_total":         s.ErrorsTotal,
		"error_rate":           s.ErrorRate(),
		"sitemaps_fetched":     s.SitemapsFetched,
		"pages_discovered":     s.PagesDiscovered,
		"pages_checked":        s.PagesChecked,
		"batches_completed":    s.BatchesCompleted,
		"bytes_total":          s.BytesTotal,
		"avg_response_time_ms": s.AverageResponseTime.Milliseconds(),
	}
}
