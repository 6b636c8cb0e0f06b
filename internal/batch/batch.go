// Package batch fetches page locations in fixed-size batches with a pause
// between consecutive batches.
package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PentesterFlow/seochecker/internal/errors"
	fetch "github.com/PentesterFlow/seochecker/internal/http"
	"github.com/PentesterFlow/seochecker/internal/logger"
	"github.com/PentesterFlow/seochecker/internal/metrics"
	"github.com/PentesterFlow/seochecker/internal/ratelimit"
)

// Outcome is the result of fetching one location. Err is set for any
// failed fetch; Body is only meaningful when Err is nil.
type Outcome struct {
	Index      int
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Err        error
}

// OK reports whether the fetch succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// VisitFunc receives outcomes in discovery order.
type VisitFunc func(Outcome)

// Crawler fetches locations batch by batch.
type Crawler struct {
	fetcher   fetch.Fetcher
	limiter   *ratelimit.Limiter
	batchSize int
	workers   int
	logger    *logger.Logger
	metrics   *metrics.Collector
	onBatch   func(index, total int)
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithBatchSize sets the number of locations per batch. Zero or negative
// means a single batch holding every location.
func WithBatchSize(n int) Option {
	return func(c *Crawler) {
		c.batchSize = n
	}
}

// WithWorkers sets the number of concurrent fetches inside a batch.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLimiter sets the request limiter and inter-batch pause.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Crawler) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Crawler) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithOnBatch registers a callback run after each batch has been visited.
func WithOnBatch(fn func(index, total int)) Option {
	return func(c *Crawler) {
		c.onBatch = fn
	}
}

// New creates a batch crawler. Defaults: one batch, one worker, no pause.
func New(fetcher fetch.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher: fetcher,
		workers: 1,
		limiter: ratelimit.NewLimiter(0, 1, 0),
		logger:  logger.Nop(),
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("batch")
	return c
}

// Partition splits locations into consecutive batches of size. A size of
// zero or less yields one batch.
func Partition(locations []string, size int) [][]string {
	if len(locations) == 0 {
		return nil
	}
	if size <= 0 || size >= len(locations) {
		return [][]string{locations}
	}

	batches := make([][]string, 0, (len(locations)+size-1)/size)
	for start := 0; start < len(locations); start += size {
		end := start + size
		if end > len(locations) {
			end = len(locations)
		}
		batches = append(batches, locations[start:end])
	}
	return batches
}

// Crawl fetches every location and hands each outcome to visit in
// discovery order. Fetch failures never stop the crawl; only context
// cancellation does.
func (c *Crawler) Crawl(ctx context.Context, locations []string, visit VisitFunc) error {
	batches := Partition(locations, c.batchSize)
	offset := 0

	for i, b := range batches {
		c.logger.Debugf("batch %d/%d: %d locations", i+1, len(batches), len(b))

		outcomes, err := c.fetchBatch(ctx, b, offset)
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			visit(o)
		}
		c.metrics.RecordBatch()
		if c.onBatch != nil {
			c.onBatch(i, len(batches))
		}
		offset += len(b)

		if i < len(batches)-1 {
			if err := c.limiter.Pause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Crawler) fetchBatch(ctx context.Context, locations []string, offset int) ([]Outcome, error) {
	outcomes := make([]Outcome, len(locations))

	if c.workers == 1 {
		for i, loc := range locations {
			o, err := c.fetchOne(ctx, offset+i, loc)
			if err != nil {
				return nil, err
			}
			outcomes[i] = o
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, loc := range locations {
		g.Go(func() error {
			o, err := c.fetchOne(gctx, offset+i, loc)
			if err != nil {
				return err
			}
			// Each goroutine owns its slot.
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// fetchOne returns an error only when the run itself was cancelled.
func (c *Crawler) fetchOne(ctx context.Context, index int, loc string) (Outcome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	c.logger.CheckEvent("page", loc)

	o := Outcome{Index: index, URL: loc}
	result, err := c.fetcher.Get(ctx, loc)
	if result != nil {
		o.StatusCode = result.StatusCode
		o.Duration = result.Duration
		c.metrics.RecordRequest(result.Duration)
		c.metrics.RecordStatusCode(result.StatusCode)
		c.logger.RequestEvent("GET", loc, result.StatusCode, result.Duration)
	}
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		o.Err = err
		c.metrics.RecordError(errors.GetErrorType(err).String())
		c.logger.ErrorEvent(err, loc, "fetch")
		return o, nil
	}

	o.Body = result.Body
	c.metrics.RecordBytes(int64(len(result.Body)))
	return o, nil
}
