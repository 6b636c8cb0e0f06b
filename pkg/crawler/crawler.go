package crawler

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PentesterFlow/seochecker/internal/batch"
	"github.com/PentesterFlow/seochecker/internal/discovery"
	"github.com/PentesterFlow/seochecker/internal/errors"
	fetch "github.com/PentesterFlow/seochecker/internal/http"
	"github.com/PentesterFlow/seochecker/internal/logger"
	"github.com/PentesterFlow/seochecker/internal/metrics"
	"github.com/PentesterFlow/seochecker/internal/output"
	"github.com/PentesterFlow/seochecker/internal/parser"
	"github.com/PentesterFlow/seochecker/internal/progress"
	"github.com/PentesterFlow/seochecker/internal/ratelimit"
	"github.com/PentesterFlow/seochecker/internal/state"
)

// Crawler is the main audit orchestrator: it resolves the sitemap, fetches
// every location batch by batch and reports the findings.
type Crawler struct {
	config   *Config
	fetcher  fetch.Fetcher
	client   *fetch.Client // set when the crawler owns its HTTP client
	resolver *discovery.Resolver
	limiter  *ratelimit.Limiter
	analyzer *parser.Analyzer
	logger   *logger.Logger
	metrics  *metrics.Collector

	output         output.Writer
	outputWriter   io.Writer
	outputFile     *os.File
	progressWriter io.Writer

	running   atomic.Bool
	runMu     sync.Mutex // held by Run until the report is written
	closeOnce sync.Once
	closeErr  error
}

// New creates a new crawler with the given options.
func New(opts ...Option) (*Crawler, error) {
	c := &Crawler{
		config: DefaultConfig(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// Validate config
	if err := c.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.logger == nil {
		logLevel := logger.InfoLevel
		if c.config.Debug {
			logLevel = logger.DebugLevel
		} else if !c.config.Verbose {
			logLevel = logger.WarnLevel
		}
		c.logger = logger.New(logger.Config{
			Level:     logLevel,
			Pretty:    true,
			Output:    os.Stderr,
			Component: "crawler",
		})
	}

	if c.metrics == nil {
		c.metrics = metrics.New()
	}

	if err := c.initialize(); err != nil {
		return nil, err
	}
	return c, nil
}

// initialize sets up all crawler components.
func (c *Crawler) initialize() error {
	if c.fetcher == nil {
		c.client = fetch.NewClient(fetch.ClientConfig{
			Timeout:         c.config.Timeout,
			UserAgent:       c.config.UserAgent,
			FollowRedirects: c.config.FollowRedirects,
			MaxBodySize:     c.config.MaxBodySize,
		})
		c.fetcher = c.client
	}

	c.resolver = discovery.NewResolver(c.fetcher, c.logger, c.metrics)

	c.limiter = ratelimit.NewLimiter(
		c.config.RateLimit.RequestsPerSecond,
		c.config.RateLimit.Burst,
		c.config.IntervalTime,
	)

	extractor, err := parser.NewExtractor(c.config.Extractor)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}
	c.analyzer = parser.NewAnalyzer(extractor, c.logger)

	return nil
}

// Check audits the target and returns the accumulated findings. It returns
// errors.ErrNoSitemapFound when the site has no usable sitemap and the
// context error when the run is cancelled.
func (c *Crawler) Check(ctx context.Context) (*state.Audit, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("crawler is already running")
	}
	defer c.running.Store(false)

	start := time.Now()
	audit := state.NewAudit(c.config.Target)

	locations, err := c.resolver.Resolve(ctx, c.config.Target)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("checking %d pages of %s", len(locations), c.config.Target)

	var display *progress.Display
	if c.config.Progress {
		display = progress.New(c.progressWriter)
		display.Start(c.config.Target, len(locations))
		defer display.Stop()
	}

	bc := c.newBatchCrawler(display)
	err = bc.Crawl(ctx, locations, func(o batch.Outcome) {
		c.visit(audit, o)
		if display != nil {
			display.Page(o.OK())
		}
	})
	if err != nil {
		return nil, err
	}

	stats := CheckStats{
		Target:    c.config.Target,
		Locations: len(locations),
		Duration:  time.Since(start),
		Audit:     audit.Stats(),
	}
	fields := c.metrics.Snapshot().Summary()
	for k, v := range stats.Fields() {
		fields[k] = v
	}
	c.logger.StatsEvent(fields)
	if !audit.HasFindings() {
		c.logger.Infof("no issues found on %s", c.config.Target)
	}

	return audit, nil
}

func (c *Crawler) newBatchCrawler(display *progress.Display) *batch.Crawler {
	opts := []batch.Option{
		batch.WithBatchSize(c.config.BatchSize),
		batch.WithWorkers(c.config.Workers),
		batch.WithLimiter(c.limiter),
		batch.WithLogger(c.logger),
		batch.WithMetrics(c.metrics),
	}
	if display != nil {
		opts = append(opts, batch.WithOnBatch(func(index, total int) {
			display.Batch()
		}))
	}
	return batch.New(c.fetcher, opts...)
}

// visit applies one fetch outcome to the audit. Failed fetches are only
// recorded as unreachable; no head or URL checks run on them.
func (c *Crawler) visit(audit *state.Audit, o batch.Outcome) {
	c.metrics.RecordPageChecked()

	if !o.OK() {
		audit.AddUnreachable(o.URL)
		return
	}
	c.analyzer.Analyze(audit, o.URL, o.Body)
}

// Run performs the audit and writes the report. A site without a sitemap
// is reported with NoSitemapMessage and is not an error.
func (c *Crawler) Run(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	w, err := c.openOutput()
	if err != nil {
		return err
	}

	audit, err := c.Check(ctx)
	if stderrors.Is(err, errors.ErrNoSitemapFound) {
		c.logger.Warnf("no sitemap found for %s", c.config.Target)
		return w.WriteMessage(NoSitemapMessage)
	}
	if err != nil {
		return err
	}

	if err := w.WriteAudit(audit); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// openOutput creates the report writer: the configured file, the writer
// given with WithOutput, or stdout.
func (c *Crawler) openOutput() (output.Writer, error) {
	if c.output != nil {
		return c.output, nil
	}

	var dest io.Writer = os.Stdout
	switch {
	case c.config.Output.FilePath != "":
		f, err := os.Create(c.config.Output.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		c.outputFile = f
		dest = f
	case c.outputWriter != nil:
		dest = c.outputWriter
	}

	w, err := output.NewWriter(dest, output.Config{
		Format:   c.config.Output.Format,
		FilePath: c.config.Output.FilePath,
		Pretty:   c.config.Output.Pretty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create output writer: %w", err)
	}
	c.output = w
	return w, nil
}

// Close releases the HTTP client and the output file. The file is closed
// only once a concurrent Run has returned. It is safe to call more than
// once.
func (c *Crawler) Close() error {
	c.closeOnce.Do(func() {
		if c.client != nil {
			c.logger.Debug("Closing HTTP client...")
			c.client.Close()
		}

		c.runMu.Lock()
		defer c.runMu.Unlock()
		if c.outputFile != nil {
			c.logger.Debug("Closing output file...")
			c.closeErr = c.outputFile.Close()
		}
	})
	return c.closeErr
}

// IsRunning reports whether a check is in progress.
func (c *Crawler) IsRunning() bool {
	return c.running.Load()
}

// Config returns a copy of the active configuration.
func (c *Crawler) Config() *Config {
	return c.config.Clone()
}

// Metrics returns the metrics collector.
func (c *Crawler) Metrics() *metrics.Collector {
	return c.metrics
}

// MetricsSnapshot returns a point-in-time snapshot of all metrics.
func (c *Crawler) MetricsSnapshot() *metrics.Snapshot {
	return c.metrics.Snapshot()
}
