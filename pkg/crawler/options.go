package crawler

import (
	"fmt"
	"io"
	"time"

	fetch "github.com/PentesterFlow/seochecker/internal/http"
	"github.com/PentesterFlow/seochecker/internal/logger"
	"github.com/PentesterFlow/seochecker/internal/metrics"
	"github.com/PentesterFlow/seochecker/internal/output"
)

// Option is a functional option for configuring the Crawler.
type Option func(*Crawler) error

// WithTarget sets the base URL of the audited site.
func WithTarget(url string) Option {
	return func(c *Crawler) error {
		c.config.Target = url
		return nil
	}
}

// WithBatchSize sets the number of locations per batch.
func WithBatchSize(n int) Option {
	return func(c *Crawler) error {
		if n < 0 {
			return fmt.Errorf("batch size must not be negative: %d", n)
		}
		c.config.BatchSize = n
		return nil
	}
}

// WithInterval sets the pause between consecutive batches.
func WithInterval(d time.Duration) Option {
	return func(c *Crawler) error {
		if d < 0 {
			d = 0
		}
		c.config.IntervalTime = d
		return nil
	}
}

// WithWorkers sets the number of concurrent fetches inside a batch.
func WithWorkers(n int) Option {
	return func(c *Crawler) error {
		if n < 1 {
			n = 1
		}
		c.config.Workers = n
		return nil
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Crawler) error {
		c.config.Timeout = timeout
		return nil
	}
}

// WithRateLimit sets per-request pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Crawler) error {
		c.config.RateLimit.RequestsPerSecond = rps
		c.config.RateLimit.Burst = burst
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) error {
		c.config.UserAgent = ua
		return nil
	}
}

// WithFollowRedirects enables following redirects.
func WithFollowRedirects(follow bool) Option {
	return func(c *Crawler) error {
		c.config.FollowRedirects = follow
		return nil
	}
}

// WithMaxBodySize caps the bytes read from each response.
func WithMaxBodySize(n int64) Option {
	return func(c *Crawler) error {
		c.config.MaxBodySize = n
		return nil
	}
}

// WithExtractor selects the head extractor.
func WithExtractor(kind string) Option {
	return func(c *Crawler) error {
		switch kind {
		case "", ExtractorPattern, ExtractorDOM:
			c.config.Extractor = kind
			return nil
		}
		return fmt.Errorf("unknown extractor %q", kind)
	}
}

// WithOutputFormat selects the report format.
func WithOutputFormat(format string) Option {
	return func(c *Crawler) error {
		if !output.ValidFormat(format) {
			return fmt.Errorf("unknown output format %q", format)
		}
		c.config.Output.Format = format
		return nil
	}
}

// WithOutput sets the report writer.
func WithOutput(w io.Writer) Option {
	return func(c *Crawler) error {
		c.outputWriter = w
		return nil
	}
}

// WithOutputFile sets the report file path.
func WithOutputFile(path string) Option {
	return func(c *Crawler) error {
		c.config.Output.FilePath = path
		return nil
	}
}

// WithPrettyOutput enables/disables indented JSON output.
func WithPrettyOutput(pretty bool) Option {
	return func(c *Crawler) error {
		c.config.Output.Pretty = pretty
		return nil
	}
}

// WithProgress enables/disables progress bar display.
func WithProgress(enabled bool) Option {
	return func(c *Crawler) error {
		c.config.Progress = enabled
		return nil
	}
}

// WithProgressOutput sets where the progress bar is drawn.
func WithProgressOutput(w io.Writer) Option {
	return func(c *Crawler) error {
		c.progressWriter = w
		return nil
	}
}

// WithVerbose enables/disables verbose logging.
func WithVerbose(verbose bool) Option {
	return func(c *Crawler) error {
		c.config.Verbose = verbose
		return nil
	}
}

// WithDebug enables/disables debug mode.
func WithDebug(debug bool) Option {
	return func(c *Crawler) error {
		c.config.Debug = debug
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Crawler) error {
		c.logger = l
		return nil
	}
}

// WithMetrics sets a custom metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Crawler) error {
		c.metrics = m
		return nil
	}
}

// WithFetcher replaces the HTTP client.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *Crawler) error {
		c.fetcher = f
		return nil
	}
}

// WithConfig sets the entire configuration.
func WithConfig(config *Config) Option {
	return func(c *Crawler) error {
		if config == nil {
			return fmt.Errorf("config must not be nil")
		}
		c.config = config.Clone()
		return nil
	}
}
