package crawler

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/PentesterFlow/seochecker/internal/output"
)

// Environment variables read by ApplyEnv.
const (
	EnvUserAgent = "SEOCHECKER_USER_AGENT"
	EnvBatchSize = "SEOCHECKER_BATCH_SIZE"
	EnvInterval  = "SEOCHECKER_INTERVAL"
)

// Config holds all checker configuration.
type Config struct {
	// Base URL of the audited site
	Target string `json:"target" yaml:"target"`

	// Locations per batch; 0 puts every location in one batch
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Pause between consecutive batches
	IntervalTime time.Duration `json:"interval_time" yaml:"interval_time"`

	// Concurrent fetches inside a batch
	Workers int `json:"workers" yaml:"workers"`

	// Request timeout
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Rate limiting
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	UserAgent       string `json:"user_agent" yaml:"user_agent"`
	FollowRedirects bool   `json:"follow_redirects" yaml:"follow_redirects"`

	// Maximum bytes read from any response body
	MaxBodySize int64 `json:"max_body_size" yaml:"max_body_size"`

	// Head extractor: pattern or dom
	Extractor string `json:"extractor" yaml:"extractor"`

	// Output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Show a progress bar on stderr
	Progress bool `json:"progress" yaml:"progress"`

	// Verbose logging
	Verbose bool `json:"verbose" yaml:"verbose"`

	// Debug mode
	Debug bool `json:"debug" yaml:"debug"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:    0,
		IntervalTime: 0,
		Workers:      1,
		Timeout:      30 * time.Second,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0,
			Burst:             1,
		},
		UserAgent:   "seo-checker",
		MaxBodySize: 50 * 1024 * 1024,
		Extractor:   ExtractorPattern,
		Output: OutputConfig{
			Format: output.FormatText,
		},
	}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "seochecker", "config.yaml")
}

// LoadFromFile loads configuration from a file (YAML or JSON) on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.LoadFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile overlays the settings found in a file onto c. Keys absent from
// the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Try YAML first, then JSON
	overlay := c.Clone()
	if err := yaml.Unmarshal(data, overlay); err != nil {
		overlay = c.Clone()
		if err := json.Unmarshal(data, overlay); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	*c = *overlay
	return nil
}

// ApplyEnv reads SEOCHECKER_* variables through lookup, normally
// os.LookupEnv. Unset or empty variables are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvUserAgent); ok && v != "" {
		c.UserAgent = v
	}

	if v, ok := lookup(EnvBatchSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBatchSize, v, err)
		}
		c.BatchSize = n
	}

	if v, ok := lookup(EnvInterval); ok && v != "" {
		d, err := ParseInterval(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvInterval, v, err)
		}
		c.IntervalTime = d
	}

	return nil
}

// ParseInterval accepts a Go duration ("1500ms", "2s") or a bare number of
// seconds ("2", "0.5").
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target URL is required")
	}

	u, err := url.Parse(c.Target)
	if err != nil {
		return fmt.Errorf("invalid target URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target URL must use http or https: %q", c.Target)
	}
	if u.Host == "" {
		return fmt.Errorf("target URL has no host: %q", c.Target)
	}

	if c.BatchSize < 0 {
		return fmt.Errorf("batch size must not be negative")
	}

	if c.IntervalTime < 0 {
		return fmt.Errorf("interval must not be negative")
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	switch c.Extractor {
	case "", ExtractorPattern, ExtractorDOM:
	default:
		return fmt.Errorf("unknown extractor %q", c.Extractor)
	}

	if !output.ValidFormat(c.Output.Format) {
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	data, _ := json.Marshal(c)
	clone := &Config{}
	json.Unmarshal(data, clone)
	return clone
}
