package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PentesterFlow/seochecker/internal/shutdown"
	"github.com/PentesterFlow/seochecker/pkg/crawler"
)

var version = "1.0.0"

// checkFlags holds the flags of the check command.
type checkFlags struct {
	configFile string
	verbose    bool
	debug      bool

	batchSize  int
	interval   string
	workers    int
	rateLimit  float64
	timeout    time.Duration
	userAgent  string
	format     string
	extractor  string
	outputFile string
	progress   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &checkFlags{}

	rootCmd := &cobra.Command{
		Use:   "seochecker",
		Short: "SEO Checker - sitemap-driven SEO audit",
		Long: `SEO Checker - audits every page listed in a site's sitemap.

Reads the sitemap from robots.txt, /sitemap.xml or /sitemap.xml.gz, fetches
each page in batches and reports unreachable pages, missing or duplicate
titles and descriptions, and problematic URL shapes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv()
		},
	}

	// Check command
	checkCmd := &cobra.Command{
		Use:   "check <base-url>",
		Short: "Audit a site",
		Long:  "Resolve the sitemap of a site, fetch every listed page and print the SEO report.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags, args[0])
		},
	}

	// Config command
	configCmd := &cobra.Command{
		Use:   "config [base-url]",
		Short: "Show the effective configuration",
		Long:  "Print the configuration a check would run with, after defaults, environment, config file and flags.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			config, err := buildConfig(cmd, flags, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# default config file: %s\n", crawler.DefaultConfigPath())
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(config)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "Configuration file (default: $XDG_CONFIG_HOME/seochecker/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Debug mode: log every sitemap and page checked")

	// Check flags
	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&flags.batchSize, "batch-size", "b", 0, "Pages per batch (0: all pages in one batch)")
	pf.StringVarP(&flags.interval, "interval", "i", "0", "Pause between batches (e.g. 2s, or a number of seconds)")
	pf.IntVarP(&flags.workers, "workers", "w", 1, "Concurrent fetches inside a batch")
	pf.Float64VarP(&flags.rateLimit, "rate-limit", "r", 0, "Requests per second (0: unlimited)")
	pf.DurationVarP(&flags.timeout, "timeout", "t", 30*time.Second, "Request timeout")
	pf.StringVar(&flags.userAgent, "user-agent", "seo-checker", "User-Agent header")
	pf.StringVarP(&flags.format, "format", "f", "text", "Report format (text, markdown, json)")
	pf.StringVar(&flags.extractor, "extractor", "pattern",
		"Head extractor: pattern, or dom (parsed HTML; its findings can differ from pattern)")
	pf.StringVarP(&flags.outputFile, "output", "o", "", "Output file (default: stdout)")
	pf.BoolVar(&flags.progress, "progress", false, "Show a progress bar on stderr")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)

	return rootCmd
}

// buildConfig layers the configuration sources: defaults, environment,
// config file, then flags that were set explicitly.
func buildConfig(cmd *cobra.Command, flags *checkFlags, target string) (*crawler.Config, error) {
	config := crawler.DefaultConfig()

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	configFile := flags.configFile
	if configFile == "" {
		if _, err := os.Stat(crawler.DefaultConfigPath()); err == nil {
			configFile = crawler.DefaultConfigPath()
		}
	}
	if configFile != "" {
		if err := config.LoadFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if target != "" {
		config.Target = target
	}

	changed := cmd.Flags().Changed
	if changed("batch-size") {
		config.BatchSize = flags.batchSize
	}
	if changed("interval") {
		d, err := crawler.ParseInterval(flags.interval)
		if err != nil {
			return nil, fmt.Errorf("invalid --interval %q: %w", flags.interval, err)
		}
		config.IntervalTime = d
	}
	if changed("workers") {
		config.Workers = flags.workers
	}
	if changed("rate-limit") {
		config.RateLimit.RequestsPerSecond = flags.rateLimit
	}
	if changed("timeout") {
		config.Timeout = flags.timeout
	}
	if changed("user-agent") {
		config.UserAgent = flags.userAgent
	}
	if changed("format") {
		config.Output.Format = flags.format
	}
	if changed("extractor") {
		config.Extractor = flags.extractor
	}
	if changed("output") {
		config.Output.FilePath = flags.outputFile
	}
	if changed("progress") {
		config.Progress = flags.progress
	}
	if changed("verbose") {
		config.Verbose = flags.verbose
	}
	if changed("debug") {
		config.Debug = flags.debug
	}

	// Log lines would tear the bar apart.
	if config.Verbose || config.Debug {
		config.Progress = false
	}

	return config, nil
}

// loadDotEnv exports the variables of ./.env, if present, without
// overriding the real environment.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, flags *checkFlags, target string) error {
	config, err := buildConfig(cmd, flags, target)
	if err != nil {
		return err
	}

	c, err := crawler.New(crawler.WithConfig(config), crawler.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		return fmt.Errorf("failed to create checker: %w", err)
	}

	handler := shutdown.New(cmd.Context(), shutdown.Config{
		Timeout: 5 * time.Second,
		OnShutdownStart: func(reason string) {
			if reason != shutdown.ReasonRequested {
				fmt.Fprintf(os.Stderr, "\nReceived %s, stopping...\n", reason)
			}
		},
	})
	handler.Register("crawler", func(ctx context.Context) error {
		return c.Close()
	})

	runErr := c.Run(handler.Context())
	interrupted := handler.IsShuttingDown()

	handler.Shutdown()
	<-handler.Done()

	if runErr != nil {
		if interrupted {
			return fmt.Errorf("check interrupted")
		}
		return fmt.Errorf("check failed: %w", runErr)
	}
	return c.Close()
}
