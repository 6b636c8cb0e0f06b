package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/PentesterFlow/seochecker/pkg/crawler"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// =============================================================================
// Configuration Tests
// =============================================================================

func TestConfigCommand_Precedence(t *testing.T) {
	t.Setenv(crawler.EnvBatchSize, "5")
	t.Setenv(crawler.EnvUserAgent, "env-agent")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("batch_size: 7\nworkers: 3\ninterval_time: 1s\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "config", "https://example.com", "--config", path, "--workers", "4")
	if err != nil {
		t.Fatalf("config command error = %v", err)
	}

	var config crawler.Config
	if err := yaml.Unmarshal([]byte(out), &config); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}

	if config.Target != "https://example.com" {
		t.Errorf("Target = %q", config.Target)
	}
	if config.BatchSize != 7 {
		t.Errorf("BatchSize = %d, want 7 (file over environment)", config.BatchSize)
	}
	if config.UserAgent != "env-agent" {
		t.Errorf("UserAgent = %q, want env-agent", config.UserAgent)
	}
	if config.Workers != 4 {
		t.Errorf("Workers = %d, want 4 (flag over file)", config.Workers)
	}
	if config.IntervalTime != time.Second {
		t.Errorf("IntervalTime = %v, want 1s", config.IntervalTime)
	}
	// Unset flags leave the lower layers alone.
	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", config.Timeout)
	}
}

func TestConfigCommand_IntervalFlag(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"2", 2 * time.Second},
		{"250ms", 250 * time.Millisecond},
	}
	for _, tt := range tests {
		out, err := execute(t, "config", "--interval", tt.in)
		if err != nil {
			t.Fatalf("config --interval %s error = %v", tt.in, err)
		}
		var config crawler.Config
		if err := yaml.Unmarshal([]byte(out), &config); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
		if config.IntervalTime != tt.want {
			t.Errorf("--interval %s = %v, want %v", tt.in, config.IntervalTime, tt.want)
		}
	}

	if _, err := execute(t, "config", "--interval", "soon"); err == nil {
		t.Error("invalid interval should fail")
	}
}

func TestConfigCommand_VerboseDisablesProgress(t *testing.T) {
	out, err := execute(t, "config", "--progress", "--verbose")
	if err != nil {
		t.Fatalf("config command error = %v", err)
	}
	if !strings.Contains(out, "progress: false") {
		t.Errorf("progress should be off with --verbose:\n%s", out)
	}
}

// =============================================================================
// Check Tests
// =============================================================================

func TestCheckCommand_Report(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, "<urlset><url><loc>%s/about</loc></url></urlset>", server.URL)
		case "/about":
			fmt.Fprint(w, `<html><head><meta name="description" content="About us" /></head></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	out, err := execute(t, "check", server.URL, "--batch-size", "1")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if out != server.URL+"/about have no title.\n\n" {
		t.Errorf("report = %q", out)
	}
}

func TestCheckCommand_NoSitemap(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	out, err := execute(t, "check", server.URL)
	if err != nil {
		t.Fatalf("check error = %v, a missing sitemap exits cleanly", err)
	}
	if out != "Error: There is no sitemap.xml or sitemap.xml.gz\n" {
		t.Errorf("output = %q", out)
	}
}

func TestCheckCommand_InvalidArgs(t *testing.T) {
	if _, err := execute(t, "check"); err == nil {
		t.Error("check without a URL should fail")
	}
	if _, err := execute(t, "check", "example.com"); err == nil {
		t.Error("check with a URL lacking a scheme should fail")
	}
	if _, err := execute(t, "check", "https://example.com", "--format", "csv"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestCheckCommand_ExtractorHelp(t *testing.T) {
	out, err := execute(t, "check", "--help")
	if err != nil {
		t.Fatalf("check --help error = %v", err)
	}
	for _, want := range []string{"--extractor", "pattern, or dom", "can differ from pattern"} {
		if !strings.Contains(out, want) {
			t.Errorf("help should mention %q:\n%s", want, out)
		}
	}
}
