// Package progress draws a one-line progress bar for the page checks of
// an audit.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Display manages progress bar display during an audit.
type Display struct {
	mu      sync.Mutex
	out     io.Writer
	started bool
	stopped bool

	total       atomic.Int64
	checked     atomic.Int64
	unreachable atomic.Int64
	batches     atomic.Int64

	startTime time.Time
	target    string
	lastLine  string
}

// New creates a progress display writing to out; nil means stderr.
func New(out io.Writer) *Display {
	if out == nil {
		out = os.Stderr
	}
	return &Display{out: out}
}

// Start begins the display for total locations.
func (d *Display) Start(target string, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return
	}
	d.started = true
	d.startTime = time.Now()
	d.target = target
	d.total.Store(int64(total))
}

// Page records one checked location and redraws the bar.
func (d *Display) Page(ok bool) {
	d.checked.Add(1)
	if !ok {
		d.unreachable.Add(1)
	}
	d.redraw()
}

// Batch records a completed batch.
func (d *Display) Batch() {
	d.batches.Add(1)
}

func (d *Display) redraw() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started || d.stopped {
		return
	}

	total := d.total.Load()
	checked := d.checked.Load()
	percent := 100
	if total > 0 {
		percent = int(float64(checked) / float64(total) * 100)
	}
	if percent > 100 {
		percent = 100
	}

	const barWidth = 30
	filled := percent * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	line := fmt.Sprintf("\r[%s] %3d%% | Pages: %d/%d | Unreachable: %d | Batches: %d | %s",
		bar, percent, checked, total, d.unreachable.Load(), d.batches.Load(),
		formatDuration(time.Since(d.startTime)))

	if len(line) < len(d.lastLine) {
		fmt.Fprint(d.out, "\r"+strings.Repeat(" ", len(d.lastLine)))
	}
	fmt.Fprint(d.out, line)
	d.lastLine = line
}

// Stop ends the display, moving past the bar.
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || !d.started {
		return
	}
	d.stopped = true
	fmt.Fprintln(d.out)
}

// Stats returns the current counters.
func (d *Display) Stats() (total, checked, unreachable int64) {
	return d.total.Load(), d.checked.Load(), d.unreachable.Load()
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
