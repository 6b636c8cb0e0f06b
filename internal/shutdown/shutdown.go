// Package shutdown cancels a running audit on SIGINT/SIGTERM and runs
// cleanup callbacks.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Callback is a function called during shutdown.
type Callback func(ctx context.Context) error

// Handler manages graceful shutdown.
type Handler struct {
	mu sync.Mutex

	callbacks     []Callback
	callbackNames []string

	isShuttingDown atomic.Bool
	done           chan struct{}
	timeout        time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	sigChan chan os.Signal
	stopSig chan struct{}

	onShutdownStart func(reason string)
	onShutdownDone  func(elapsed time.Duration, errs []error)
}

// Config holds shutdown configuration.
type Config struct {
	Timeout         time.Duration
	Signals         []os.Signal
	OnShutdownStart func(reason string)
	OnShutdownDone  func(elapsed time.Duration, errs []error)
}

// ReasonRequested is the shutdown reason passed to OnShutdownStart when
// Shutdown is called directly rather than by a signal.
const ReasonRequested = "requested"

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// New creates a handler whose context derives from parent.
func New(parent context.Context, cfg Config) *Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if len(cfg.Signals) == 0 {
		cfg.Signals = DefaultConfig().Signals
	}

	ctx, cancel := context.WithCancel(parent)

	h := &Handler{
		done:            make(chan struct{}),
		timeout:         cfg.Timeout,
		ctx:             ctx,
		cancel:          cancel,
		sigChan:         make(chan os.Signal, 1),
		stopSig:         make(chan struct{}),
		onShutdownStart: cfg.OnShutdownStart,
		onShutdownDone:  cfg.OnShutdownDone,
	}

	signal.Notify(h.sigChan, cfg.Signals...)
	go h.listen()

	return h
}

func (h *Handler) listen() {
	select {
	case sig := <-h.sigChan:
		h.shutdown(sig.String())
	case <-h.stopSig:
	}
}

// Register registers a shutdown callback with a name. Callbacks run in
// reverse registration order.
func (h *Handler) Register(name string, callback Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.callbacks = append(h.callbacks, callback)
	h.callbackNames = append(h.callbackNames, name)
}

// Context is cancelled as soon as shutdown begins.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// IsShuttingDown returns whether shutdown is in progress.
func (h *Handler) IsShuttingDown() bool {
	return h.isShuttingDown.Load()
}

// Done is closed once every callback has run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// Shutdown cancels the context and runs the callbacks. It is safe to call
// more than once; only the first call has an effect.
func (h *Handler) Shutdown() {
	h.shutdown(ReasonRequested)
}

func (h *Handler) shutdown(reason string) {
	if !h.isShuttingDown.CompareAndSwap(false, true) {
		return
	}
	signal.Stop(h.sigChan)
	close(h.stopSig)

	start := time.Now()
	if h.onShutdownStart != nil {
		h.onShutdownStart(reason)
	}

	h.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	callbacks := append([]Callback(nil), h.callbacks...)
	names := append([]string(nil), h.callbackNames...)
	h.mu.Unlock()

	var errs []error
	for i := len(callbacks) - 1; i >= 0; i-- {
		if err := h.executeCallback(ctx, names[i], callbacks[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if h.onShutdownDone != nil {
		h.onShutdownDone(time.Since(start), errs)
	}
	close(h.done)
}

func (h *Handler) executeCallback(ctx context.Context, name string, callback Callback) error {
	done := make(chan error, 1)
	go func() {
		done <- callback(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return &TimeoutError{CallbackName: name}
	}
}

// TimeoutError is returned when a callback times out.
type TimeoutError struct {
	CallbackName string
}

func (e *TimeoutError) Error() string {
	return "shutdown callback timed out: " + e.CallbackName
}
