package ratelimit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter Tests
// =============================================================================

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(10.0, 5, time.Second)

	if l == nil {
		t.Fatal("NewLimiter() returned nil")
	}
	if l.Limit() != rate.Limit(10) {
		t.Errorf("Limit() = %v, want 10", l.Limit())
	}
	if l.Interval() != time.Second {
		t.Errorf("Interval() = %v, want 1s", l.Interval())
	}
}

func TestNewLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 0, -time.Second)

	if l.Limit() != rate.Inf {
		t.Errorf("Limit() = %v, want rate.Inf", l.Limit())
	}
	if l.Interval() != 0 {
		t.Errorf("negative interval should clamp to 0, got %v", l.Interval())
	}
}

func TestLimiter_Wait_Unlimited(t *testing.T) {
	l := NewLimiter(0, 1, 0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unlimited Wait took %v", elapsed)
	}
}

func TestLimiter_Wait_Limited(t *testing.T) {
	l := NewLimiter(20, 1, 0) // one token every 50ms
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 requests at 20 rps finished in %v, expected >= ~100ms", elapsed)
	}
}

func TestLimiter_Wait_Cancelled(t *testing.T) {
	l := NewLimiter(0.1, 1, 0)
	ctx, cancel := context.WithCancel(context.Background())

	_ = l.Wait(ctx) // consume the burst token
	cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("Wait() should fail once the context is cancelled")
	}
}

// =============================================================================
// Pause Tests
// =============================================================================

func TestLimiter_Pause_UsesInterval(t *testing.T) {
	l := NewLimiter(0, 1, 3*time.Second)

	var got []time.Duration
	l.SetSleepFunc(func(ctx context.Context, d time.Duration) error {
		got = append(got, d)
		return nil
	})

	if err := l.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if len(got) != 1 || got[0] != 3*time.Second {
		t.Errorf("sleep calls = %v, want [3s]", got)
	}
}

func TestLimiter_Pause_ZeroInterval(t *testing.T) {
	l := NewLimiter(0, 1, 0)

	called := false
	l.SetSleepFunc(func(ctx context.Context, d time.Duration) error {
		called = true
		return nil
	})

	if err := l.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if called {
		t.Error("zero interval should not sleep")
	}
}

func TestSleep(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Sleep() returned early")
	}
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Hour); err != context.Canceled {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
}
