// ABOUTME: Tests for save-retry backoff and context-aware sleep
// ABOUTME: Checks growth, the 30s ceiling, jitter bounds and cancellation
package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff_NoDelay(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		attempt int
	}{
		{"first try", 200 * time.Millisecond, 0},
		{"negative attempt", 200 * time.Millisecond, -1},
		{"far negative attempt", time.Second, -100},
		{"zero base", 0, 3},
		{"negative base", -time.Second, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateBackoff(tt.base, tt.attempt); got != 0 {
				t.Errorf("CalculateBackoff(%v, %d) = %v, want 0", tt.base, tt.attempt, got)
			}
		})
	}
}

func TestCalculateBackoff_DoublesPerRetry(t *testing.T) {
	base := 200 * time.Millisecond

	for attempt := 1; attempt <= 6; attempt++ {
		nominal := base << uint(attempt)
		lo, hi := nominal*3/4, nominal*5/4

		got := CalculateBackoff(base, attempt)
		if got < lo || got > hi {
			t.Errorf("retry %d: backoff %v outside [%v, %v]", attempt, got, lo, hi)
		}
	}
}

func TestCalculateBackoff_Ceiling(t *testing.T) {
	// 30s plus the largest jitter
	ceiling := 30*time.Second + 30*time.Second/4

	for _, attempt := range []int{10, 31, 64, 1000} {
		got := CalculateBackoff(time.Second, attempt)
		if got <= 0 || got > ceiling {
			t.Errorf("retry %d: backoff %v, want (0, %v]", attempt, got, ceiling)
		}
	}
}

func TestCalculateBackoff_Jitter(t *testing.T) {
	seen := map[time.Duration]bool{}
	for i := 0; i < 50; i++ {
		got := CalculateBackoff(time.Second, 2)
		if got < 3*time.Second || got > 5*time.Second {
			t.Fatalf("sample %d: backoff %v outside [3s, 5s]", i, got)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Error("backoff never varied across 50 samples")
	}
}

func TestSleep_Elapses(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("Sleep() returned before the delay elapsed")
	}
}

func TestSleep_ZeroDelayReportsContext(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Sleep(0) error = %v, want nil", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep(0) on cancelled context = %v, want context.Canceled", err)
	}
}

func TestSleep_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Sleep() error = %v, want context.DeadlineExceeded", err)
	}
}
