package notifier

import (
	"testing"
	"time"
)

func TestRateLimiterBasic(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow: 3,
		Window:       time.Minute,
		Enabled:      true,
	})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Errorf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow() {
		t.Error("4th request should be denied")
	}
	if dropped := rl.Dropped(); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow: 2,
		Window:       100 * time.Millisecond,
		Enabled:      true,
	})

	rl.Allow()
	rl.Allow()
	if rl.Allow() {
		t.Error("should be denied before the bucket refills")
	}

	time.Sleep(80 * time.Millisecond)
	if !rl.Allow() {
		t.Error("should be allowed after the bucket refills")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow: 1,
		Window:       time.Second,
		Enabled:      false,
	})

	for i := 0; i < 100; i++ {
		if !rl.Allow() {
			t.Errorf("request %d should be allowed when disabled", i+1)
		}
	}
	if dropped := rl.Dropped(); dropped != 0 {
		t.Errorf("dropped = %d, want 0 when disabled", dropped)
	}
}

func TestRateLimiterRelease(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow: 1,
		Window:       time.Hour,
		Enabled:      true,
	})

	release, ok := rl.Reserve()
	if !ok {
		t.Fatal("first Reserve() denied")
	}
	if rl.Allow() {
		t.Fatal("bucket should be empty")
	}

	release()
	if !rl.Allow() {
		t.Error("token not refunded by release")
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true})
	stats := rl.Stats()

	if stats.MaxPerWindow != 10 {
		t.Errorf("MaxPerWindow = %d, want 10", stats.MaxPerWindow)
	}
	if stats.Window != time.Minute {
		t.Errorf("Window = %v, want 1m", stats.Window)
	}
	if stats.CurrentCount != 0 {
		t.Errorf("CurrentCount = %d, want 0", stats.CurrentCount)
	}

	rl.Allow()
	if got := rl.Stats().CurrentCount; got != 1 {
		t.Errorf("CurrentCount after Allow = %d, want 1", got)
	}
}
