package notifier

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter caps outgoing notifications with a token bucket that refills
// MaxPerWindow tokens evenly over Window.
type RateLimiter struct {
	limiter      *rate.Limiter
	maxPerWindow int
	window       time.Duration
	enabled      bool

	mu      sync.Mutex
	dropped int64
}

// RateLimitConfig holds rate limiter configuration.
type RateLimitConfig struct {
	MaxPerWindow int           `yaml:"max_per_window"` // default: 10
	Window       time.Duration `yaml:"window"`         // default: 1 minute
	Enabled      bool          `yaml:"enabled"`
}

// DefaultRateLimitConfig returns default rate limit settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxPerWindow: 10,
		Window:       time.Minute,
		Enabled:      true,
	}
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.MaxPerWindow <= 0 {
		config.MaxPerWindow = 10
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	every := rate.Every(config.Window / time.Duration(config.MaxPerWindow))
	return &RateLimiter{
		limiter:      rate.NewLimiter(every, config.MaxPerWindow),
		maxPerWindow: config.MaxPerWindow,
		window:       config.Window,
		enabled:      config.Enabled,
	}
}

// Allow reports whether a notification may be sent now and consumes a token
// if so.
func (r *RateLimiter) Allow() bool {
	_, ok := r.Reserve()
	return ok
}

// Reserve consumes a token if one is available. The returned release func
// refunds it; call it when the send it paid for failed.
func (r *RateLimiter) Reserve() (release func(), ok bool) {
	if !r.enabled {
		return func() {}, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Checking first keeps a denied attempt from pushing back the bucket's
	// last event, which would shrink later refunds.
	if r.limiter.Tokens() < 1 {
		r.dropped++
		return nil, false
	}
	res := r.limiter.Reserve()
	return res.Cancel, true
}

// Dropped returns the number of notifications dropped due to rate limiting.
func (r *RateLimiter) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Stats returns rate limiter statistics.
func (r *RateLimiter) Stats() RateLimitStats {
	used := r.maxPerWindow - int(r.limiter.Tokens())
	if used < 0 {
		used = 0
	}
	return RateLimitStats{
		Dropped:      r.Dropped(),
		CurrentCount: used,
		MaxPerWindow: r.maxPerWindow,
		Window:       r.window,
		Enabled:      r.enabled,
	}
}

// RateLimitStats contains rate limiter statistics.
type RateLimitStats struct {
	Dropped      int64         // Total notifications dropped
	CurrentCount int           // Tokens currently spent
	MaxPerWindow int           // Maximum allowed per window
	Window       time.Duration // Window duration
	Enabled      bool          // Whether rate limiting is enabled
}
