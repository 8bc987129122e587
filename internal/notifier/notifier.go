// Package notifier relays workspace notifications to external channels.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/good-yellow-bee/collabhub/internal/metrics"
	"github.com/good-yellow-bee/collabhub/internal/models"
)

// Channel names.
const (
	ChannelSlack = "slack"
	ChannelEmail = "email"
)

// Notifier is the interface for all notification channels.
type Notifier interface {
	// Name returns the notifier name (e.g., "email", "slack").
	Name() string
	// Send delivers one notification.
	Send(ctx context.Context, n *models.Notification) error
	// Close releases any resources.
	Close() error
}

// Dispatcher manages multiple notifiers and routes notifications.
type Dispatcher struct {
	mu          sync.RWMutex
	notifiers   map[string]Notifier
	rateLimiter *RateLimiter
}

// NewDispatcher creates a new notification dispatcher with default rate limiting.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithRateLimit(DefaultRateLimitConfig())
}

// NewDispatcherWithRateLimit creates a dispatcher with custom rate limit configuration.
func NewDispatcherWithRateLimit(config RateLimitConfig) *Dispatcher {
	return &Dispatcher{
		notifiers:   make(map[string]Notifier),
		rateLimiter: NewRateLimiter(config),
	}
}

// Register adds a notifier to the dispatcher.
func (d *Dispatcher) Register(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifiers[n.Name()] = n
}

// Unregister removes a notifier from the dispatcher.
func (d *Dispatcher) Unregister(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.notifiers, name)
}

// Get returns a notifier by name.
func (d *Dispatcher) Get(name string) (Notifier, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.notifiers[name]
	return n, ok
}

// Names returns the registered channel names.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.notifiers))
	for name := range d.notifiers {
		names = append(names, name)
	}
	return names
}

// ErrRateLimited is returned when a notification is dropped due to rate limiting.
var ErrRateLimited = errors.New("notification rate limited")

// Dispatch sends n to each named channel that is registered. Unknown names
// are skipped. When every attempted channel fails the rate-limit token is
// refunded.
func (d *Dispatcher) Dispatch(ctx context.Context, n *models.Notification, channels []string) error {
	if len(channels) == 0 {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	targets := make([]Notifier, 0, len(channels))
	for _, name := range channels {
		if nt, ok := d.notifiers[name]; ok {
			targets = append(targets, nt)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	release, ok := d.rateLimiter.Reserve()
	if !ok {
		for _, nt := range targets {
			metrics.NotificationsSentTotal.WithLabelValues(nt.Name(), "rate_limited").Inc()
		}
		return ErrRateLimited
	}

	var errs []error
	for _, nt := range targets {
		if err := nt.Send(ctx, n); err != nil {
			metrics.NotificationsSentTotal.WithLabelValues(nt.Name(), "error").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", nt.Name(), err))
			continue
		}
		metrics.NotificationsSentTotal.WithLabelValues(nt.Name(), "sent").Inc()
	}

	if len(errs) == len(targets) {
		release()
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %w", errors.Join(errs...))
	}
	return nil
}

// DispatchAll sends n to every registered notifier.
func (d *Dispatcher) DispatchAll(ctx context.Context, n *models.Notification) error {
	return d.Dispatch(ctx, n, d.Names())
}

// RateLimitStats returns the rate limiter statistics.
func (d *Dispatcher) RateLimitStats() RateLimitStats {
	return d.rateLimiter.Stats()
}

// Close closes all registered notifiers.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for name, n := range d.notifiers {
		if err := n.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	d.notifiers = make(map[string]Notifier)

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}
