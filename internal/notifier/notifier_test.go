package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// mockNotifier records sent notifications and can be configured to fail.
type mockNotifier struct {
	name      string
	shouldErr bool

	mu   sync.Mutex
	sent []*models.Notification
}

func (m *mockNotifier) Name() string {
	return m.name
}

func (m *mockNotifier) Send(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	if m.shouldErr {
		return errors.New("mock send error")
	}
	return nil
}

func (m *mockNotifier) Close() error {
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func limitedDispatcher(max int) *Dispatcher {
	return NewDispatcherWithRateLimit(RateLimitConfig{
		MaxPerWindow: max,
		Window:       time.Hour,
		Enabled:      true,
	})
}

func TestDispatcher(t *testing.T) {
	dispatcher := NewDispatcher()
	mock := &mockNotifier{name: "test"}
	dispatcher.Register(mock)

	n, ok := dispatcher.Get("test")
	if !ok || n.Name() != "test" {
		t.Fatal("notifier not found after registration")
	}

	if err := dispatcher.Dispatch(context.Background(), testNotification(), []string{"test", "missing"}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if mock.count() != 1 {
		t.Errorf("sent = %d, want 1", mock.count())
	}

	dispatcher.Unregister("test")
	if _, ok := dispatcher.Get("test"); ok {
		t.Error("notifier still exists after unregister")
	}
	if err := dispatcher.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestDispatchNoChannels(t *testing.T) {
	dispatcher := limitedDispatcher(1)
	dispatcher.Register(&mockNotifier{name: "slack"})

	if err := dispatcher.Dispatch(context.Background(), testNotification(), nil); err != nil {
		t.Errorf("Dispatch(nil) error = %v", err)
	}
	if err := dispatcher.Dispatch(context.Background(), testNotification(), []string{"teams"}); err != nil {
		t.Errorf("Dispatch(unregistered) error = %v", err)
	}
	if got := dispatcher.RateLimitStats().CurrentCount; got != 0 {
		t.Errorf("CurrentCount = %d, want 0 when nothing was sent", got)
	}
}

func TestDispatcherRefundsTokenOnAllFailures(t *testing.T) {
	dispatcher := limitedDispatcher(1)
	dispatcher.Register(&mockNotifier{name: "failing", shouldErr: true})

	if err := dispatcher.Dispatch(context.Background(), testNotification(), []string{"failing"}); err == nil {
		t.Error("expected error from failing notifier")
	}
	if got := dispatcher.RateLimitStats().CurrentCount; got != 0 {
		t.Errorf("CurrentCount = %d, want 0 after refund", got)
	}

	// The refunded token is usable.
	err := dispatcher.Dispatch(context.Background(), testNotification(), []string{"failing"})
	if errors.Is(err, ErrRateLimited) {
		t.Error("second dispatch rate limited, want the refunded token")
	}
}

func TestDispatcherKeepsTokenOnPartialSuccess(t *testing.T) {
	dispatcher := limitedDispatcher(2)
	dispatcher.Register(&mockNotifier{name: "failing", shouldErr: true})
	dispatcher.Register(&mockNotifier{name: "ok"})

	if err := dispatcher.Dispatch(context.Background(), testNotification(), []string{"failing", "ok"}); err == nil {
		t.Error("expected error from failing notifier")
	}
	if got := dispatcher.RateLimitStats().CurrentCount; got != 1 {
		t.Errorf("CurrentCount = %d, want 1", got)
	}
}

func TestDispatcherRateLimited(t *testing.T) {
	dispatcher := limitedDispatcher(1)
	mock := &mockNotifier{name: "slack"}
	dispatcher.Register(mock)

	if err := dispatcher.DispatchAll(context.Background(), testNotification()); err != nil {
		t.Fatalf("DispatchAll failed: %v", err)
	}
	if err := dispatcher.DispatchAll(context.Background(), testNotification()); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second DispatchAll error = %v, want ErrRateLimited", err)
	}
	if mock.count() != 1 {
		t.Errorf("sent = %d, want 1", mock.count())
	}
	if got := dispatcher.RateLimitStats().Dropped; got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}
}

func TestRelay(t *testing.T) {
	dispatcher := NewDispatcher()
	slack := &mockNotifier{name: "slack"}
	email := &mockNotifier{name: "email"}
	dispatcher.Register(slack)
	dispatcher.Register(email)

	relay := NewRelay(dispatcher, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	if relay.Enqueue(testNotification(), nil) {
		t.Error("Enqueue() with no channels = true, want false")
	}
	if !relay.Enqueue(testNotification(), []string{"slack"}) {
		t.Fatal("Enqueue() = false, want true")
	}

	deadline := time.Now().Add(2 * time.Second)
	for slack.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if slack.count() != 1 {
		t.Errorf("slack sent = %d, want 1", slack.count())
	}
	if email.count() != 0 {
		t.Errorf("email sent = %d, want 0", email.count())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRelayDropsWhenFull(t *testing.T) {
	relay := NewRelay(NewDispatcher(), 1)

	if !relay.Enqueue(testNotification(), []string{"slack"}) {
		t.Fatal("first Enqueue() = false")
	}
	if relay.Enqueue(testNotification(), []string{"slack"}) {
		t.Error("Enqueue() on a full queue = true, want false")
	}
}
