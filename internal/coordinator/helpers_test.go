package coordinator

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/seed"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

var fixedNow = time.Date(2025, 11, 16, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		TypingWindow:   50 * time.Millisecond,
		ReplyDelay:     20 * time.Millisecond,
		UploadInterval: 5 * time.Millisecond,
		Now:            func() time.Time { return fixedNow },
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(seed.Default(), store.WithClock(func() time.Time { return fixedNow }))
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func wantValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if ve.Field != field {
		t.Errorf("ValidationError.Field = %q, want %q", ve.Field, field)
	}
}

type recordingNavigator struct {
	mu    sync.Mutex
	views []string
}

func (n *recordingNavigator) Navigate(view string) error {
	n.mu.Lock()
	n.views = append(n.views, view)
	n.mu.Unlock()
	return nil
}

func (n *recordingNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.views...)
}
