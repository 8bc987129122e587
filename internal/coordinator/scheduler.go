package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/metrics"
)

// Scheduler runs delayed and repeating continuations that can be cancelled
// individually or all at once.
type Scheduler struct {
	name   string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewScheduler creates a scheduler. name labels its metrics.
func NewScheduler(name string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{name: name, ctx: ctx, cancel: cancel}
}

// Task is a handle to one scheduled continuation.
type Task struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the task. A continuation that is already running finishes,
// but its context is cancelled and it is not invoked again.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the task will never run again.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// After runs fn once after d unless cancelled first.
func (s *Scheduler) After(d time.Duration, fn func(ctx context.Context)) (*Task, error) {
	return s.start(d, func(ctx context.Context) bool {
		fn(ctx)
		return false
	})
}

// Every runs fn every d until fn returns false or the task is cancelled.
func (s *Scheduler) Every(d time.Duration, fn func(ctx context.Context) bool) (*Task, error) {
	return s.start(d, fn)
}

func (s *Scheduler) start(d time.Duration, fn func(ctx context.Context) bool) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithCancel(s.ctx)
	t := &Task{ctx: ctx, cancel: cancel, done: make(chan struct{})}

	s.wg.Add(1)
	go s.run(t, d, fn)
	return t, nil
}

func (s *Scheduler) run(t *Task, d time.Duration, fn func(ctx context.Context) bool) {
	defer s.wg.Done()
	defer close(t.done)
	defer t.cancel()

	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			metrics.ContinuationsTotal.WithLabelValues(s.name, "cancelled").Inc()
			return
		case <-ticker.C:
			// A tick and a cancel can be ready together; cancellation wins.
			if t.ctx.Err() != nil {
				metrics.ContinuationsTotal.WithLabelValues(s.name, "cancelled").Inc()
				return
			}
			metrics.ContinuationsTotal.WithLabelValues(s.name, "fired").Inc()
			if !fn(t.ctx) {
				return
			}
		}
	}
}

// Close cancels every task and waits for running continuations to return.
// It must not be called from inside a continuation.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// Closed reports whether Close has been called.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
