package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// DefaultDebounce is how long the watcher waits after the last event for a
// file before reloading it.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a seed file whenever it is written or recreated. A burst of
// events for one save produces a single reload.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(store.Seed)
	log      *logrus.Entry
	debounce time.Duration

	done chan struct{}
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for path. onChange receives each successfully
// parsed revision; invalid revisions are logged and skipped.
func NewWatcher(path string, onChange func(store.Seed), opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		path:     absPath,
		watcher:  watcher,
		onChange: onChange,
		log:      logging.Component("seed").WithField("path", absPath),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the file's directory so replacement by rename is seen too.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	w.wg.Add(1)
	go w.run(ctx)
	return nil
}

// Stop stops watching and waits for the run loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("seed watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Name != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		// Editors often truncate before writing; the next event carries
		// the complete file.
		w.log.WithError(err).Warn("seed reload skipped")
		return
	}

	w.log.Info("seed file reloaded")
	w.onChange(s)
}
