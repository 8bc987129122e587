package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// Saver is the write half of Storage.
type Saver interface {
	Save(ctx context.Context, seed store.Seed) error
}

// Source is a store whose state can be exported and observed.
type Source interface {
	Export() store.Seed
	Version() uint64
	Subscribe(fn func(store.Change)) (unsubscribe func())
}

// SnapshotWriter saves the workspace whenever it changed, at most once per
// flush interval, plus a final save on Close.
type SnapshotWriter struct {
	saver         Saver
	src           Source
	flushInterval time.Duration
	log           *logrus.Entry

	mu           sync.Mutex
	dirty        bool
	savedVersion uint64

	unsubscribe func()
	stopCh      chan struct{}
	doneCh      chan struct{}
	stopped     atomic.Bool
	flushed     atomic.Int64
	failed      atomic.Int64
}

// SnapshotWriterConfig holds SnapshotWriter configuration.
type SnapshotWriterConfig struct {
	// FlushInterval is how often a pending change is written.
	FlushInterval time.Duration
}

// NewSnapshotWriter starts writing src to saver.
func NewSnapshotWriter(src Source, saver Saver, config *SnapshotWriterConfig) *SnapshotWriter {
	if config == nil {
		config = &SnapshotWriterConfig{}
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}

	w := &SnapshotWriter{
		saver:         saver,
		src:           src,
		flushInterval: config.FlushInterval,
		log:           logging.Component("snapshot"),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	w.unsubscribe = src.Subscribe(w.markDirty)

	go w.flushLoop()
	return w
}

func (w *SnapshotWriter) markDirty(store.Change) {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
}

// Flush writes the current state if it changed since the last save.
func (w *SnapshotWriter) Flush() error {
	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return nil
	}
	w.dirty = false
	w.mu.Unlock()

	version := w.src.Version()
	seed := w.src.Export()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.saver.Save(ctx, seed); err != nil {
		w.mu.Lock()
		w.dirty = true
		w.mu.Unlock()
		w.failed.Add(1)
		return err
	}

	w.mu.Lock()
	w.savedVersion = version
	w.mu.Unlock()
	w.flushed.Add(1)
	return nil
}

func (w *SnapshotWriter) flushLoop() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Flush(); err != nil {
				w.log.WithError(err).Warn("snapshot save failed")
			}
		case <-w.stopCh:
			if err := w.Flush(); err != nil {
				w.log.WithError(err).Error("final snapshot save failed")
			}
			return
		}
	}
}

// Close stops observing the store and writes any pending change.
func (w *SnapshotWriter) Close() error {
	if w.stopped.Swap(true) {
		return nil
	}
	w.unsubscribe()
	close(w.stopCh)
	<-w.doneCh
	return nil
}

// Stats returns writer statistics.
func (w *SnapshotWriter) Stats() SnapshotWriterStats {
	w.mu.Lock()
	pending := w.dirty
	saved := w.savedVersion
	w.mu.Unlock()

	return SnapshotWriterStats{
		Pending:      pending,
		SavedVersion: saved,
		Flushed:      w.flushed.Load(),
		Failed:       w.failed.Load(),
	}
}

// SnapshotWriterStats contains writer statistics.
type SnapshotWriterStats struct {
	// Pending reports a change not yet written.
	Pending bool

	// SavedVersion is the store version of the last successful save.
	SavedVersion uint64

	// Flushed is the number of successful saves.
	Flushed int64

	// Failed is the number of failed saves.
	Failed int64
}
