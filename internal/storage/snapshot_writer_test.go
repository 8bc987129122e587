package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/seed"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

type recordingSaver struct {
	mu    sync.Mutex
	saves []store.Seed
	err   error
}

func (r *recordingSaver) Save(_ context.Context, s store.Seed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves = append(r.saves, s)
	return nil
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func TestSnapshotWriter_FlushOnlyWhenDirty(t *testing.T) {
	st := store.New(seed.Default())
	saver := &recordingSaver{}
	w := NewSnapshotWriter(st, saver, &SnapshotWriterConfig{FlushInterval: time.Hour})
	defer w.Close()

	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if saver.count() != 0 {
		t.Fatalf("saves = %d, want 0 before any change", saver.count())
	}

	st.MarkAllNotificationsRead()
	if !w.Stats().Pending {
		t.Error("Stats().Pending = false after a change")
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	if saver.count() != 1 {
		t.Errorf("saves = %d, want 1", saver.count())
	}
	stats := w.Stats()
	if stats.Pending || stats.Flushed != 1 || stats.SavedVersion != st.Version() {
		t.Errorf("Stats() = %+v, want flushed once at version %d", stats, st.Version())
	}
}

func TestSnapshotWriter_RetriesAfterFailure(t *testing.T) {
	st := store.New(seed.Default())
	saver := &recordingSaver{err: errors.New("disk full")}
	w := NewSnapshotWriter(st, saver, &SnapshotWriterConfig{FlushInterval: time.Hour})
	defer w.Close()

	st.MarkAllNotificationsRead()
	if err := w.Flush(); err == nil {
		t.Fatal("Flush() error = nil, want disk full")
	}
	if !w.Stats().Pending || w.Stats().Failed != 1 {
		t.Errorf("Stats() = %+v, want pending with one failure", w.Stats())
	}

	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()

	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if saver.count() != 1 {
		t.Errorf("saves = %d, want 1", saver.count())
	}
}

func TestSnapshotWriter_CloseFlushes(t *testing.T) {
	st := store.New(seed.Default())
	saver := &recordingSaver{}
	w := NewSnapshotWriter(st, saver, &SnapshotWriterConfig{FlushInterval: time.Hour})

	if _, err := st.DeleteNotification("1"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if saver.count() != 1 {
		t.Fatalf("saves = %d, want 1", saver.count())
	}
	if got := len(saver.saves[0].Notifications); got != 3 {
		t.Errorf("saved notifications = %d, want 3", got)
	}

	// Changes after Close are not observed.
	st.MarkAllNotificationsRead()
	if w.Stats().Pending {
		t.Error("writer observed a change after Close")
	}
}

func TestSnapshotWriter_Ticker(t *testing.T) {
	st := store.New(seed.Default())
	s := setupTestDB(t)
	w := NewSnapshotWriter(st, s, &SnapshotWriterConfig{FlushInterval: 10 * time.Millisecond})
	defer w.Close()

	st.MarkAllNotificationsRead()

	deadline := time.Now().Add(2 * time.Second)
	for w.Stats().Flushed == 0 {
		if time.Now().After(deadline) {
			t.Fatal("snapshot not written by the flush loop")
		}
		time.Sleep(5 * time.Millisecond)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range got.Notifications {
		if !n.Read {
			t.Errorf("notification %s unread in saved snapshot", n.ID)
		}
	}
}
