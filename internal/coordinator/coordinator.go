// Package coordinator implements the per-view coordinators of the workspace.
//
// A coordinator owns the transient state of one view (search text, open
// dialogs, drafts, the selected entity) and turns user actions into store
// operations. Coordinators never cache entities: selections are kept as ids
// and re-fetched from the store on every read. Delayed work (typing
// indicator, assistant replies, upload progress) runs on a Scheduler that is
// closed together with the coordinator.
package coordinator

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/store"
)

// ErrClosed is returned by coordinators and schedulers after Close.
var ErrClosed = errors.New("coordinator closed")

// ErrNoSelection is returned by actions that need a selected entity.
var ErrNoSelection = errors.New("nothing selected")

// Navigator switches the active view. The shell implements it.
type Navigator interface {
	Navigate(view string) error
}

// TasksView is the view the dashboard opens when a project is selected.
const TasksView = "tasks"

// Config contains coordinator timing and fixture settings.
type Config struct {
	TypingPeerID   string        // user shown as typing after a send
	TypingWindow   time.Duration // how long the typing indicator stays on
	ReplyDelay     time.Duration // assistant reply delay
	UploadInterval time.Duration // time between upload progress steps
	UploadStep     int           // progress percentage per step
	CurrentWeek    int
	TotalWeeks     int
	Now            func() time.Time
}

// SetDefaults applies default values for missing configuration.
func (c *Config) SetDefaults() {
	if c.TypingPeerID == "" {
		c.TypingPeerID = "2"
	}
	if c.TypingWindow == 0 {
		c.TypingWindow = 2 * time.Second
	}
	if c.ReplyDelay == 0 {
		c.ReplyDelay = time.Second
	}
	if c.UploadInterval == 0 {
		c.UploadInterval = 200 * time.Millisecond
	}
	if c.UploadStep <= 0 {
		c.UploadStep = 10
	}
	if c.TotalWeeks <= 0 {
		c.TotalWeeks = 10
	}
	if c.CurrentWeek <= 0 {
		c.CurrentWeek = 5
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// base carries what every coordinator shares: the store, config and a
// scheduler whose lifetime is the coordinator's.
type base struct {
	mu    sync.Mutex
	store *store.Store
	cfg   Config
	sched *Scheduler
}

func (b *base) init(st *store.Store, cfg Config, name string) {
	cfg.SetDefaults()
	b.store = st
	b.cfg = cfg
	b.sched = NewScheduler(name)
}

// Close cancels pending continuations and waits for running ones. Once Close
// returns no continuation of this coordinator will touch the store.
func (b *base) Close() {
	b.sched.Close()
}

// Closed reports whether Close has been called.
func (b *base) Closed() bool {
	return b.sched.Closed()
}

func (b *base) checkOpen() error {
	if b.sched.Closed() {
		return ErrClosed
	}
	return nil
}

func (b *base) currentUserID() string {
	return b.store.CurrentUser().ID
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &store.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}
