// Package store provides the in-memory entity store for a CollabHub workspace.
//
// The store owns every collection (users, projects, tasks, files, milestones,
// messages, notifications) plus the current-user record. Mutations never
// modify a published slice or entity: each one builds a complete replacement
// collection and swaps it in under the lock, so a Snapshot taken earlier stays
// valid and unchanged entries keep their pointer identity.
package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// Seed is the bootstrap state for a store.
type Seed struct {
	Users         []*models.User         `json:"users" yaml:"users"`
	CurrentUser   *models.User           `json:"current_user" yaml:"current_user"`
	Projects      []*models.Project      `json:"projects" yaml:"projects"`
	Tasks         []*models.Task         `json:"tasks" yaml:"tasks"`
	Files         []*models.File         `json:"files" yaml:"files"`
	Milestones    []*models.Milestone    `json:"milestones" yaml:"milestones"`
	Messages      []*models.Message      `json:"messages" yaml:"messages"`
	Notifications []*models.Notification `json:"notifications" yaml:"notifications"`
	PasswordHash  string                 `json:"-" yaml:"password_hash,omitempty"`
}

// Snapshot is an immutable view of every collection at one version.
// Callers must not modify the slices or the entities they point to.
type Snapshot struct {
	Version       uint64
	Users         []*models.User
	CurrentUser   *models.User
	Projects      []*models.Project
	Tasks         []*models.Task
	Files         []*models.File
	Milestones    []*models.Milestone
	Messages      []*models.Message
	Notifications []*models.Notification
}

// Op describes the kind of mutation recorded in a Change.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpReset  Op = "reset"
)

// Change is delivered to subscribers after every successful mutation.
// Snapshot is the state as committed at Version.
type Change struct {
	Kind     Kind
	Op       Op
	ID       string
	Version  uint64
	Snapshot Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for defaults such as timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is the single owner of workspace state.
type Store struct {
	mu           sync.RWMutex
	state        Snapshot
	seq          map[Kind]int
	passwordHash []byte

	// Delivery happens outside mu. notified is the last version handed to
	// subscribers; a publisher waits on notifyCond until its turn.
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notified   uint64

	subsMu  sync.Mutex
	subs    map[int]func(Change)
	nextSub int

	now      func() time.Time
	validate *validator.Validate
}

// New creates a store populated from seed. The seed's slices are copied; the
// entities themselves are cloned so later changes to the seed do not leak in.
func New(seed Seed, opts ...Option) *Store {
	s := &Store{
		subs:     make(map[int]func(Change)),
		now:      time.Now,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	s.load(seed)
	s.notified = s.state.Version
	return s
}

func (s *Store) load(seed Seed) {
	st := Snapshot{
		Version:       s.state.Version + 1,
		Users:         cloneAll(seed.Users, (*models.User).Clone),
		Projects:      cloneAll(seed.Projects, (*models.Project).Clone),
		Tasks:         cloneAll(seed.Tasks, (*models.Task).Clone),
		Files:         cloneAll(seed.Files, (*models.File).Clone),
		Milestones:    cloneAll(seed.Milestones, (*models.Milestone).Clone),
		Messages:      cloneAll(seed.Messages, (*models.Message).Clone),
		Notifications: cloneAll(seed.Notifications, (*models.Notification).Clone),
	}
	if seed.CurrentUser != nil {
		st.CurrentUser = seed.CurrentUser.Clone()
	} else {
		st.CurrentUser = &models.User{}
	}

	s.state = st
	s.passwordHash = []byte(seed.PasswordHash)
	s.seq = map[Kind]int{
		KindUser:         maxNumericID(st.Users, func(u *models.User) string { return u.ID }),
		KindProject:      maxNumericID(st.Projects, func(p *models.Project) string { return p.ID }),
		KindTask:         maxNumericID(st.Tasks, func(t *models.Task) string { return t.ID }),
		KindFile:         maxNumericID(st.Files, func(f *models.File) string { return f.ID }),
		KindMilestone:    maxNumericID(st.Milestones, func(m *models.Milestone) string { return m.ID }),
		KindMessage:      maxNumericID(st.Messages, func(m *models.Message) string { return m.ID }),
		KindNotification: maxNumericID(st.Notifications, func(n *models.Notification) string { return n.ID }),
	}
}

// Reset replaces all state with seed. Id counters restart from the seed.
func (s *Store) Reset(seed Seed) {
	s.mu.Lock()
	s.load(seed)
	change := Change{Op: OpReset, Version: s.state.Version, Snapshot: s.state}
	s.mu.Unlock()
	s.publish(change)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Export returns the current state as a Seed, suitable for persisting.
func (s *Store) Export() Seed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Seed{
		Users:         s.state.Users,
		CurrentUser:   s.state.CurrentUser,
		Projects:      s.state.Projects,
		Tasks:         s.state.Tasks,
		Files:         s.state.Files,
		Milestones:    s.state.Milestones,
		Messages:      s.state.Messages,
		Notifications: s.state.Notifications,
		PasswordHash:  string(s.passwordHash),
	}
}

// Version returns the current state version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Version
}

// Subscribe registers fn to be called after every mutation. Callbacks run
// synchronously on the mutating goroutine, one change at a time in version
// order. They may read the store but must not mutate it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// publish delivers change once every earlier version has been delivered.
// It must be called without s.mu held.
func (s *Store) publish(change Change) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for s.notified+1 != change.Version {
		s.notifyCond.Wait()
	}
	defer func() {
		s.notified = change.Version
		s.notifyCond.Broadcast()
	}()

	s.subsMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// nextID must be called with s.mu held for writing.
func (s *Store) nextID(kind Kind) string {
	s.seq[kind]++
	return strconv.Itoa(s.seq[kind])
}

func (s *Store) timestamp() string {
	return models.FormatTimestamp(s.now())
}

func cloneAll[T any](in []*T, clone func(*T) *T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, clone(v))
		}
	}
	return out
}

func maxNumericID[T any](items []*T, id func(*T) string) int {
	max := 0
	for _, it := range items {
		if n, err := strconv.Atoi(id(it)); err == nil && n > max {
			max = n
		}
	}
	return max
}

// appendOne returns a new slice holding items followed by v.
func appendOne[T any](items []*T, v *T) []*T {
	out := make([]*T, len(items), len(items)+1)
	copy(out, items)
	return append(out, v)
}

// replaceAt returns a new slice with the entry at i replaced by v.
func replaceAt[T any](items []*T, i int, v *T) []*T {
	out := make([]*T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

// removeAt returns a new slice without the entry at i.
func removeAt[T any](items []*T, i int) []*T {
	out := make([]*T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func indexOf[T any](items []*T, id string, key func(*T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}

// mutate runs fn under the write lock. When fn succeeds the version is bumped
// and the change is published; when it fails nothing is committed.
func (s *Store) mutate(fn func() (Change, error)) error {
	s.mu.Lock()
	change, err := fn()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.Version++
	change.Version = s.state.Version
	change.Snapshot = s.state
	s.mu.Unlock()

	s.publish(change)
	return nil
}
