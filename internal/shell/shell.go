// Package shell ties a workspace together: one store, one coordinator per
// view, the active view and the unread badge.
package shell

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/metrics"
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/notifier"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// View names a top-level screen.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewTasks         View = coordinator.TasksView
	ViewFiles         View = "files"
	ViewTimeline      View = "timeline"
	ViewChat          View = "chat"
	ViewNotifications View = "notifications"
	ViewProfile       View = "profile"
)

// Views lists every view in sidebar order.
var Views = []View{
	ViewDashboard,
	ViewTasks,
	ViewFiles,
	ViewTimeline,
	ViewChat,
	ViewNotifications,
	ViewProfile,
}

// IsValid checks if the view is known.
func (v View) IsValid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	v := View(s)
	if !v.IsValid() {
		return "", &store.ValidationError{Field: "view", Reason: "must be one of: dashboard tasks files timeline chat notifications profile"}
	}
	return v, nil
}

// Relay forwards new notifications to external channels.
type Relay interface {
	Enqueue(n *models.Notification, channels []string) bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithRelay forwards notifications created in the store to r, on the
// channels the profile preferences allow.
func WithRelay(r Relay) Option {
	return func(s *Shell) {
		s.relay = r
	}
}

// State is what the frame around every view shows.
type State struct {
	View    View         `json:"view"`
	Views   []View       `json:"views"`
	Unread  int          `json:"unread"`
	User    *models.User `json:"user"`
	Version uint64       `json:"version"`
}

// Shell owns the store and the coordinators of one workspace session.
type Shell struct {
	store *store.Store

	Dashboard     *coordinator.Dashboard
	Tasks         *coordinator.TaskBoard
	Files         *coordinator.FileSharing
	Timeline      *coordinator.Timeline
	Chat          *coordinator.Chat
	Notifications *coordinator.Notifications
	Profile       *coordinator.Profile

	relay Relay
	log   *logrus.Entry

	mu    sync.Mutex
	view  View
	badge int

	unsubscribe func()
	closeOnce   sync.Once
}

// New builds a shell around st. The dashboard is the initial view.
func New(st *store.Store, cfg coordinator.Config, opts ...Option) *Shell {
	s := &Shell{
		store: st,
		view:  ViewDashboard,
		log:   logging.Component("shell"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Dashboard = coordinator.NewDashboard(st, s, cfg)
	s.Tasks = coordinator.NewTaskBoard(st, cfg)
	s.Files = coordinator.NewFileSharing(st, cfg)
	s.Timeline = coordinator.NewTimeline(st, cfg)
	s.Chat = coordinator.NewChat(st, cfg)
	s.Notifications = coordinator.NewNotifications(st, cfg)
	s.Profile = coordinator.NewProfile(st, cfg)

	s.refresh(st.Snapshot())
	s.unsubscribe = st.Subscribe(s.onChange)
	return s
}

// Store returns the workspace store.
func (s *Shell) Store() *store.Store {
	return s.store
}

// Navigate switches the active view.
func (s *Shell) Navigate(view string) error {
	v, err := ParseView(view)
	if err != nil {
		return err
	}
	s.mu.Lock()
	prev := s.view
	s.view = v
	s.mu.Unlock()

	if prev != v {
		s.log.WithFields(logrus.Fields{"from": prev, "to": v}).Debug("navigate")
	}
	return nil
}

// View returns the active view.
func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Badge returns the unread notification count shown in the sidebar.
func (s *Shell) Badge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badge
}

// State returns the active view, the badge and the signed-in user.
func (s *Shell) State() State {
	snap := s.store.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		View:    s.view,
		Views:   Views,
		Unread:  s.badge,
		User:    snap.CurrentUser,
		Version: snap.Version,
	}
}

// Reset replaces the workspace state with seed. View state is kept;
// selections that no longer resolve read as empty.
func (s *Shell) Reset(seed store.Seed) {
	s.store.Reset(seed)
	s.log.Info("workspace reset")
}

// Close stops every coordinator. In-flight uploads are cancelled and pending
// chat timers dropped.
func (s *Shell) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.Files.Close()
		s.Chat.Close()
		s.Dashboard.Close()
		s.Tasks.Close()
		s.Timeline.Close()
		s.Notifications.Close()
		s.Profile.Close()
	})
}

func (s *Shell) onChange(c store.Change) {
	kind := string(c.Kind)
	if kind == "" {
		kind = "all"
	}
	metrics.StoreMutationsTotal.WithLabelValues(kind, string(c.Op)).Inc()

	snap := c.Snapshot
	s.refresh(snap)

	if s.relay != nil && c.Kind == store.KindNotification && c.Op == store.OpCreate {
		s.forward(snap, c.ID)
	}
}

func (s *Shell) refresh(snap store.Snapshot) {
	unread := views.UnreadCount(snap.Notifications)

	s.mu.Lock()
	s.badge = unread
	s.mu.Unlock()

	metrics.StoreVersion.Set(float64(snap.Version))
	metrics.UnreadNotifications.Set(float64(unread))
}

func (s *Shell) forward(snap store.Snapshot, id string) {
	var n *models.Notification
	for _, it := range snap.Notifications {
		if it.ID == id {
			n = it
			break
		}
	}
	if n == nil {
		return
	}

	channels := Channels(s.Profile.Preferences(), n.Type)
	if len(channels) == 0 {
		s.log.WithField("notification_id", id).Debug("notification not relayed: switched off")
		return
	}
	s.relay.Enqueue(n, channels)
}

// Channels returns the external channels a notification of type t goes to
// under prefs: none when its type is switched off, otherwise Slack for push
// and email for email.
func Channels(prefs coordinator.Preferences, t models.NotificationType) []string {
	if !prefs.Wants(t) {
		return nil
	}
	var out []string
	if prefs.PushNotifications {
		out = append(out, notifier.ChannelSlack)
	}
	if prefs.EmailNotifications {
		out = append(out, notifier.ChannelEmail)
	}
	return out
}
