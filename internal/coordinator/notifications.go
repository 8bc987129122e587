package coordinator

import (
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// Notifications coordinates the notification center.
type Notifications struct {
	base

	filter string
}

// NewNotifications creates the notification coordinator.
func NewNotifications(st *store.Store, cfg Config) *Notifications {
	n := &Notifications{filter: views.All}
	n.init(st, cfg, "notifications")
	return n
}

// SetFilter selects views.All, views.Unread or a notification type.
func (n *Notifications) SetFilter(filter string) error {
	if err := checkNotificationFilter(filter); err != nil {
		return err
	}
	n.mu.Lock()
	n.filter = filter
	n.mu.Unlock()
	return nil
}

// Filter returns the active filter.
func (n *Notifications) Filter() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.filter
}

// Visible returns the notifications matching the active filter.
func (n *Notifications) Visible() []*models.Notification {
	return views.FilterNotifications(n.store.Snapshot().Notifications, n.Filter())
}

// VisibleFor returns the notifications matching filter without changing the
// active filter.
func (n *Notifications) VisibleFor(filter string) ([]*models.Notification, error) {
	if err := checkNotificationFilter(filter); err != nil {
		return nil, err
	}
	return views.FilterNotifications(n.store.Snapshot().Notifications, filter), nil
}

func checkNotificationFilter(filter string) error {
	if filter != views.All && filter != views.Unread && !models.NotificationType(filter).IsValid() {
		return &store.ValidationError{Field: "filter", Reason: "must be one of: all unread task file message deadline"}
	}
	return nil
}

// UnreadCount returns the number of unread notifications.
func (n *Notifications) UnreadCount() int {
	return views.UnreadCount(n.store.Snapshot().Notifications)
}

// CountByType returns the per-type tab counts.
func (n *Notifications) CountByType() map[models.NotificationType]int {
	return views.CountByType(n.store.Snapshot().Notifications)
}

// When renders a notification timestamp relative to now.
func (n *Notifications) When(notif *models.Notification) string {
	return views.RelativeTime(notif.Timestamp, n.cfg.Now())
}

// MarkRead marks one notification read.
func (n *Notifications) MarkRead(id string) error {
	if err := n.checkOpen(); err != nil {
		return err
	}
	_, err := n.store.MarkNotificationRead(id)
	return err
}

// MarkAllRead marks every notification read.
func (n *Notifications) MarkAllRead() error {
	if err := n.checkOpen(); err != nil {
		return err
	}
	n.store.MarkAllNotificationsRead()
	return nil
}

// Delete removes a notification.
func (n *Notifications) Delete(id string) error {
	if err := n.checkOpen(); err != nil {
		return err
	}
	_, err := n.store.DeleteNotification(id)
	return err
}
