package store

import (
	"strings"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

func notificationID(n *models.Notification) string { return n.ID }

// CreateNotification appends an unread notification.
func (s *Store) CreateNotification(params CreateNotificationParams) (*models.Notification, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	var created *models.Notification
	err := s.mutate(func() (Change, error) {
		n := &models.Notification{
			ID:          s.nextID(KindNotification),
			Type:        params.Type,
			Title:       strings.TrimSpace(params.Title),
			Description: params.Description,
			Timestamp:   params.Timestamp,
			Link:        params.Link,
		}
		if n.Timestamp == "" {
			n.Timestamp = s.timestamp()
		}

		s.state.Notifications = appendOne(s.state.Notifications, n)
		created = n
		return Change{Kind: KindNotification, Op: OpCreate, ID: n.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MarkNotificationRead sets one notification's read flag. Marking an already
// read notification succeeds without a new version.
func (s *Store) MarkNotificationRead(id string) ([]*models.Notification, error) {
	s.mu.RLock()
	i := indexOf(s.state.Notifications, id, notificationID)
	if i >= 0 && s.state.Notifications[i].Read {
		out := s.state.Notifications
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	var out []*models.Notification
	err := s.mutate(func() (Change, error) {
		i := indexOf(s.state.Notifications, id, notificationID)
		if i < 0 {
			return Change{}, notFound(KindNotification, id)
		}
		n := s.state.Notifications[i].Clone()
		n.Read = true
		s.state.Notifications = replaceAt(s.state.Notifications, i, n)
		out = s.state.Notifications
		return Change{Kind: KindNotification, Op: OpUpdate, ID: id}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAllNotificationsRead sets every read flag. When nothing is unread the
// current collection is returned unchanged and no change is published.
func (s *Store) MarkAllNotificationsRead() []*models.Notification {
	s.mu.Lock()
	cur := s.state.Notifications
	unread := false
	for _, n := range cur {
		if !n.Read {
			unread = true
			break
		}
	}
	if !unread {
		s.mu.Unlock()
		return cur
	}

	out := make([]*models.Notification, len(cur))
	for i, n := range cur {
		if n.Read {
			out[i] = n
			continue
		}
		c := n.Clone()
		c.Read = true
		out[i] = c
	}
	s.state.Notifications = out
	s.state.Version++
	change := Change{Kind: KindNotification, Op: OpUpdate, Version: s.state.Version, Snapshot: s.state}
	s.mu.Unlock()

	s.publish(change)
	return out
}

// DeleteNotification removes a notification and returns the remaining
// collection.
func (s *Store) DeleteNotification(id string) ([]*models.Notification, error) {
	var out []*models.Notification
	err := s.mutate(func() (Change, error) {
		i := indexOf(s.state.Notifications, id, notificationID)
		if i < 0 {
			return Change{}, notFound(KindNotification, id)
		}
		s.state.Notifications = removeAt(s.state.Notifications, i)
		out = s.state.Notifications
		return Change{Kind: KindNotification, Op: OpDelete, ID: id}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
