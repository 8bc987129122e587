package views

import (
	"fmt"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// Unread is the notification filter value selecting unread entries.
const Unread = "unread"

// FilterNotifications applies All, Unread or an exact type filter.
func FilterNotifications(notifications []*models.Notification, filter string) []*models.Notification {
	out := make([]*models.Notification, 0, len(notifications))
	for _, n := range notifications {
		switch filter {
		case "", All:
		case Unread:
			if n.Read {
				continue
			}
		default:
			if string(n.Type) != filter {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// UnreadCount returns the number of unread notifications.
func UnreadCount(notifications []*models.Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}

// HasUnread reports whether any notification is unread.
func HasUnread(notifications []*models.Notification) bool {
	for _, n := range notifications {
		if !n.Read {
			return true
		}
	}
	return false
}

// CountByType returns the number of notifications per type. Every known type
// is present in the result.
func CountByType(notifications []*models.Notification) map[models.NotificationType]int {
	out := make(map[models.NotificationType]int, len(models.NotificationTypes))
	for _, t := range models.NotificationTypes {
		out[t] = 0
	}
	for _, n := range notifications {
		out[n.Type]++
	}
	return out
}

// RelativeTime renders a timestamp the way the notification list shows it:
// minutes or hours ago, "Yesterday", or a short date.
func RelativeTime(timestamp string, now time.Time) string {
	ts, ok := models.ParseDate(timestamp)
	if !ok {
		return timestamp
	}
	diff := now.Sub(ts)
	switch hours := int(diff.Hours()); {
	case hours < 1:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case hours < 48:
		return "Yesterday"
	default:
		return ts.Format("Jan 2")
	}
}
