package models

// NotificationType categorizes a notification.
type NotificationType string

const (
	NotificationTypeTask     NotificationType = "task"
	NotificationTypeFile     NotificationType = "file"
	NotificationTypeMessage  NotificationType = "message"
	NotificationTypeDeadline NotificationType = "deadline"
)

// NotificationTypes lists all notification types in display order.
var NotificationTypes = []NotificationType{
	NotificationTypeTask,
	NotificationTypeFile,
	NotificationTypeMessage,
	NotificationTypeDeadline,
}

// IsValid reports whether t is a known notification type.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeTask, NotificationTypeFile, NotificationTypeMessage, NotificationTypeDeadline:
		return true
	}
	return false
}

// Notification is a cross-cutting alert not owned by any entity.
type Notification struct {
	ID          string           `json:"id" yaml:"id"`
	Type        NotificationType `json:"type" yaml:"type"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Timestamp   string           `json:"timestamp" yaml:"timestamp"`
	Read        bool             `json:"read" yaml:"read"`
	Link        string           `json:"link" yaml:"link"`
}

// Clone returns a copy of the notification.
func (n *Notification) Clone() *Notification {
	c := *n
	return &c
}
