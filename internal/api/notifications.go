package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// NotificationResponse adds the relative time label.
type NotificationResponse struct {
	*models.Notification
	When string `json:"when"`
}

// NotificationListResponse is the notification center.
type NotificationListResponse struct {
	Filter        string                  `json:"filter"`
	Notifications []*NotificationResponse `json:"notifications"`
}

// NotificationSummary feeds the badge and the per-type tabs.
type NotificationSummary struct {
	Unread int                             `json:"unread"`
	ByType map[models.NotificationType]int `json:"by_type"`
}

// listNotifications lists notifications. ?filter= overrides the session
// filter for this request only.
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	n := s.shell.Notifications
	filter := n.Filter()
	if params := r.URL.Query(); params.Has("filter") {
		filter = params.Get("filter")
	}
	visible, err := n.VisibleFor(filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := NotificationListResponse{Filter: filter, Notifications: make([]*NotificationResponse, len(visible))}
	for i, notif := range visible {
		resp.Notifications[i] = &NotificationResponse{Notification: notif, When: n.When(notif)}
	}
	OK(w, resp)
}

func (s *Server) notificationSummary(w http.ResponseWriter, r *http.Request) {
	n := s.shell.Notifications
	OK(w, NotificationSummary{Unread: n.UnreadCount(), ByType: n.CountByType()})
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	if err := s.shell.Notifications.MarkRead(chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	s.notificationSummary(w, r)
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := s.shell.Notifications.MarkAllRead(); err != nil {
		WriteError(w, err)
		return
	}
	s.notificationSummary(w, r)
}

func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.shell.Notifications.Delete(chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	NoContent(w)
}
