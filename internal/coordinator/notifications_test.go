package coordinator

import (
	"testing"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

func TestNotifications_Filter(t *testing.T) {
	n := NewNotifications(newTestStore(t), testConfig())
	defer n.Close()

	tests := []struct {
		filter string
		want   int
	}{
		{views.All, 4},
		{views.Unread, 3},
		{"task", 1},
		{"message", 1},
	}
	for _, tt := range tests {
		if err := n.SetFilter(tt.filter); err != nil {
			t.Fatalf("SetFilter(%q) error = %v", tt.filter, err)
		}
		if got := len(n.Visible()); got != tt.want {
			t.Errorf("len(Visible()) for %q = %d, want %d", tt.filter, got, tt.want)
		}
	}

	wantValidation(t, n.SetFilter("alerts"), "filter")
	if n.Filter() != "message" {
		t.Errorf("Filter() = %q, want unchanged %q", n.Filter(), "message")
	}
}

func TestNotifications_ReadAndDelete(t *testing.T) {
	st := newTestStore(t)
	n := NewNotifications(st, testConfig())
	defer n.Close()

	if got := n.UnreadCount(); got != 3 {
		t.Fatalf("UnreadCount() = %d, want 3", got)
	}

	if err := n.MarkRead("1"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if got := n.UnreadCount(); got != 2 {
		t.Errorf("UnreadCount() after MarkRead = %d, want 2", got)
	}

	if err := n.MarkAllRead(); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if got := n.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount() after MarkAllRead = %d, want 0", got)
	}
	v := st.Version()
	if err := n.MarkAllRead(); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if st.Version() != v {
		t.Error("second MarkAllRead() changed the store version")
	}

	if err := n.Delete("9"); !store.IsNotFound(err) {
		t.Errorf("Delete(9) error = %v, want NotFoundError", err)
	}
	if err := n.Delete("2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	counts := n.CountByType()
	if counts[models.NotificationTypeFile] != 0 || counts[models.NotificationTypeTask] != 1 {
		t.Errorf("CountByType() = %v, want file 0, task 1", counts)
	}
}

func TestNotifications_When(t *testing.T) {
	n := NewNotifications(newTestStore(t), testConfig())
	defer n.Close()

	tests := []struct {
		ts   string
		want string
	}{
		{"2025-11-16T11:15:00Z", "45 minutes ago"},
		{"2025-11-16T07:00:00Z", "5 hours ago"},
		{"2025-11-15T09:00:00Z", "Yesterday"},
		{"2025-11-13T16:30:00Z", "Nov 13"},
	}
	for _, tt := range tests {
		if got := n.When(&models.Notification{Timestamp: tt.ts}); got != tt.want {
			t.Errorf("When(%s) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}
