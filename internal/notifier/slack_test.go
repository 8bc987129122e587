package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

func testNotification() *models.Notification {
	return &models.Notification{
		ID:          "7",
		Type:        models.NotificationTypeDeadline,
		Title:       "Deadline approaching",
		Description: "Design User Interface Mockups is due tomorrow.",
		Timestamp:   "2025-11-14T07:00:00Z",
		Link:        "/tasks/1",
	}
}

func TestSlackConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  SlackConfig
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config",
			config:  SlackConfig{},
			wantErr: true,
			errMsg:  "webhook URL is required",
		},
		{
			name:    "http URL rejected",
			config:  SlackConfig{WebhookURL: "http://hooks.slack.com/services/xxx"},
			wantErr: true,
			errMsg:  "webhook URL must use HTTPS",
		},
		{
			name:   "valid config",
			config: SlackConfig{WebhookURL: "https://hooks.slack.com/services/T00/B00/xxx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSlackNotifierSend(t *testing.T) {
	var received slackMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("failed to unmarshal payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := &SlackNotifier{
		config:     SlackConfig{WebhookURL: server.URL, BaseURL: "https://hub.example.com"},
		httpClient: server.Client(),
	}

	if err := notifier.Send(context.Background(), testNotification()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if received.Text != "CollabHub: Deadline approaching" {
		t.Errorf("Text = %q", received.Text)
	}
	if len(received.Blocks) != 4 {
		t.Fatalf("len(Blocks) = %d, want 4", len(received.Blocks))
	}
	if h := received.Blocks[0]; h.Type != "header" || !strings.Contains(h.Text.Text, "Deadline approaching") {
		t.Errorf("header = %+v", h)
	}
	if f := received.Blocks[1].Fields; len(f) != 2 || !strings.Contains(f[0].Text, "Deadline") {
		t.Errorf("fields = %+v", f)
	}
	link := received.Blocks[3].Elements[0].Text
	if !strings.Contains(link, "https://hub.example.com/tasks/1") {
		t.Errorf("link = %q, want absolute task link", link)
	}
}

func TestSlackNotifierHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid_payload"))
	}))
	defer server.Close()

	notifier := &SlackNotifier{
		config:     SlackConfig{WebhookURL: server.URL},
		httpClient: server.Client(),
	}

	err := notifier.Send(context.Background(), testNotification())
	if err == nil {
		t.Fatal("expected error for HTTP 400")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "invalid_payload") {
		t.Errorf("error = %v, want status and body", err)
	}
}

func TestSlackNotifierContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	notifier := &SlackNotifier{
		config:     SlackConfig{WebhookURL: server.URL},
		httpClient: server.Client(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := notifier.Send(ctx, testNotification()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSlackPayloadWithoutOptionalBlocks(t *testing.T) {
	notifier := &SlackNotifier{}
	msg := notifier.buildPayload(&models.Notification{Type: models.NotificationTypeTask, Title: "Assigned"})

	if len(msg.Blocks) != 2 {
		t.Errorf("len(Blocks) = %d, want 2 without description and link", len(msg.Blocks))
	}
}

func TestTypeEmoji(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range models.NotificationTypes {
		e := typeEmoji(typ)
		if seen[e] {
			t.Errorf("typeEmoji(%s) = %q reused", typ, e)
		}
		seen[e] = true
	}
	if typeEmoji("other") != "\U0001F514" {
		t.Error("unknown type should use the bell")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
