package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/pkg/config"
)

// SlackConfig holds Slack webhook configuration.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"` // Slack incoming webhook URL
	BaseURL    string `yaml:"base_url"`    // prefix for notification links
}

// Validate validates the Slack configuration.
func (c *SlackConfig) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("webhook URL is required")
	}
	if !strings.HasPrefix(c.WebhookURL, "https://") {
		return fmt.Errorf("webhook URL must use HTTPS")
	}
	return nil
}

// SlackNotifier posts notifications to a Slack channel via webhook.
type SlackNotifier struct {
	config     SlackConfig
	httpClient *http.Client
}

// NewSlackNotifier creates a new Slack notifier.
func NewSlackNotifier(config SlackConfig) (*SlackNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid slack config: %w", err)
	}

	return &SlackNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Name returns "slack".
func (s *SlackNotifier) Name() string {
	return ChannelSlack
}

// Send posts n to Slack.
func (s *SlackNotifier) Send(ctx context.Context, n *models.Notification) error {
	jsonData, err := json.Marshal(s.buildPayload(n))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Close is a no-op for Slack notifier.
func (s *SlackNotifier) Close() error {
	return nil
}

// slackMessage represents the Slack webhook payload.
type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

// slackBlock represents a Slack Block Kit block.
type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

// slackText represents text in Slack Block Kit.
type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

func (s *SlackNotifier) buildPayload(n *models.Notification) slackMessage {
	emoji := typeEmoji(n.Type)

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{
				Type:  "plain_text",
				Text:  fmt.Sprintf("%s %s", emoji, n.Title),
				Emoji: true,
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Type:*\n%s", typeLabel(n.Type))},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Time:*\n%s", formatTime(n.Timestamp))},
			},
		},
	}

	if n.Description != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: truncate(n.Description, 2000)},
		})
	}

	if n.Link != "" {
		blocks = append(blocks, slackBlock{
			Type: "context",
			Elements: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("<%s|Open in CollabHub>", s.config.BaseURL+n.Link)},
			},
		})
	}

	return slackMessage{
		Text:   fmt.Sprintf("CollabHub: %s", n.Title),
		Blocks: blocks,
	}
}

// typeEmoji returns an emoji for the notification type.
func typeEmoji(t models.NotificationType) string {
	switch t {
	case models.NotificationTypeTask:
		return "\u2705" // check mark
	case models.NotificationTypeFile:
		return "\U0001F4CE" // paperclip
	case models.NotificationTypeMessage:
		return "\U0001F4AC" // speech balloon
	case models.NotificationTypeDeadline:
		return "\u23F0" // alarm clock
	default:
		return "\U0001F514" // bell
	}
}

func typeLabel(t models.NotificationType) string {
	switch t {
	case models.NotificationTypeTask:
		return "Task"
	case models.NotificationTypeFile:
		return "File"
	case models.NotificationTypeMessage:
		return "Message"
	case models.NotificationTypeDeadline:
		return "Deadline"
	default:
		return string(t)
	}
}

// formatTime renders a stored timestamp for humans; unparseable values are
// passed through.
func formatTime(ts string) string {
	t, ok := models.ParseDate(ts)
	if !ok {
		return ts
	}
	return t.Format("2006-01-02 15:04 MST")
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
