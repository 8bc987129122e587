package coordinator

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestChat_Send(t *testing.T) {
	st := newTestStore(t)
	c := NewChat(st, testConfig())
	defer c.Close()

	_, err := c.Send()
	wantValidation(t, err, "text")

	c.SetDraft("Standup in 5")
	msg, err := c.Send()
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg.ID != "6" || msg.UserID != "1" || msg.Timestamp != "2025-11-16T12:00:00Z" {
		t.Errorf("message = %+v, want id 6 by user 1 at fixed time", msg)
	}
	if c.Draft() != "" {
		t.Error("Draft() not cleared after send")
	}
	if got := c.Messages(); len(got) != 6 || got[5].ID != "6" {
		t.Errorf("Messages() does not end with the new message")
	}

	if got := c.Typing(); len(got) != 1 || got[0] != "2" {
		t.Errorf("Typing() = %v, want [2]", got)
	}
	waitFor(t, 2*time.Second, func() bool { return len(c.Typing()) == 0 })
}

func TestChat_SecondSendRestartsTypingWindow(t *testing.T) {
	cfg := testConfig()
	cfg.TypingWindow = 200 * time.Millisecond
	c := NewChat(newTestStore(t), cfg)
	defer c.Close()

	c.SetDraft("one")
	if _, err := c.Send(); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	time.Sleep(120 * time.Millisecond)

	c.SetDraft("two")
	if _, err := c.Send(); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	time.Sleep(120 * time.Millisecond)

	// 240ms after the first send: the first window has passed but the
	// second has not.
	if got := c.Typing(); len(got) != 1 {
		t.Errorf("Typing() = %v, want still typing", got)
	}
	waitFor(t, 2*time.Second, func() bool { return len(c.Typing()) == 0 })
}

func TestChat_OnlineCount(t *testing.T) {
	c := NewChat(newTestStore(t), testConfig())
	defer c.Close()

	if got := c.OnlineCount(); got != 3 {
		t.Errorf("OnlineCount() = %d, want 3", got)
	}
}

func TestChat_Ask(t *testing.T) {
	st := newTestStore(t)
	c := NewChat(st, testConfig())
	defer c.Close()

	if open := c.ToggleAssistant(); !open || !c.AssistantOpen() {
		t.Error("ToggleAssistant() did not open the panel")
	}

	v := st.Version()
	if err := c.Ask("What tasks are due this week?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	entries := c.Assistant()
	if len(entries) != 1 || entries[0].Role != RoleUser {
		t.Fatalf("Assistant() = %+v, want the user query", entries)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}

	waitFor(t, 2*time.Second, func() bool { return c.Pending() == 0 })
	entries = c.Assistant()
	if len(entries) != 2 || entries[1].Role != RoleAssistant || entries[1].Text != answerTasks {
		t.Errorf("Assistant() = %+v, want the tasks answer", entries)
	}
	if st.Version() != v {
		t.Error("assistant conversation reached the store")
	}

	wantValidation(t, c.Ask(""), "query")
}

func TestChat_CloseDropsPendingReply(t *testing.T) {
	cfg := testConfig()
	cfg.ReplyDelay = time.Hour
	c := NewChat(newTestStore(t), cfg)

	if err := c.Ask("status?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got := c.Pending(); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}
	c.Close()

	if got := len(c.Assistant()); got != 1 {
		t.Errorf("len(Assistant()) = %d, want 1", got)
	}
	if got := c.Pending(); got != 0 {
		t.Errorf("Pending() after Close = %d, want 0", got)
	}
	if err := c.Ask("again"); !errors.Is(err, ErrClosed) {
		t.Errorf("Ask() after Close error = %v, want ErrClosed", err)
	}
	c.SetDraft("late")
	if _, err := c.Send(); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after Close error = %v, want ErrClosed", err)
	}
}

func TestRespond(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Show tasks due this week", answerTasks},
		{"what is DUE?", answerTasks},
		{"project status", answerStatus},
		{"how is our progress", answerStatus},
		{"suggest a deadline", answerSuggest},
		{"task status", answerTasks},
		{"hello", answerHelp},
		{"", answerHelp},
	}
	for _, tt := range tests {
		got := Respond(tt.query)
		if got != tt.want {
			t.Errorf("Respond(%q) = %q, want %q", tt.query, firstLine(got), firstLine(tt.want))
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
