package coordinator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// AssistantRole identifies the author of an assistant panel entry.
type AssistantRole string

const (
	RoleUser      AssistantRole = "user"
	RoleAssistant AssistantRole = "ai"
)

// AssistantEntry is one line of the assistant conversation. The assistant
// conversation is view state and never enters the store.
type AssistantEntry struct {
	Role AssistantRole `json:"role"`
	Text string        `json:"text"`
}

// Chat coordinates the team chat and the assistant panel.
type Chat struct {
	base

	draft      string
	typing     []string
	typingTask *Task

	assistantOpen bool
	assistant     []AssistantEntry
	pending       int
}

// NewChat creates the chat coordinator.
func NewChat(st *store.Store, cfg Config) *Chat {
	c := &Chat{}
	c.init(st, cfg, "chat")
	return c
}

// Messages returns the chat history.
func (c *Chat) Messages() []*models.Message {
	return c.store.Snapshot().Messages
}

// OnlineCount returns the number of members online.
func (c *Chat) OnlineCount() int {
	return len(views.OnlineUsers(c.store.Users()))
}

// SetDraft sets the message being composed.
func (c *Chat) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

// Draft returns the message being composed.
func (c *Chat) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Send posts the draft as the current user, clears it, and shows the peer as
// typing for the typing window. A second send restarts the window.
func (c *Chat) Send() (*models.Message, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := required("text", c.draft); err != nil {
		return nil, err
	}
	msg, err := c.store.SendMessage(store.SendMessageParams{
		UserID: c.currentUserID(),
		Text:   c.draft,
	})
	if err != nil {
		return nil, err
	}
	c.draft = ""

	if c.typingTask != nil {
		c.typingTask.Cancel()
	}
	c.typing = []string{c.cfg.TypingPeerID}
	task, err := c.sched.After(c.cfg.TypingWindow, func(ctx context.Context) {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Superseded by a later send while waiting for the lock.
		if ctx.Err() != nil {
			return
		}
		c.typing = nil
		c.typingTask = nil
	})
	if err != nil {
		// Closed between checkOpen and here; the message is already stored.
		c.typing = nil
		return msg, nil
	}
	c.typingTask = task
	return msg, nil
}

// Typing returns the ids of users shown as typing.
func (c *Chat) Typing() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.typing...)
}

// ToggleAssistant shows or hides the assistant panel.
func (c *Chat) ToggleAssistant() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assistantOpen = !c.assistantOpen
	return c.assistantOpen
}

// AssistantOpen reports whether the assistant panel is visible.
func (c *Chat) AssistantOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assistantOpen
}

// Ask appends the query to the assistant conversation and schedules the
// reply after the reply delay.
func (c *Chat) Ask(query string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := required("query", query); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.sched.After(c.cfg.ReplyDelay, func(ctx context.Context) {
		answer := Respond(query)
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pending--
		if ctx.Err() != nil {
			return
		}
		c.assistant = append(c.assistant, AssistantEntry{Role: RoleAssistant, Text: answer})
	})
	if err != nil {
		return err
	}
	c.assistant = append(c.assistant, AssistantEntry{Role: RoleUser, Text: query})
	c.pending++

	logrus.WithField("query", query).Debug("assistant query scheduled")
	return nil
}

// Assistant returns the assistant conversation.
func (c *Chat) Assistant() []AssistantEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]AssistantEntry(nil), c.assistant...)
}

// Close cancels pending replies and the typing window. Replies cancelled
// here are no longer counted by Pending.
func (c *Chat) Close() {
	c.base.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = 0
}

// Pending returns the number of assistant replies not yet delivered.
func (c *Chat) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
