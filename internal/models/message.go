package models

// Reaction groups the users that reacted with one emoji.
type Reaction struct {
	Emoji   string   `json:"emoji" yaml:"emoji"`
	UserIDs []string `json:"user_ids" yaml:"user_ids"`
}

// Message is a post in the global chat. Messages are append-only.
type Message struct {
	ID          string     `json:"id" yaml:"id"`
	UserID      string     `json:"user_id" yaml:"user_id"`
	Text        string     `json:"text" yaml:"text"`
	Timestamp   string     `json:"timestamp" yaml:"timestamp"`
	Attachments []string   `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	Reactions   []Reaction `json:"reactions,omitempty" yaml:"reactions,omitempty"`
	ThreadID    string     `json:"thread_id,omitempty" yaml:"thread_id,omitempty"`
	Pinned      bool       `json:"pinned,omitempty" yaml:"pinned,omitempty"`
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	c := *m
	c.Attachments = copySlice(m.Attachments)
	if m.Reactions != nil {
		c.Reactions = make([]Reaction, len(m.Reactions))
		for i, r := range m.Reactions {
			c.Reactions[i] = Reaction{Emoji: r.Emoji, UserIDs: copySlice(r.UserIDs)}
		}
	}
	return &c
}
