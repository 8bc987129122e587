package api

import (
	"net/http"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
)

// MessageRequest posts a chat message as the current user.
type MessageRequest struct {
	Text string `json:"text"`
}

// TypingResponse is the chat header state.
type TypingResponse struct {
	Typing []string `json:"typing"`
	Online int      `json:"online"`
}

// AssistantRequest asks the assistant a question.
type AssistantRequest struct {
	Query string `json:"query"`
}

// AssistantResponse is the assistant panel.
type AssistantResponse struct {
	Open    bool                         `json:"open"`
	Pending int                          `json:"pending"`
	Entries []coordinator.AssistantEntry `json:"entries"`
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	OK(w, s.shell.Chat.Messages())
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}

	c := s.shell.Chat
	c.SetDraft(req.Text)
	m, err := c.Send()
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, m)
}

func (s *Server) typing(w http.ResponseWriter, r *http.Request) {
	c := s.shell.Chat
	typing := c.Typing()
	if typing == nil {
		typing = []string{}
	}
	OK(w, TypingResponse{Typing: typing, Online: c.OnlineCount()})
}

func (s *Server) assistantState() AssistantResponse {
	c := s.shell.Chat
	entries := c.Assistant()
	if entries == nil {
		entries = []coordinator.AssistantEntry{}
	}
	return AssistantResponse{Open: c.AssistantOpen(), Pending: c.Pending(), Entries: entries}
}

func (s *Server) assistant(w http.ResponseWriter, r *http.Request) {
	OK(w, s.assistantState())
}

// askAssistant queues a question; the answer appears in the panel after the
// reply delay.
func (s *Server) askAssistant(w http.ResponseWriter, r *http.Request) {
	var req AssistantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}
	if err := s.shell.Chat.Ask(req.Query); err != nil {
		WriteError(w, err)
		return
	}
	Accepted(w, s.assistantState())
}
