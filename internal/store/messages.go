package store

import (
	"github.com/good-yellow-bee/collabhub/internal/models"
)

// SendMessage appends a chat message. The timestamp defaults to now.
func (s *Store) SendMessage(params SendMessageParams) (*models.Message, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	var created *models.Message
	err := s.mutate(func() (Change, error) {
		m := &models.Message{
			ID:        s.nextID(KindMessage),
			UserID:    params.UserID,
			Text:      params.Text,
			Timestamp: params.Timestamp,
			ThreadID:  params.ThreadID,
			Pinned:    params.Pinned,
		}
		if len(params.Attachments) > 0 {
			m.Attachments = append([]string{}, params.Attachments...)
		}
		if len(params.Reactions) > 0 {
			m.Reactions = (&models.Message{Reactions: params.Reactions}).Clone().Reactions
		}
		if m.Timestamp == "" {
			m.Timestamp = s.timestamp()
		}

		s.state.Messages = appendOne(s.state.Messages, m)
		created = m
		return Change{Kind: KindMessage, Op: OpCreate, ID: m.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
