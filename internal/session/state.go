// Package session holds the per-user state of the chat front end and the pure
// functions that change it.
//
// A State value is never mutated in place: every operation returns a new
// value and leaves its input as it was, so a failed action cannot leave a
// half-applied change behind.
package session

import (
	"fmt"
	"time"
	"unicode/utf8"

	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/model"
)

// DefaultTone is the tone directive a new session starts with and the value
// restored by ResetTone.
const DefaultTone = "Rispondi in modo sintetico, chiaro e professionale."

// State is everything one user session knows.
type State struct {
	Authenticated bool

	// Document is the text of the most recent successful upload. It is shared
	// by every conversation of the session.
	Document         string
	DocumentName     string
	DocumentLoadedAt time.Time

	Tone string

	Conversations []model.Conversation
	// Selected is the id of the active conversation, empty when none is.
	Selected string
}

// NewState returns the state of a session that has just been opened.
func NewState() State {
	return State{Tone: DefaultTone}
}

// ConversationID names the n-th conversation of a session, counting from zero.
func ConversationID(n int) string {
	return fmt.Sprintf("Conversazione %d", n+1)
}

// CreateConversation appends a new empty conversation and selects it.
// Existing conversations are kept as they are.
func CreateConversation(s State) State {
	id := ConversationID(len(s.Conversations))
	conversations := make([]model.Conversation, len(s.Conversations), len(s.Conversations)+1)
	copy(conversations, s.Conversations)
	s.Conversations = append(conversations, model.Conversation{ID: id, Messages: []model.Message{}})
	s.Selected = id
	return s
}

// SelectConversation makes id the active conversation.
func SelectConversation(s State, id string) (State, error) {
	if _, ok := s.index(id); !ok {
		return s, fmt.Errorf("conversation %q: %w", id, app_errors.ErrNotFound)
	}
	s.Selected = id
	return s, nil
}

// AppendMessage adds a message to the selected conversation. It fails with
// ErrNoSelectedConversation when nothing is selected or conversationID is not
// the selected conversation. at is recorded for display only.
func AppendMessage(s State, conversationID string, role model.Role, content string, at time.Time) (State, error) {
	if s.Selected == "" || conversationID != s.Selected {
		return s, fmt.Errorf("append to %q: %w", conversationID, app_errors.ErrNoSelectedConversation)
	}
	if !role.Valid() {
		return s, fmt.Errorf("%w: unknown role %q", app_errors.ErrValidation, role)
	}
	i, ok := s.index(conversationID)
	if !ok {
		return s, fmt.Errorf("conversation %q: %w", conversationID, app_errors.ErrNotFound)
	}

	conversations := make([]model.Conversation, len(s.Conversations))
	copy(conversations, s.Conversations)

	old := conversations[i].Messages
	messages := make([]model.Message, len(old), len(old)+1)
	copy(messages, old)
	conversations[i].Messages = append(messages, model.Message{Role: role, Content: content, CreatedAt: at})

	s.Conversations = conversations
	return s, nil
}

// SetDocument replaces the document context wholesale.
func SetDocument(s State, name, text string, at time.Time) State {
	s.Document = text
	s.DocumentName = name
	s.DocumentLoadedAt = at
	return s
}

// SaveTone stores a new tone directive for future requests.
func SaveTone(s State, tone string) State {
	s.Tone = tone
	return s
}

// ResetTone restores DefaultTone.
func ResetTone(s State) State {
	s.Tone = DefaultTone
	return s
}

// Conversation returns a copy of the conversation with the given id.
func (s State) Conversation(id string) (model.Conversation, bool) {
	i, ok := s.index(id)
	if !ok {
		return model.Conversation{}, false
	}
	c := s.Conversations[i]
	c.Messages = append([]model.Message{}, c.Messages...)
	return c, true
}

// Summaries lists the conversations in creation order.
func (s State) Summaries() []model.ConversationSummary {
	out := make([]model.ConversationSummary, 0, len(s.Conversations))
	for _, c := range s.Conversations {
		out = append(out, model.ConversationSummary{
			ID:           c.ID,
			MessageCount: len(c.Messages),
			Selected:     c.ID == s.Selected,
		})
	}
	return out
}

// DocumentInfo describes the loaded document, or returns nil when none is.
func (s State) DocumentInfo() *model.DocumentInfo {
	if s.DocumentName == "" && s.Document == "" {
		return nil
	}
	return &model.DocumentInfo{
		Name:       s.DocumentName,
		Characters: utf8.RuneCountInString(s.Document),
		LoadedAt:   s.DocumentLoadedAt,
	}
}

// View is the client-facing snapshot of the state. The document text itself
// is not included.
func (s State) View() model.SessionView {
	return model.SessionView{
		Authenticated:        s.Authenticated,
		Tone:                 s.Tone,
		DefaultTone:          DefaultTone,
		Document:             s.DocumentInfo(),
		Conversations:        s.Summaries(),
		SelectedConversation: s.Selected,
	}
}

func (s State) index(id string) (int, bool) {
	for i, c := range s.Conversations {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}
