package model

import (
	"time"
)

// Role tags who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message stores a single message in a conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is a named, ordered sequence of messages.
type Conversation struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// ConversationSummary is the list view of a conversation.
type ConversationSummary struct {
	ID           string `json:"id"`
	MessageCount int    `json:"message_count"`
	Selected     bool   `json:"selected"`
}

// DocumentInfo describes the document currently loaded as context.
type DocumentInfo struct {
	Name       string    `json:"name"`
	Characters int       `json:"characters"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// SessionView is a read-only snapshot of a session for the client.
type SessionView struct {
	Authenticated        bool                  `json:"authenticated"`
	Tone                 string                `json:"tone"`
	DefaultTone          string                `json:"default_tone"`
	Document             *DocumentInfo         `json:"document,omitempty"`
	Conversations        []ConversationSummary `json:"conversations"`
	SelectedConversation string                `json:"selected_conversation,omitempty"`
}

// StreamResponse is the structure for a single chunk in a streaming response.
// Err carries the typed failure behind Error for the API layer and is never
// serialised.
type StreamResponse struct {
	Content        string `json:"content,omitempty"`
	Done           bool   `json:"done"`
	ConversationID string `json:"conversation_id,omitempty"`
	Error          string `json:"error,omitempty"`
	Err            error  `json:"-"`
}
