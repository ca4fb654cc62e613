package interfaces

import (
	"context"
	"io"

	"legis-pro/backend/internal/model"
	"legis-pro/backend/internal/service"
	"legis-pro/backend/internal/session"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows for
// decoupling (e.g., API layer from Service layer) and easier testing via mocking.

// AuthService defines the contract for the password gate of a session.
type AuthService interface {
	Login(ctx context.Context, sess *session.Session, password string) (model.SessionView, error)
	Logout(ctx context.Context, sess *session.Session)
	View(ctx context.Context, sess *session.Session) model.SessionView
}

// DocumentService defines the contract for loading the document context.
type DocumentService interface {
	Load(ctx context.Context, sess *session.Session, name string, r io.Reader) (*model.DocumentInfo, error)
}

// ChatService defines the contract for conversation management and streaming.
type ChatService interface {
	ListConversations(ctx context.Context, sess *session.Session) ([]model.ConversationSummary, error)
	CreateConversation(ctx context.Context, sess *session.Session) (*model.Conversation, error)
	SelectConversation(ctx context.Context, sess *session.Session, id string) (*model.Conversation, error)
	GetConversation(ctx context.Context, sess *session.Session, id string) (*model.Conversation, error)
	HandleNewMessage(ctx context.Context, sess *session.Session, content string, streamChan chan<- model.StreamResponse)
}

// ToneService defines the contract for the tone directive.
type ToneService interface {
	Get(ctx context.Context, sess *session.Session) (*service.Tone, error)
	Save(ctx context.Context, sess *session.Session, tone string) (*service.Tone, error)
	Reset(ctx context.Context, sess *session.Session) (*service.Tone, error)
}
