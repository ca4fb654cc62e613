package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/llm"
	"legis-pro/backend/internal/model"
	"legis-pro/backend/internal/session"
)

var tracer = otel.Tracer("legis-pro/backend/service")

// ChatService manages the conversations of a session and streams completions
// for new user messages.
type ChatService struct {
	llm llm.Provider
	now func() time.Time
}

func NewChatService(provider llm.Provider) *ChatService {
	return &ChatService{llm: provider, now: time.Now}
}

// ListConversations returns every conversation of the session in creation order.
func (s *ChatService) ListConversations(ctx context.Context, sess *session.Session) ([]model.ConversationSummary, error) {
	st := sess.Snapshot()
	if err := requireAuth(st); err != nil {
		return nil, err
	}
	return st.Summaries(), nil
}

// CreateConversation opens a new conversation and selects it.
func (s *ChatService) CreateConversation(ctx context.Context, sess *session.Session) (*model.Conversation, error) {
	var conv model.Conversation
	err := sess.Exclusive(func(st *session.State) error {
		if _, err := session.Apply(st, session.ConversationCreated{}); err != nil {
			return err
		}
		conv, _ = st.Conversation(st.Selected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Conversation created", "session_id", sess.ID, "conversation_id", conv.ID)
	return &conv, nil
}

// SelectConversation makes id the active conversation.
func (s *ChatService) SelectConversation(ctx context.Context, sess *session.Session, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := sess.Exclusive(func(st *session.State) error {
		if _, err := session.Apply(st, session.ConversationSelected{ID: id}); err != nil {
			return err
		}
		conv, _ = st.Conversation(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversation returns the full message history of one conversation.
func (s *ChatService) GetConversation(ctx context.Context, sess *session.Session, id string) (*model.Conversation, error) {
	st := sess.Snapshot()
	if err := requireAuth(st); err != nil {
		return nil, err
	}
	conv, ok := st.Conversation(id)
	if !ok {
		return nil, fmt.Errorf("conversation %q: %w", id, app_errors.ErrNotFound)
	}
	return &conv, nil
}

// HandleNewMessage appends content to the selected conversation, streams the
// completion to streamChan fragment by fragment and, once the stream finishes
// cleanly, appends the full reply as an assistant message. streamChan is
// closed on return.
//
// The session stays locked for the whole exchange. If the stream fails the
// user message is kept, no assistant message is recorded, and a final chunk
// carrying the error follows whatever fragments were already sent.
func (s *ChatService) HandleNewMessage(ctx context.Context, sess *session.Session, content string, streamChan chan<- model.StreamResponse) {
	defer close(streamChan)

	ctx, span := tracer.Start(ctx, "chat.HandleNewMessage", trace.WithAttributes(
		attribute.String("session.id", sess.ID),
		attribute.String("completion.provider", s.llm.Name()),
	))
	defer span.End()

	var conversationID string
	err := sess.Exclusive(func(st *session.State) error {
		effects, err := session.Apply(st, session.MessageSubmitted{Content: content, At: s.now()})
		if err != nil {
			return err
		}
		for _, effect := range effects {
			req, ok := effect.(session.RequestCompletion)
			if !ok {
				continue
			}
			conversationID = req.ConversationID
			span.SetAttributes(
				attribute.String("conversation.id", req.ConversationID),
				attribute.Int("completion.messages", len(req.Messages)),
			)

			reply, err := s.stream(ctx, req, streamChan)
			if err != nil {
				return err
			}
			if _, err := session.Apply(st, session.ResponseCompleted{ConversationID: req.ConversationID, Content: reply, At: s.now()}); err != nil {
				return err
			}
			slog.InfoContext(ctx, "Assistant reply stored", "session_id", sess.ID, "conversation_id", req.ConversationID, "characters", len(reply))
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.WarnContext(ctx, "Message handling failed", "session_id", sess.ID, "conversation_id", conversationID, "error", err)
		emit(ctx, streamChan, model.StreamResponse{ConversationID: conversationID, Error: clientMessage(err), Err: err})
		return
	}

	emit(ctx, streamChan, model.StreamResponse{Done: true, ConversationID: conversationID})
}

// stream relays the provider's fragments to out and returns the full text.
func (s *ChatService) stream(ctx context.Context, req session.RequestCompletion, out chan<- model.StreamResponse) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	llmStreamChan := make(chan llm.StreamResponse)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.llm.StreamCompletion(ctx, &llm.CompletionRequest{Messages: llm.FromModel(req.Messages)}, llmStreamChan)
	}()

	var fullResponse strings.Builder
	for chunk := range llmStreamChan {
		if chunk.Content == "" {
			continue
		}
		fullResponse.WriteString(chunk.Content)
		if !emit(ctx, out, model.StreamResponse{Content: chunk.Content, ConversationID: req.ConversationID}) {
			// Reader gone: stop the provider and let it close its channel.
			cancel()
			for range llmStreamChan {
			}
			break
		}
	}

	if err := <-errCh; err != nil {
		return fullResponse.String(), err
	}
	if err := ctx.Err(); err != nil {
		return fullResponse.String(), err
	}
	return fullResponse.String(), nil
}

// emit sends r unless ctx is done first, reporting whether it was delivered.
func emit(ctx context.Context, ch chan<- model.StreamResponse, r model.StreamResponse) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// clientMessage is the text shown to the user for a failed exchange.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, app_errors.ErrStreaming):
		return "Errore durante la generazione della risposta: " + err.Error()
	case errors.Is(err, app_errors.ErrNoSelectedConversation):
		return "Seleziona una conversazione o creane una nuova."
	case errors.Is(err, app_errors.ErrPermission):
		return "Accesso non autorizzato."
	case errors.Is(err, app_errors.ErrValidation):
		return err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Richiesta annullata."
	}
	return "Errore interno del server."
}
