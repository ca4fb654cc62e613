package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/llm"
	mock_llm "legis-pro/backend/internal/llm/mocks"
	"legis-pro/backend/internal/model"
	"legis-pro/backend/internal/service"
	"legis-pro/backend/internal/session"
)

// newSession returns an authenticated session with a loaded document and one
// selected conversation.
func newSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.NewStore(0).Create()
	for _, ev := range []session.Event{
		session.Authenticated{},
		session.DocumentLoaded{Name: "legge.pdf", Text: "D"},
		session.ConversationCreated{},
	} {
		_, err := sess.Apply(ev)
		require.NoError(t, err)
	}
	return sess
}

func setupChatService(t *testing.T) (*service.ChatService, *mock_llm.MockProvider) {
	provider := mock_llm.NewMockProvider(t)
	provider.On("Name").Return("openai").Maybe()
	return service.NewChatService(provider), provider
}

// streamFragments makes the mocked provider send fragments and then return err.
func streamFragments(err error, fragments ...string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		out := args.Get(2).(chan<- llm.StreamResponse)
		for _, f := range fragments {
			out <- llm.StreamResponse{Content: f}
		}
		if err == nil {
			out <- llm.StreamResponse{Done: true}
		}
		close(out)
	}
}

func drain(ch <-chan model.StreamResponse) []model.StreamResponse {
	var out []model.StreamResponse
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestChatService_HandleNewMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Happy Path", func(t *testing.T) {
		chatService, provider := setupChatService(t)
		sess := newSession(t)

		var captured *llm.CompletionRequest
		provider.On("StreamCompletion", mock.Anything, mock.AnythingOfType("*llm.CompletionRequest"), mock.Anything).
			Return(nil).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*llm.CompletionRequest)
				streamFragments(nil, "Buon", "giorno")(args)
			}).Once()

		streamChan := make(chan model.StreamResponse)
		go chatService.HandleNewMessage(ctx, sess, "Q", streamChan)
		chunks := drain(streamChan)

		require.Len(t, chunks, 3)
		assert.Equal(t, "Buon", chunks[0].Content)
		assert.Equal(t, "giorno", chunks[1].Content)
		assert.True(t, chunks[2].Done)
		assert.Equal(t, "Conversazione 1", chunks[2].ConversationID)
		assert.Empty(t, chunks[2].Error)

		require.NotNil(t, captured)
		assert.Equal(t, []llm.Message{
			{Role: "system", Content: "Utilizza il seguente testo del PDF come contesto per rispondere alle domande:\n\nD\n\n"},
			{Role: "system", Content: "ISTRUZIONE PRIORITARIA: " + session.DefaultTone},
			{Role: "user", Content: "Q"},
		}, captured.Messages)

		conv, ok := sess.Snapshot().Conversation("Conversazione 1")
		require.True(t, ok)
		require.Len(t, conv.Messages, 2)
		assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
		assert.Equal(t, "Q", conv.Messages[0].Content)
		assert.Equal(t, model.RoleAssistant, conv.Messages[1].Role)
		assert.Equal(t, "Buongiorno", conv.Messages[1].Content)
	})

	t.Run("Failure - Stream breaks after partial output", func(t *testing.T) {
		chatService, provider := setupChatService(t)
		sess := newSession(t)

		streamErr := fmt.Errorf("%w: connection reset", app_errors.ErrStreaming)
		provider.On("StreamCompletion", mock.Anything, mock.Anything, mock.Anything).
			Return(streamErr).
			Run(streamFragments(streamErr, "parz")).Once()

		streamChan := make(chan model.StreamResponse)
		go chatService.HandleNewMessage(ctx, sess, "Q", streamChan)
		chunks := drain(streamChan)

		require.Len(t, chunks, 2)
		assert.Equal(t, "parz", chunks[0].Content)
		assert.False(t, chunks[1].Done)
		assert.Contains(t, chunks[1].Error, "Errore durante la generazione della risposta")
		assert.ErrorIs(t, chunks[1].Err, app_errors.ErrStreaming)

		conv, _ := sess.Snapshot().Conversation("Conversazione 1")
		require.Len(t, conv.Messages, 1, "user message kept, no assistant message")
		assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
	})

	t.Run("Failure - No conversation selected", func(t *testing.T) {
		chatService, _ := setupChatService(t)
		sess := session.NewStore(0).Create()
		_, err := sess.Apply(session.Authenticated{})
		require.NoError(t, err)

		streamChan := make(chan model.StreamResponse, 1)
		chatService.HandleNewMessage(ctx, sess, "Q", streamChan)
		chunks := drain(streamChan)

		require.Len(t, chunks, 1)
		assert.ErrorIs(t, chunks[0].Err, app_errors.ErrNoSelectedConversation)
		assert.Empty(t, sess.Snapshot().Conversations)
	})

	t.Run("Failure - Not authenticated", func(t *testing.T) {
		chatService, _ := setupChatService(t)
		sess := session.NewStore(0).Create()

		streamChan := make(chan model.StreamResponse, 1)
		chatService.HandleNewMessage(ctx, sess, "Q", streamChan)
		chunks := drain(streamChan)

		require.Len(t, chunks, 1)
		assert.ErrorIs(t, chunks[0].Err, app_errors.ErrPermission)
	})

	t.Run("Reader gone cancels the provider", func(t *testing.T) {
		chatService, provider := setupChatService(t)
		sess := newSession(t)

		cctx, cancel := context.WithCancel(ctx)
		provider.On("StreamCompletion", mock.Anything, mock.Anything, mock.Anything).
			Return(context.Canceled).
			Run(func(args mock.Arguments) {
				pctx := args.Get(0).(context.Context)
				out := args.Get(2).(chan<- llm.StreamResponse)
				defer close(out)
				out <- llm.StreamResponse{Content: "uno"}
				<-pctx.Done()
			}).Once()

		streamChan := make(chan model.StreamResponse)
		done := make(chan struct{})
		go func() {
			chatService.HandleNewMessage(cctx, sess, "Q", streamChan)
			close(done)
		}()

		first := <-streamChan
		assert.Equal(t, "uno", first.Content)
		cancel()
		<-done

		conv, _ := sess.Snapshot().Conversation("Conversazione 1")
		assert.Len(t, conv.Messages, 1)
	})
}

func TestChatService_Conversations(t *testing.T) {
	ctx := context.Background()

	t.Run("Create, select, list, get", func(t *testing.T) {
		chatService, _ := setupChatService(t)
		sess := newSession(t)

		created, err := chatService.CreateConversation(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, "Conversazione 2", created.ID)
		assert.Empty(t, created.Messages)

		selected, err := chatService.SelectConversation(ctx, sess, "Conversazione 1")
		require.NoError(t, err)
		assert.Equal(t, "Conversazione 1", selected.ID)

		list, err := chatService.ListConversations(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, []model.ConversationSummary{
			{ID: "Conversazione 1", Selected: true},
			{ID: "Conversazione 2"},
		}, list)

		conv, err := chatService.GetConversation(ctx, sess, "Conversazione 2")
		require.NoError(t, err)
		assert.Equal(t, "Conversazione 2", conv.ID)
	})

	t.Run("Failure - Unknown conversation", func(t *testing.T) {
		chatService, _ := setupChatService(t)
		sess := newSession(t)

		_, err := chatService.SelectConversation(ctx, sess, "Conversazione 7")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
		assert.Equal(t, "Conversazione 1", sess.Snapshot().Selected)

		_, err = chatService.GetConversation(ctx, sess, "Conversazione 7")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("Failure - Not authenticated", func(t *testing.T) {
		chatService, _ := setupChatService(t)
		sess := session.NewStore(0).Create()

		_, err := chatService.CreateConversation(ctx, sess)
		assert.ErrorIs(t, err, app_errors.ErrPermission)
		_, err = chatService.ListConversations(ctx, sess)
		assert.ErrorIs(t, err, app_errors.ErrPermission)
		assert.True(t, errors.Is(err, app_errors.ErrPermission))
	})
}
