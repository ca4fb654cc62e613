// The `_test` suffix creates a "black box" test package.
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"legis-pro/backend/internal/api"
	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/interfaces/mocks"
	"legis-pro/backend/internal/model"
	"legis-pro/backend/internal/service"
	"legis-pro/backend/internal/session"
)

// withSession binds a fresh session to the request, as the session middleware would.
func withSession(req *http.Request) (*http.Request, *session.Session) {
	sess := session.NewStore(0).Create()
	return req.WithContext(session.NewContext(req.Context(), sess)), sess
}

// addChiURLParams is a helper to simulate how the chi router injects URL
// parameters (e.g., `{conversationID}`) into the request's context.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// ARRANGE
		mockAuthSvc := mocks.NewMockAuthService(t)
		handler := api.NewAuthHandler(mockAuthSvc, nil)
		req, sess := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"s3greto"}`)))
		mockAuthSvc.On("Login", mock.Anything, sess, "s3greto").Return(model.SessionView{Authenticated: true}, nil).Once()

		// ACT
		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		// ASSERT
		assert.Equal(t, http.StatusOK, rr.Code)
		var view model.SessionView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.True(t, view.Authenticated)
	})

	t.Run("Failure - Wrong password", func(t *testing.T) {
		mockAuthSvc := mocks.NewMockAuthService(t)
		handler := api.NewAuthHandler(mockAuthSvc, nil)
		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"no"}`)))
		mockAuthSvc.On("Login", mock.Anything, mock.Anything, "no").Return(model.SessionView{}, app_errors.ErrAuthentication).Once()

		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Password errata. Riprova.")
	})

	t.Run("Failure - Missing password", func(t *testing.T) {
		mockAuthSvc := mocks.NewMockAuthService(t)
		handler := api.NewAuthHandler(mockAuthSvc, nil)
		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))

		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "il campo 'password' è obbligatorio")
	})

	t.Run("Failure - Password too long", func(t *testing.T) {
		mockAuthSvc := mocks.NewMockAuthService(t)
		handler := api.NewAuthHandler(mockAuthSvc, nil)
		body := `{"password":"` + strings.Repeat("a", 73) + `"}`
		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "il campo 'password' non può superare 72 caratteri")
	})
}

func TestChatHandler_Conversations(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		expected := []model.ConversationSummary{{ID: "Conversazione 1", Selected: true}}
		mockChatSvc.On("ListConversations", mock.Anything, mock.Anything).Return(expected, nil).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))
		rr := httptest.NewRecorder()
		handler.ListConversations(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []model.ConversationSummary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, expected, got)
	})

	t.Run("Create", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		mockChatSvc.On("CreateConversation", mock.Anything, mock.Anything).
			Return(&model.Conversation{ID: "Conversazione 1", Messages: []model.Message{}}, nil).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/conversations", nil))
		rr := httptest.NewRecorder()
		handler.CreateConversation(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"Conversazione 1"`)
	})

	t.Run("Select - Not found", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		mockChatSvc.On("SelectConversation", mock.Anything, mock.Anything, "Conversazione 9").
			Return(nil, fmt.Errorf("conversation: %w", app_errors.ErrNotFound)).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/conversations/select", strings.NewReader(`{"id":"Conversazione 9"}`)))
		rr := httptest.NewRecorder()
		handler.SelectConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Get by URL param", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		mockChatSvc.On("GetConversation", mock.Anything, mock.Anything, "Conversazione 2").
			Return(&model.Conversation{ID: "Conversazione 2"}, nil).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/conversations/Conversazione%202", nil))
		req = addChiURLParams(req, map[string]string{"conversationID": "Conversazione 2"})
		rr := httptest.NewRecorder()
		handler.GetConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestChatHandler_HandleStreamMessage(t *testing.T) {
	streamReturning := func(chunks ...model.StreamResponse) func(mock.Arguments) {
		return func(args mock.Arguments) {
			out := args.Get(3).(chan<- model.StreamResponse)
			for _, c := range chunks {
				out <- c
			}
			close(out)
		}
	}

	t.Run("Success - SSE fragments and done", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		mockChatSvc.On("HandleNewMessage", mock.Anything, mock.Anything, "Q", mock.Anything).
			Run(streamReturning(
				model.StreamResponse{Content: "Buon", ConversationID: "Conversazione 1"},
				model.StreamResponse{Content: "giorno", ConversationID: "Conversazione 1"},
				model.StreamResponse{Done: true, ConversationID: "Conversazione 1"},
			)).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Q"}`)))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		body := rr.Body.String()
		assert.Contains(t, body, `data: {"content":"Buon","done":false,"conversation_id":"Conversazione 1"}`)
		assert.Contains(t, body, `data: {"done":true,"conversation_id":"Conversazione 1"}`)
		assert.Less(t, strings.Index(body, "Buon"), strings.Index(body, "giorno"))
	})

	t.Run("Failure - Stream error after partial output", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		mockChatSvc.On("HandleNewMessage", mock.Anything, mock.Anything, "Q", mock.Anything).
			Run(streamReturning(
				model.StreamResponse{Content: "parz"},
				model.StreamResponse{Error: "Errore durante la generazione della risposta", Err: app_errors.ErrStreaming},
			)).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Q"}`)))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		body := rr.Body.String()
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, body, `"content":"parz"`)
		assert.Contains(t, body, "event: error\ndata: {\"error\":\"Errore durante la generazione della risposta\"}")
		assert.NotContains(t, body, `"done":true`)
	})

	t.Run("Failure - Completion fails before any fragment", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		mockChatSvc.On("HandleNewMessage", mock.Anything, mock.Anything, "Q", mock.Anything).
			Run(streamReturning(model.StreamResponse{Error: "boom", Err: fmt.Errorf("%w: 401", app_errors.ErrStreaming)})).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Q"}`)))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "event: error")
	})

	t.Run("Failure - No conversation selected", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)
		mockChatSvc.On("HandleNewMessage", mock.Anything, mock.Anything, "Q", mock.Anything).
			Run(streamReturning(model.StreamResponse{Error: "x", Err: app_errors.ErrNoSelectedConversation})).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Q"}`)))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})

	t.Run("Failure - Empty content", func(t *testing.T) {
		mockChatSvc := mocks.NewMockChatService(t)
		handler := api.NewChatHandler(mockChatSvc)

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":""}`)))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "il campo 'content' è obbligatorio")
	})
}

func multipartUpload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentHandler_UploadDocument(t *testing.T) {
	testCases := []struct {
		name       string
		serviceErr error
		statusCode int
	}{
		{name: "Success", statusCode: http.StatusOK},
		{name: "Unsupported type", serviceErr: app_errors.ErrUnsupportedFileType, statusCode: http.StatusUnsupportedMediaType},
		{name: "Parse failure", serviceErr: app_errors.ErrParse, statusCode: http.StatusUnprocessableEntity},
		{name: "Too large text", serviceErr: app_errors.ErrDocumentTooLarge, statusCode: http.StatusRequestEntityTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDocSvc := mocks.NewMockDocumentService(t)
			handler := api.NewDocumentHandler(mockDocSvc, 1<<20)

			var info *model.DocumentInfo
			if tc.serviceErr == nil {
				info = &model.DocumentInfo{Name: "legge.pdf", Characters: 42}
			}
			mockDocSvc.On("Load", mock.Anything, mock.Anything, "legge.pdf", mock.Anything).Return(info, tc.serviceErr).Once()

			req, _ := withSession(multipartUpload(t, "file", "legge.pdf", []byte("%PDF-1.4")))
			rr := httptest.NewRecorder()
			handler.UploadDocument(rr, req)

			assert.Equal(t, tc.statusCode, rr.Code)
		})
	}

	t.Run("Failure - Missing file field", func(t *testing.T) {
		mockDocSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockDocSvc, 1<<20)

		req, _ := withSession(multipartUpload(t, "other", "legge.pdf", []byte("x")))
		rr := httptest.NewRecorder()
		handler.UploadDocument(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Body over the limit", func(t *testing.T) {
		mockDocSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockDocSvc, 10)

		req, _ := withSession(multipartUpload(t, "file", "big.pdf", bytes.Repeat([]byte("x"), 2<<20)))
		rr := httptest.NewRecorder()
		handler.UploadDocument(rr, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})
}

func TestToneHandler(t *testing.T) {
	t.Run("Save", func(t *testing.T) {
		mockToneSvc := mocks.NewMockToneService(t)
		handler := api.NewToneHandler(mockToneSvc)
		mockToneSvc.On("Save", mock.Anything, mock.Anything, "Sii breve.").
			Return(&service.Tone{Tone: "Sii breve.", DefaultTone: session.DefaultTone}, nil).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPut, "/api/v1/tone", strings.NewReader(`{"tone":"Sii breve."}`)))
		rr := httptest.NewRecorder()
		handler.SaveTone(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"tone":"Sii breve."`)
	})

	t.Run("Save - Tone too long", func(t *testing.T) {
		mockToneSvc := mocks.NewMockToneService(t)
		handler := api.NewToneHandler(mockToneSvc)

		body := `{"tone":"` + strings.Repeat("x", 4001) + `"}`
		req, _ := withSession(httptest.NewRequest(http.MethodPut, "/api/v1/tone", strings.NewReader(body)))
		rr := httptest.NewRecorder()
		handler.SaveTone(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "il campo 'tone' non può superare 4000 caratteri")
	})

	t.Run("Reset", func(t *testing.T) {
		mockToneSvc := mocks.NewMockToneService(t)
		handler := api.NewToneHandler(mockToneSvc)
		mockToneSvc.On("Reset", mock.Anything, mock.Anything).
			Return(&service.Tone{Tone: session.DefaultTone, DefaultTone: session.DefaultTone}, nil).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/tone/reset", nil))
		rr := httptest.NewRecorder()
		handler.ResetTone(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Get - Not authenticated", func(t *testing.T) {
		mockToneSvc := mocks.NewMockToneService(t)
		handler := api.NewToneHandler(mockToneSvc)
		mockToneSvc.On("Get", mock.Anything, mock.Anything).Return(nil, app_errors.ErrPermission).Once()

		req, _ := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/tone", nil))
		rr := httptest.NewRecorder()
		handler.GetTone(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
