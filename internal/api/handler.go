package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/interfaces"
	"legis-pro/backend/internal/model"
)

// ChatHandler serves conversations and the streaming message endpoint.
type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// ListConversations godoc
// @Summary      List conversations
// @Description  Lists the conversations of the current session in creation order.
// @Tags         Conversations
// @Produce      json
// @Success      200  {array}   model.ConversationSummary
// @Failure      401  {object}  ErrorResponse
// @Router       /v1/conversations [get]
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	list, err := h.service.ListConversations(r.Context(), sess)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

// CreateConversation godoc
// @Summary      Create a conversation
// @Description  Opens a new empty conversation named "Conversazione N" and selects it.
// @Tags         Conversations
// @Produce      json
// @Success      201  {object}  model.Conversation
// @Failure      401  {object}  ErrorResponse
// @Router       /v1/conversations [post]
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	conv, err := h.service.CreateConversation(r.Context(), sess)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, conv)
}

// SelectConversation godoc
// @Summary      Select a conversation
// @Description  Makes the given conversation the active one.
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        selectRequest  body      SelectConversationRequest  true  "Conversation id"
// @Success      200            {object}  model.Conversation
// @Failure      400            {object}  ErrorResponse
// @Failure      401            {object}  ErrorResponse
// @Failure      404            {object}  ErrorResponse
// @Router       /v1/conversations/select [post]
func (h *ChatHandler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req SelectConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	conv, err := h.service.SelectConversation(r.Context(), sess, req.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conv)
}

// GetConversation godoc
// @Summary      Get a conversation
// @Description  Returns one conversation with its full message history.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation id"
// @Success      200             {object}  model.Conversation
// @Failure      401             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [get]
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	conv, err := h.service.GetConversation(r.Context(), sess, chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conv)
}

// HandleStreamMessage godoc
// @Summary      Send a message
// @Description  Appends a user message to the selected conversation and streams the reply as Server-Sent Events.
// @Description  Each fragment is sent as `data: {"content": ...}`, the end as `data: {"done": true}`.
// @Description  Failures after streaming has begun arrive as an `event: error`.
// @Tags         Messages
// @Accept       json
// @Produce      text/event-stream
// @Param        messageRequest  body      CreateMessageRequest  true  "Message content"
// @Success      200             {object}  model.StreamResponse  "Stream of fragments"
// @Failure      400             {object}  ErrorResponse
// @Failure      401             {object}  ErrorResponse
// @Failure      409             {object}  ErrorResponse
// @Router       /v1/messages [post]
func (h *ChatHandler) HandleStreamMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	streamChan := make(chan model.StreamResponse)
	go h.service.HandleNewMessage(r.Context(), sess, req.Content, streamChan)

	// A request rejected before the completion starts still gets a proper
	// status code; completion failures always arrive as stream events.
	first, ok := <-streamChan
	if !ok {
		return
	}
	if first.Err != nil && !errors.Is(first.Err, app_errors.ErrStreaming) {
		respondWithError(w, first.Err)
		go drain(streamChan)
		return
	}

	startStream(w)
	for chunk := first; ok; chunk, ok = <-streamChan {
		if chunk.Error != "" {
			sendStreamError(w, chunk.Error)
			continue
		}
		if err := writeStreamEvent(w, chunk); err != nil {
			slog.Warn("Could not write to message stream, client likely disconnected.", "error", err)
			go drain(streamChan)
			return
		}
	}
	slog.Debug("Finished streaming response.", "session_id", sess.ID)
}

func drain(ch <-chan model.StreamResponse) {
	for range ch {
	}
}
