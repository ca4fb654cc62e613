package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "legis-pro/backend/internal/errors"
)

// This file contains shared DTOs (Data Transfer Objects) for API responses
// and helper functions for sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response, typically for operations
// that don't need to return a full resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// LoginRequest is the DTO for the password gate.
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=72" example:"s3greto"`
}

// SelectConversationRequest is the DTO for switching the active conversation.
type SelectConversationRequest struct {
	ID string `json:"id" validate:"required" example:"Conversazione 1"`
}

// CreateMessageRequest is the DTO for a new user message.
type CreateMessageRequest struct {
	Content string `json:"content" validate:"required" example:"Riassumi l'articolo 3."`
}

// ToneRequest is the DTO for saving the tone directive. An empty tone is
// accepted and disables the tone instruction.
type ToneRequest struct {
	Tone string `json:"tone" validate:"max=4000" example:"Rispondi in modo sintetico, chiaro e professionale."`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps custom business-layer errors to appropriate HTTP status codes and formats
// a standard JSON error response.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrAuthentication):
		statusCode = http.StatusUnauthorized
		message = "Password errata. Riprova."
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusUnauthorized
		message = "Autenticazione richiesta."
	case errors.Is(err, app_errors.ErrUnsupportedFileType):
		statusCode = http.StatusUnsupportedMediaType
		message = err.Error()
	case errors.Is(err, app_errors.ErrDocumentTooLarge):
		statusCode = http.StatusRequestEntityTooLarge
		message = err.Error()
	case errors.Is(err, app_errors.ErrParse):
		statusCode = http.StatusUnprocessableEntity
		message = "Impossibile leggere il documento."
	case errors.Is(err, app_errors.ErrNoSelectedConversation):
		statusCode = http.StatusConflict
		message = "Seleziona una conversazione o creane una nuova."
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// For validation errors, the error message from the service layer
		// is already descriptive and user-friendly.
		message = err.Error()
	default:
		// Any unhandled error is considered an internal server error.
		// This prevents leaking implementation details to the client.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// decodeJSON reads a JSON body into payload and validates it.
func decodeJSON(r *http.Request, payload interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", app_errors.ErrValidation, err)
	}
	return validateRequest(payload)
}

// startStream writes the Server-Sent Events headers.
func startStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
}

// sendStreamError sends a structured error message over a Server-Sent Events (SSE) stream.
// This ensures that clients consuming streams can handle errors gracefully.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)
	errorPayload := ErrorResponse{Error: message}

	jsonData, err := json.Marshal(errorPayload)
	if err != nil {
		slog.Error("Failed to marshal stream error payload", "error", err)
		return
	}

	// The `event: error` line allows clients to add a specific event listener
	// for errors, e.g., `eventSource.addEventListener('error', ...)`.
	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", string(jsonData)); err != nil {
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
		return
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// writeStreamEvent is a generic helper to marshal data and write it to an SSE stream.
// It returns an error on write failure, which is a signal that the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
