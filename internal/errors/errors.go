package errors

import "errors"

// This package defines the sentinel errors shared by the service and API layers.
// Services wrap them with fmt.Errorf("...: %w", ...) and the API layer uses
// errors.Is() to map them to HTTP responses in a single place.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed validation.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication is returned when the submitted access password is wrong.
	// Mapped to 401 Unauthorized; the user may simply try again.
	ErrAuthentication = errors.New("authentication failed")

	// ErrPermission signifies that the session has not been authenticated yet.
	// Mapped to 401 Unauthorized.
	ErrPermission = errors.New("permission denied")

	// ErrUnsupportedFileType is returned for uploads whose extension is not one
	// of pdf, xlsx or xls. Mapped to 415 Unsupported Media Type.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrParse is returned when a document cannot be read. The session's
	// document context is left untouched. Mapped to 422 Unprocessable Entity.
	ErrParse = errors.New("document could not be parsed")

	// ErrDocumentTooLarge is returned when an upload exceeds the configured
	// byte or character limit. Mapped to 413 Request Entity Too Large.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrNoSelectedConversation is returned when a message is submitted or
	// appended while no conversation (or a different one) is selected.
	// Mapped to 409 Conflict.
	ErrNoSelectedConversation = errors.New("no conversation selected")

	// ErrStreaming wraps network and API failures of the completion stream.
	ErrStreaming = errors.New("completion stream failed")

	// ErrInternal signifies an unexpected error on the server.
	// Mapped to 500 Internal Server Error.
	ErrInternal = errors.New("internal server error")
)
