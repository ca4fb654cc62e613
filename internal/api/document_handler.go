package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/interfaces"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the file itself.
const multipartOverhead = 1 << 20

// DocumentHandler serves document uploads.
type DocumentHandler struct {
	service        interfaces.DocumentService
	maxUploadBytes int64
}

func NewDocumentHandler(svc interfaces.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// UploadDocument godoc
// @Summary      Upload a document
// @Description  Extracts the text of a PDF, xlsx or xls file and makes it the context of the session.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF, xlsx or xls document"
// @Success      200   {object}  model.DocumentInfo
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Failure      415   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/documents [post]
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			respondWithError(w, fmt.Errorf("%w: upload exceeds %d bytes", app_errors.ErrDocumentTooLarge, h.maxUploadBytes))
			return
		}
		respondWithError(w, fmt.Errorf("%w: multipart field 'file' is required: %v", app_errors.ErrValidation, err))
		return
	}
	defer file.Close()

	info, err := h.service.Load(r.Context(), sess, header.Filename, file)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}
