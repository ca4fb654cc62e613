package api

import (
	"net/http"

	"legis-pro/backend/internal/interfaces"
)

// ToneHandler serves the tone directive.
type ToneHandler struct {
	service interfaces.ToneService
}

func NewToneHandler(svc interfaces.ToneService) *ToneHandler {
	return &ToneHandler{service: svc}
}

// GetTone godoc
// @Summary      Get the tone directive
// @Tags         Tone
// @Produce      json
// @Success      200  {object}  service.Tone
// @Failure      401  {object}  ErrorResponse
// @Router       /v1/tone [get]
func (h *ToneHandler) GetTone(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	tone, err := h.service.Get(r.Context(), sess)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tone)
}

// SaveTone godoc
// @Summary      Save the tone directive
// @Description  Applies to every future request of every conversation in the session.
// @Tags         Tone
// @Accept       json
// @Produce      json
// @Param        toneRequest  body      ToneRequest  true  "New tone"
// @Success      200          {object}  service.Tone
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Router       /v1/tone [put]
func (h *ToneHandler) SaveTone(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req ToneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	tone, err := h.service.Save(r.Context(), sess, req.Tone)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tone)
}

// ResetTone godoc
// @Summary      Reset the tone directive
// @Description  Restores "Rispondi in modo sintetico, chiaro e professionale."
// @Tags         Tone
// @Produce      json
// @Success      200  {object}  service.Tone
// @Failure      401  {object}  ErrorResponse
// @Router       /v1/tone/reset [post]
func (h *ToneHandler) ResetTone(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	tone, err := h.service.Reset(r.Context(), sess)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tone)
}
