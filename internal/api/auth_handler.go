package api

import (
	"net/http"

	"legis-pro/backend/internal/interfaces"
)

// AuthHandler serves the password gate and the session snapshot.
type AuthHandler struct {
	service  interfaces.AuthService
	sessions *SessionManager
}

func NewAuthHandler(svc interfaces.AuthService, sessions *SessionManager) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions}
}

// Login godoc
// @Summary      Log in
// @Description  Checks the shared access password and unlocks the session.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        loginRequest  body      LoginRequest  true  "Access password"
// @Success      200           {object}  model.SessionView
// @Failure      400           {object}  ErrorResponse
// @Failure      401           {object}  ErrorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	view, err := h.service.Login(r.Context(), sess, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Logout godoc
// @Summary      Log out
// @Description  Discards the session with its document, tone and conversations.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	h.service.Logout(r.Context(), sess)
	h.sessions.ClearCookie(w)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GetSession godoc
// @Summary      Current session
// @Description  Returns the authentication flag, tone, loaded document and conversations.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  model.SessionView
// @Router       /v1/session [get]
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.service.View(r.Context(), sess))
}
