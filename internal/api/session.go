package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"legis-pro/backend/internal/auth"
	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/session"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "legis_session"

// SessionManager binds every request to a server-side session. The session id
// travels in a signed cookie that is reissued on each request, so its expiry
// slides with the session's idle timeout.
type SessionManager struct {
	store  *session.Store
	tokens *auth.Tokens
	secure bool
}

func NewSessionManager(store *session.Store, tokens *auth.Tokens, secureCookie bool) *SessionManager {
	return &SessionManager{store: store, tokens: tokens, secure: secureCookie}
}

// Middleware resolves the session of the request, opening a fresh one when the
// cookie is missing, invalid, expired, or points at a session that no longer
// exists.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.resolve(r)
		if sess == nil {
			sess = m.store.Create()
		}

		token, err := m.tokens.Issue(sess.ID)
		if err != nil {
			respondWithError(w, fmt.Errorf("%w: %v", app_errors.ErrInternal, err))
			return
		}
		http.SetCookie(w, m.cookie(token, 0))

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// ClearCookie expires the session cookie on the client.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

func (m *SessionManager) resolve(r *http.Request) *session.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	id, err := m.tokens.Parse(c.Value)
	if err != nil {
		slog.Debug("Discarding session token", "error", err)
		return nil
	}
	sess, err := m.store.Get(id)
	if err != nil {
		if !errors.Is(err, app_errors.ErrNotFound) {
			slog.Warn("Session lookup failed", "session_id", id, "error", err)
		}
		return nil
	}
	return sess
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequireAuth rejects requests whose session has not passed the password gate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(r)
		if err != nil {
			respondWithError(w, err)
			return
		}
		if !sess.Snapshot().Authenticated {
			respondWithError(w, app_errors.ErrPermission)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFrom returns the session attached by SessionManager.Middleware.
func sessionFrom(r *http.Request) (*session.Session, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return nil, fmt.Errorf("%w: no session bound to request", app_errors.ErrInternal)
	}
	return sess, nil
}
