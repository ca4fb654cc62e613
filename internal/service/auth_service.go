package service

import (
	"context"
	"fmt"
	"log/slog"

	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/model"
	"legis-pro/backend/internal/session"
)

// PasswordChecker verifies the shared access password.
type PasswordChecker interface {
	Check(candidate string) bool
}

// AuthService gates a session behind the shared access password.
type AuthService struct {
	gate  PasswordChecker
	store *session.Store
}

func NewAuthService(gate PasswordChecker, store *session.Store) *AuthService {
	return &AuthService{gate: gate, store: store}
}

// Login authenticates sess when password matches. A wrong password leaves the
// session unauthenticated and may be retried.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, password string) (model.SessionView, error) {
	if !s.gate.Check(password) {
		slog.InfoContext(ctx, "Login rejected", "session_id", sess.ID)
		return sess.Snapshot().View(), fmt.Errorf("login: %w", app_errors.ErrAuthentication)
	}
	if _, err := sess.Apply(session.Authenticated{}); err != nil {
		return model.SessionView{}, err
	}
	slog.InfoContext(ctx, "Session authenticated", "session_id", sess.ID)
	return sess.Snapshot().View(), nil
}

// Logout discards the session and everything it holds.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) {
	s.store.Delete(sess.ID)
	slog.InfoContext(ctx, "Session closed", "session_id", sess.ID)
}

// View returns the client-facing snapshot of the session.
func (s *AuthService) View(ctx context.Context, sess *session.Session) model.SessionView {
	return sess.Snapshot().View()
}

// requireAuth rejects sessions that have not logged in yet.
func requireAuth(st session.State) error {
	if !st.Authenticated {
		return fmt.Errorf("%w: session is not authenticated", app_errors.ErrPermission)
	}
	return nil
}
