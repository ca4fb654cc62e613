package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "legis-pro/backend/internal/errors"
)

// Session is one user's isolated state. All reads and writes go through its
// lock, so one session's interactions are serialised while different
// sessions proceed independently.
type Session struct {
	ID string

	mu    sync.Mutex
	state State
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply dispatches ev against the session state and commits the result.
func (s *Session) Apply(ev Event) ([]Effect, error) {
	var effects []Effect
	err := s.Exclusive(func(st *State) error {
		var err error
		effects, err = Apply(st, ev)
		return err
	})
	return effects, err
}

// Exclusive runs fn with the session lock held for its whole duration. fn
// may replace *st any number of times; whatever *st holds when fn returns is
// kept, even if fn returns an error.
func (s *Session) Exclusive(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	err := fn(&st)
	s.state = st
	return err
}

// Apply dispatches ev against *st and stores the new state only on success.
// It is meant to be called inside Exclusive.
func Apply(st *State, ev Event) ([]Effect, error) {
	next, effects, err := Dispatch(*st, ev)
	if err != nil {
		return nil, err
	}
	*st = next
	return effects, nil
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store is the process-local registry of sessions. Nothing is persisted; a
// restart forgets every session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns an empty store. Sessions idle for longer than ttl are
// forgotten; a ttl of zero keeps them for the life of the process.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a new unauthenticated session.
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()
	sess := &Session{ID: uuid.NewString(), state: NewState()}
	st.sessions[sess.ID] = &entry{session: sess, lastSeen: st.now()}
	slog.Debug("Session created", "session_id", sess.ID)
	return sess
}

// Get returns the session with the given id and marks it as used. Unknown and
// expired ids yield ErrNotFound.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, app_errors.ErrNotFound)
	}
	now := st.now()
	if st.expired(e, now) {
		delete(st.sessions, id)
		return nil, fmt.Errorf("session %q expired: %w", id, app_errors.ErrNotFound)
	}
	e.lastSeen = now
	return e.session, nil
}

// Delete forgets a session. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pruneLocked()
	return len(st.sessions)
}

func (st *Store) expired(e *entry, now time.Time) bool {
	return st.ttl > 0 && now.Sub(e.lastSeen) > st.ttl
}

func (st *Store) pruneLocked() {
	now := st.now()
	for id, e := range st.sessions {
		if st.expired(e, now) {
			delete(st.sessions, id)
			slog.Debug("Session expired", "session_id", id)
		}
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok
}
