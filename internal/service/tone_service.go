package service

import (
	"context"
	"log/slog"

	"legis-pro/backend/internal/session"
)

// Tone is the tone directive of a session alongside the default it resets to.
type Tone struct {
	Tone        string `json:"tone"`
	DefaultTone string `json:"default_tone"`
}

// ToneService reads and edits the tone directive applied to future requests.
type ToneService struct{}

func NewToneService() *ToneService {
	return &ToneService{}
}

// Get returns the current tone directive.
func (s *ToneService) Get(ctx context.Context, sess *session.Session) (*Tone, error) {
	st := sess.Snapshot()
	if err := requireAuth(st); err != nil {
		return nil, err
	}
	return &Tone{Tone: st.Tone, DefaultTone: session.DefaultTone}, nil
}

// Save replaces the tone directive. An empty directive is allowed and means
// no tone instruction is sent.
func (s *ToneService) Save(ctx context.Context, sess *session.Session, tone string) (*Tone, error) {
	return s.apply(ctx, sess, session.ToneSaved{Tone: tone})
}

// Reset restores the default tone directive.
func (s *ToneService) Reset(ctx context.Context, sess *session.Session) (*Tone, error) {
	return s.apply(ctx, sess, session.ToneReset{})
}

func (s *ToneService) apply(ctx context.Context, sess *session.Session, ev session.Event) (*Tone, error) {
	var tone string
	err := sess.Exclusive(func(st *session.State) error {
		if _, err := session.Apply(st, ev); err != nil {
			return err
		}
		tone = st.Tone
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Tone updated", "session_id", sess.ID, "default", tone == session.DefaultTone)
	return &Tone{Tone: tone, DefaultTone: session.DefaultTone}, nil
}
