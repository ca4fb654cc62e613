package session

import (
	"fmt"
	"strings"
	"time"

	app_errors "legis-pro/backend/internal/errors"
	"legis-pro/backend/internal/model"
	"legis-pro/backend/internal/prompt"
)

// Event is a user action or a completed side effect fed to Dispatch.
type Event interface {
	isEvent()
}

// Authenticated records a successful password check.
type Authenticated struct{}

// DocumentLoaded replaces the document context with freshly extracted text.
type DocumentLoaded struct {
	Name string
	Text string
	At   time.Time
}

// ConversationCreated opens and selects a new conversation.
type ConversationCreated struct{}

// ConversationSelected switches the active conversation.
type ConversationSelected struct {
	ID string
}

// MessageSubmitted is a user message for the selected conversation.
type MessageSubmitted struct {
	Content string
	At      time.Time
}

// ResponseCompleted carries the full text of a finished completion stream.
type ResponseCompleted struct {
	ConversationID string
	Content        string
	At             time.Time
}

// ToneSaved stores a new tone directive.
type ToneSaved struct {
	Tone string
}

// ToneReset restores the default tone directive.
type ToneReset struct{}

func (Authenticated) isEvent()        {}
func (DocumentLoaded) isEvent()       {}
func (ConversationCreated) isEvent()  {}
func (ConversationSelected) isEvent() {}
func (MessageSubmitted) isEvent()     {}
func (ResponseCompleted) isEvent()    {}
func (ToneSaved) isEvent()            {}
func (ToneReset) isEvent()            {}

// Effect is work Dispatch asks the caller to perform.
type Effect interface {
	isEffect()
}

// RequestCompletion asks for a streamed completion of Messages. The result is
// fed back as a ResponseCompleted for ConversationID.
type RequestCompletion struct {
	ConversationID string
	Messages       []model.Message
}

func (RequestCompletion) isEffect() {}

// Dispatch applies ev to s and returns the new state together with the
// effects the caller must run. On error the returned state is s unchanged.
// Every event other than Authenticated requires an authenticated session.
func Dispatch(s State, ev Event) (State, []Effect, error) {
	if _, ok := ev.(Authenticated); !ok && !s.Authenticated {
		return s, nil, fmt.Errorf("%w: session is not authenticated", app_errors.ErrPermission)
	}

	switch e := ev.(type) {
	case Authenticated:
		s.Authenticated = true
		return s, nil, nil

	case DocumentLoaded:
		return SetDocument(s, e.Name, e.Text, e.At), nil, nil

	case ConversationCreated:
		return CreateConversation(s), nil, nil

	case ConversationSelected:
		next, err := SelectConversation(s, e.ID)
		if err != nil {
			return s, nil, err
		}
		return next, nil, nil

	case MessageSubmitted:
		if strings.TrimSpace(e.Content) == "" {
			return s, nil, fmt.Errorf("%w: message content is empty", app_errors.ErrValidation)
		}
		next, err := AppendMessage(s, s.Selected, model.RoleUser, e.Content, e.At)
		if err != nil {
			return s, nil, err
		}
		conv, _ := next.Conversation(next.Selected)
		effect := RequestCompletion{
			ConversationID: conv.ID,
			Messages:       prompt.Assemble(next.Document, next.Tone, conv.Messages),
		}
		return next, []Effect{effect}, nil

	case ResponseCompleted:
		next, err := AppendMessage(s, e.ConversationID, model.RoleAssistant, e.Content, e.At)
		if err != nil {
			return s, nil, err
		}
		return next, nil, nil

	case ToneSaved:
		return SaveTone(s, e.Tone), nil, nil

	case ToneReset:
		return ResetTone(s), nil, nil
	}
	return s, nil, fmt.Errorf("%w: unknown event %T", app_errors.ErrInternal, ev)
}
