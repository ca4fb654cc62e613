package llm

import (
	"context"
	"fmt"
	"net/http"

	"legis-pro/backend/internal/config"
	"legis-pro/backend/internal/model"
)

// Message is one entry of the request sent to a completion API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a provider-neutral chat completion request. Zero Model
// and MaxTokens fall back to the provider's configured defaults.
type CompletionRequest struct {
	Model     string
	MaxTokens int64
	Messages  []Message
}

// StreamResponse is one text fragment, or the end marker when Done is set.
type StreamResponse struct {
	Content string
	Done    bool
}

// Provider streams a completion from a hosted model.
//
// StreamCompletion sends each text fragment on ch in arrival order and closes
// ch before it returns. Cancelling ctx stops the stream. Transport failures
// and non-2xx responses are returned as a single error wrapping ErrStreaming;
// nothing is retried.
type Provider interface {
	Name() string
	StreamCompletion(ctx context.Context, req *CompletionRequest, ch chan<- StreamResponse) error
}

// FromModel converts conversation messages to request messages. CreatedAt is
// display-only and dropped.
func FromModel(messages []model.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// NewProvider builds the provider selected by COMPLETION_PROVIDER.
func NewProvider(cfg *config.Config, client *http.Client) (Provider, error) {
	switch cfg.CompletionProvider {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.CompletionModel, cfg.CompletionMaxTokens, client), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.CompletionModel, cfg.CompletionMaxTokens, client), nil
	}
	return nil, fmt.Errorf("unknown completion provider %q", cfg.CompletionProvider)
}

// send delivers r unless ctx is cancelled first.
func send(ctx context.Context, ch chan<- StreamResponse, r StreamResponse) error {
	select {
	case ch <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
