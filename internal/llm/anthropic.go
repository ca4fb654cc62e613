package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	app_errors "legis-pro/backend/internal/errors"
)

type anthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicProvider returns a Provider backed by the Anthropic Messages
// API. An empty baseURL keeps the SDK default. Retries are disabled so a
// failure reaches the user as one error.
func NewAnthropicProvider(baseURL, apiKey, model string, maxTokens int64, client *http.Client) Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if client != nil {
		opts = append(opts, option.WithHTTPClient(client))
	}
	return &anthropicProvider{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (p *anthropicProvider) Name() string { return ProviderAnthropic }

func (p *anthropicProvider) StreamCompletion(ctx context.Context, req *CompletionRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	system, messages := toAnthropic(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(firstNonEmpty(req.Model, p.model)),
		MaxTokens: firstPositive(req.MaxTokens, p.maxTokens, 1024),
		System:    system,
		Messages:  messages,
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				if err := send(ctx, ch, StreamResponse{Content: delta.Text}); err != nil {
					return err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", app_errors.ErrStreaming, err)
	}
	return send(ctx, ch, StreamResponse{Done: true})
}

// toAnthropic moves system messages into the system prompt and merges
// consecutive turns of the same role, which the Messages API rejects.
func toAnthropic(in []Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	lastRole := ""

	for _, m := range in {
		block := anthropic.NewTextBlock(m.Content)
		switch m.Role {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
			continue
		case lastRole:
			last := &messages[len(messages)-1]
			last.Content = append(last.Content, block)
			continue
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(block))
		default:
			messages = append(messages, anthropic.NewUserMessage(block))
		}
		lastRole = m.Role
	}
	return system, messages
}
