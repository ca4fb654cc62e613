package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	app_errors "legis-pro/backend/internal/errors"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// maxErrorBody bounds how much of a failed response is quoted in the error.
const maxErrorBody = 4 << 10

type openAIProvider struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int64
}

// NewOpenAIProvider returns a Provider for any OpenAI-compatible
// /chat/completions endpoint. A nil client means http.DefaultClient.
func NewOpenAIProvider(baseURL, apiKey, model string, maxTokens int64, client *http.Client) Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &openAIProvider{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

type openAIChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	Stream    bool      `json:"stream"`
	MaxTokens int64     `json:"max_tokens,omitempty"`
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *openAIError `json:"error,omitempty"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (p *openAIProvider) Name() string { return ProviderOpenAI }

func (p *openAIProvider) StreamCompletion(ctx context.Context, req *CompletionRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	body, err := json.Marshal(openAIChatRequest{
		Model:     firstNonEmpty(req.Model, p.model),
		Messages:  req.Messages,
		Stream:    true,
		MaxTokens: firstPositive(req.MaxTokens, p.maxTokens),
	})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", app_errors.ErrStreaming, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: api returned status %d: %s", app_errors.ErrStreaming, resp.StatusCode, errorBody(resp.Body))
	}

	finished := false
	reader := newSSEReader(resp.Body)
	for {
		_, data, err := reader.ReadEvent()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: reading stream: %w", app_errors.ErrStreaming, err)
		}

		if string(bytes.TrimSpace(data)) == "[DONE]" {
			finished = true
			break
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			return fmt.Errorf("%w: malformed chunk %q: %w", app_errors.ErrStreaming, truncate(string(data), 200), err)
		}
		if chunk.Error != nil {
			return fmt.Errorf("%w: %s", app_errors.ErrStreaming, chunk.Error.Message)
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				if err := send(ctx, ch, StreamResponse{Content: choice.Delta.Content}); err != nil {
					return err
				}
			}
			if choice.FinishReason != nil && *choice.FinishReason != "" {
				finished = true
			}
		}
	}

	if !finished {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: stream ended before completion", app_errors.ErrStreaming)
	}
	return send(ctx, ch, StreamResponse{Done: true})
}

// errorBody extracts a readable message from a failed response.
func errorBody(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var envelope struct {
		Error openAIError `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(raw))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// truncate shortens a string to a specified number of runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
