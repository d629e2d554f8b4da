package classifier

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/timvw/ollama-boolean/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultAnthropicBaseURL is Ollama's Anthropic-compatible endpoint.
// The SDK appends /v1/messages.
const DefaultAnthropicBaseURL = "http://localhost:11434"

// AnthropicBackend talks to an Anthropic-compatible Messages API.
// Works with Ollama's /v1/messages endpoint and the Anthropic API.
type AnthropicBackend struct {
	client    anthropic.Client
	baseURL   string
	maxTokens int64
}

// AnthropicConfig holds configuration for the Anthropic-compatible backend.
type AnthropicConfig struct {
	// BaseURL is the API endpoint. Defaults to DefaultAnthropicBaseURL.
	BaseURL string
	// APIKey is the API key.
	APIKey string
	// MaxTokens is the maximum number of output tokens (required by the API).
	MaxTokens int64
	// ExtraHeaders are sent with every request, e.g. the auth header of a
	// reverse proxy in front of Ollama.
	ExtraHeaders map[string]string
}

// NewAnthropicBackend creates a new Anthropic-compatible backend.
func NewAnthropicBackend(cfg AnthropicConfig) *AnthropicBackend {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	for k, v := range cfg.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &AnthropicBackend{
		client:    anthropic.NewClient(opts...),
		baseURL:   baseURL,
		maxTokens: maxTokens,
	}
}

// Provider returns "anthropic".
func (b *AnthropicBackend) Provider() string {
	return "anthropic"
}

// Complete sends one Messages API request.
//
// The Messages API has no JSON response format, so req.JSON is enforced by
// the system prompt only and markdown fences around the reply are stripped.
func (b *AnthropicBackend) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	ctx, span := startChatSpan(ctx, b.Provider(), b.baseURL, req, b.maxTokens)
	defer span.End()

	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   b.maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(req.User),
			),
		},
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	// Thinking models may lead with a thinking block; take the first text block.
	text, found := "", false
	for _, block := range resp.Content {
		if block.Type == "text" {
			text, found = block.Text, true
			break
		}
	}
	if !found {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return nil, fmt.Errorf("anthropic API returned no text content")
	}

	comp := &Completion{
		Content:      stripMarkdownFences(text),
		Model:        string(resp.Model),
		FinishReason: string(resp.StopReason),
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}
	span.SetAttributes(attribute.String("gen_ai.response.id", resp.ID))
	recordCompletion(span, comp)

	return comp, nil
}
