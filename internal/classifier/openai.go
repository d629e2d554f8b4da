package classifier

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/timvw/ollama-boolean/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultOpenAIBaseURL is Ollama's OpenAI-compatible endpoint.
const DefaultOpenAIBaseURL = "http://localhost:11434/v1"

// OpenAIBackend talks to an OpenAI-compatible Chat Completions API.
// Works with Ollama's /v1 endpoint, llama.cpp server, vLLM and OpenAI itself.
type OpenAIBackend struct {
	client    openai.Client
	baseURL   string
	maxTokens int64
}

// OpenAIConfig holds configuration for the OpenAI-compatible backend.
type OpenAIConfig struct {
	// BaseURL is the API endpoint. Defaults to DefaultOpenAIBaseURL.
	BaseURL string
	// APIKey is sent as a bearer token. Ollama ignores it but the
	// client requires one.
	APIKey string
	// MaxTokens caps the completion length. Zero leaves it to the server.
	MaxTokens int64
	// ExtraHeaders are sent with every request, e.g. the auth header of a
	// reverse proxy in front of Ollama.
	ExtraHeaders map[string]string
}

// NewOpenAIBackend creates a new OpenAI-compatible backend.
// Retries are disabled: one invocation issues exactly one request.
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
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

	return &OpenAIBackend{
		client:    openai.NewClient(opts...),
		baseURL:   baseURL,
		maxTokens: cfg.MaxTokens,
	}
}

// Provider returns "openai".
func (b *OpenAIBackend) Provider() string {
	return "openai"
}

// Complete sends one chat completion request.
func (b *OpenAIBackend) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	ctx, span := startChatSpan(ctx, b.Provider(), b.baseURL, req, b.maxTokens)
	defer span.End()

	params := openai.ChatCompletionNewParams{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if b.maxTokens > 0 {
		params.MaxTokens = openai.Int(b.maxTokens)
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return nil, fmt.Errorf("openai API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return nil, fmt.Errorf("openai API returned empty response")
	}

	comp := &Completion{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	span.SetAttributes(attribute.String("gen_ai.response.id", resp.ID))
	recordCompletion(span, comp)

	return comp, nil
}
