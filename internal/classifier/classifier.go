// Package classifier asks an LLM backend a yes/no question and turns the
// reply into a three-way classification.
//
// The backend is constrained to reply with {"result": <0|1|2>}. Go code only
// builds the prompt and validates the reply; the judgment itself is made by
// the model. Any failure (transport, timeout, malformed reply, out-of-range
// value) collapses into model.Unavailable.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/timvw/ollama-boolean/internal/model"
	telem "github.com/timvw/ollama-boolean/internal/otel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("ollama-boolean/classifier")

// ChatRequest is a single system+user exchange sent to a backend.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	// JSON asks the backend to constrain its output to a JSON object.
	JSON bool
}

// Completion is the backend's reply.
type Completion struct {
	// Content is the assistant message text.
	Content string
	// Model is the model that produced the reply, as reported by the backend.
	Model string
	// FinishReason is the backend's stop reason, if any.
	FinishReason string
	Usage        model.TokenUsage
}

// Backend sends one chat exchange to an inference server.
type Backend interface {
	// Complete performs a single chat completion. Implementations must not retry.
	Complete(ctx context.Context, req ChatRequest) (*Completion, error)

	// Provider returns the API flavour (e.g., "openai", "anthropic").
	Provider() string
}

// Options configures a Classifier.
type Options struct {
	// Timeout bounds the backend round-trip. Zero means no timeout.
	Timeout time.Duration
	// Metrics records classification outcomes. May be nil.
	Metrics *telem.Metrics
}

// Classifier obtains exactly one categorical judgment per call.
type Classifier struct {
	backend Backend
	timeout time.Duration
	metrics *telem.Metrics
}

// New creates a Classifier on top of backend.
func New(backend Backend, opts Options) *Classifier {
	return &Classifier{
		backend: backend,
		timeout: opts.Timeout,
		metrics: opts.Metrics,
	}
}

// Classify sends the prompt to the backend and validates the reply.
// It never returns an error: failures are reported as an Outcome whose
// Result is model.Unavailable and whose Err describes what went wrong.
func (c *Classifier) Classify(ctx context.Context, req model.Request) model.Outcome {
	out := model.Outcome{
		Result:   model.Unavailable,
		Provider: c.backend.Provider(),
		Model:    req.Model,
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	comp, err := c.backend.Complete(callCtx, ChatRequest{
		Model:       req.Model,
		System:      SystemPrompt,
		User:        req.Prompt,
		Temperature: req.Temperature,
		JSON:        req.Format == "json",
	})
	out.Duration = time.Since(start)

	switch {
	case err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded):
		out.Err = fmt.Errorf("%w: no reply from %s backend within %s", ErrTimeout, out.Provider, c.timeout)
	case err != nil:
		out.Err = fmt.Errorf("%w: %w", ErrBackend, err)
	default:
		out.Usage = comp.Usage
		out.Result, out.Err = ParseResult(comp.Content)
	}

	c.metrics.RecordTokens(ctx, out.Provider, out.Model, out.Usage.InputTokens, out.Usage.OutputTokens)
	c.metrics.RecordClassification(ctx, out.Result.Name(), out.Duration)

	return out
}

// ParseResult validates a backend reply of the form {"result": <int>}.
//
// The result member must be present and its literal JSON token must be
// exactly 0, 1 or 2. Strings, floats (including 1.0), booleans, null and
// out-of-range integers are rejected without coercion.
func ParseResult(content string) (model.Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return model.Unavailable, fmt.Errorf("%w: %v: raw response: %q", ErrMalformedResponse, err, content)
	}

	raw, ok := fields["result"]
	if !ok {
		return model.Unavailable, fmt.Errorf("%w: raw response: %q", ErrMissingResult, content)
	}

	switch string(bytes.TrimSpace(raw)) {
	case "0":
		return model.Negative, nil
	case "1":
		return model.Affirmative, nil
	case "2":
		return model.Indeterminate, nil
	}
	return model.Unavailable, fmt.Errorf("%w: got %s", ErrInvalidResult, raw)
}
