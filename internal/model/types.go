package model

import (
	"strconv"
	"time"
)

// DefaultModel is the model used when no model name is given on the command line.
const DefaultModel = "qwen3"

// Result is the three-way classification of a model's answer.
// Only Negative, Affirmative and Indeterminate are valid results;
// Unavailable marks the absence of a classification.
type Result int

const (
	// Unavailable means no valid classification could be obtained.
	Unavailable Result = -1
	// Negative is a "no" answer.
	Negative Result = 0
	// Affirmative is a "yes" answer.
	Affirmative Result = 1
	// Indeterminate is an unknown or subjective answer.
	Indeterminate Result = 2
)

// Valid reports whether r is one of the three classification values.
func (r Result) Valid() bool {
	switch r {
	case Negative, Affirmative, Indeterminate:
		return true
	}
	return false
}

// Label returns the human-readable interpretation of r.
func (r Result) Label() string {
	switch r {
	case Affirmative:
		return "Yes/Positive"
	case Negative:
		return "No/Negative"
	case Indeterminate:
		return "Unknown/Subjective"
	default:
		return "Unavailable"
	}
}

// Name returns a lowercase identifier suitable for metric attributes.
func (r Result) Name() string {
	switch r {
	case Affirmative:
		return "affirmative"
	case Negative:
		return "negative"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unavailable"
	}
}

// String returns the bare numeric form printed in quiet mode.
func (r Result) String() string {
	if !r.Valid() {
		return "null"
	}
	return strconv.Itoa(int(r))
}

// Request is a single classification request.
// Build it with NewRequest; the generation settings are fixed.
type Request struct {
	// Prompt is the user's question. Never blank.
	Prompt string
	// Model is the backend model identifier (e.g., "qwen3", "llama3.2").
	Model string
	// Temperature is always 0 for deterministic output.
	Temperature float64
	// Format is always "json".
	Format string
}

// NewRequest builds a deterministic JSON-constrained request.
// An empty model name falls back to DefaultModel.
func NewRequest(prompt, modelName string) Request {
	if modelName == "" {
		modelName = DefaultModel
	}
	return Request{
		Prompt:      prompt,
		Model:       modelName,
		Temperature: 0,
		Format:      "json",
	}
}

// Outcome is the result of one classification attempt.
type Outcome struct {
	// Result is the classification, or Unavailable on any failure.
	Result Result
	// Err is the underlying failure. Only meant for diagnostic logging;
	// callers decide on Available().
	Err error

	// Usage tracks token consumption, when the backend reported it.
	Usage TokenUsage

	// Provider is the backend API flavour used (e.g., "openai", "anthropic").
	Provider string
	// Model is the model that was asked.
	Model string
	// Duration is the wall-clock time of the backend round-trip.
	Duration time.Duration
}

// Available reports whether the outcome carries a valid classification.
func (o Outcome) Available() bool {
	return o.Result.Valid()
}

// TokenUsage tracks LLM token consumption for a single call.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}
