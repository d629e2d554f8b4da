package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "ollama-boolean"

// Metrics holds all OTEL metric instruments for ollama-boolean.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// LLM token counters (partitioned by provider + model via attributes)
	InputTokens  metric.Int64Counter
	OutputTokens metric.Int64Counter

	// Classification counter (partitioned by outcome: affirmative, negative,
	// indeterminate, unavailable)
	Classifications metric.Int64Counter

	// Backend round-trip latency in seconds
	Duration metric.Float64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.InputTokens, err = meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Total LLM input tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.OutputTokens, err = meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Total LLM output tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.Classifications, err = meter.Int64Counter("classifications.total",
		metric.WithDescription("Total classifications partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.Duration, err = meter.Float64Histogram("classification.duration",
		metric.WithDescription("Backend round-trip time per classification"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTokens records LLM token usage on the metric counters.
func (m *Metrics) RecordTokens(ctx context.Context, provider, model string, input, output int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	m.InputTokens.Add(ctx, input, attrs)
	m.OutputTokens.Add(ctx, output, attrs)
}

// RecordClassification records one classification with the given outcome.
func (m *Metrics) RecordClassification(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("classification.outcome", outcome),
	)
	m.Classifications.Add(ctx, 1, attrs)
	m.Duration.Record(ctx, d.Seconds(), attrs)
}
