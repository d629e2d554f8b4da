package classifier

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startChatSpan starts a GenAI client span following the OTel GenAI
// semantic conventions. Span name is "{operation} {model}".
func startChatSpan(ctx context.Context, provider, baseURL string, req ChatRequest, maxTokens int64) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "chat "+req.Model,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", provider),
			attribute.String("gen_ai.request.model", req.Model),
			attribute.Float64("gen_ai.request.temperature", req.Temperature),
			attribute.String("server.address", baseURL),
			// Langfuse-specific: ensure this shows as a "generation"
			attribute.String("langfuse.observation.type", "generation"),
		),
	)
	if maxTokens > 0 {
		span.SetAttributes(attribute.Int64("gen_ai.request.max_tokens", maxTokens))
	}
	if req.JSON {
		span.SetAttributes(attribute.String("gen_ai.output.type", "json"))
	}

	inputMessages := []map[string]string{
		{"role": "system", "content": req.System},
		{"role": "user", "content": req.User},
	}
	if inputJSON, err := json.Marshal(inputMessages); err == nil {
		span.SetAttributes(attribute.String("gen_ai.input.messages", string(inputJSON)))
	}

	return ctx, span
}

// recordCompletion records response attributes and output on the span.
func recordCompletion(span trace.Span, comp *Completion) {
	span.SetAttributes(
		attribute.String("gen_ai.response.model", comp.Model),
		attribute.Int64("gen_ai.usage.input_tokens", comp.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", comp.Usage.OutputTokens),
	)
	if comp.FinishReason != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{comp.FinishReason}))
	}

	outputMessages := []map[string]string{
		{"role": "assistant", "content": comp.Content},
	}
	if outputJSON, err := json.Marshal(outputMessages); err == nil {
		span.SetAttributes(attribute.String("gen_ai.output.messages", string(outputJSON)))
	}
}
