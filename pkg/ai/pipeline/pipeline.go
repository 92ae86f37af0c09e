package pipeline

import (
	"context"
	"time"

	"ai-assistant-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ai-assistant-be/pipeline")

// Progress lets a pipeline show interim status on the pending Turn.
// Both methods return false once the generation is no longer current.
type Progress interface {
	Status(text string) bool
	Countdown(ctx context.Context, frames []string, interval time.Duration) bool
}

type noProgress struct{}

func (noProgress) Status(string) bool { return true }

func (noProgress) Countdown(context.Context, []string, time.Duration) bool { return true }

// Input is one request to a pipeline.
type Input struct {
	Message string
	History []llm.Message

	// System replaces the pipeline's default framing when set.
	System string

	// FailureText replaces the pipeline's default terminal message when set.
	FailureText string

	// EmptyReplyText, when set, completes the Turn with this text if the
	// provider answers with nothing instead of treating it as a failure.
	EmptyReplyText string

	// NoOffline skips the offline tier for this request.
	NoOffline bool

	Progress Progress
}

func (in Input) progress() Progress {
	if in.Progress == nil {
		return noProgress{}
	}
	return in.Progress
}

// Outcome is what a pipeline resolved to. Pipelines never return errors:
// a Failed outcome carries the text for the terminal errored Turn.
type Outcome struct {
	Text     string
	Failed   bool
	Degraded bool  // produced by a fallback tier
	Err      error // cause, for logging
}

type Pipeline interface {
	Name() string
	Resolve(ctx context.Context, in Input) Outcome
}

func startSpan(ctx context.Context, name string, in Input) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pipeline."+name, trace.WithAttributes(
		attribute.Int("message.length", len(in.Message)),
		attribute.Int("history.length", len(in.History)),
	))
}

func endSpan(span trace.Span, out Outcome) {
	span.SetAttributes(
		attribute.Bool("outcome.failed", out.Failed),
		attribute.Bool("outcome.degraded", out.Degraded),
	)
	if out.Err != nil {
		span.RecordError(out.Err)
	}
	if out.Failed {
		span.SetStatus(codes.Error, "pipeline failed")
	}
	span.End()
}
