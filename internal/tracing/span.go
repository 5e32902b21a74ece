package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartItemSpan starts the span that covers every attempt of one work item.
func StartItemSpan(ctx context.Context, tracer trace.Tracer, runID, kind string, id int64) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, kind+" work item",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		attribute.Int64("liftload.item_id", id),
		attribute.String("http.request.method", kind),
	)
	if runID != "" {
		span.SetAttributes(attribute.String("liftload.run_id", runID))
	}
	return ctx, span
}

// AddAttemptEvent records one network attempt on the item span.
func AddAttemptEvent(span trace.Span, attempt, status int, latency time.Duration, decision string, err error) {
	attrs := []attribute.KeyValue{
		attribute.Int("liftload.attempt", attempt),
		attribute.Int64("liftload.latency_ms", latency.Milliseconds()),
		attribute.String("liftload.decision", decision),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error.message", err.Error()))
	}
	span.AddEvent("attempt", trace.WithAttributes(attrs...))
}

// EndSpan finishes an item span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attempts int) {
	span.SetAttributes(attribute.Int("liftload.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
