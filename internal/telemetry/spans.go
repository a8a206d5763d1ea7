package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Standard attribute keys for clawboard spans.
var (
	AttrOperation    = attribute.Key("clawboard.operation")
	AttrAgentID      = attribute.Key("clawboard.agent.id")
	AttrTaskID       = attribute.Key("clawboard.task.id")
	AttrMessageID    = attribute.Key("clawboard.message.id")
	AttrDocumentID   = attribute.Key("clawboard.document.id")
	AttrNotification = attribute.Key("clawboard.notification.id")
	AttrActivityType = attribute.Key("clawboard.activity.type")
	AttrOutcome      = attribute.Key("clawboard.outcome")
)

// StartSpan is a convenience wrapper that starts an internal span with common attributes.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartClientSpan starts a span for an outbound call (Discord API).
func StartClientSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
