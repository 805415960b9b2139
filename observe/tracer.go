package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/stellarcade/querycache/query"
)

// QueryMeta identifies a cache query for telemetry purposes.
type QueryMeta struct {
	Namespace string // cache namespace (required)
	Key       string // canonical encoded key (optional)
	Operation string // fetch|refetch|invalidate (optional, defaults to fetch)
}

// MetaFromKey builds telemetry metadata from a cache key.
func MetaFromKey(key query.Key) QueryMeta {
	return QueryMeta{
		Namespace: string(key.Namespace()),
		Key:       key.Encode(),
	}
}

// SpanName returns the deterministic span name for this query.
// Format: cache.<operation>.<namespace>
func (m QueryMeta) SpanName() string {
	op := m.Operation
	if op == "" {
		op = "fetch"
	}
	return "cache." + op + "." + m.Namespace
}

// Tracer wraps OpenTelemetry tracing with query-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a cache fetch.
	StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with query metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span) {
	spanName := meta.SpanName()

	attrs := []attribute.KeyValue{
		attribute.String("query.namespace", meta.Namespace),
		attribute.Bool("cache.error", false), // Updated in EndSpan on error
	}

	if meta.Key != "" {
		attrs = append(attrs, attribute.String("query.key", meta.Key))
	}
	if meta.Operation != "" {
		attrs = append(attrs, attribute.String("query.operation", meta.Operation))
	}

	// Fetches call out to an RPC node or indexer.
	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("cache.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
