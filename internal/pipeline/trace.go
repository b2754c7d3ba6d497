package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Traced wraps a Pipeline so every public operation runs inside an
// OpenTelemetry span. With no tracer provider registered the spans are
// no-ops, so wrapping is always safe.
type Traced struct {
	inner  *Pipeline
	tracer trace.Tracer
}

// NewTraced wraps p with span instrumentation.
func NewTraced(p *Pipeline) *Traced {
	return &Traced{
		inner:  p,
		tracer: otel.Tracer("spacebot/pipeline"),
	}
}

// Build traces the ingestion path.
func (t *Traced) Build(ctx context.Context, sourcePath string) error {
	ctx, span := t.tracer.Start(ctx, "pipeline.build",
		trace.WithAttributes(attribute.String("corpus.path", sourcePath)))
	defer span.End()

	err := t.inner.Build(ctx, sourcePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Ask traces a single query round trip.
func (t *Traced) Ask(ctx context.Context, query string) (string, error) {
	ctx, span := t.tracer.Start(ctx, "pipeline.ask",
		trace.WithAttributes(attribute.Int("query.length", len(query))))
	defer span.End()

	response, err := t.inner.Ask(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return response, err
	}
	span.SetAttributes(attribute.Int("response.length", len(response)))
	return response, nil
}

// History traces transcript rendering.
func (t *Traced) History() string {
	_, span := t.tracer.Start(context.Background(), "pipeline.history")
	defer span.End()
	return t.inner.History()
}

// Clear traces session reset.
func (t *Traced) Clear() string {
	_, span := t.tracer.Start(context.Background(), "pipeline.clear")
	defer span.End()
	return t.inner.Clear()
}

// State reports the wrapped pipeline's state.
func (t *Traced) State() State {
	return t.inner.State()
}

// Close releases the wrapped pipeline's resources.
func (t *Traced) Close() error {
	return t.inner.Close()
}
