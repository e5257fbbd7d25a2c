package telemetry

import (
	"context"

	"go.trai.ch/dexmgr/internal/core/ports"
)

var _ ports.Tracer = (*NoOpTracer)(nil)

// NoOpTracer is a no-op implementation of ports.Tracer, used when tracing is disabled.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start creates a new no-op span.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, NoOpSpan{}
}

// Shutdown does nothing.
func (t *NoOpTracer) Shutdown(_ context.Context) error {
	return nil
}

// NoOpSpan is a no-op implementation of ports.Span.
type NoOpSpan struct{}

// End does nothing.
func (NoOpSpan) End() {}

// RecordError does nothing.
func (NoOpSpan) RecordError(_ error) {}

// SetAttribute does nothing.
func (NoOpSpan) SetAttribute(_ string, _ any) {}

// Write discards p.
func (NoOpSpan) Write(p []byte) (int, error) {
	return len(p), nil
}
