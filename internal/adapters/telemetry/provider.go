package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/dexmgr/internal/core/ports"
)

// InstrumentationName names the tracer spans are created with.
const InstrumentationName = "go.trai.ch/dexmgr"

var _ ports.Tracer = (*OTelTracer)(nil)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewOTelTracer creates an OTelTracer whose finished spans go to processors.
func NewOTelTracer(processors ...sdktrace.SpanProcessor) *OTelTracer {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	return &OTelTracer{
		provider: tp,
		tracer:   tp.Tracer(InstrumentationName),
	}
}

// Start creates a new span carrying the attributes given as options.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)
	s := &OTelSpan{span: span}
	for k, v := range cfg.Attributes {
		s.SetAttribute(k, v)
	}
	s.output = NewLineBatcher(0, func(chunk string) {
		span.AddEvent("output", trace.WithAttributes(attribute.String("text", chunk)))
	})
	return ctx, s
}

// Shutdown ends the provider, flushing finished spans to the processors.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span   trace.Span
	output *LineBatcher
}

// End completes the span.
func (s *OTelSpan) End() {
	_ = s.output.Close()
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write records p as span output.
func (s *OTelSpan) Write(p []byte) (int, error) {
	return s.output.Write(p)
}
