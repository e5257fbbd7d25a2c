package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/dexmgr/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogBridge)(nil)

// LogBridge implements sdktrace.SpanProcessor by writing finished spans to the logger.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing; spans are reported when they end.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span's name, duration, attributes and status at debug level.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}
	b.logger.Debug(FormatSpan(s))
}

// FormatSpan renders a finished span as one log line.
func FormatSpan(s sdktrace.ReadOnlySpan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "span %s took %s", s.Name(), s.EndTime().Sub(s.StartTime()))

	for _, kv := range s.Attributes() {
		fmt.Fprintf(&sb, " %s=%s", kv.Key, kv.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "unknown error"
		}
		sb.WriteString(" failed: " + desc)
	}
	return sb.String()
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}
