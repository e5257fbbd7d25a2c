package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/dexmgr/internal/ui/output"
	"go.trai.ch/dexmgr/internal/ui/style"
)

// PrettyHandler writes each record as one coloured line: an icon for the
// severity, the message, then key=value attributes.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	// attrs are rendered when added, with the group prefix in effect at that time.
	attrs  []string
	prefix string
}

// NewPrettyHandler creates a PrettyHandler writing to w, or to stderr when w is nil.
// The level is read on every record, so a *slog.LevelVar can change it later.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelStyle(r.Level)

	var line strings.Builder
	if icon != "" {
		line.WriteString(icon + " ")
	}
	line.WriteString(r.Message)
	for _, attr := range h.attrs {
		line.WriteString(" " + attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		line.WriteString(" " + h.render(attr))
		return true
	})

	_, err := h.out.WriteString(h.out.String(line.String()).Foreground(color).String() + "\n")
	return err
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		next.attrs = append(next.attrs, h.render(attr))
	}
	return next
}

// WithGroup implements slog.Handler. Nested groups are joined with dots.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  append([]string(nil), h.attrs...),
		prefix: h.prefix,
	}
}

func (h *PrettyHandler) render(attr slog.Attr) string {
	return h.prefix + attr.Key + "=" + attr.Value.String()
}

// levelStyle picks the icon and colour for a severity. Info has no icon.
func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	case level < slog.LevelInfo:
		return style.Circle, termenv.RGBColor(string(style.Iris))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}
