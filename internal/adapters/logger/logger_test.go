package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dexmgr/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(l *logger.Logger) { l.Info("loaded 3 packages") },
			goldenName: "info_basic",
		},
		{
			name:       "warn",
			log:        func(l *logger.Logger) { l.Warn("unsupported isa mips") },
			goldenName: "warn_basic",
		},
		{
			name:       "multiline warning",
			log:        func(l *logger.Logger) { l.Warn("warn1\nwarn2") },
			goldenName: "warn_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_DebugHiddenByDefault(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("not shown")

	assert.Empty(t, buf.String())
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetLevel(slog.LevelDebug)

	lg.Debug("unknown dex path")

	g := goldie.New(t)
	g.Assert(t, "debug_enabled", buf.Bytes())

	buf.Reset()
	lg.SetLevel(slog.LevelWarn)
	lg.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        errors.New("disk full"),
			goldenName: "error_simple",
		},
		{
			name: "zerr chain with metadata",
			err: zerr.With(
				zerr.Wrap(
					zerr.Wrap(errors.New("permission denied"), "failed to write dex usage ledger"),
					"flush failed",
				),
				"path", "/data/system/package-dex-usage.json",
			),
			goldenName: "error_chain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.With(zerr.New("boom"), "package", "com.example"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "com.example", record["package"])
}

func TestLogger_SetOutputKeepsJSONMode(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
}
