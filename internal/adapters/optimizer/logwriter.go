package optimizer

import (
	"bytes"
	"strings"

	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

// logWriter forwards compiler output to the logger line by line.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close logs any trailing partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}

	if w.level == "info" {
		w.logger.Debug(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}
