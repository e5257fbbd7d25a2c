// Package telemetry provides tracing adapters on top of OpenTelemetry.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
)

// DefaultSizeLimit is the buffered output size after which whole lines are emitted.
const DefaultSizeLimit = 4096

var errBatcherClosed = errors.New("output batcher is closed")

// LineBatcher buffers output written to a span and emits it in chunks of whole lines.
// It is safe for concurrent use.
type LineBatcher struct {
	sizeLimit int
	emit      func(string)

	mu     sync.Mutex
	buffer bytes.Buffer
	closed bool
}

// NewLineBatcher returns a LineBatcher calling emit once sizeLimit bytes are buffered.
// A sizeLimit of zero or less selects DefaultSizeLimit.
func NewLineBatcher(sizeLimit int, emit func(string)) *LineBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	return &LineBatcher{sizeLimit: sizeLimit, emit: emit}
}

// Write buffers p. Complete lines are emitted when the buffer reaches the size limit.
// A single line longer than the limit is emitted as is.
func (b *LineBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	b.buffer.Write(p)
	if b.buffer.Len() < b.sizeLimit {
		return len(p), nil
	}

	data := b.buffer.Bytes()
	cut := bytes.LastIndexByte(data, '\n') + 1
	if cut == 0 {
		cut = len(data)
	}
	b.emitLocked(data[:cut])
	rest := bytes.Clone(data[cut:])
	b.buffer.Reset()
	b.buffer.Write(rest)
	return len(p), nil
}

// Close emits whatever is left in the buffer.
func (b *LineBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.emitLocked(b.buffer.Bytes())
	b.buffer.Reset()
	return nil
}

// emitLocked must be called with mu held.
func (b *LineBatcher) emitLocked(data []byte) {
	if len(data) == 0 || b.emit == nil {
		return
	}
	b.emit(string(data))
}
