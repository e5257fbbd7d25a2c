package ledger

import (
	"sync"
	"time"
)

// asyncWriter coalesces write requests into delayed background writes.
type asyncWriter struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration

	// writing serializes write calls so at most one is in flight.
	writing sync.Mutex
	write   func() error
	onError func(error)
}

func newAsyncWriter(delay time.Duration, write func() error, onError func(error)) *asyncWriter {
	return &asyncWriter{
		delay:   delay,
		write:   write,
		onError: onError,
	}
}

// Trigger schedules a write after the delay.
// Requests made while a write is pending join it and never postpone it.
func (w *asyncWriter) Trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		return
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

// fire is called when the delay expires.
func (w *asyncWriter) fire() {
	w.mu.Lock()
	w.timer = nil
	w.mu.Unlock()

	if err := w.run(); err != nil && w.onError != nil {
		w.onError(err)
	}
}

// Flush cancels any pending write and writes synchronously.
func (w *asyncWriter) Flush() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	return w.run()
}

func (w *asyncWriter) run() error {
	w.writing.Lock()
	defer w.writing.Unlock()
	return w.write()
}
