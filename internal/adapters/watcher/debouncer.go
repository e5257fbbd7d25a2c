// Package watcher reports changes of a single file, such as the package manifest.
package watcher

import (
	"maps"
	"slices"
	"sync"
	"time"

	"go.trai.ch/dexmgr/internal/core/ports"
)

// Debouncer coalesces rapid file system events into batches.
// For each path only the latest operation is kept.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]ports.WatchOp
	timer    *time.Timer
	window   time.Duration
	callback func(events []ports.WatchEvent)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(events []ports.WatchEvent)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]ports.WatchOp),
		window:   window,
		callback: callback,
	}
}

// Add records an event and restarts the window.
func (d *Debouncer) Add(event ports.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[event.Path] = event.Operation

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	events := d.drainLocked()
	d.timer = nil
	d.mu.Unlock()

	if len(events) > 0 && d.callback != nil {
		go d.callback(events)
	}
}

// Flush immediately delivers all pending events and blocks until the callback returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	events := d.drainLocked()
	d.mu.Unlock()

	if len(events) > 0 && d.callback != nil {
		d.callback(events)
	}
}

// drainLocked must be called with mu held. Events are sorted by path.
func (d *Debouncer) drainLocked() []ports.WatchEvent {
	if len(d.pending) == 0 {
		return nil
	}
	events := make([]ports.WatchEvent, 0, len(d.pending))
	for _, path := range slices.Sorted(maps.Keys(d.pending)) {
		events = append(events, ports.WatchEvent{Path: path, Operation: d.pending[path]})
	}
	clear(d.pending)
	return events
}
