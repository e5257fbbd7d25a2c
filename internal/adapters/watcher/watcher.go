package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 200 * time.Millisecond

const eventChannelBuffer = 16

// Watcher watches one file using fsnotify.
//
// The parent directory is watched so the file may be replaced by rename.
// Bursts of events are coalesced by a Debouncer.
type Watcher struct {
	window time.Duration
	logger ports.Logger

	fsWatcher *fsnotify.Watcher
	target    string
	debouncer *Debouncer
	events    chan ports.WatchEvent
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher coalescing events within window.
func New(window time.Duration, logger ports.Logger) *Watcher {
	return &Watcher{
		window: window,
		logger: logger,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
		done:   make(chan struct{}),
	}
}

// Start begins watching path. Events stop when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, path string) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", path)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", path)
	}
	if err := fsWatcher.Add(filepath.Dir(target)); err != nil {
		_ = fsWatcher.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", path)
	}

	w.fsWatcher = fsWatcher
	w.target = target
	w.debouncer = NewDebouncer(w.window, w.publish)

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of coalesced events. It ends once the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for {
			select {
			case event := <-w.events:
				if !yield(event) {
					return
				}
			case <-w.done:
				return
			}
		}
	}
}

func (w *Watcher) publish(events []ports.WatchEvent) {
	for _, event := range events {
		select {
		case w.events <- event:
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.stopOnce.Do(func() { close(w.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if watchEvent, ok := convertEvent(event); ok {
				w.debouncer.Add(watchEvent)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
// Chmod-only events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
