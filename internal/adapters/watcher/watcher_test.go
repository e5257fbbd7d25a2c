package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dexmgr/internal/adapters/watcher"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/dexmgr/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func nextEvent(t *testing.T, w *watcher.Watcher) ports.WatchEvent {
	t.Helper()

	got := make(chan ports.WatchEvent, 1)
	go func() {
		for event := range w.Events() {
			got <- event
			return
		}
	}()

	select {
	case event := <-got:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return ports.WatchEvent{}
	}
}

func TestWatcher_ReportsManifestChange(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "packages.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("users: []\n"), 0o644))

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	w := watcher.New(10*time.Millisecond, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, w.Start(ctx, manifest))
	t.Cleanup(func() { _ = w.Stop() })

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(manifest, []byte("users:\n  - id: 0\n"), 0o644))

	event := nextEvent(t, w)
	assert.Equal(t, manifest, event.Path)
}

func TestWatcher_ReportsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "packages.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("users: []\n"), 0o644))

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	w := watcher.New(10*time.Millisecond, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, w.Start(ctx, manifest))
	t.Cleanup(func() { _ = w.Stop() })

	tmp := filepath.Join(dir, "packages.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("users: []\n"), 0o644))
	require.NoError(t, os.Rename(tmp, manifest))

	event := nextEvent(t, w)
	assert.Equal(t, manifest, event.Path)
	assert.Equal(t, ports.OpCreate, event.Operation)
}

func TestWatcher_EventsEndOnCancel(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "packages.yaml")

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	w := watcher.New(10*time.Millisecond, logger)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, w.Start(ctx, manifest))
	t.Cleanup(func() { _ = w.Stop() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range w.Events() {
		}
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events iterator did not end after cancel")
	}
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	w := watcher.New(10*time.Millisecond, logger)
	err := w.Start(context.Background(), filepath.Join(t.TempDir(), "missing", "packages.yaml"))

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatcherStartFailed.Error())
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	w := watcher.New(10*time.Millisecond, nil)
	assert.NoError(t, w.Stop())
}
