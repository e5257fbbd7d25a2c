package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const maxEventLine = 1 << 20

// installKey identifies a package announced by an installed event.
type installKey struct {
	name string
	user domain.UserID
}

// Watch records events read as JSON lines from in until in is exhausted or ctx is done.
//
// Changes of the package manifest re-sync the dex manager with the installed
// packages. Events and manifest changes are handled one at a time.
// Packages announced by installed events can load dex files before they
// appear in the manifest; the next manifest change forgets them.
func (a *App) Watch(ctx context.Context, in io.Reader) (err error) {
	if _, err := a.prepare(ctx); err != nil {
		return err
	}
	defer a.finish(ctx, &err)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.watcher.Start(ctx, a.registry.Source()); err != nil {
		return err
	}
	defer func() {
		if stopErr := a.watcher.Stop(); stopErr != nil {
			a.logger.Error(zerr.Wrap(stopErr, "failed to stop manifest watcher"))
		}
	}()

	// The reader is not joined: a read blocked on in is abandoned on shutdown.
	lines := make(chan []byte)
	go a.scanLines(ctx, in, lines)

	changes := make(chan struct{}, 1)
	announced := make(map[installKey]domain.AppInfo)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for range a.watcher.Events() {
			select {
			case changes <- struct{}{}:
			default:
			}
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				a.handleEvent(line, announced)
			case <-changes:
				clear(announced)
				a.resync(gctx)
			}
		}
	})
	return g.Wait()
}

func (a *App) scanLines(ctx context.Context, in io.Reader, lines chan<- []byte) {
	defer close(lines)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		select {
		case lines <- slices.Clone(line):
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		a.logger.Error(zerr.Wrap(err, "failed to read events"))
	}
}

func (a *App) handleEvent(line []byte, announced map[installKey]domain.AppInfo) {
	event, err := DecodeEvent(line)
	if err != nil {
		a.logger.Error(err)
		return
	}

	switch event.Type {
	case EventLoad:
		err := a.notifyLoad(event.LoadEvent)
		if errors.Is(err, domain.ErrPackageNotFound) {
			if app, ok := announced[installKey{name: event.Package, user: event.User}]; ok {
				a.manager.NotifyDexLoad(&app, event.Paths, event.ISA, event.User)
				err = nil
			}
		}
		if err != nil {
			a.logger.Error(err)
		}
	case EventInstalled:
		announced[installKey{name: event.App.PackageName, user: event.User}] = event.App.Clone()
		a.manager.NotifyPackageInstalled(event.App, event.User)
		a.logger.Debug(fmt.Sprintf("package %s installed for user %d", event.App.PackageName, event.User))
	}
}

// resync persists pending usage, then reloads the manifest and the ledger.
func (a *App) resync(ctx context.Context) {
	if err := a.ledger.Flush(); err != nil {
		a.logger.Error(err)
	}
	if err := a.registry.Reload(); err != nil {
		a.logger.Error(zerr.Wrap(err, "failed to reload package manifest"))
		return
	}
	existing, err := a.prepare(ctx)
	if err != nil {
		a.logger.Error(err)
		return
	}
	a.logger.Info(fmt.Sprintf("package manifest changed, synced %d installed packages", len(installedPackageNames(existing))))
}
