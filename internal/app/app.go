// Package app implements the application layer for dexmgr.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/dexmgr/internal/engine/dexmanager"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
//
// Every operation starts by syncing the dex manager with the installed
// packages and ends by flushing the usage ledger.
type App struct {
	manager  *dexmanager.Manager
	registry ports.PackageRegistry
	ledger   ports.UsageLedger
	watcher  ports.Watcher
	tracer   ports.Tracer
	logger   ports.Logger
	workers  int
}

// New creates a new App instance.
func New(
	manager *dexmanager.Manager,
	registry ports.PackageRegistry,
	ledger ports.UsageLedger,
	watcher ports.Watcher,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		manager:  manager,
		registry: registry,
		ledger:   ledger,
		watcher:  watcher,
		tracer:   tracer,
		logger:   log,
		workers:  runtime.NumCPU(),
	}
}

// WithWorkers sets how many packages are compiled concurrently.
func (a *App) WithWorkers(n int) *App {
	if n > 0 {
		a.workers = n
	}
	return a
}

// LoadEvent reports that a package loaded dex files.
type LoadEvent struct {
	Package string        `json:"package"`
	User    domain.UserID `json:"user"`
	ISA     string        `json:"isa"`
	Paths   []string      `json:"paths"`
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	Packages []string
	All      bool
	Filter   string
	Force    bool
}

// Sync reconciles the usage ledger with the installed packages.
func (a *App) Sync(ctx context.Context) (err error) {
	existing, err := a.prepare(ctx)
	if err != nil {
		return err
	}
	defer a.finish(ctx, &err)

	a.logger.Info(fmt.Sprintf("synced dex usage with %d installed packages", len(installedPackageNames(existing))))
	return nil
}

// Load records one load event.
func (a *App) Load(ctx context.Context, event LoadEvent) (err error) {
	if _, err := a.prepare(ctx); err != nil {
		return err
	}
	defer a.finish(ctx, &err)

	return a.notifyLoad(event)
}

// Compile compiles the secondary dex files of the selected packages.
func (a *App) Compile(ctx context.Context, opts CompileOptions) (err error) {
	if _, err := a.prepare(ctx); err != nil {
		return err
	}
	defer a.finish(ctx, &err)

	packages, err := a.selectPackages(opts.Packages, opts.All)
	if err != nil {
		return err
	}

	ok := make([]bool, len(packages))
	g := new(errgroup.Group)
	g.SetLimit(a.workers)
	for i, name := range packages {
		g.Go(func() error {
			ok[i] = a.manager.DexoptSecondaryDex(ctx, name, opts.Filter, opts.Force)
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, name := range packages {
		if !ok[i] {
			failed = append(failed, name)
			continue
		}
		a.logger.Info("compiled secondary dex files of " + name)
	}
	if len(failed) > 0 {
		err := zerr.Wrap(domain.ErrDexoptFailed, "compile pass failed")
		return zerr.With(err, "packages", strings.Join(failed, ", "))
	}
	return nil
}

// Reconcile drops ledger entries of secondary dex files that no longer exist.
func (a *App) Reconcile(ctx context.Context, packageNames []string, all bool) (err error) {
	if _, err := a.prepare(ctx); err != nil {
		return err
	}
	defer a.finish(ctx, &err)

	packages, err := a.selectPackages(packageNames, all)
	if err != nil {
		return err
	}
	for _, name := range packages {
		a.manager.ReconcileSecondaryDexFiles(ctx, name)
	}
	return nil
}

// List writes the names of packages with recorded secondary dex files to w.
func (a *App) List(ctx context.Context, w io.Writer) (err error) {
	if _, err := a.prepare(ctx); err != nil {
		return err
	}
	defer a.finish(ctx, &err)

	for _, name := range a.manager.GetAllPackagesWithSecondaryDexFiles() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes the recorded usage of the given packages to w.
// With all set, every installed package with recorded usage is written.
func (a *App) Dump(ctx context.Context, w io.Writer, packageNames []string, all bool) (err error) {
	existing, err := a.prepare(ctx)
	if err != nil {
		return err
	}
	defer a.finish(ctx, &err)

	if all {
		packageNames = installedPackageNames(existing)
	} else if len(packageNames) == 0 {
		return domain.ErrNoPackagesSpecified
	}

	report := NewReport(w)
	for _, name := range packageNames {
		info := a.manager.GetPackageUseInfo(name)
		if info == nil && all {
			continue
		}
		if err := report.Package(name, info); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) notifyLoad(event LoadEvent) error {
	pkg, err := a.registry.GetPackageInfo(event.Package, domain.LookupDefault, event.User)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "package lookup failed"), "package", event.Package)
	}
	if pkg == nil {
		err := zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "unknown loading package"), "package", event.Package)
		return zerr.With(err, "user", int(event.User))
	}
	a.manager.NotifyDexLoad(&pkg.AppInfo, event.Paths, event.ISA, event.User)
	return nil
}

// prepare loads the installed packages into the dex manager.
func (a *App) prepare(ctx context.Context) (map[domain.UserID][]domain.PackageInfo, error) {
	existing, err := a.registry.ExistingPackages()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read installed packages")
	}
	a.manager.Load(ctx, existing)
	return existing, nil
}

// installedPackageNames returns the distinct package names across users, sorted.
func installedPackageNames(existing map[domain.UserID][]domain.PackageInfo) []string {
	seen := make(map[string]struct{})
	for _, packages := range existing {
		for i := range packages {
			seen[packages[i].PackageName] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// finish persists the ledger and flushes finished spans, joining failures into err.
func (a *App) finish(ctx context.Context, err *error) {
	ctx = context.WithoutCancel(ctx)
	if flushErr := a.ledger.Flush(); flushErr != nil {
		*err = errors.Join(*err, flushErr)
	}
	if shutdownErr := a.tracer.Shutdown(ctx); shutdownErr != nil {
		*err = errors.Join(*err, zerr.Wrap(shutdownErr, "failed to shut down tracer"))
	}
}

func (a *App) selectPackages(names []string, all bool) ([]string, error) {
	if all {
		return a.manager.GetAllPackagesWithSecondaryDexFiles(), nil
	}
	if len(names) == 0 {
		return nil, domain.ErrNoPackagesSpecified
	}
	return names, nil
}
