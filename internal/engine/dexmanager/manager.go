// Package dexmanager attributes loaded dex files to the package that owns them
// and keeps the dex usage ledger in step with installed packages and files on disk.
package dexmanager

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

// Manager orchestrates ownership resolution, usage recording and secondary dex maintenance.
type Manager struct {
	ledger      ports.UsageLedger
	registry    ports.PackageRegistry
	installer   ports.Installer
	optimizer   ports.DexOptimizer
	tracer      ports.Tracer
	logger      ports.Logger
	installLock sync.Locker
	isas        domain.ISASet

	// mu guards index and resolver, and serializes ledger records on the load path.
	mu       sync.Mutex
	index    *Index
	resolver *Resolver
}

// NewManager creates a Manager with the given collaborators.
// installLock serializes installer calls with every other user of the installer.
func NewManager(
	ledger ports.UsageLedger,
	registry ports.PackageRegistry,
	installer ports.Installer,
	optimizer ports.DexOptimizer,
	tracer ports.Tracer,
	logger ports.Logger,
	installLock sync.Locker,
) *Manager {
	index := NewIndex()
	return &Manager{
		ledger:      ledger,
		registry:    registry,
		installer:   installer,
		optimizer:   optimizer,
		tracer:      tracer,
		logger:      logger,
		installLock: installLock,
		isas:        domain.DefaultISAs(),
		index:       index,
		resolver:    NewResolver(index, domain.PrefixPredicate(domain.DefaultFrameworkPrefix), logger),
	}
}

// WithISAs sets the instruction sets load events are accepted for.
func (m *Manager) WithISAs(isas domain.ISASet) *Manager {
	m.isas = isas
	return m
}

// WithFrameworkPredicate sets the predicate for paths never attributed to a package.
func (m *Manager) WithFrameworkPredicate(isFramework domain.PathPredicate) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	diagnose := m.resolver.diagnoseSymlinks
	m.resolver = NewResolver(m.index, isFramework, m.logger).WithSymlinkDiagnostics(diagnose)
	return m
}

// WithSymlinkDiagnostics enables the resolver's symlink diagnostic.
func (m *Manager) WithSymlinkDiagnostics(enable bool) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolver.WithSymlinkDiagnostics(enable)
	return m
}

// NotifyDexLoad records that loading loaded dexPaths under loaderISA for user.
//
// It never fails: every error, including a panic, is logged and the batch is dropped.
func (m *Manager) NotifyDexLoad(loading *domain.AppInfo, dexPaths []string, loaderISA string, user domain.UserID) {
	if loading == nil {
		m.logger.Warn("dex load notification without a loading package")
		return
	}
	defer func() {
		if v := recover(); v != nil {
			err := zerr.Wrap(panicError(v), "dex load notification panicked")
			m.logger.Error(zerr.With(err, "package", loading.PackageName))
		}
	}()

	if err := m.notifyDexLoad(loading, dexPaths, loaderISA, user); err != nil {
		err = zerr.Wrap(err, "failed to record dex load")
		m.logger.Error(zerr.With(err, "package", loading.PackageName))
	}
}

func (m *Manager) notifyDexLoad(loading *domain.AppInfo, dexPaths []string, loaderISA string, user domain.UserID) error {
	if err := m.isas.Validate(loaderISA); err != nil {
		m.logger.Warn(fmt.Sprintf(
			"loading dex files [%s] in unsupported isa %q", strings.Join(dexPaths, ", "), loaderISA))
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dexPath := range dexPaths {
		found := m.resolver.Resolve(loading, dexPath, user)
		m.logger.Debug(fmt.Sprintf("%s loads from %s : %d : %s", loading.PackageName, found, user, dexPath))
		if !found.Found() {
			continue
		}

		usedByOtherApps := found.OwningPackageName != loading.PackageName
		primaryOrSplit := found.Outcome.IsPrimaryOrSplit()
		if primaryOrSplit && !usedByOtherApps {
			continue
		}

		updated, err := m.ledger.Record(found.OwningPackageName, dexPath, user, loaderISA, usedByOtherApps, primaryOrSplit)
		if err != nil {
			return err
		}
		if updated {
			m.ledger.MaybeWriteAsync()
		}
	}
	return nil
}

// NotifyPackageInstalled makes app visible to ownership resolution for user.
func (m *Manager) NotifyPackageInstalled(app *domain.AppInfo, user domain.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index.Observe(app, user)
}

// Load rebuilds the code location index from existing and reconciles the ledger against it.
//
// On failure the ledger starts from an empty state and the error is logged, never returned.
func (m *Manager) Load(ctx context.Context, existing map[domain.UserID][]domain.PackageInfo) {
	_, span := m.tracer.Start(ctx, "dexmanager.load", ports.WithAttribute("users", len(existing)))
	defer span.End()

	defer func() {
		if v := recover(); v != nil {
			m.resetLedger(span, zerr.Wrap(panicError(v), "dex usage load panicked"))
		}
	}()

	index := NewIndex()
	packageToUsers := make(map[string]map[domain.UserID]struct{})
	for user, packages := range existing {
		for i := range packages {
			app := &packages[i].AppInfo
			index.Observe(app, user)

			users, ok := packageToUsers[app.PackageName]
			if !ok {
				users = make(map[domain.UserID]struct{})
				packageToUsers[app.PackageName] = users
			}
			users[user] = struct{}{}
		}
	}

	m.mu.Lock()
	m.index = index
	m.resolver = NewResolver(index, m.resolver.isFramework, m.logger).
		WithSymlinkDiagnostics(m.resolver.diagnoseSymlinks)
	m.mu.Unlock()
	span.SetAttribute("packages", index.Len())

	if err := m.ledger.Read(); err != nil {
		m.resetLedger(span, err)
		return
	}
	m.ledger.SyncData(packageToUsers)
}

func (m *Manager) resetLedger(span ports.Span, err error) {
	m.ledger.Clear()
	span.RecordError(err)
	m.logger.Warn("failed to load package dex usage, starting with a fresh state")
	m.logger.Error(err)
}

// GetPackageUseInfo returns the usage recorded for packageName, or nil.
func (m *Manager) GetPackageUseInfo(packageName string) *domain.PackageUseInfo {
	return m.ledger.GetPackageUseInfo(packageName)
}

// GetAllPackagesWithSecondaryDexFiles returns the packages with recorded secondary dex files.
func (m *Manager) GetAllPackagesWithSecondaryDexFiles() []string {
	return m.ledger.GetAllPackagesWithSecondaryDexFiles()
}
