package dexmanager

import (
	"context"
	"fmt"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

// DexoptSecondaryDex compiles every secondary dex file recorded for packageName.
//
// It returns true when every file was compiled or skipped. Entries of users the
// package is no longer installed for are dropped from the ledger and do not
// count against the result. force bypasses the optimizer's skip heuristics.
func (m *Manager) DexoptSecondaryDex(ctx context.Context, packageName, filter string, force bool) bool {
	ctx, span := m.tracer.Start(ctx, "dexmanager.dexopt_secondary",
		ports.WithAttribute("package", packageName),
		ports.WithAttribute("filter", filter),
		ports.WithAttribute("force", force),
	)
	defer span.End()

	optimizer := m.optimizer
	if force {
		optimizer = Forced(optimizer)
	}

	useInfo := m.ledger.GetPackageUseInfo(packageName)
	if useInfo == nil || len(useInfo.DexFiles) == 0 {
		m.logger.Debug("no secondary dex use for package " + packageName)
		return true
	}

	success := true
	updated := false
	for _, dexPath := range useInfo.SortedDexPaths() {
		dexUse := useInfo.DexFiles[dexPath]

		pkg, err := m.registry.GetPackageInfo(packageName, domain.LookupDefault, dexUse.OwnerUserID)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, "package lookup failed"), "package", packageName)
			span.RecordError(err)
			m.logger.Error(err)
			success = false
			continue
		}
		if pkg == nil {
			m.logger.Debug(fmt.Sprintf(
				"could not find package %s for user %d when compiling secondary dex", packageName, dexUse.OwnerUserID))
			updated = m.ledger.RemoveUserPackage(packageName, dexUse.OwnerUserID) || updated
			continue
		}

		result, err := optimizer.CompileSecondaryDex(ctx, domain.CompileRequest{
			App:             pkg.AppInfo,
			DexPath:         dexPath,
			ISAs:            dexUse.LoaderISAs,
			Filter:          filter,
			UsedByOtherApps: dexUse.UsedByOtherApps,
		})
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "dex_path", dexPath)
			span.RecordError(err)
			m.logger.Error(err)
			result = domain.CompileFailed
		}
		m.logger.Debug(fmt.Sprintf("compiled secondary dex %s: %s", dexPath, result))
		success = success && result != domain.CompileFailed
	}

	if updated {
		m.ledger.MaybeWriteAsync()
	}
	span.SetAttribute("success", success)
	return success
}

// ReconcileSecondaryDexFiles drops ledger entries of secondary dex files that no
// longer exist, along with entries of users the package is gone for.
//
// The ledger is written at most once per pass.
func (m *Manager) ReconcileSecondaryDexFiles(ctx context.Context, packageName string) {
	_, span := m.tracer.Start(ctx, "dexmanager.reconcile_secondary", ports.WithAttribute("package", packageName))
	defer span.End()

	useInfo := m.ledger.GetPackageUseInfo(packageName)
	if useInfo == nil || len(useInfo.DexFiles) == 0 {
		m.logger.Debug("no secondary dex use for package " + packageName)
		return
	}

	updated := false
	for _, dexPath := range useInfo.SortedDexPaths() {
		dexUse := useInfo.DexFiles[dexPath]
		owner := dexUse.OwnerUserID

		pkg, err := m.registry.GetPackageInfo(packageName, domain.LookupDefault, owner)
		if err != nil {
			m.logger.Error(zerr.With(zerr.Wrap(err, "package lookup failed"), "package", packageName))
			pkg = nil
		}
		if pkg == nil {
			m.logger.Debug(fmt.Sprintf(
				"could not find package %s for user %d when reconciling secondary dex", packageName, owner))
			updated = m.ledger.RemoveUserPackage(packageName, owner) || updated
			continue
		}

		flags := pkg.StorageFlags()
		if flags == domain.StorageUnknown {
			err := zerr.With(zerr.Wrap(domain.ErrUnknownStorage, "cannot reconcile secondary dex"), "package", packageName)
			span.RecordError(err)
			m.logger.Error(err)
			updated = m.ledger.RemoveUserPackage(packageName, owner) || updated
			continue
		}

		if !m.dexStillExists(dexPath, pkg, dexUse, flags) {
			updated = m.ledger.RemoveDexFile(packageName, dexPath, owner) || updated
		}
	}

	span.SetAttribute("updated", updated)
	if updated {
		m.ledger.MaybeWriteAsync()
	}
}

// dexStillExists asks the installer about dexPath under the install lock.
// An installer failure keeps the entry.
func (m *Manager) dexStillExists(
	dexPath string,
	pkg *domain.PackageInfo,
	dexUse *domain.DexUseInfo,
	flags domain.StorageFlags,
) bool {
	m.installLock.Lock()
	defer m.installLock.Unlock()

	exists, err := m.installer.ReconcileSecondaryDexFile(
		dexPath, pkg.PackageName, pkg.UID, dexUse.LoaderISAs, pkg.VolumeUUID, flags)
	if err != nil {
		m.logger.Error(zerr.With(zerr.Wrap(err, "failed to reconcile secondary dex"), "dex_path", dexPath))
		return true
	}
	return exists
}
