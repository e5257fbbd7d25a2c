package ports

import "go.trai.ch/dexmgr/internal/core/domain"

// Installer performs privileged operations on package storage.
// It is not safe for concurrent use; callers hold the shared install lock.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// ReconcileSecondaryDexFile reports whether dexPath still exists.
	// When it does not, generated artifacts of the file are removed.
	ReconcileSecondaryDexFile(
		dexPath, packageName string,
		uid int,
		isas []string,
		volumeUUID string,
		flags domain.StorageFlags,
	) (bool, error)
}
