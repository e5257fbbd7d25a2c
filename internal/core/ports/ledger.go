package ports

import "go.trai.ch/dexmgr/internal/core/domain"

// UsageLedger is the durable store of dex usage per package.
//
// Implementations serialize their own state; callers need no extra locking.
//
//go:generate mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks
type UsageLedger interface {
	// Record merges one load event into the ledger.
	// It returns true if the event added information not already recorded.
	Record(owner, dexPath string, user domain.UserID, isa string, usedByOtherApps, primaryOrSplit bool) (bool, error)

	// Read replaces the in-memory state with the persisted one.
	// On a corrupt or unreadable file the state is left empty and the error is returned.
	Read() error

	// Clear drops all in-memory state.
	Clear()

	// MaybeWriteAsync schedules a durable write. Calls in quick succession coalesce.
	MaybeWriteAsync()

	// Flush writes pending changes synchronously.
	Flush() error

	// GetPackageUseInfo returns a copy of the usage recorded for packageName, or nil.
	GetPackageUseInfo(packageName string) *domain.PackageUseInfo

	// RemoveUserPackage drops everything recorded for packageName on behalf of user.
	RemoveUserPackage(packageName string, user domain.UserID) bool

	// RemoveDexFile drops one secondary dex entry owned by user.
	RemoveDexFile(packageName, dexPath string, user domain.UserID) bool

	// SyncData drops every package and user not present in packageToUsers.
	SyncData(packageToUsers map[string]map[domain.UserID]struct{})

	// GetAllPackagesWithSecondaryDexFiles returns the sorted names of packages with secondary dex entries.
	GetAllPackagesWithSecondaryDexFiles() []string
}
