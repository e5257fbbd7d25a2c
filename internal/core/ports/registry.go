package ports

import "go.trai.ch/dexmgr/internal/core/domain"

// PackageRegistry supplies installed package metadata.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type PackageRegistry interface {
	// GetPackageInfo returns the package installed for user.
	// It returns nil, nil when the package is not installed for that user.
	GetPackageInfo(packageName string, flags domain.LookupFlags, user domain.UserID) (*domain.PackageInfo, error)

	// ExistingPackages returns every installed package grouped by user.
	ExistingPackages() (map[domain.UserID][]domain.PackageInfo, error)

	// Reload refreshes the registry from its source.
	Reload() error

	// Source returns the location the registry is loaded from.
	Source() string
}
