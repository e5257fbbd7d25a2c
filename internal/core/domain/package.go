package domain

import "slices"

// UserID identifies a device user.
type UserID int

// PerUserRange is the size of the uid block reserved for each user.
const PerUserRange = 100000

// UserIDForUID returns the user an application uid belongs to.
func UserIDForUID(uid int) UserID {
	return UserID(uid / PerUserRange)
}

// LookupFlags alter how the package registry resolves a package.
type LookupFlags uint32

const (
	// LookupDefault matches only packages that are installed and enabled for the user.
	LookupDefault LookupFlags = 0
	// LookupIncludeDisabled also matches packages that are installed but disabled.
	LookupIncludeDisabled LookupFlags = 1 << 0
)

// AppInfo describes where an installed package keeps its code and data for one user.
type AppInfo struct {
	PackageName string `yaml:"name" json:"name"`
	// SourceDir is the base installed artifact.
	SourceDir string `yaml:"sourceDir" json:"sourceDir"`
	// SplitSourceDirs are additional installed artifacts.
	SplitSourceDirs []string `yaml:"splitSourceDirs,omitempty" json:"splitSourceDirs,omitempty"`
	// DataDir is the private storage directory the package uses by default.
	DataDir string `yaml:"dataDir" json:"dataDir"`
	// DeviceProtectedDataDir is the device-encrypted private storage directory.
	DeviceProtectedDataDir string `yaml:"deviceProtectedDataDir,omitempty" json:"deviceProtectedDataDir,omitempty"`
	// CredentialProtectedDataDir is the credential-encrypted private storage directory.
	CredentialProtectedDataDir string `yaml:"credentialProtectedDataDir,omitempty" json:"credentialProtectedDataDir,omitempty"`
	UID                        int    `yaml:"uid" json:"uid"`
	VolumeUUID                 string `yaml:"volumeUuid,omitempty" json:"volumeUuid,omitempty"`
}

// PackageInfo is the registry's view of an installed package.
type PackageInfo struct {
	AppInfo `yaml:",inline"`
	Enabled bool `yaml:"enabled"`
}

// StorageFlags returns the storage class the package's default data dir belongs to.
// StorageUnknown is returned when the data dir matches neither protected dir.
func (a *AppInfo) StorageFlags() StorageFlags {
	switch {
	case a.DataDir != "" && a.DataDir == a.DeviceProtectedDataDir:
		return StorageDE
	case a.DataDir != "" && a.DataDir == a.CredentialProtectedDataDir:
		return StorageCE
	default:
		return StorageUnknown
	}
}

// Clone returns a deep copy of the app info.
func (a AppInfo) Clone() AppInfo {
	a.SplitSourceDirs = slices.Clone(a.SplitSourceDirs)
	return a
}
