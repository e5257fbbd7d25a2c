package domain

import (
	"path/filepath"
	"strconv"
	"time"
)

const (
	// ConfigFileName is the name of the configuration file looked up in the working directory.
	ConfigFileName = "dexmgr.yaml"

	// ConfigEnvVar names the environment variable that overrides the config file location.
	ConfigEnvVar = "DEXMGR_CONFIG"

	// SystemDirName is the directory holding system-owned state below the data root.
	SystemDirName = "system"

	// LedgerFileName is the name of the dex usage ledger file.
	LedgerFileName = "package-dex-usage.json"

	// ManifestFileName is the name of the installed package manifest.
	ManifestFileName = "packages.yaml"

	// OatDirName is the name of the directory generated code is written to, next to the dex file.
	OatDirName = "oat"

	// DefaultDataRoot is the root of internal storage.
	DefaultDataRoot = "/data"

	// DefaultExpandRoot is the mount root of adopted storage volumes.
	DefaultExpandRoot = "/mnt/expand"

	// DefaultFrameworkPrefix is the location of framework code, never attributed to a package.
	DefaultFrameworkPrefix = "/system/framework/"

	// DefaultWriteDelay is how long the ledger waits for more changes before writing.
	DefaultWriteDelay = time.Second

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultLedgerPath returns the default path of the dex usage ledger.
// It joins the data root, system and package-dex-usage.json.
func DefaultLedgerPath() string {
	return filepath.Join(DefaultDataRoot, SystemDirName, LedgerFileName)
}

// DefaultManifestPath returns the default path of the installed package manifest.
// It joins the data root, system and packages.yaml.
func DefaultManifestPath() string {
	return filepath.Join(DefaultDataRoot, SystemDirName, ManifestFileName)
}

// UserDataDir returns the credential-protected data dir of a package for user on volumeUUID.
// An empty volumeUUID selects internal storage.
func UserDataDir(dataRoot, expandRoot, volumeUUID string, user UserID, packageName string) string {
	return filepath.Join(volumeRoot(dataRoot, expandRoot, volumeUUID), "user", userDir(user), packageName)
}

// UserDeDataDir returns the device-protected data dir of a package for user on volumeUUID.
func UserDeDataDir(dataRoot, expandRoot, volumeUUID string, user UserID, packageName string) string {
	return filepath.Join(volumeRoot(dataRoot, expandRoot, volumeUUID), "user_de", userDir(user), packageName)
}

func volumeRoot(dataRoot, expandRoot, volumeUUID string) string {
	if volumeUUID == "" {
		return dataRoot
	}
	return filepath.Join(expandRoot, volumeUUID)
}

func userDir(user UserID) string {
	return strconv.Itoa(int(user))
}
