package domain

import "go.trai.ch/zerr"

var (
	// ErrDexOwnerMismatch is returned when a secondary dex file already recorded for one user
	// is reported as loaded by another user.
	ErrDexOwnerMismatch = zerr.New("secondary dex owner mismatch")

	// ErrUnknownISA is returned when an instruction set is not supported by the device.
	ErrUnknownISA = zerr.New("unsupported instruction set")

	// ErrPackageNotFound is returned when the registry has no package for the given name and user.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrLedgerCreateFailed is returned when the ledger directory cannot be created.
	ErrLedgerCreateFailed = zerr.New("failed to create ledger directory")

	// ErrLedgerReadFailed is returned when the ledger file cannot be read.
	ErrLedgerReadFailed = zerr.New("failed to read dex usage ledger")

	// ErrLedgerUnmarshalFailed is returned when the ledger file cannot be decoded.
	ErrLedgerUnmarshalFailed = zerr.New("failed to unmarshal dex usage ledger")

	// ErrLedgerMarshalFailed is returned when the ledger cannot be encoded.
	ErrLedgerMarshalFailed = zerr.New("failed to marshal dex usage ledger")

	// ErrLedgerWriteFailed is returned when the ledger file cannot be written.
	ErrLedgerWriteFailed = zerr.New("failed to write dex usage ledger")

	// ErrLedgerVersionUnsupported is returned when the ledger file was written by an unknown format version.
	ErrLedgerVersionUnsupported = zerr.New("unsupported dex usage ledger version")

	// ErrManifestReadFailed is returned when the package manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read package manifest")

	// ErrManifestParseFailed is returned when the package manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse package manifest")

	// ErrDuplicatePackage is returned when the manifest lists a package twice for the same user.
	ErrDuplicatePackage = zerr.New("duplicate package for user")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid config")

	// ErrInvalidLogLevel is returned when the configured log level is unknown.
	ErrInvalidLogLevel = zerr.New("invalid log level, expected one of debug, info, warn, error")

	// ErrUnknownStorage is returned when the storage class of a package cannot be inferred.
	ErrUnknownStorage = zerr.New("unknown storage class")

	// ErrPathOutsideStorage is returned when a dex path is not inside the package's private storage.
	ErrPathOutsideStorage = zerr.New("dex path is outside package storage")

	// ErrArtifactCleanupFailed is returned when generated artifacts of a vanished dex file cannot be removed.
	ErrArtifactCleanupFailed = zerr.New("failed to remove generated artifacts")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrCompileFailed is returned when the external compiler exits with an error.
	ErrCompileFailed = zerr.New("secondary dex compilation failed")

	// ErrNoCompilerCommand is returned when no compiler command is configured.
	ErrNoCompilerCommand = zerr.New("no compiler command configured")

	// ErrInvalidLoadEvent is returned when a load event cannot be decoded.
	ErrInvalidLoadEvent = zerr.New("invalid load event")

	// ErrDexoptFailed is returned when at least one package failed secondary dex compilation.
	ErrDexoptFailed = zerr.New("secondary dex compilation failed for some packages")

	// ErrNoPackagesSpecified is returned when a command needs packages and none were given.
	ErrNoPackagesSpecified = zerr.New("no packages specified")

	// ErrWatcherStartFailed is returned when the manifest watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start manifest watcher")
)
