// Package ledger implements the dex usage ledger as a JSON file.
package ledger

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.UsageLedger = (*Ledger)(nil)

// Ledger implements ports.UsageLedger backed by a single JSON file.
// Writes happen in the background after a delay; bursts of changes coalesce into one write.
type Ledger struct {
	path   string
	logger ports.Logger
	writer *asyncWriter

	mu       sync.Mutex
	packages map[string]*domain.PackageUseInfo
	// written is the fingerprint of the last content persisted. Zero means unknown.
	written uint64
}

// New creates a Ledger persisted at path.
func New(path string, writeDelay time.Duration, logger ports.Logger) *Ledger {
	l := &Ledger{
		path:     path,
		logger:   logger,
		packages: make(map[string]*domain.PackageUseInfo),
	}
	l.writer = newAsyncWriter(writeDelay, l.writeNow, func(err error) {
		logger.Error(zerr.With(err, "path", path))
	})
	return l
}

// Path returns the location of the ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// Record merges one load event into the ledger.
func (l *Ledger) Record(
	owner, dexPath string,
	user domain.UserID,
	isa string,
	usedByOtherApps, primaryOrSplit bool,
) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.packages[owner]
	if !ok {
		info = domain.NewPackageUseInfo(owner)
	}
	updated, err := info.Record(dexPath, user, isa, usedByOtherApps, primaryOrSplit)
	if err != nil {
		return false, zerr.With(err, "package", owner)
	}
	if !ok && updated {
		l.packages[owner] = info
	}
	return updated, nil
}

// Read replaces the in-memory state with the content of the ledger file.
// A missing file yields an empty ledger. On any other failure the state is left empty.
func (l *Ledger) Read() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.packages = make(map[string]*domain.PackageUseInfo)
	l.written = 0

	//nolint:gosec // Path comes from trusted configuration
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrLedgerReadFailed.Error()), "path", l.path)
	}

	packages, err := decode(data)
	if err != nil {
		return zerr.With(err, "path", l.path)
	}
	l.packages = packages
	l.written = xxhash.Sum64(data)
	return nil
}

// Clear drops all in-memory state.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.packages = make(map[string]*domain.PackageUseInfo)
}

// MaybeWriteAsync schedules a background write.
func (l *Ledger) MaybeWriteAsync() {
	l.writer.Trigger()
}

// Flush cancels any scheduled write and writes the current state now.
func (l *Ledger) Flush() error {
	return l.writer.Flush()
}

// GetPackageUseInfo returns a copy of the usage recorded for packageName, or nil.
func (l *Ledger) GetPackageUseInfo(packageName string) *domain.PackageUseInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.packages[packageName]
	if !ok {
		return nil
	}
	return info.Clone()
}

// RemoveUserPackage drops everything recorded for packageName on behalf of user.
func (l *Ledger) RemoveUserPackage(packageName string, user domain.UserID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.packages[packageName]
	if !ok {
		return false
	}
	updated := info.RemoveUser(user)
	if info.IsEmpty() {
		delete(l.packages, packageName)
	}
	return updated
}

// RemoveDexFile drops the secondary dex entry dexPath if user owns it.
func (l *Ledger) RemoveDexFile(packageName, dexPath string, user domain.UserID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.packages[packageName]
	if !ok {
		return false
	}
	dex, ok := info.DexFiles[dexPath]
	if !ok || dex.OwnerUserID != user {
		return false
	}
	delete(info.DexFiles, dexPath)
	if info.IsEmpty() {
		delete(l.packages, packageName)
	}
	return true
}

// SyncData drops every package not in packageToUsers and, for the remaining
// packages, everything recorded for users not listed.
func (l *Ledger) SyncData(packageToUsers map[string]map[domain.UserID]struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for name, info := range l.packages {
		users, ok := packageToUsers[name]
		if !ok {
			delete(l.packages, name)
			continue
		}
		info.RetainUsers(users)
		if info.IsEmpty() {
			delete(l.packages, name)
		}
	}
}

// GetAllPackagesWithSecondaryDexFiles returns the sorted names of packages with secondary dex entries.
func (l *Ledger) GetAllPackagesWithSecondaryDexFiles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.packages))
	for _, name := range slices.Sorted(maps.Keys(l.packages)) {
		if len(l.packages[name].DexFiles) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// writeNow persists the current state unless it matches what was last written.
func (l *Ledger) writeNow() error {
	l.mu.Lock()
	data, err := encode(l.packages)
	written := l.written
	l.mu.Unlock()
	if err != nil {
		return err
	}

	sum := xxhash.Sum64(data)
	if sum == written {
		l.logger.Debug("dex usage ledger unchanged, skipping write")
		return nil
	}

	if err := writeFileAtomic(l.path, data); err != nil {
		return err
	}

	l.mu.Lock()
	l.written = sum
	l.mu.Unlock()
	l.logger.Debug("wrote dex usage ledger to " + l.path)
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrLedgerCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.Wrap(err, domain.ErrLedgerWriteFailed.Error())
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrLedgerWriteFailed.Error())
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrLedgerWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrLedgerWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.Wrap(err, domain.ErrLedgerWriteFailed.Error())
	}
	return nil
}
