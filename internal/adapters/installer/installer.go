// Package installer implements the privileged package storage operations on the local filesystem.
package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Installer = (*Installer)(nil)

// artifactExtensions are the files the compiler generates for one dex file and ISA.
var artifactExtensions = []string{".odex", ".vdex", ".art"}

// Installer implements ports.Installer against a local data root.
type Installer struct {
	dataRoot   string
	expandRoot string
	oatDirName string
	logger     ports.Logger
}

// New creates an Installer for storage under dataRoot and adopted volumes under expandRoot.
// Relative roots are taken relative to the working directory.
func New(dataRoot, expandRoot, oatDirName string, logger ports.Logger) *Installer {
	return &Installer{
		dataRoot:   absRoot(dataRoot),
		expandRoot: absRoot(expandRoot),
		oatDirName: oatDirName,
		logger:     logger,
	}
}

// ReconcileSecondaryDexFile reports whether dexPath still exists.
// When it does not, the generated artifacts of every ISA in isas are removed.
// dexPath must live inside the package's storage selected by flags.
func (i *Installer) ReconcileSecondaryDexFile(
	dexPath, packageName string,
	uid int,
	isas []string,
	volumeUUID string,
	flags domain.StorageFlags,
) (bool, error) {
	if err := i.validatePath(dexPath, packageName, domain.UserIDForUID(uid), volumeUUID, flags); err != nil {
		return false, err
	}

	_, err := os.Lstat(dexPath)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "dex_path", dexPath)
	}

	if err := i.removeArtifacts(dexPath, isas); err != nil {
		return false, zerr.With(err, "package", packageName)
	}
	return false, nil
}

// ArtifactPaths returns the generated files of dexPath for isa.
func ArtifactPaths(dexPath, oatDirName, isa string) []string {
	dir := filepath.Join(filepath.Dir(dexPath), oatDirName, isa)
	base := strings.TrimSuffix(filepath.Base(dexPath), filepath.Ext(dexPath))

	paths := make([]string, 0, len(artifactExtensions))
	for _, ext := range artifactExtensions {
		paths = append(paths, filepath.Join(dir, base+ext))
	}
	return paths
}

func (i *Installer) validatePath(
	dexPath, packageName string,
	user domain.UserID,
	volumeUUID string,
	flags domain.StorageFlags,
) error {
	if flags&(domain.StorageDE|domain.StorageCE) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrUnknownStorage, "no storage class given"), "package", packageName)
	}

	clean := filepath.Clean(dexPath)
	if filepath.IsAbs(dexPath) {
		if flags&domain.StorageCE != 0 &&
			isWithin(clean, domain.UserDataDir(i.dataRoot, i.expandRoot, volumeUUID, user, packageName)) {
			return nil
		}
		if flags&domain.StorageDE != 0 &&
			isWithin(clean, domain.UserDeDataDir(i.dataRoot, i.expandRoot, volumeUUID, user, packageName)) {
			return nil
		}
	}

	err := zerr.With(zerr.Wrap(domain.ErrPathOutsideStorage, "refusing to reconcile"), "dex_path", dexPath)
	err = zerr.With(err, "storage", flags.String())
	return zerr.With(err, "user", int(user))
}

func (i *Installer) removeArtifacts(dexPath string, isas []string) error {
	var errs error
	for _, isa := range isas {
		for _, path := range ArtifactPaths(dexPath, i.oatDirName, isa) {
			err := os.Remove(path)
			switch {
			case err == nil:
				i.logger.Debug(fmt.Sprintf("removed %s of vanished dex %s", path, dexPath))
			case errors.Is(err, fs.ErrNotExist):
			default:
				errs = errors.Join(errs, err)
			}
		}
	}
	if errs != nil {
		return zerr.With(zerr.Wrap(errs, domain.ErrArtifactCleanupFailed.Error()), "dex_path", dexPath)
	}
	return nil
}

func absRoot(root string) string {
	if root == "" {
		return ""
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	return abs
}

// isWithin reports whether path is dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
