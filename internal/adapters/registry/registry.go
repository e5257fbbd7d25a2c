// Package registry implements the package registry on top of a YAML manifest file.
package registry

import (
	"maps"
	"os"
	"slices"
	"sync"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.PackageRegistry = (*Registry)(nil)

// Registry implements ports.PackageRegistry backed by a manifest file.
// The manifest is read on first use and again on every Reload.
type Registry struct {
	path string

	mu       sync.RWMutex
	loaded   bool
	packages map[domain.UserID]map[string]domain.PackageInfo
}

// New creates a Registry reading the manifest at path.
func New(path string) *Registry {
	return &Registry{path: path}
}

// Source returns the manifest location.
func (r *Registry) Source() string {
	return r.path
}

// Reload re-reads the manifest. On failure the previous content is kept.
func (r *Registry) Reload() error {
	packages, err := readManifest(r.path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages = packages
	r.loaded = true
	return nil
}

// GetPackageInfo returns the package installed for user, or nil when there is none.
// Disabled packages are only returned with domain.LookupIncludeDisabled.
func (r *Registry) GetPackageInfo(
	packageName string,
	flags domain.LookupFlags,
	user domain.UserID,
) (*domain.PackageInfo, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	pkg, ok := r.packages[user][packageName]
	if !ok {
		return nil, nil
	}
	if !pkg.Enabled && flags&domain.LookupIncludeDisabled == 0 {
		return nil, nil
	}
	pkg.AppInfo = pkg.AppInfo.Clone()
	return &pkg, nil
}

// ExistingPackages returns every installed package grouped by user, sorted by name.
func (r *Registry) ExistingPackages() (map[domain.UserID][]domain.PackageInfo, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.UserID][]domain.PackageInfo, len(r.packages))
	for user, byName := range r.packages {
		list := make([]domain.PackageInfo, 0, len(byName))
		for _, name := range slices.Sorted(maps.Keys(byName)) {
			pkg := byName[name]
			pkg.AppInfo = pkg.AppInfo.Clone()
			list = append(list, pkg)
		}
		out[user] = list
	}
	return out, nil
}

func (r *Registry) ensureLoaded() error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return r.Reload()
}

func readManifest(path string) (map[domain.UserID]map[string]domain.PackageInfo, error) {
	//nolint:gosec // Path comes from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}

	packages := make(map[domain.UserID]map[string]domain.PackageInfo, len(manifest.Users))
	for _, user := range manifest.Users {
		byName, ok := packages[user.ID]
		if !ok {
			byName = make(map[string]domain.PackageInfo, len(user.Packages))
			packages[user.ID] = byName
		}
		for i := range user.Packages {
			pkg := user.Packages[i].toDomain()
			if pkg.PackageName == "" {
				err := zerr.With(zerr.Wrap(domain.ErrManifestParseFailed, "package without name"), "path", path)
				return nil, zerr.With(err, "user", int(user.ID))
			}
			if _, dup := byName[pkg.PackageName]; dup {
				err := zerr.With(zerr.Wrap(domain.ErrDuplicatePackage, "invalid manifest"), "package", pkg.PackageName)
				return nil, zerr.With(err, "user", int(user.ID))
			}
			byName[pkg.PackageName] = pkg
		}
	}
	return packages, nil
}
