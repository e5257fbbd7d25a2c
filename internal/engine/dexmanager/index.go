package dexmanager

import (
	"maps"
	"slices"

	"go.trai.ch/dexmgr/internal/core/domain"
)

// Index caches the code locations of every known package.
// It is not safe for concurrent use; the Manager guards it.
type Index struct {
	packages map[string]*domain.PackageCodeLocations
	// order holds the package names in lexical order. It is nil when stale.
	order []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{packages: make(map[string]*domain.PackageCodeLocations)}
}

// Observe records app as installed for user.
// An unknown package gets a fresh entry; a known one has its splits and the user's data dir merged in.
func (ix *Index) Observe(app *domain.AppInfo, user domain.UserID) {
	if pcl, ok := ix.packages[app.PackageName]; ok {
		pcl.Merge(app, user)
		return
	}
	ix.packages[app.PackageName] = domain.NewPackageCodeLocations(app, user)
	ix.order = nil
}

// Lookup returns the code locations of packageName.
func (ix *Index) Lookup(packageName string) (*domain.PackageCodeLocations, bool) {
	pcl, ok := ix.packages[packageName]
	return pcl, ok
}

// Len returns the number of packages in the index.
func (ix *Index) Len() int {
	return len(ix.packages)
}

// Scan classifies dexPath against every cached package and returns the first match.
// Packages are visited in lexical order of their names.
func (ix *Index) Scan(dexPath string, user domain.UserID) domain.DexSearchResult {
	if ix.order == nil {
		ix.order = slices.Sorted(maps.Keys(ix.packages))
	}
	for _, name := range ix.order {
		if outcome := ix.packages[name].SearchDex(dexPath, user); outcome != domain.SearchNotFound {
			return domain.DexSearchResult{OwningPackageName: name, Outcome: outcome}
		}
	}
	return domain.NotFound
}
