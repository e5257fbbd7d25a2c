package dexmanager

import (
	"fmt"
	"path/filepath"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver answers which package owns a loaded dex path.
type Resolver struct {
	index       *Index
	isFramework domain.PathPredicate
	logger      ports.Logger
	// diagnoseSymlinks logs when a missed path would resolve differently through symlinks.
	diagnoseSymlinks bool
}

// NewResolver creates a Resolver over index.
// A nil isFramework matches nothing.
func NewResolver(index *Index, isFramework domain.PathPredicate, logger ports.Logger) *Resolver {
	if isFramework == nil {
		isFramework = domain.PrefixPredicate()
	}
	return &Resolver{
		index:       index,
		isFramework: isFramework,
		logger:      logger,
	}
}

// WithSymlinkDiagnostics enables the symlink diagnostic on cache misses.
// It touches the filesystem, so it is meant for debugging only.
func (r *Resolver) WithSymlinkDiagnostics(enable bool) *Resolver {
	r.diagnoseSymlinks = enable
	return r
}

// Resolve returns the owner of dexPath as loaded by loading under user.
//
// The loading package is checked first, then every cached package. A panic
// during resolution is logged and reported as not found.
func (r *Resolver) Resolve(loading *domain.AppInfo, dexPath string, user domain.UserID) (result domain.DexSearchResult) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error(zerr.With(zerr.Wrap(panicError(v), "dex ownership resolution panicked"), "dex_path", dexPath))
			result = domain.NotFound
		}
	}()

	if r.isFramework(dexPath) {
		return domain.NotFound
	}

	own := domain.NewPackageCodeLocations(loading, user)
	if outcome := own.SearchDex(dexPath, user); outcome != domain.SearchNotFound {
		return domain.DexSearchResult{OwningPackageName: loading.PackageName, Outcome: outcome}
	}

	if found := r.index.Scan(dexPath, user); found.Found() {
		return found
	}

	if r.diagnoseSymlinks {
		r.logSymlink(dexPath)
	}
	return domain.NotFound
}

func (r *Resolver) logSymlink(dexPath string) {
	resolved, err := filepath.EvalSymlinks(dexPath)
	if err != nil || resolved == dexPath {
		return
	}
	r.logger.Debug(fmt.Sprintf("dex loaded through symlink: path=%s real=%s", dexPath, resolved))
}

// panicError converts a recovered panic value into an error.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return zerr.New(fmt.Sprint(v))
}
