package domain

import (
	"cmp"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// CodePathUseInfo records how a primary or split artifact was loaded by other packages.
type CodePathUseInfo struct {
	UserIDs         []UserID `json:"users"`
	LoaderISAs      []string `json:"isas"`
	UsedByOtherApps bool     `json:"usedByOtherApps,omitzero"`
}

// DexUseInfo records how a secondary dex file was loaded.
type DexUseInfo struct {
	OwnerUserID     UserID   `json:"owner"`
	LoaderISAs      []string `json:"isas"`
	UsedByOtherApps bool     `json:"usedByOtherApps,omitzero"`
}

// PackageUseInfo is everything the ledger knows about one package.
type PackageUseInfo struct {
	PackageName string                      `json:"-"`
	CodePaths   map[string]*CodePathUseInfo `json:"codePaths,omitempty"`
	DexFiles    map[string]*DexUseInfo      `json:"dexFiles,omitempty"`
}

// NewPackageUseInfo returns an empty usage record for name.
func NewPackageUseInfo(name string) *PackageUseInfo {
	return &PackageUseInfo{
		PackageName: name,
		CodePaths:   make(map[string]*CodePathUseInfo),
		DexFiles:    make(map[string]*DexUseInfo),
	}
}

// IsUsedByOtherApps reports whether any primary or split artifact was loaded by another package.
func (p *PackageUseInfo) IsUsedByOtherApps() bool {
	for _, cp := range p.CodePaths {
		if cp.UsedByOtherApps {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the record carries no usage at all.
func (p *PackageUseInfo) IsEmpty() bool {
	return len(p.CodePaths) == 0 && len(p.DexFiles) == 0
}

// Record merges one load event into the package usage.
// It returns true when the event added information the record did not already hold.
func (p *PackageUseInfo) Record(
	dexPath string,
	user UserID,
	isa string,
	usedByOtherApps, primaryOrSplit bool,
) (bool, error) {
	if primaryOrSplit {
		return p.recordCodePath(dexPath, user, isa, usedByOtherApps), nil
	}
	return p.recordDexFile(dexPath, user, isa, usedByOtherApps)
}

func (p *PackageUseInfo) recordCodePath(path string, user UserID, isa string, usedByOtherApps bool) bool {
	cp, ok := p.CodePaths[path]
	if !ok {
		p.CodePaths[path] = &CodePathUseInfo{
			UserIDs:         []UserID{user},
			LoaderISAs:      []string{isa},
			UsedByOtherApps: usedByOtherApps,
		}
		return true
	}

	updated := false
	if usedByOtherApps && !cp.UsedByOtherApps {
		cp.UsedByOtherApps = true
		updated = true
	}
	var added bool
	if cp.UserIDs, added = insertSorted(cp.UserIDs, user); added {
		updated = true
	}
	if cp.LoaderISAs, added = insertSorted(cp.LoaderISAs, isa); added {
		updated = true
	}
	return updated
}

func (p *PackageUseInfo) recordDexFile(path string, user UserID, isa string, usedByOtherApps bool) (bool, error) {
	dex, ok := p.DexFiles[path]
	if !ok {
		p.DexFiles[path] = &DexUseInfo{
			OwnerUserID:     user,
			LoaderISAs:      []string{isa},
			UsedByOtherApps: usedByOtherApps,
		}
		return true, nil
	}

	if dex.OwnerUserID != user {
		err := zerr.With(zerr.Wrap(ErrDexOwnerMismatch, "secondary dex loaded by another user"), "dex_path", path)
		err = zerr.With(err, "owner_user", int(dex.OwnerUserID))
		return false, zerr.With(err, "loader_user", int(user))
	}

	updated := false
	if usedByOtherApps && !dex.UsedByOtherApps {
		dex.UsedByOtherApps = true
		updated = true
	}
	var added bool
	if dex.LoaderISAs, added = insertSorted(dex.LoaderISAs, isa); added {
		updated = true
	}
	return updated, nil
}

// RemoveUser drops everything recorded on behalf of user.
// It returns true if the record changed.
func (p *PackageUseInfo) RemoveUser(user UserID) bool {
	updated := false
	for path, dex := range p.DexFiles {
		if dex.OwnerUserID == user {
			delete(p.DexFiles, path)
			updated = true
		}
	}
	for path, cp := range p.CodePaths {
		idx, found := slices.BinarySearch(cp.UserIDs, user)
		if !found {
			continue
		}
		cp.UserIDs = slices.Delete(cp.UserIDs, idx, idx+1)
		if len(cp.UserIDs) == 0 {
			delete(p.CodePaths, path)
		}
		updated = true
	}
	return updated
}

// RetainUsers drops everything recorded on behalf of users not in keep.
// It returns true if the record changed.
func (p *PackageUseInfo) RetainUsers(keep map[UserID]struct{}) bool {
	updated := false
	for path, dex := range p.DexFiles {
		if _, ok := keep[dex.OwnerUserID]; !ok {
			delete(p.DexFiles, path)
			updated = true
		}
	}
	for path, cp := range p.CodePaths {
		before := len(cp.UserIDs)
		cp.UserIDs = slices.DeleteFunc(cp.UserIDs, func(u UserID) bool {
			_, ok := keep[u]
			return !ok
		})
		if len(cp.UserIDs) != before {
			updated = true
		}
		if len(cp.UserIDs) == 0 {
			delete(p.CodePaths, path)
		}
	}
	return updated
}

// Clone returns a deep copy safe to hand out of a lock.
func (p *PackageUseInfo) Clone() *PackageUseInfo {
	c := &PackageUseInfo{
		PackageName: p.PackageName,
		CodePaths:   make(map[string]*CodePathUseInfo, len(p.CodePaths)),
		DexFiles:    make(map[string]*DexUseInfo, len(p.DexFiles)),
	}
	for path, cp := range p.CodePaths {
		c.CodePaths[path] = &CodePathUseInfo{
			UserIDs:         slices.Clone(cp.UserIDs),
			LoaderISAs:      slices.Clone(cp.LoaderISAs),
			UsedByOtherApps: cp.UsedByOtherApps,
		}
	}
	for path, dex := range p.DexFiles {
		c.DexFiles[path] = &DexUseInfo{
			OwnerUserID:     dex.OwnerUserID,
			LoaderISAs:      slices.Clone(dex.LoaderISAs),
			UsedByOtherApps: dex.UsedByOtherApps,
		}
	}
	return c
}

// SortedDexPaths returns the secondary dex paths in lexical order.
func (p *PackageUseInfo) SortedDexPaths() []string {
	return slices.Sorted(maps.Keys(p.DexFiles))
}

// SortedCodePaths returns the primary and split paths in lexical order.
func (p *PackageUseInfo) SortedCodePaths() []string {
	return slices.Sorted(maps.Keys(p.CodePaths))
}

func insertSorted[T cmp.Ordered](s []T, v T) ([]T, bool) {
	idx, found := slices.BinarySearch(s, v)
	if found {
		return s, false
	}
	return slices.Insert(s, idx, v), true
}
