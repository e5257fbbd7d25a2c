package ledger

import (
	"encoding/json"
	"slices"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// formatVersion is the version of the on-disk document.
const formatVersion = 1

// document is the on-disk layout of the ledger.
type document struct {
	Version  int                               `json:"version"`
	Packages map[string]*domain.PackageUseInfo `json:"packages"`
}

// encode renders packages as an indented JSON document.
// Map keys are sorted by encoding/json, so equal states encode to equal bytes.
func encode(packages map[string]*domain.PackageUseInfo) ([]byte, error) {
	doc := document{Version: formatVersion, Packages: packages}
	if doc.Packages == nil {
		doc.Packages = map[string]*domain.PackageUseInfo{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrLedgerMarshalFailed.Error())
	}
	return append(data, '\n'), nil
}

// decode parses a ledger document. Empty packages are dropped.
func decode(data []byte) (map[string]*domain.PackageUseInfo, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLedgerUnmarshalFailed.Error())
	}
	if doc.Version != formatVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrLedgerVersionUnsupported, "cannot read ledger"), "version", doc.Version)
	}

	packages := make(map[string]*domain.PackageUseInfo, len(doc.Packages))
	for name, info := range doc.Packages {
		if info == nil {
			continue
		}
		info.PackageName = name
		if info.CodePaths == nil {
			info.CodePaths = make(map[string]*domain.CodePathUseInfo)
		}
		if info.DexFiles == nil {
			info.DexFiles = make(map[string]*domain.DexUseInfo)
		}
		if err := normalize(info); err != nil {
			return nil, zerr.With(err, "package", name)
		}
		if !info.IsEmpty() {
			packages[name] = info
		}
	}
	return packages, nil
}

// normalize sorts the user and isa lists and rejects entries no sequence of
// records could have produced.
func normalize(info *domain.PackageUseInfo) error {
	for path, cp := range info.CodePaths {
		if cp == nil || len(cp.UserIDs) == 0 || len(cp.LoaderISAs) == 0 {
			return zerr.With(zerr.Wrap(domain.ErrLedgerUnmarshalFailed, "code path without users or isas"), "code_path", path)
		}
		slices.Sort(cp.UserIDs)
		cp.UserIDs = slices.Compact(cp.UserIDs)
		slices.Sort(cp.LoaderISAs)
		cp.LoaderISAs = slices.Compact(cp.LoaderISAs)
	}
	for path, dex := range info.DexFiles {
		if dex == nil || len(dex.LoaderISAs) == 0 {
			return zerr.With(zerr.Wrap(domain.ErrLedgerUnmarshalFailed, "dex file without isas"), "dex_path", path)
		}
		slices.Sort(dex.LoaderISAs)
		dex.LoaderISAs = slices.Compact(dex.LoaderISAs)
	}
	return nil
}
