package domain

import "strings"

// PackageCodeLocations records every location a package may own code in:
// its base artifact, its split artifacts and its private data dirs per user.
//
// BaseCodePath never changes once set. SplitCodePaths and AppDataDirs only
// grow through Merge; a shrink happens by replacing the whole value.
type PackageCodeLocations struct {
	PackageName    string
	BaseCodePath   string
	SplitCodePaths map[string]struct{}
	AppDataDirs    map[UserID]map[string]struct{}
}

// NewPackageCodeLocations creates the code locations of app as seen by user.
func NewPackageCodeLocations(app *AppInfo, user UserID) *PackageCodeLocations {
	pcl := &PackageCodeLocations{
		PackageName:    app.PackageName,
		BaseCodePath:   app.SourceDir,
		SplitCodePaths: make(map[string]struct{}, len(app.SplitSourceDirs)),
		AppDataDirs:    make(map[UserID]map[string]struct{}),
	}
	pcl.Merge(app, user)
	return pcl
}

// Merge adds the data dir app has under user, plus any split not seen before.
func (p *PackageCodeLocations) Merge(app *AppInfo, user UserID) {
	for _, split := range app.SplitSourceDirs {
		p.SplitCodePaths[split] = struct{}{}
	}

	dirs, ok := p.AppDataDirs[user]
	if !ok {
		dirs = make(map[string]struct{}, 1)
		p.AppDataDirs[user] = dirs
	}
	if app.DataDir != "" {
		dirs[app.DataDir] = struct{}{}
	}
}

// SearchDex classifies dexPath relative to this package for user.
//
// A package without a data dir for user is treated as not installed for
// that user, whatever the path looks like. Paths are compared verbatim;
// symbolic links are not resolved. A data dir claims every path it is a
// string prefix of, so /data/user/0/com.a also claims /data/user/0/com.ab/x.jar.
func (p *PackageCodeLocations) SearchDex(dexPath string, user UserID) SearchOutcome {
	userDataDirs, ok := p.AppDataDirs[user]
	if !ok {
		return SearchNotFound
	}

	if p.BaseCodePath == dexPath {
		return SearchFoundPrimary
	}
	if _, ok := p.SplitCodePaths[dexPath]; ok {
		return SearchFoundSplit
	}
	for dataDir := range userDataDirs {
		if strings.HasPrefix(dexPath, dataDir) {
			return SearchFoundSecondary
		}
	}
	return SearchNotFound
}

// HasUser reports whether the package has data recorded for user.
func (p *PackageCodeLocations) HasUser(user UserID) bool {
	_, ok := p.AppDataDirs[user]
	return ok
}
