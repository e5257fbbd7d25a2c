package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the read access the loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the host filesystem.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// ReadFile implements FileSystem.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path comes from the command line or environment
	return os.ReadFile(path)
}

// MapFSAdapter serves an fs.FS, such as fstest.MapFS, as if it were mounted at Root.
type MapFSAdapter struct {
	FS   fs.FS
	Root string
}

// NewMapFSAdapter creates a MapFSAdapter mounting fsys at root.
func NewMapFSAdapter(root string, fsys fs.FS) *MapFSAdapter {
	return &MapFSAdapter{FS: fsys, Root: root}
}

// ReadFile implements FileSystem. Absolute paths outside Root do not exist.
func (m *MapFSAdapter) ReadFile(path string) ([]byte, error) {
	name, ok := m.name(path)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(m.FS, name)
}

// name maps path to a name inside FS. Relative paths are taken as is.
func (m *MapFSAdapter) name(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), true
	}
	rel, err := filepath.Rel(m.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
