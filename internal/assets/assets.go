// Package assets handles model and texture file access and caching.
package assets

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source provides read access to asset files.
// Names use the host path syntax; a Source decides how they map to storage.
type Source interface {
	ReadFile(name string) ([]byte, error)
	Exists(name string) bool
}

// OSSource reads assets directly from the filesystem.
type OSSource struct{}

// ReadFile reads the named file.
func (OSSource) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Exists reports whether name is an existing regular file.
func (OSSource) Exists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

// FSSource reads assets from an fs.FS, such as an embedded tree or fstest.MapFS.
type FSSource struct {
	FS fs.FS
}

// ReadFile reads the named file from the underlying FS.
func (s FSSource) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(s.FS, toFSPath(name))
}

// Exists reports whether name is an existing regular file in the underlying FS.
func (s FSSource) Exists(name string) bool {
	info, err := fs.Stat(s.FS, toFSPath(name))
	return err == nil && info.Mode().IsRegular()
}

// toFSPath converts a host path to the unrooted slash form fs.FS expects.
func toFSPath(name string) string {
	p := path.Clean(filepath.ToSlash(name))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}
