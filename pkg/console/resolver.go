package console

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver finds the file a location path refers to.
type Resolver interface {
	// Resolve returns the resolved path and true, or false when the file
	// cannot be found.
	Resolve(path string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(path string) (string, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(path string) (string, bool) {
	return f(path)
}

// DirResolver resolves paths relative to a base directory. Absolute paths
// and file:// URLs are accepted as-is. Only existing regular files resolve.
type DirResolver struct {
	Base string
}

// Resolve implements Resolver.
func (d DirResolver) Resolve(path string) (string, bool) {
	path = strings.TrimPrefix(path, "file://")
	if path == "" {
		return "", false
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(d.Base, path)
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, true
}
