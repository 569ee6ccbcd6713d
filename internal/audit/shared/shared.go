// Package shared holds the lookup helpers common to the per-file checkers.
package shared

import (
	"strings"

	"github.com/farcloser/scrutinium/internal/deps"
)

// Lookup resolves paths against the checked pack first, then against the
// dependency data. Path and folder sets are lowercased up front so rows can
// be matched case-insensitively without re-normalizing per cell.
type Lookup struct {
	PackPaths   map[string]struct{}
	PackFolders map[string]struct{}
	Deps        deps.Provider
}

// NewLookup builds a Lookup over pre-normalized pack sets.
func NewLookup(packPaths, packFolders map[string]struct{}, provider deps.Provider) *Lookup {
	return &Lookup{
		PackPaths:   packPaths,
		PackFolders: packFolders,
		Deps:        provider,
	}
}

// PathFound reports whether the path exists as a file or folder in the pack
// or the dependency data.
func (l *Lookup) PathFound(path string) bool {
	path = NormalizePath(path)

	if _, ok := l.PackPaths[path]; ok {
		return true
	}

	if _, ok := l.PackFolders[path]; ok {
		return true
	}

	if l.Deps != nil {
		if l.Deps.FileExists(path) || l.Deps.FolderExists(path) {
			return true
		}
	}

	return false
}

// NormalizePath lowercases a path, flips backslashes and drops any trailing
// slash, matching how pack path sets are built.
func NormalizePath(path string) string {
	path = strings.ToLower(strings.ReplaceAll(path, "\\", "/"))

	return strings.TrimSuffix(path, "/")
}
