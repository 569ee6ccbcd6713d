package types

import (
	"slices"
	"strings"
)

// Pack is the in-memory mod archive: typed files addressed by path, the
// pack-level settings, and the dependency pack list. Real packs are decoded
// from disk by external tooling; diagnostics only need this view.
type Pack struct {
	name         string
	files        map[string]*File
	settings     Settings
	dependencies []string
}

// NewPack creates an empty pack with the given disk file name.
func NewPack(name string) *Pack {
	return &Pack{
		name:  name,
		files: map[string]*File{},
	}
}

// DiskFileName returns the pack's file name on disk, e.g. "my_mod.pack".
func (p *Pack) DiskFileName() string {
	return p.name
}

// Settings returns the pack settings.
func (p *Pack) Settings() *Settings {
	return &p.settings
}

// SetSettings replaces the pack settings.
func (p *Pack) SetSettings(settings Settings) {
	p.settings = settings
}

// Dependencies returns the ordered list of dependency pack names.
func (p *Pack) Dependencies() []string {
	return p.dependencies
}

// AddDependency appends a dependency pack name.
func (p *Pack) AddDependency(name string) {
	p.dependencies = append(p.dependencies, name)
}

// Insert adds or replaces a file.
func (p *Pack) Insert(file *File) {
	p.files[file.Path()] = file
}

// File returns the file at the given path.
func (p *Pack) File(path string) (*File, bool) {
	file, ok := p.files[path]

	return file, ok
}

// Len returns the number of files in the pack.
func (p *Pack) Len() int {
	return len(p.files)
}

// FilesByKinds returns every file of the given kinds, ordered by path.
func (p *Pack) FilesByKinds(kinds []FileKind) []*File {
	var out []*File

	for _, file := range p.files {
		if slices.Contains(kinds, file.Kind()) {
			out = append(out, file)
		}
	}

	sortFiles(out)

	return out
}

// FilesByKindsAndPaths returns every file of the given kinds whose path
// matches one of the given paths: exactly when exact is set, or also as a
// folder prefix otherwise. Folder prefixes only match at path-segment
// boundaries, so "db/units_t" does not select "db/units_tables/x".
func (p *Pack) FilesByKindsAndPaths(kinds []FileKind, paths []string, exact bool) []*File {
	var out []*File

	for _, file := range p.files {
		if !slices.Contains(kinds, file.Kind()) {
			continue
		}

		for _, path := range paths {
			if file.Path() == path ||
				(!exact && strings.HasPrefix(file.Path(), strings.TrimSuffix(path, "/")+"/")) {
				out = append(out, file)

				break
			}
		}
	}

	sortFiles(out)

	return out
}

// FilesUnderFolder returns every file under the given folder prefix,
// ordered by path.
func (p *Pack) FilesUnderFolder(prefix string) []*File {
	var out []*File

	for _, file := range p.files {
		if strings.HasPrefix(file.Path(), prefix) {
			out = append(out, file)
		}
	}

	sortFiles(out)

	return out
}

// Paths returns every file path in the pack, sorted.
func (p *Pack) Paths() []string {
	out := make([]string, 0, len(p.files))

	for path := range p.files {
		out = append(out, path)
	}

	slices.Sort(out)

	return out
}

// PathSet returns the lowercased file paths as a set. Path lookups in game
// data are case-insensitive, so the caches fold case once up front.
func (p *Pack) PathSet() map[string]struct{} {
	out := make(map[string]struct{}, len(p.files))

	for path := range p.files {
		out[strings.ToLower(path)] = struct{}{}
	}

	return out
}

// FolderSet returns the lowercased folder paths (every ancestor of every
// file) as a set.
func (p *Pack) FolderSet() map[string]struct{} {
	out := map[string]struct{}{}

	for path := range p.files {
		lower := strings.ToLower(path)

		for {
			idx := strings.LastIndexByte(lower, '/')
			if idx <= 0 {
				break
			}

			lower = lower[:idx]
			out[lower] = struct{}{}
		}
	}

	return out
}

func sortFiles(files []*File) {
	slices.SortFunc(files, func(a, b *File) int {
		return strings.Compare(a.Path(), b.Path())
	})
}
