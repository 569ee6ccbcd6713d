// Package deps defines the dependency-database collaborator the diagnostics
// engine consumes, plus an in-memory implementation backed by decoded
// vanilla data.
package deps

import (
	"strings"

	"github.com/farcloser/scrutinium/internal/types"
)

// Provider supplies cross-reference data from outside the checked pack:
// vanilla game data, the local reference index, and small lookup sets.
// Implementations must be safe for concurrent reads once a check run has
// started; the engine only mutates through GenerateLocalTableReferences,
// which it calls before any parallel region touches reference data.
type Provider interface {
	// IsVanillaDataLoaded reports whether the dependency cache holds the
	// game's own data.
	IsVanillaDataLoaded() bool

	// IsAKDataLoaded reports whether assembly kit data is available on top
	// of the game's own.
	IsAKDataLoaded() bool

	// NeedsUpdating reports whether the dependency cache is stale for the
	// given game install, or an error when the cache cannot be read at all.
	NeedsUpdating(game *types.GameInfo, gamePath string) (bool, error)

	// GenerateLocalTableReferences rebuilds the index of tables shipped
	// inside the pack itself, so references into mod-added rows resolve.
	GenerateLocalTableReferences(schema *types.Schema, pack *types.Pack, tableNames []string)

	// TableReferenceData resolves, per column position, the valid values a
	// reference column of the given table may hold.
	TableReferenceData(schema *types.Schema, pack *types.Pack, table *types.Table, locLookup map[string]string) map[int]*types.TableReferences

	// LookupValues collects every value of one column of one table family
	// across the selected sources.
	LookupValues(pack *types.Pack, tableName, column string, includeLocal, includeVanilla bool) map[string]struct{}

	// TableFiles returns the decoded fragments of one table family across
	// the selected sources, local ones first.
	TableFiles(pack *types.Pack, tableName string, includeLocal, includeVanilla bool) []*types.File

	// VanillaLocFiles returns the localization files of the dependency data.
	VanillaLocFiles() []*types.File

	// FileExists reports whether the path exists in the dependency data,
	// case-insensitively.
	FileExists(path string) bool

	// FolderExists reports whether the folder path exists in the dependency
	// data, case-insensitively.
	FolderExists(path string) bool
}

// Store is the in-memory Provider used by the CLI and the tests: vanilla
// data modeled as a pack, plus the regenerated local reference index.
type Store struct {
	vanilla        *types.Pack
	vanillaPaths   map[string]struct{}
	vanillaFolders map[string]struct{}
	akOnlyTables   map[string]struct{}
	localTables    map[string][]*types.File

	akLoaded bool
	outdated bool
	loadErr  error
}

// NewStore creates a store over decoded vanilla data. A nil vanilla pack
// models a dependency cache that was never generated.
func NewStore(vanilla *types.Pack) *Store {
	store := &Store{
		vanilla:      vanilla,
		akOnlyTables: map[string]struct{}{},
		localTables:  map[string][]*types.File{},
	}

	if vanilla != nil {
		store.vanillaPaths = vanilla.PathSet()
		store.vanillaFolders = vanilla.FolderSet()
	}

	return store
}

// MarkOutdated flags the cache as stale relative to the game install.
func (s *Store) MarkOutdated() {
	s.outdated = true
}

// SetLoadError records a cache read failure surfaced by NeedsUpdating.
func (s *Store) SetLoadError(err error) {
	s.loadErr = err
}

// MarkAKOnly registers a table family that only exists in the assembly kit
// data.
func (s *Store) MarkAKOnly(tableName string) {
	s.akOnlyTables[tableName] = struct{}{}
	s.akLoaded = true
}

// SetAKDataLoaded flags assembly kit data as available even when no table
// family is registered as AK-only.
func (s *Store) SetAKDataLoaded() {
	s.akLoaded = true
}

// IsVanillaDataLoaded implements Provider.
func (s *Store) IsVanillaDataLoaded() bool {
	return s.vanilla != nil
}

// IsAKDataLoaded implements Provider.
func (s *Store) IsAKDataLoaded() bool {
	return s.akLoaded
}

// NeedsUpdating implements Provider.
func (s *Store) NeedsUpdating(_ *types.GameInfo, _ string) (bool, error) {
	if s.loadErr != nil {
		return false, s.loadErr
	}

	return s.outdated, nil
}

// GenerateLocalTableReferences implements Provider. The table-name list only
// drives the caller's skip decision; the index itself is rebuilt whole, as
// references out of the named tables may land in any family of the pack.
func (s *Store) GenerateLocalTableReferences(_ *types.Schema, pack *types.Pack, _ []string) {
	s.localTables = map[string][]*types.File{}

	if pack == nil {
		return
	}

	for _, file := range pack.FilesByKinds([]types.FileKind{types.KindDB}) {
		segments := file.PathSplit()
		if len(segments) < 3 {
			continue
		}

		family := segments[1]
		s.localTables[family] = append(s.localTables[family], file)
	}
}

// TableReferenceData implements Provider.
func (s *Store) TableReferenceData(schema *types.Schema, pack *types.Pack, table *types.Table, locLookup map[string]string) map[int]*types.TableReferences {
	out := map[int]*types.TableReferences{}

	if table == nil || table.Definition == nil {
		return out
	}

	for column := range table.Definition.Fields {
		field := &table.Definition.Fields[column]
		if field.IsReference == nil {
			continue
		}

		refTable := normalizeTableName(field.IsReference.Table)
		refColumn := field.IsReference.Column
		_, akOnly := s.akOnlyTables[refTable]

		files := s.TableFiles(pack, refTable, true, true)
		if len(files) == 0 && !akOnly {
			// No reference table anywhere: leave the column unresolved so
			// the checker can report it.
			continue
		}

		refs := &types.TableReferences{
			Data:                    map[string]string{},
			ReferencedTableIsAKOnly: akOnly,
		}

		locPrefix := types.TableShortName(refTable) + "_" + refColumn + "_"

		if def, ok := schema.Definition(refTable); ok {
			if pos, found := def.ColumnByName(refColumn); found {
				refs.ReferencedColumnIsLocalised = def.Fields[pos].IsLocalised
			}
		}

		if refs.ReferencedColumnIsLocalised {
			refs.LocKeyPrefix = locPrefix
		}

		for _, file := range files {
			decoded, err := file.Decoded()
			if err != nil {
				continue
			}

			ref, ok := decoded.(*types.Table)
			if !ok || ref.Definition == nil {
				continue
			}

			pos, found := ref.Definition.ColumnByName(refColumn)
			if !found {
				continue
			}

			for _, row := range ref.Rows {
				if pos >= len(row) || row[pos] == "" {
					continue
				}

				refs.Data[row[pos]] = locLookup[locPrefix+row[pos]]
			}
		}

		out[column] = refs
	}

	return out
}

// LookupValues implements Provider.
func (s *Store) LookupValues(pack *types.Pack, tableName, column string, includeLocal, includeVanilla bool) map[string]struct{} {
	out := map[string]struct{}{}
	tableName = normalizeTableName(tableName)

	var files []*types.File

	if includeVanilla && s.vanilla != nil {
		files = append(files, s.vanilla.FilesUnderFolder("db/"+tableName+"/")...)
	}

	if includeLocal && pack != nil {
		files = append(files, pack.FilesUnderFolder("db/"+tableName+"/")...)
	}

	for _, file := range files {
		decoded, err := file.Decoded()
		if err != nil {
			continue
		}

		table, ok := decoded.(*types.Table)
		if !ok || table.Definition == nil {
			continue
		}

		pos, found := table.Definition.ColumnByName(column)
		if !found {
			continue
		}

		for _, row := range table.Rows {
			if pos < len(row) && row[pos] != "" {
				out[row[pos]] = struct{}{}
			}
		}
	}

	return out
}

// TableFiles implements Provider. Local fragments come from the regenerated
// index, so callers see mod data only after the engine asked for it.
func (s *Store) TableFiles(_ *types.Pack, tableName string, includeLocal, includeVanilla bool) []*types.File {
	tableName = normalizeTableName(tableName)

	var out []*types.File

	if includeLocal {
		out = append(out, s.localTables[tableName]...)
	}

	if includeVanilla && s.vanilla != nil {
		out = append(out, s.vanilla.FilesUnderFolder("db/"+tableName+"/")...)
	}

	return out
}

// VanillaLocFiles implements Provider.
func (s *Store) VanillaLocFiles() []*types.File {
	if s.vanilla == nil {
		return nil
	}

	return s.vanilla.FilesByKinds([]types.FileKind{types.KindLoc})
}

// FileExists implements Provider.
func (s *Store) FileExists(path string) bool {
	_, ok := s.vanillaPaths[strings.ToLower(path)]

	return ok
}

// FolderExists implements Provider.
func (s *Store) FolderExists(path string) bool {
	_, ok := s.vanillaFolders[strings.ToLower(path)]

	return ok
}

func normalizeTableName(name string) string {
	if strings.HasSuffix(name, "_tables") {
		return name
	}

	return name + "_tables"
}
