// Package table checks decoded DB tables: schema staleness, naming traps,
// reference integrity, empty keys and duplicated combined keys.
package table

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/farcloser/scrutinium/internal/audit/shared"
	"github.com/farcloser/scrutinium/internal/deps"
	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

// Env carries the per-run collaborators every table check needs.
type Env struct {
	Pack   *types.Pack
	Game   *types.GameInfo
	Schema *types.Schema
	Deps   deps.Provider
	Lookup *shared.Lookup

	// LocLookup maps loc keys to their text, pack entries over vanilla ones.
	LocLookup map[string]string

	AKDataLoaded    bool
	CheckAKOnlyRefs bool
}

// Batch holds the state shared by every file of one table family: the
// memoized reference data and the combined-key index used to catch
// duplicates across fragments.
type Batch struct {
	refs      map[int]*types.TableReferences
	refsReady bool
	keys      map[string]*keyRef
}

type keyRef struct {
	path   string
	cells  []report.Position
	marked bool
}

// NewBatch creates the shared state for one table-family batch.
func NewBatch() *Batch {
	return &Batch{keys: map[string]*keyRef{}}
}

// references resolves the reference data for the family once, off the first
// fragment's definition.
func (b *Batch) references(env *Env, table *types.Table) map[int]*types.TableReferences {
	if !b.refsReady {
		b.refs = env.Deps.TableReferenceData(env.Schema, env.Pack, table, env.LocLookup)
		b.refsReady = true
	}

	return b.refs
}

// Check runs every table check against one decoded DB file. It returns nil
// when the file is clean or not a decoded table.
//
//nolint:gocognit,gocyclo,cyclop,maintidx // the row/column sweep is one long check list
func Check(env *Env, batch *Batch, file *types.File, global ignore.Global, sup *ignore.Suppression) *report.Diagnostic {
	if sup == nil {
		sup = &ignore.Suppression{}
	}

	decoded, err := file.Decoded()
	if err != nil {
		return nil
	}

	table, ok := decoded.(*types.Table)
	if !ok || table.Definition == nil {
		return nil
	}

	diag := report.New(report.KindDB, file.Path())

	if !sup.Ignored(global, "", report.CodeOutdatedTable) && isOutdated(env.Deps, table) {
		diag.Add(report.Finding{
			Code:    report.CodeOutdatedTable,
			Message: "Possibly outdated table.",
			Level:   report.LevelError,
		})
	}

	if !sup.Ignored(global, "", report.CodeBannedTable) && env.Game.IsFileBanned(file.Path()) {
		diag.Add(report.Finding{
			Code:    report.CodeBannedTable,
			Message: "Banned table.",
			Level:   report.LevelError,
		})
	}

	if name := file.FileName(); name != "" {
		if !sup.Ignored(global, "", report.CodeTableNameEndsInNumber) && endsInNumber(name) {
			diag.Add(report.Finding{
				Code:    report.CodeTableNameEndsInNumber,
				Message: "Table name ends in number.",
				Level:   report.LevelError,
			})
		}

		if !sup.Ignored(global, "", report.CodeTableNameHasSpace) && strings.Contains(name, " ") {
			diag.Add(report.Finding{
				Code:    report.CodeTableNameHasSpace,
				Message: "Table name contains spaces.",
				Level:   report.LevelError,
			})
		}

		if !sup.Ignored(global, "", report.CodeTableIsDataCoring) && isDataCoring(env.Game, table, name) {
			diag.Add(report.Finding{
				Code:    report.CodeTableIsDataCoring,
				Message: "Table is datacoring.",
				Level:   report.LevelWarning,
			})
		}
	}

	fields := table.Definition.Fields
	refData := batch.references(env, table)
	keyAmount := table.Definition.KeyFieldCount()

	var keyColumns []int

	for column := range fields {
		if fields[column].IsKey {
			keyColumns = append(keyColumns, column)
		}
	}

	// Unresolvable reference columns are reported once per table, not once
	// per row.
	var noTable, noColumn []int

	for row, cells := range table.Rows {
		rowIdx := safecast.MustConvert[int32](row)
		rowEmpty := true
		keysEmpty := true
		keyValues := make([]string, 0, len(keyColumns))

		for column := range fields {
			field := &fields[column]
			colIdx := safecast.MustConvert[int32](column)

			var cell string
			if column < len(cells) {
				cell = cells[column]
			}

			if field.IsFilename && cell != "" &&
				!sup.Ignored(global, field.Name, report.CodeFieldWithPathNotFound) {
				if missing := missingPaths(env.Lookup, field, cell); len(missing) > 0 {
					diag.Add(report.Finding{
						Code:    report.CodeFieldWithPathNotFound,
						Message: fmt.Sprintf("Path not found: %s.", strings.Join(missing, " || ")),
						Level:   report.LevelWarning,
						Field:   field.Name,
						Cells:   []report.Position{{Row: rowIdx, Column: colIdx}},
					})
				}
			}

			if field.IsReference != nil && !sup.Ignored(global, field.Name, "") {
				refs := refData[column]

				switch {
				case refs == nil:
					noTable = appendOnce(noTable, column)

				case refs.ReferencedColumnIsLocalised:
					if cell != "" && refs.Data[cell] == "" &&
						!sup.Ignored(global, field.Name, report.CodeMissingLocKey) {
						diag.Add(report.Finding{
							Code: report.CodeMissingLocKey,
							Message: fmt.Sprintf("Missing loc entry %q for reference %q in column %q.",
								refs.LocKeyPrefix+cell, cell, field.Name),
							Level: report.LevelWarning,
							Field: field.Name,
							Cells: []report.Position{{Row: rowIdx, Column: colIdx}},
						})
					}

				case len(refs.Data) == 0:
					noColumn = appendOnce(noColumn, column)

				default:
					if _, found := refs.Data[cell]; cell != "" && !found &&
						(!refs.ReferencedTableIsAKOnly || env.CheckAKOnlyRefs) {
						// Zeroes in numeric reference columns mean "no
						// reference".
						if (!field.Type.IsInteger() || cell != "0") &&
							!sup.Ignored(global, field.Name, report.CodeInvalidReference) {
							diag.Add(report.Finding{
								Code:    report.CodeInvalidReference,
								Message: fmt.Sprintf("Invalid reference %q in column %q.", cell, field.Name),
								Level:   report.LevelError,
								Field:   field.Name,
								Cells:   []report.Position{{Row: rowIdx, Column: colIdx}},
							})
						}
					}
				}
			}

			if rowEmpty && cell != "" && cell != "false" {
				rowEmpty = false
			}

			if keysEmpty && field.IsKey && cell != "" && cell != "false" {
				keysEmpty = false
			}

			if field.IsKey && keyAmount == 1 &&
				field.Type != types.FieldOptionalStringU8 && field.Type != types.FieldBoolean &&
				(cell == "" || cell == "false") &&
				!sup.Ignored(global, field.Name, report.CodeEmptyKeyField) {
				diag.Add(report.Finding{
					Code:    report.CodeEmptyKeyField,
					Message: fmt.Sprintf("Empty key for column %q.", field.Name),
					Level:   report.LevelWarning,
					Field:   field.Name,
					Cells:   []report.Position{{Row: rowIdx, Column: colIdx}},
				})
			}

			if cell == "" && field.CannotBeEmpty &&
				!sup.Ignored(global, field.Name, report.CodeValueCannotBeEmpty) {
				diag.Add(report.Finding{
					Code:    report.CodeValueCannotBeEmpty,
					Message: fmt.Sprintf("Empty value for column %q.", field.Name),
					Level:   report.LevelError,
					Field:   field.Name,
					Cells:   []report.Position{{Row: rowIdx, Column: colIdx}},
				})
			}

			if field.IsKey {
				keyValues = append(keyValues, cell)
			}
		}

		if rowEmpty && !sup.Ignored(global, "", report.CodeEmptyRow) {
			diag.Add(report.Finding{
				Code:    report.CodeEmptyRow,
				Message: "Empty row.",
				Level:   report.LevelError,
				Cells:   []report.Position{{Row: rowIdx, Column: report.EntireSpan}},
			})
		}

		if keysEmpty && !sup.Ignored(global, "", report.CodeEmptyKeyFields) {
			diag.Add(report.Finding{
				Code:    report.CodeEmptyKeyFields,
				Message: "Empty key fields.",
				Level:   report.LevelWarning,
				Cells:   keyCells(rowIdx, keyColumns),
			})
		}

		if !sup.Ignored(global, "", report.CodeDuplicatedCombinedKeys) {
			markDuplicates(batch, diag, strings.Join(keyValues, "| |"), keyCells(rowIdx, keyColumns))
		}
	}

	for _, column := range noTable {
		field := &fields[column]
		if sup.Ignored(global, field.Name, report.CodeNoReferenceTableFound) {
			continue
		}

		diag.Add(report.Finding{
			Code:    report.CodeNoReferenceTableFound,
			Message: fmt.Sprintf("No reference table found for column %q.", field.Name),
			Level:   report.LevelInfo,
			Field:   field.Name,
			Cells:   []report.Position{{Row: report.EntireSpan, Column: safecast.MustConvert[int32](column)}},
		})
	}

	for _, column := range noColumn {
		field := &fields[column]
		cells := []report.Position{{Row: report.EntireSpan, Column: safecast.MustConvert[int32](column)}}

		if env.AKDataLoaded {
			if !sup.Ignored(global, field.Name, report.CodeNoReferenceTableNorColumnFoundPak) {
				diag.Add(report.Finding{
					Code: report.CodeNoReferenceTableNorColumnFoundPak,
					Message: fmt.Sprintf(
						"No reference column found in referenced table for column %q. Maybe a problem with the schema?",
						field.Name),
					Level: report.LevelInfo,
					Field: field.Name,
					Cells: cells,
				})
			}
		} else if !sup.Ignored(global, field.Name, report.CodeNoReferenceTableNorColumnFoundNoPak) {
			diag.Add(report.Finding{
				Code: report.CodeNoReferenceTableNorColumnFoundNoPak,
				Message: fmt.Sprintf(
					"No reference column found in referenced table for column %q. Did you forget to generate the dependencies cache?",
					field.Name),
				Level: report.LevelWarning,
				Field: field.Name,
				Cells: cells,
			})
		}
	}

	if diag.Empty() {
		return nil
	}

	return diag
}

// markDuplicates registers one row's combined key in the batch index and
// reports collisions. Rows colliding inside the same file are both marked;
// a collision with another fragment of the family is reported once, on the
// later file.
func markDuplicates(batch *Batch, diag *report.Diagnostic, combined string, cells []report.Position) {
	prev, dup := batch.keys[combined]
	if !dup {
		batch.keys[combined] = &keyRef{path: diag.Path, cells: cells}

		return
	}

	message := fmt.Sprintf("Duplicated combined keys: %s.", combined)

	if prev.path == diag.Path && !prev.marked {
		diag.Add(report.Finding{
			Code:    report.CodeDuplicatedCombinedKeys,
			Message: message,
			Level:   report.LevelError,
			Cells:   prev.cells,
		})
	}

	diag.Add(report.Finding{
		Code:    report.CodeDuplicatedCombinedKeys,
		Message: message,
		Level:   report.LevelError,
		Cells:   cells,
	})

	batch.keys[combined] = &keyRef{path: diag.Path, cells: cells, marked: true}
}

func isOutdated(provider deps.Provider, table *types.Table) bool {
	known := false
	maxVersion := 0

	for _, file := range provider.TableFiles(nil, table.Name, false, true) {
		decoded, err := file.Decoded()
		if err != nil {
			continue
		}

		vanilla, ok := decoded.(*types.Table)
		if !ok || vanilla.Definition == nil {
			continue
		}

		if !known || vanilla.Definition.Version > maxVersion {
			maxVersion = vanilla.Definition.Version
			known = true
		}
	}

	return known && maxVersion != table.Definition.Version
}

// isDataCoring detects files that override the game's own table entries.
// Games that name vanilla files after the table folder collide on the short
// name; the rest use a fixed default file name.
func isDataCoring(game *types.GameInfo, table *types.Table, name string) bool {
	if game.DefaultTableName != "" {
		return name == game.DefaultTableName
	}

	return name == table.ShortName()
}

// missingPaths expands a filename cell into its candidate paths and returns
// the ones found nowhere. Wildcard paths are not checked.
func missingPaths(lookup *shared.Lookup, field *types.Field, cell string) []string {
	raw := cell
	if field.FilenameRelativePath != "" {
		raw = strings.ReplaceAll(field.FilenameRelativePath, "%", cell)
	}

	if strings.Contains(raw, "*") {
		return nil
	}

	raw = strings.ReplaceAll(strings.ReplaceAll(raw, "\\", "/"), ";", ",")

	var paths []string

	for _, candidate := range strings.Split(raw, ",") {
		candidate = strings.TrimSuffix(candidate, "/")
		if candidate != "" {
			paths = append(paths, candidate)
		}
	}

	for _, candidate := range paths {
		if lookup.PathFound(candidate) {
			return nil
		}
	}

	return paths
}

func keyCells(row int32, keyColumns []int) []report.Position {
	cells := make([]report.Position, 0, len(keyColumns))
	for _, column := range keyColumns {
		cells = append(cells, report.Position{Row: row, Column: safecast.MustConvert[int32](column)})
	}

	return cells
}

func appendOnce(columns []int, column int) []int {
	for _, known := range columns {
		if known == column {
			return columns
		}
	}

	return append(columns, column)
}

func endsInNumber(name string) bool {
	if name == "" {
		return false
	}

	last := name[len(name)-1]

	return last >= '0' && last <= '9'
}
