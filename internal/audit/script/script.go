// Package script checks lua scripts for stale table keys. Scripts opt in by
// annotating a variable with a single-line comment:
//
//	--@db <table> <column> [indexes]
//
// The next line holds the keys to validate, either as a single quoted value
// or as a lua table, keyed or not, single-line or spanning multiple lines.
// With a keyed table, indexes selects which side(s) of each "=" to check.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/farcloser/scrutinium/internal/deps"
	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

const marker = "--@db "

// Env carries the collaborators key lookups need.
type Env struct {
	Pack *types.Pack
	Deps deps.Provider
}

type annotation struct {
	table   string
	column  string
	indexes []int
}

type candidate struct {
	key string
	row int32
}

// Check scans one decoded text file for annotated keys and validates them
// against the named table column, across the pack and the dependency data.
func Check(env *Env, file *types.File, global ignore.Global, sup *ignore.Suppression) *report.Diagnostic {
	if sup == nil {
		sup = &ignore.Suppression{}
	}

	decoded, err := file.Decoded()
	if err != nil {
		return nil
	}

	text, ok := decoded.(*types.Text)
	if !ok {
		return nil
	}

	diag := report.New(report.KindText, file.Path())
	lines := strings.Split(strings.ReplaceAll(text.Contents, "\r\n", "\n"), "\n")

	for i, line := range lines {
		note, found := parseAnnotation(line)
		if !found || i+1 >= len(lines) {
			continue
		}

		keys := collectKeys(lines, i+1, note.indexes)
		if len(keys) == 0 {
			continue
		}

		tables := tableFiles(env, note.table)
		if len(tables) == 0 {
			// Unknown table, nothing to validate against.
			continue
		}

		for _, entry := range keys {
			key := strings.TrimSpace(entry.key)
			if key == "" || keyInTables(tables, note.column, key) {
				continue
			}

			if sup.Ignored(global, note.column, report.CodeInvalidKey) {
				continue
			}

			diag.Add(report.Finding{
				Code:    report.CodeInvalidKey,
				Message: fmt.Sprintf("Invalid Key: %q is not in table %q, column %q.", key, note.table, note.column),
				Level:   report.LevelError,
				Field:   note.column,
				Cells:   []report.Position{{Row: entry.row, Column: report.EntireSpan}},
			})
		}
	}

	if diag.Empty() {
		return nil
	}

	return diag
}

func parseAnnotation(line string) (annotation, bool) {
	pos := strings.Index(line, marker)
	if pos < 0 {
		return annotation{}, false
	}

	args := strings.Fields(line[pos+len(marker):])
	if len(args) < 2 {
		return annotation{}, false
	}

	note := annotation{
		table:  args[0],
		column: args[1],
	}

	if !strings.HasSuffix(note.table, "_tables") {
		note.table += "_tables"
	}

	if len(args) > 2 {
		for _, raw := range strings.Split(args[2], ",") {
			if index, err := strconv.Atoi(raw); err == nil {
				note.indexes = append(note.indexes, index)
			}
		}
	}

	return note, true
}

// collectKeys extracts the quoted keys following an annotation, starting at
// the value line.
func collectKeys(lines []string, start int, indexes []int) []candidate {
	first := lines[start]

	open := strings.Index(first, "{")
	if open < 0 {
		// Single value.
		if key, ok := quoted(first); ok {
			return []candidate{{key: key, row: safecast.MustConvert[int32](start)}}
		}

		return nil
	}

	// Single-line table.
	if closing := strings.Index(first[open:], "}"); closing >= 0 {
		inner := first[open+1 : open+closing]
		row := safecast.MustConvert[int32](start)

		var keys []candidate

		for _, entry := range strings.Split(inner, ",") {
			keys = append(keys, entryKeys(entry, indexes, row)...)
		}

		return keys
	}

	// Multi-line table, one entry per line up to and including the closing
	// brace. The closing line may carry a last entry before the brace.
	var keys []candidate

	for i := start + 1; i < len(lines); i++ {
		line := lines[i]
		row := safecast.MustConvert[int32](i)

		if brace := strings.Index(line, "}"); brace >= 0 {
			keys = append(keys, entryKeys(strings.TrimSuffix(strings.TrimSpace(line[:brace]), ","), indexes, row)...)

			break
		}

		keys = append(keys, entryKeys(strings.TrimSuffix(line, ","), indexes, row)...)
	}

	return keys
}

// entryKeys extracts the checkable keys of one table entry. Keyed entries
// only yield the "=" sides selected by indexes.
func entryKeys(entry string, indexes []int, row int32) []candidate {
	if !strings.Contains(entry, "=") {
		if key, ok := quoted(entry); ok {
			return []candidate{{key: key, row: row}}
		}

		return nil
	}

	var keys []candidate

	for i, part := range strings.Split(entry, "=") {
		if !containsIndex(indexes, i) {
			continue
		}

		if key, ok := quoted(part); ok {
			keys = append(keys, candidate{key: key, row: row})
		}
	}

	return keys
}

// quoted returns the string between exactly one pair of double quotes.
func quoted(s string) (string, bool) {
	parts := strings.Split(s, `"`)
	if len(parts) != 3 {
		return "", false
	}

	return parts[1], true
}

func containsIndex(indexes []int, index int) bool {
	for _, known := range indexes {
		if known == index {
			return true
		}
	}

	return false
}

func tableFiles(env *Env, tableName string) []*types.File {
	var files []*types.File

	if env.Pack != nil {
		files = append(files, env.Pack.FilesUnderFolder("db/"+tableName+"/")...)
	}

	if env.Deps != nil {
		files = append(files, env.Deps.TableFiles(nil, tableName, false, true)...)
	}

	return files
}

func keyInTables(files []*types.File, column, key string) bool {
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
			if pos < len(row) && row[pos] == key {
				return true
			}
		}
	}

	return false
}
