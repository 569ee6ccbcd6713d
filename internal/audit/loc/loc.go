// Package loc checks decoded localization files: malformed keys, empty
// rows, bad escapes and duplicated entries across the whole batch.
package loc

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

const (
	keyColumn  = "key"
	textColumn = "text"
)

// Batch indexes loc rows across every file of the run, so duplicated keys
// are caught even when they live in different files.
type Batch struct {
	rows map[string]*rowRef
	keys map[string]*rowRef
}

type rowRef struct {
	path   string
	cells  []report.Position
	marked bool
}

// NewBatch creates the shared duplicate index for one loc batch.
func NewBatch() *Batch {
	return &Batch{
		rows: map[string]*rowRef{},
		keys: map[string]*rowRef{},
	}
}

// Check runs every loc check against one decoded localization file.
//
//nolint:gocognit // one pass, many independent row checks
func Check(batch *Batch, file *types.File, global ignore.Global, sup *ignore.Suppression) *report.Diagnostic {
	if sup == nil {
		sup = &ignore.Suppression{}
	}

	decoded, err := file.Decoded()
	if err != nil {
		return nil
	}

	loc, ok := decoded.(*types.Loc)
	if !ok {
		return nil
	}

	diag := report.New(report.KindLoc, file.Path())

	for row := range loc.Rows {
		entry := &loc.Rows[row]
		rowIdx := safecast.MustConvert[int32](row)

		if entry.Key != "" && strings.ContainsAny(entry.Key, "\n\t") &&
			!sup.Ignored(global, keyColumn, report.CodeInvalidLocKey) {
			diag.Add(report.Finding{
				Code:    report.CodeInvalidLocKey,
				Message: "Invalid localisation key.",
				Level:   report.LevelError,
				Field:   keyColumn,
				Cells:   []report.Position{{Row: rowIdx, Column: 0}},
			})
		}

		if entry.Key == "" && entry.Text == "" &&
			!sup.Ignored(global, keyColumn, report.CodeEmptyRow) &&
			!sup.Ignored(global, textColumn, report.CodeEmptyRow) {
			diag.Add(report.Finding{
				Code:    report.CodeEmptyRow,
				Message: "Empty row.",
				Level:   report.LevelError,
				Cells:   []report.Position{{Row: rowIdx, Column: report.EntireSpan}},
			})
		}

		if entry.Key == "" && entry.Text != "" &&
			!sup.Ignored(global, keyColumn, report.CodeEmptyKeyField) {
			diag.Add(report.Finding{
				Code:    report.CodeEmptyKeyField,
				Message: `Empty key for column "key".`,
				Level:   report.LevelWarning,
				Field:   keyColumn,
				Cells:   []report.Position{{Row: rowIdx, Column: 0}},
			})
		}

		if entry.Text != "" && hasInvalidEscape(entry.Text) &&
			!sup.Ignored(global, textColumn, report.CodeInvalidEscape) {
			diag.Add(report.Finding{
				Code:    report.CodeInvalidEscape,
				Message: `Invalid line jump/tabulation detected in loc entry. Use \\n or \\t instead.`,
				Level:   report.LevelWarning,
				Field:   textColumn,
				Cells:   []report.Position{{Row: rowIdx, Column: 1}},
			})
		}

		if !sup.Ignored(global, keyColumn, report.CodeDuplicatedRow) {
			combined := entry.Key + "| |" + entry.Text
			cells := []report.Position{{Row: rowIdx, Column: 0}, {Row: rowIdx, Column: 1}}
			markDuplicates(batch.rows, diag, report.CodeDuplicatedRow,
				fmt.Sprintf("Duplicated row: %s.", combined), combined, cells)
		}

		if !sup.Ignored(global, keyColumn, report.CodeDuplicatedCombinedKeys) && entry.Key != "" {
			cells := []report.Position{{Row: rowIdx, Column: 0}}
			markDuplicates(batch.keys, diag, report.CodeDuplicatedCombinedKeys,
				fmt.Sprintf("Duplicated combined keys: %s.", entry.Key), entry.Key, cells)
		}
	}

	if diag.Empty() {
		return nil
	}

	return diag
}

func markDuplicates(index map[string]*rowRef, diag *report.Diagnostic, code, message, key string, cells []report.Position) {
	prev, dup := index[key]
	if !dup {
		index[key] = &rowRef{path: diag.Path, cells: cells}

		return
	}

	level := report.LevelError
	if code == report.CodeDuplicatedRow {
		level = report.LevelWarning
	}

	if prev.path == diag.Path && !prev.marked {
		diag.Add(report.Finding{Code: code, Message: message, Level: level, Field: keyColumn, Cells: prev.cells})
	}

	diag.Add(report.Finding{Code: code, Message: message, Level: level, Field: keyColumn, Cells: cells})

	index[key] = &rowRef{path: diag.Path, cells: cells, marked: true}
}

// hasInvalidEscape reports literal newline or tab characters, which must be
// written as \n and \t, and raw backslash escapes other than \\, \n and \t,
// which the game renders literally.
func hasInvalidEscape(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' || text[i] == '\t' {
			return true
		}

		if text[i] != '\\' {
			continue
		}

		if i+1 >= len(text) {
			return true
		}

		switch text[i+1] {
		case '\\', 'n', 't':
			i++
		default:
			return true
		}
	}

	return false
}
