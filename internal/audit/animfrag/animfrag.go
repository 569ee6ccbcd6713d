// Package animfrag checks battle animation fragment descriptors: every path
// they reference must exist in the pack or the dependency data.
package animfrag

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/farcloser/scrutinium/internal/audit/shared"
	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

// Check validates the locomotion graph and the per-entry animation, meta
// and sound paths of one decoded fragment.
func Check(lookup *shared.Lookup, file *types.File, global ignore.Global, sup *ignore.Suppression) *report.Diagnostic {
	if sup == nil {
		sup = &ignore.Suppression{}
	}

	decoded, err := file.Decoded()
	if err != nil {
		return nil
	}

	fragment, ok := decoded.(*types.AnimFragmentBattle)
	if !ok {
		return nil
	}

	diag := report.New(report.KindAnimFragmentBattle, file.Path())

	if fragment.LocomotionGraph != "" &&
		!sup.Ignored(global, "", report.CodeLocomotionGraphPathNotFound) &&
		!lookup.PathFound(fragment.LocomotionGraph) {
		diag.Add(report.Finding{
			Code:    report.CodeLocomotionGraphPathNotFound,
			Message: fmt.Sprintf("Locomotion Graph file not found: %s.", fragment.LocomotionGraph),
			Level:   report.LevelWarning,
		})
	}

	for entry := range fragment.Entries {
		row := safecast.MustConvert[int32](entry)

		for ref := range fragment.Entries[entry].AnimRefs {
			animRef := &fragment.Entries[entry].AnimRefs[ref]
			cells := []report.Position{{Row: row, Column: safecast.MustConvert[int32](ref)}}

			if animRef.FilePath != "" &&
				!sup.Ignored(global, "", report.CodeFilePathNotFound) &&
				!lookup.PathFound(animRef.FilePath) {
				diag.Add(report.Finding{
					Code:    report.CodeFilePathNotFound,
					Message: fmt.Sprintf("'File Path' file not found: %s.", animRef.FilePath),
					Level:   report.LevelWarning,
					Cells:   cells,
				})
			}

			if animRef.MetaFilePath != "" &&
				!sup.Ignored(global, "", report.CodeMetaFilePathNotFound) &&
				!lookup.PathFound(animRef.MetaFilePath) {
				diag.Add(report.Finding{
					Code:    report.CodeMetaFilePathNotFound,
					Message: fmt.Sprintf("'Meta File Path' file not found: %s.", animRef.MetaFilePath),
					Level:   report.LevelWarning,
					Cells:   cells,
				})
			}

			if animRef.SndFilePath != "" &&
				!sup.Ignored(global, "", report.CodeSndFilePathNotFound) &&
				!lookup.PathFound(animRef.SndFilePath) {
				diag.Add(report.Finding{
					Code:    report.CodeSndFilePathNotFound,
					Message: fmt.Sprintf("'Snd File Path' file not found: %s.", animRef.SndFilePath),
					Level:   report.LevelWarning,
					Cells:   cells,
				})
			}
		}
	}

	if diag.Empty() {
		return nil
	}

	return diag
}
