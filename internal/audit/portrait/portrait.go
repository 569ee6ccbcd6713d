// Package portrait checks portrait settings files against the art sets and
// variants defined in the pack's tables.
package portrait

import (
	"fmt"

	"github.com/farcloser/scrutinium/internal/audit/shared"
	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

// Env carries the lookup sets a portrait check validates against. ArtSetIDs
// and VariantFilenames are built once per run from the relevant table
// columns, across the pack and the dependency data.
type Env struct {
	ArtSetIDs        map[string]struct{}
	VariantFilenames map[string]struct{}
	Lookup           *shared.Lookup
}

// Check validates one decoded portrait settings file.
func Check(env *Env, file *types.File, global ignore.Global, sup *ignore.Suppression) *report.Diagnostic {
	if sup == nil {
		sup = &ignore.Suppression{}
	}

	decoded, err := file.Decoded()
	if err != nil {
		return nil
	}

	settings, ok := decoded.(*types.PortraitSettings)
	if !ok {
		return nil
	}

	diag := report.New(report.KindPortraitSettings, file.Path())

	// A file with the same path in the game data overrides it wholesale.
	if !sup.Ignored(global, "", report.CodeDatacoredPortraitSettings) &&
		env.Lookup.Deps != nil && env.Lookup.Deps.FileExists(file.Path()) {
		diag.Add(report.Finding{
			Code:    report.CodeDatacoredPortraitSettings,
			Message: "Datacored Portrait Settings file.",
			Level:   report.LevelWarning,
		})
	}

	for entry := range settings.Entries {
		artSet := &settings.Entries[entry]

		if _, found := env.ArtSetIDs[artSet.ID]; !found &&
			!sup.Ignored(global, "", report.CodeInvalidArtSetID) {
			diag.Add(report.Finding{
				Code:    report.CodeInvalidArtSetID,
				Message: fmt.Sprintf("Invalid Art Set Id '%s' in Portrait Settings file.", artSet.ID),
				Level:   report.LevelWarning,
			})
		}

		for variant := range artSet.Variants {
			item := &artSet.Variants[variant]

			if _, found := env.VariantFilenames[item.Filename]; !found &&
				!sup.Ignored(global, "", report.CodeInvalidVariantFilename) {
				diag.Add(report.Finding{
					Code:    report.CodeInvalidVariantFilename,
					Message: fmt.Sprintf("Invalid Variant Filename '%s' for Art Set Id '%s'.", item.Filename, artSet.ID),
					Level:   report.LevelWarning,
				})
			}

			if item.FileDiffuse != "" &&
				!sup.Ignored(global, "", report.CodeFileDiffuseNotFoundForVariant) &&
				!env.Lookup.PathFound(item.FileDiffuse) {
				diag.Add(report.Finding{
					Code: report.CodeFileDiffuseNotFoundForVariant,
					Message: fmt.Sprintf("File not found for Art Set Id '%s', Variant Filename '%s', File Diffuse '%s'.",
						artSet.ID, item.Filename, item.FileDiffuse),
					Level: report.LevelWarning,
				})
			}
		}
	}

	if diag.Empty() {
		return nil
	}

	return diag
}
