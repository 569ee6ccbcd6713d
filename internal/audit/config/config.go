// Package config checks the session setup itself: the game install path and
// the state of the dependency cache. Its findings are never suppressible,
// as they explain why other checks could not run.
package config

import (
	"os"

	"github.com/farcloser/scrutinium/internal/deps"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

// Check validates the game path and the dependency cache. A non-nil result
// means dependency-backed checks cannot be trusted for this run.
func Check(provider deps.Provider, game *types.GameInfo, gamePath string) *report.Diagnostic {
	diag := report.New(report.KindConfig, "")

	exe, err := os.Stat(game.ExecutablePath(gamePath))
	if err != nil || exe.IsDir() {
		diag.Add(report.Finding{
			Code:    report.CodeIncorrectGamePath,
			Message: "Game Path for the current Game Selected is incorrect.",
			Level:   report.LevelError,
		})
	} else if !provider.IsVanillaDataLoaded() {
		diag.Add(report.Finding{
			Code:    report.CodeDependenciesCacheNotGenerated,
			Message: "Dependency Cache not generated for the currently selected game.",
			Level:   report.LevelError,
		})
	} else if outdated, updErr := provider.NeedsUpdating(game, gamePath); updErr != nil {
		diag.Add(report.Finding{
			Code:    report.CodeDependenciesCacheCouldNotBeLoaded,
			Message: "Dependency Cache couldn't be loaded for the game selected, due to errors reading the game's folder.",
			Level:   report.LevelError,
		})
	} else if outdated {
		diag.Add(report.Finding{
			Code:    report.CodeDependenciesCacheOutdated,
			Message: "Dependency Cache for the selected game is outdated and could not be loaded.",
			Level:   report.LevelError,
		})
	}

	if diag.Empty() {
		return nil
	}

	return diag
}
