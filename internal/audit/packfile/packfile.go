// Package packfile checks the pack container itself.
package packfile

import (
	"fmt"
	"strings"

	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

// Check validates the pack's on-disk name. Spaces break the game's mod
// loader, so they are reported as an error on the container.
func Check(pack *types.Pack) *report.Diagnostic {
	diag := report.New(report.KindPack, "")

	if name := pack.DiskFileName(); strings.Contains(name, " ") {
		diag.Add(report.Finding{
			Code:    report.CodeInvalidPackName,
			Message: fmt.Sprintf("Invalid Pack name: %s", name),
			Level:   report.LevelError,
		})
	}

	if diag.Empty() {
		return nil
	}

	return diag
}
