// Package depsmgr checks the pack's declared dependency list.
package depsmgr

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

// Check validates every declared dependency pack name.
func Check(pack *types.Pack) *report.Diagnostic {
	diag := report.New(report.KindDependency, "")

	for index, name := range pack.Dependencies() {
		if name == "" || !strings.HasSuffix(name, ".pack") || strings.Contains(name, " ") {
			diag.Add(report.Finding{
				Code:    report.CodeInvalidDependencyPackName,
				Message: fmt.Sprintf("Invalid dependency Pack name: %s", name),
				Level:   report.LevelError,
				Cells:   []report.Position{{Row: safecast.MustConvert[int32](index), Column: 0}},
			})
		}
	}

	if diag.Empty() {
		return nil
	}

	return diag
}
