package scrutinium

import (
	"encoding/json"
	"fmt"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/scrutinium/report"
)

/*
Usage:

diags := scrutinium.New()
diags.CodesIgnored = []string{"TableIsDataCoring"}

err := diags.Check(ctx, scrutinium.Request{
    Pack:     pack,
    Deps:     store,
    Schema:   schema,
    Game:     game,
    GamePath: "/games/warhammer_3",
})

for _, diag := range diags.Results {
    fmt.Printf("[%s] %s: %s\n", diag.Level(), diag.Path, diag.Message())
}

// Partial re-check, reusing previous results for untouched files.
err = diags.Check(ctx, scrutinium.Request{
    Pack:         pack,
    Deps:         store,
    Schema:       schema,
    Game:         game,
    GamePath:     "/games/warhammer_3",
    PathsToCheck: []string{"db/land_units_tables/my_units"},
})
*/

// Diagnostics holds the suppression configuration of a session and the
// results of its last check. The ignore lists apply session-wide; per-file
// rules live in the pack's own settings.
type Diagnostics struct {
	// FoldersIgnored and FilesIgnored skip whole paths.
	FoldersIgnored []string `json:"folders_ignored"`
	FilesIgnored   []string `json:"files_ignored"`

	// FieldsIgnored drops findings on the named table columns everywhere.
	FieldsIgnored []string `json:"fields_ignored"`

	// CodesIgnored drops findings with the named codes everywhere.
	CodesIgnored []string `json:"diagnostics_ignored"`

	// Results is the flat record list of the last check, sorted by path
	// with pathless records last.
	Results []*report.Diagnostic `json:"results"`
}

// New creates an empty diagnostics session.
func New() *Diagnostics {
	return &Diagnostics{}
}

// JSON serializes the session, configuration and results included.
func (d *Diagnostics) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return data, nil
}

// FromJSON restores a session serialized with JSON.
func FromJSON(data []byte) (*Diagnostics, error) {
	diags := New()
	if err := json.Unmarshal(data, diags); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return diags, nil
}
