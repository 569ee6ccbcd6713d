// Package types holds the shared data model for pack archives: typed files,
// the in-memory container, schema definitions and reference data.
package types

// FileKind identifies the decoded format of a file inside a pack.
type FileKind uint8

const (
	KindUnknown FileKind = iota
	KindAnimFragmentBattle
	KindDB
	KindLoc
	KindPortraitSettings
	KindText
)

func (k FileKind) String() string {
	switch k {
	case KindAnimFragmentBattle:
		return "anim_fragment_battle"
	case KindDB:
		return "db"
	case KindLoc:
		return "loc"
	case KindPortraitSettings:
		return "portrait_settings"
	case KindText:
		return "text"
	case KindUnknown:
		return "unknown"
	}

	return "unknown"
}

// ParseFileKind converts a manifest kind string to a FileKind.
func ParseFileKind(s string) FileKind {
	switch s {
	case "anim_fragment_battle":
		return KindAnimFragmentBattle
	case "db":
		return KindDB
	case "loc":
		return KindLoc
	case "portrait_settings":
		return KindPortraitSettings
	case "text":
		return KindText
	default:
		return KindUnknown
	}
}

// IgnoreRule suppresses diagnostics for every file whose path starts with
// PathPrefix. With both lists empty the whole file is skipped; Fields limits
// the suppression to columns, Codes to diagnostic codes, and both together
// to those codes on those columns.
type IgnoreRule struct {
	PathPrefix string   `json:"path_prefix" toml:"path_prefix"`
	Fields     []string `json:"fields,omitempty" toml:"fields"`
	Codes      []string `json:"codes,omitempty" toml:"codes"`
}

// Settings are the per-pack options relevant to diagnostics.
type Settings struct {
	IgnoreRules []IgnoreRule `json:"ignore_rules,omitempty"`
}

// TableReferences holds the valid values for one reference column, plus the
// flags a checker needs to decide whether a mismatch is reportable.
type TableReferences struct {
	// Data maps each valid reference value to its localised lookup text
	// (empty string when the referenced column has no loc entry).
	Data map[string]string

	ReferencedColumnIsLocalised bool

	// LocKeyPrefix is the "<table>_<column>_" prefix loc keys for referenced
	// values are built with. Only set when the column is localised.
	LocKeyPrefix string

	// ReferencedTableIsAKOnly marks tables only present in the assembly kit
	// data; mismatches there are reported only on request.
	ReferencedTableIsAKOnly bool
}
