// Package report defines the diagnostic record model: a closed set of record
// kinds, severity levels, and the findings each checker attaches to a record.
// Records are immutable value types once their checker returns them.
package report

import (
	"fmt"
)

// Level is the severity of a finding.
type Level int8

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}

	return "unknown"
}

// MarshalText keeps levels stable as strings in the JSON snapshot.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a level from its string form.
func (l *Level) UnmarshalText(data []byte) error {
	switch string(data) {
	case "info":
		*l = LevelInfo
	case "warning":
		*l = LevelWarning
	case "error":
		*l = LevelError
	default:
		return fmt.Errorf("unknown diagnostic level %q", string(data))
	}

	return nil
}

// Kind identifies which subsystem produced a diagnostic record.
type Kind uint8

const (
	KindAnimFragmentBattle Kind = iota
	KindConfig
	KindDependency
	KindDB
	KindLoc
	KindPack
	KindPortraitSettings
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindAnimFragmentBattle:
		return "anim_fragment_battle"
	case KindConfig:
		return "config"
	case KindDependency:
		return "dependency_manager"
	case KindDB:
		return "db"
	case KindLoc:
		return "loc"
	case KindPack:
		return "pack"
	case KindPortraitSettings:
		return "portrait_settings"
	case KindText:
		return "text"
	}

	return "unknown"
}

// MarshalText keeps kinds stable as strings in the JSON snapshot.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind from its string form.
func (k *Kind) UnmarshalText(data []byte) error {
	kinds := []Kind{
		KindAnimFragmentBattle, KindConfig, KindDependency, KindDB,
		KindLoc, KindPack, KindPortraitSettings, KindText,
	}

	for _, kind := range kinds {
		if kind.String() == string(data) {
			*k = kind

			return nil
		}
	}

	return fmt.Errorf("unknown diagnostic kind %q", string(data))
}

// EntireSpan marks a position coordinate covering a full row or column;
// a cell with both coordinates set to it affects the entire table.
const EntireSpan int32 = -1

// Position is a (row, column) cell coordinate inside a table-like file.
type Position struct {
	Row    int32 `json:"row"`
	Column int32 `json:"column"`
}

// Finding is one sub-result inside a diagnostic record.
type Finding struct {
	// Code is the stable identifier used for suppression matching,
	// e.g. "InvalidReference".
	Code string `json:"code"`

	Message string `json:"message"`
	Level   Level  `json:"level"`

	// Field names the column the finding refers to, when it refers to one.
	Field string `json:"field,omitempty"`

	// Cells lists the affected coordinates, with EntireSpan sentinels for
	// whole rows, columns or tables.
	Cells []Position `json:"cells_affected,omitempty"`
}

// Diagnostic is one record of the result list: a kind, the path of the file
// it refers to (empty for pack-wide and config findings), and its findings.
type Diagnostic struct {
	Kind     Kind      `json:"kind"`
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
}

// New creates an empty record for a kind and path.
func New(kind Kind, path string) *Diagnostic {
	return &Diagnostic{Kind: kind, Path: path}
}

// Add appends a finding.
func (d *Diagnostic) Add(finding Finding) {
	d.Findings = append(d.Findings, finding)
}

// Empty reports whether the record carries no findings.
func (d *Diagnostic) Empty() bool {
	return len(d.Findings) == 0
}

// Level returns the maximum severity across the record's findings.
func (d *Diagnostic) Level() Level {
	level := LevelInfo

	for i := range d.Findings {
		if d.Findings[i].Level > level {
			level = d.Findings[i].Level
		}
	}

	return level
}

// Message renders a one-line summary of the record.
func (d *Diagnostic) Message() string {
	subject := d.Path
	if subject == "" {
		subject = d.Kind.String()
	}

	if len(d.Findings) == 1 {
		return fmt.Sprintf("%s: %s", subject, d.Findings[0].Message)
	}

	return fmt.Sprintf("%s: %d findings (worst: %s)", subject, len(d.Findings), d.Level())
}
