package types

import "strings"

// FieldType enumerates the cell types a table column may carry.
type FieldType uint8

const (
	FieldBoolean FieldType = iota
	FieldF32
	FieldF64
	FieldI16
	FieldI32
	FieldI64
	FieldOptionalI32
	FieldOptionalI64
	FieldStringU8
	FieldStringU16
	FieldOptionalStringU8
	FieldOptionalStringU16
	FieldColourRGB
)

func (t FieldType) String() string {
	switch t {
	case FieldBoolean:
		return "boolean"
	case FieldF32:
		return "f32"
	case FieldF64:
		return "f64"
	case FieldI16:
		return "i16"
	case FieldI32:
		return "i32"
	case FieldI64:
		return "i64"
	case FieldOptionalI32:
		return "optional_i32"
	case FieldOptionalI64:
		return "optional_i64"
	case FieldStringU8:
		return "string_u8"
	case FieldStringU16:
		return "string_u16"
	case FieldOptionalStringU8:
		return "optional_string_u8"
	case FieldOptionalStringU16:
		return "optional_string_u16"
	case FieldColourRGB:
		return "colour_rgb"
	}

	return "unknown"
}

// ParseFieldType converts a manifest type string to a FieldType.
// Unknown strings decode as string_u8, the most permissive cell type.
func ParseFieldType(s string) FieldType {
	switch s {
	case "boolean":
		return FieldBoolean
	case "f32":
		return FieldF32
	case "f64":
		return FieldF64
	case "i16":
		return FieldI16
	case "i32":
		return FieldI32
	case "i64":
		return FieldI64
	case "optional_i32":
		return FieldOptionalI32
	case "optional_i64":
		return FieldOptionalI64
	case "string_u16":
		return FieldStringU16
	case "optional_string_u8":
		return FieldOptionalStringU8
	case "optional_string_u16":
		return FieldOptionalStringU16
	case "colour_rgb":
		return FieldColourRGB
	default:
		return FieldStringU8
	}
}

// IsInteger reports whether cells of this type hold whole numbers, where "0"
// is an empty reference rather than a real value.
func (t FieldType) IsInteger() bool {
	switch t {
	case FieldI16, FieldI32, FieldI64, FieldOptionalI32, FieldOptionalI64:
		return true
	default:
		return false
	}
}

// Reference points a column at another table's column.
type Reference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Field describes one column of a table definition.
type Field struct {
	Name                 string     `json:"name"`
	Type                 FieldType  `json:"-"`
	IsKey                bool       `json:"is_key,omitempty"`
	IsReference          *Reference `json:"is_reference,omitempty"`
	IsFilename           bool       `json:"is_filename,omitempty"`
	FilenameRelativePath string     `json:"filename_relative_path,omitempty"`
	CannotBeEmpty        bool       `json:"cannot_be_empty,omitempty"`
	IsLocalised          bool       `json:"is_localised,omitempty"`
}

// Definition is the versioned column layout of one table family.
type Definition struct {
	Version int     `json:"version"`
	Fields  []Field `json:"fields"`
}

// KeyFieldCount returns how many columns are part of the combined key.
func (d *Definition) KeyFieldCount() int {
	count := 0

	for i := range d.Fields {
		if d.Fields[i].IsKey {
			count++
		}
	}

	return count
}

// ColumnByName returns the position of the named column.
func (d *Definition) ColumnByName(name string) (int, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return i, true
		}
	}

	return 0, false
}

// Schema maps table family names (the "db/<family>/" folder names) to their
// current definitions.
type Schema struct {
	definitions map[string]*Definition
}

// NewSchema builds a schema from a definition map.
func NewSchema(definitions map[string]*Definition) *Schema {
	if definitions == nil {
		definitions = map[string]*Definition{}
	}

	return &Schema{definitions: definitions}
}

// Definition returns the definition for a table family, if known.
func (s *Schema) Definition(tableName string) (*Definition, bool) {
	def, ok := s.definitions[tableName]

	return def, ok
}

// AddDefinition registers (or replaces) a table family definition.
func (s *Schema) AddDefinition(tableName string, def *Definition) {
	s.definitions[tableName] = def
}

// TableShortName strips the "_tables" suffix from a table family name,
// giving the prefix used in loc keys.
func TableShortName(tableName string) string {
	return strings.TrimSuffix(tableName, "_tables")
}
