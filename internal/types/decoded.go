package types

// Decoded is the payload of a successfully decoded file. The concrete type
// matches the file's kind.
type Decoded interface {
	isDecoded()
}

// Table is a decoded DB table fragment.
type Table struct {
	// Name is the table family folder name, e.g. "land_units_tables".
	Name       string
	Definition *Definition
	// Rows hold the cell data rendered to strings, one slice per row,
	// indexed by column position in the definition.
	Rows [][]string
}

func (*Table) isDecoded() {}

// ShortName returns the family name without the "_tables" suffix.
func (t *Table) ShortName() string {
	return TableShortName(t.Name)
}

// LocRow is one localization entry.
type LocRow struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Loc is a decoded localization table fragment.
type Loc struct {
	Rows []LocRow
}

func (*Loc) isDecoded() {}

// Text is a decoded plain-text or script file.
type Text struct {
	Contents string
}

func (*Text) isDecoded() {}

// PortraitVariant is one rendered variant of a portrait art set.
type PortraitVariant struct {
	Filename    string `json:"filename"`
	FileDiffuse string `json:"file_diffuse,omitempty"`
	FileMask1   string `json:"file_mask_1,omitempty"`
	FileMask2   string `json:"file_mask_2,omitempty"`
	FileMask3   string `json:"file_mask_3,omitempty"`
}

// PortraitEntry configures the portraits of one art set.
type PortraitEntry struct {
	ID       string            `json:"id"`
	Variants []PortraitVariant `json:"variants,omitempty"`
}

// PortraitSettings is a decoded portrait-settings file.
type PortraitSettings struct {
	Entries []PortraitEntry
}

func (*PortraitSettings) isDecoded() {}

// AnimRef is one animation reference inside a fragment entry.
type AnimRef struct {
	FilePath     string `json:"file_path,omitempty"`
	MetaFilePath string `json:"meta_file_path,omitempty"`
	SndFilePath  string `json:"snd_file_path,omitempty"`
}

// AnimFragmentEntry is one row of a battle animation fragment.
type AnimFragmentEntry struct {
	AnimRefs []AnimRef `json:"anim_refs,omitempty"`
}

// AnimFragmentBattle is a decoded battle animation fragment descriptor.
type AnimFragmentBattle struct {
	Skeleton        string
	LocomotionGraph string
	Entries         []AnimFragmentEntry
}

func (*AnimFragmentBattle) isDecoded() {}
