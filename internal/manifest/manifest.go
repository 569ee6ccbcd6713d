// Package manifest loads a check session from a JSON document: the pack's
// decoded contents, the schema and the dependency data. Binary pack
// decoding belongs to external tooling; the manifest is the hand-off
// format between it and the checks.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/scrutinium/internal/deps"
	"github.com/farcloser/scrutinium/internal/types"
)

// Document is the manifest wire format.
type Document struct {
	Pack    *PackDoc                  `json:"pack"`
	Vanilla *PackDoc                  `json:"vanilla,omitempty"`
	Schema  map[string]*DefinitionDoc `json:"schema,omitempty"`

	// AKOnlyTables lists table families that only exist in the assembly
	// kit data.
	AKOnlyTables []string `json:"ak_only_tables,omitempty"`

	// AKDataLoaded marks assembly kit data as available.
	AKDataLoaded bool `json:"ak_data_loaded,omitempty"`

	// DependenciesOutdated marks the dependency data as stale relative to
	// the game install.
	DependenciesOutdated bool `json:"dependencies_outdated,omitempty"`
}

// PackDoc describes one pack, checked or vanilla.
type PackDoc struct {
	Name         string         `json:"name"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Settings     types.Settings `json:"settings,omitempty"`
	Files        []FileDoc      `json:"files"`
}

// FileDoc describes one file. Exactly the payload matching Kind must be
// set; "text" kinds carry their contents inline, and unrecognized kinds
// are carried as bare paths for existence lookups.
type FileDoc struct {
	Path             string        `json:"path"`
	Kind             string        `json:"kind"`
	Table            *TableDoc     `json:"table,omitempty"`
	Loc              *LocDoc       `json:"loc,omitempty"`
	Text             string        `json:"text,omitempty"`
	AnimFragment     *AnimFragDoc  `json:"anim_fragment,omitempty"`
	PortraitSettings *PortraitsDoc `json:"portrait_settings,omitempty"`
}

// TableDoc is a decoded DB table fragment. Name defaults to the family
// folder of the path; Version defaults to the schema's.
type TableDoc struct {
	Name    string     `json:"name,omitempty"`
	Version *int       `json:"version,omitempty"`
	Rows    [][]string `json:"rows"`
}

// LocDoc is a decoded localization file.
type LocDoc struct {
	Rows []LocRowDoc `json:"rows"`
}

type LocRowDoc struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// AnimFragDoc is a decoded battle animation fragment.
type AnimFragDoc struct {
	Skeleton        string         `json:"skeleton,omitempty"`
	LocomotionGraph string         `json:"locomotion_graph,omitempty"`
	Entries         []AnimEntryDoc `json:"entries,omitempty"`
}

type AnimEntryDoc struct {
	AnimRefs []AnimRefDoc `json:"anim_refs,omitempty"`
}

type AnimRefDoc struct {
	FilePath     string `json:"file_path,omitempty"`
	MetaFilePath string `json:"meta_file_path,omitempty"`
	SndFilePath  string `json:"snd_file_path,omitempty"`
}

// PortraitsDoc is a decoded portrait settings file.
type PortraitsDoc struct {
	Entries []PortraitEntryDoc `json:"entries"`
}

type PortraitEntryDoc struct {
	ID       string               `json:"id"`
	Variants []PortraitVariantDoc `json:"variants,omitempty"`
}

type PortraitVariantDoc struct {
	Filename    string `json:"filename"`
	FileDiffuse string `json:"file_diffuse,omitempty"`
	FileMask1   string `json:"file_mask_1,omitempty"`
	FileMask2   string `json:"file_mask_2,omitempty"`
	FileMask3   string `json:"file_mask_3,omitempty"`
}

// DefinitionDoc is one table family's column layout.
type DefinitionDoc struct {
	Version int        `json:"version"`
	Fields  []FieldDoc `json:"fields"`
}

type FieldDoc struct {
	Name                 string           `json:"name"`
	Type                 string           `json:"type,omitempty"`
	IsKey                bool             `json:"is_key,omitempty"`
	IsReference          *types.Reference `json:"is_reference,omitempty"`
	IsFilename           bool             `json:"is_filename,omitempty"`
	FilenameRelativePath string           `json:"filename_relative_path,omitempty"`
	CannotBeEmpty        bool             `json:"cannot_be_empty,omitempty"`
	IsLocalised          bool             `json:"is_localised,omitempty"`
}

// Session is a fully-built check session.
type Session struct {
	Pack   *types.Pack
	Store  *deps.Store
	Schema *types.Schema
}

// Load reads and parses a manifest file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return Parse(data)
}

// Parse builds a session from manifest bytes.
func Parse(data []byte) (*Session, error) {
	var doc Document

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	if doc.Pack == nil {
		return nil, fmt.Errorf("%w: manifest has no pack", fault.ErrMissingRequirements)
	}

	schema := buildSchema(doc.Schema)

	pack, err := buildPack(doc.Pack, schema)
	if err != nil {
		return nil, err
	}

	var vanilla *types.Pack

	if doc.Vanilla != nil {
		vanilla, err = buildPack(doc.Vanilla, schema)
		if err != nil {
			return nil, err
		}
	}

	store := deps.NewStore(vanilla)

	for _, tableName := range doc.AKOnlyTables {
		store.MarkAKOnly(tableName)
	}

	if doc.AKDataLoaded {
		store.SetAKDataLoaded()
	}

	if doc.DependenciesOutdated {
		store.MarkOutdated()
	}

	return &Session{Pack: pack, Store: store, Schema: schema}, nil
}

func buildSchema(docs map[string]*DefinitionDoc) *types.Schema {
	schema := types.NewSchema(nil)

	for tableName, doc := range docs {
		def := &types.Definition{Version: doc.Version, Fields: make([]types.Field, 0, len(doc.Fields))}

		for _, field := range doc.Fields {
			def.Fields = append(def.Fields, types.Field{
				Name:                 field.Name,
				Type:                 types.ParseFieldType(field.Type),
				IsKey:                field.IsKey,
				IsReference:          field.IsReference,
				IsFilename:           field.IsFilename,
				FilenameRelativePath: field.FilenameRelativePath,
				CannotBeEmpty:        field.CannotBeEmpty,
				IsLocalised:          field.IsLocalised,
			})
		}

		schema.AddDefinition(tableName, def)
	}

	return schema
}

func buildPack(doc *PackDoc, schema *types.Schema) (*types.Pack, error) {
	pack := types.NewPack(doc.Name)
	pack.SetSettings(doc.Settings)

	for _, dependency := range doc.Dependencies {
		pack.AddDependency(dependency)
	}

	for i := range doc.Files {
		file, err := buildFile(&doc.Files[i], schema)
		if err != nil {
			return nil, err
		}

		pack.Insert(file)
	}

	return pack, nil
}

//nolint:cyclop // one branch per file kind
func buildFile(doc *FileDoc, schema *types.Schema) (*types.File, error) {
	kind := types.ParseFileKind(doc.Kind)

	var decoded types.Decoded

	switch kind {
	case types.KindDB:
		if doc.Table == nil {
			return nil, payloadError(doc, "table")
		}

		table, err := buildTable(doc, schema)
		if err != nil {
			return nil, err
		}

		decoded = table

	case types.KindLoc:
		if doc.Loc == nil {
			return nil, payloadError(doc, "loc")
		}

		rows := make([]types.LocRow, 0, len(doc.Loc.Rows))
		for _, row := range doc.Loc.Rows {
			rows = append(rows, types.LocRow{Key: row.Key, Text: row.Text})
		}

		decoded = &types.Loc{Rows: rows}

	case types.KindText:
		decoded = &types.Text{Contents: doc.Text}

	case types.KindAnimFragmentBattle:
		if doc.AnimFragment == nil {
			return nil, payloadError(doc, "anim_fragment")
		}

		decoded = buildAnimFragment(doc.AnimFragment)

	case types.KindPortraitSettings:
		if doc.PortraitSettings == nil {
			return nil, payloadError(doc, "portrait_settings")
		}

		decoded = buildPortraits(doc.PortraitSettings)

	case types.KindUnknown:
		// Packs carry plenty of files the checks never decode (textures,
		// models, animation binaries). They still count for path lookups.
		decoded = nil
	}

	return types.NewDecodedFile(doc.Path, kind, decoded), nil
}

func buildTable(doc *FileDoc, schema *types.Schema) (*types.Table, error) {
	name := doc.Table.Name

	if name == "" {
		segments := strings.Split(doc.Path, "/")
		if len(segments) < 3 || segments[0] != "db" {
			return nil, fmt.Errorf("%w: table file %q has no family name", fault.ErrInvalidJSON, doc.Path)
		}

		name = segments[1]
	}

	def := &types.Definition{}
	if known, ok := schema.Definition(name); ok {
		clone := *known
		def = &clone
	}

	if doc.Table.Version != nil {
		def.Version = *doc.Table.Version
	}

	return &types.Table{Name: name, Definition: def, Rows: doc.Table.Rows}, nil
}

func buildAnimFragment(doc *AnimFragDoc) *types.AnimFragmentBattle {
	fragment := &types.AnimFragmentBattle{
		Skeleton:        doc.Skeleton,
		LocomotionGraph: doc.LocomotionGraph,
	}

	for _, entry := range doc.Entries {
		refs := make([]types.AnimRef, 0, len(entry.AnimRefs))
		for _, ref := range entry.AnimRefs {
			refs = append(refs, types.AnimRef{
				FilePath:     ref.FilePath,
				MetaFilePath: ref.MetaFilePath,
				SndFilePath:  ref.SndFilePath,
			})
		}

		fragment.Entries = append(fragment.Entries, types.AnimFragmentEntry{AnimRefs: refs})
	}

	return fragment
}

func buildPortraits(doc *PortraitsDoc) *types.PortraitSettings {
	settings := &types.PortraitSettings{}

	for _, entry := range doc.Entries {
		variants := make([]types.PortraitVariant, 0, len(entry.Variants))
		for _, variant := range entry.Variants {
			variants = append(variants, types.PortraitVariant{
				Filename:    variant.Filename,
				FileDiffuse: variant.FileDiffuse,
				FileMask1:   variant.FileMask1,
				FileMask2:   variant.FileMask2,
				FileMask3:   variant.FileMask3,
			})
		}

		settings.Entries = append(settings.Entries, types.PortraitEntry{ID: entry.ID, Variants: variants})
	}

	return settings
}

func payloadError(doc *FileDoc, payload string) error {
	return fmt.Errorf("%w: file %q (kind %q) has no %s payload", fault.ErrInvalidJSON, doc.Path, doc.Kind, payload)
}
