package deps

import (
	"errors"
	"testing"

	"github.com/farcloser/scrutinium/internal/types"
)

func factionsDef() *types.Definition {
	return &types.Definition{Version: 1, Fields: []types.Field{
		{Name: "key", Type: types.FieldStringU8, IsKey: true},
	}}
}

func testVanilla() *types.Pack {
	vanilla := types.NewPack("vanilla.pack")
	vanilla.Insert(types.NewDecodedFile("db/factions_tables/data__", types.KindDB, &types.Table{
		Name:       "factions_tables",
		Definition: factionsDef(),
		Rows:       [][]string{{"emp"}, {"dwf"}},
	}))
	vanilla.Insert(types.NewDecodedFile("UI/Icons/Emp.png", types.KindUnknown, nil))

	return vanilla
}

func testSchema() *types.Schema {
	schema := types.NewSchema(nil)
	schema.AddDefinition("factions_tables", factionsDef())
	schema.AddDefinition("units_tables", &types.Definition{Version: 1, Fields: []types.Field{
		{Name: "key", Type: types.FieldStringU8, IsKey: true},
		{Name: "faction", Type: types.FieldStringU8, IsReference: &types.Reference{Table: "factions", Column: "key"}},
	}})

	return schema
}

func TestTableReferenceData(t *testing.T) {
	t.Parallel()

	store := NewStore(testVanilla())
	schema := testSchema()

	def, _ := schema.Definition("units_tables")
	table := &types.Table{Name: "units_tables", Definition: def}

	refs := store.TableReferenceData(schema, nil, table, nil)

	faction, ok := refs[1]
	if !ok {
		t.Fatal("reference column not resolved")
	}

	if _, ok := faction.Data["emp"]; !ok {
		t.Error("vanilla value missing from reference data")
	}

	if faction.ReferencedColumnIsLocalised {
		t.Error("factions key is not localised")
	}

	if _, ok := refs[0]; ok {
		t.Error("non-reference column resolved")
	}
}

func TestTableReferenceDataLocalised(t *testing.T) {
	t.Parallel()

	store := NewStore(testVanilla())

	schema := types.NewSchema(nil)
	schema.AddDefinition("factions_tables", &types.Definition{Version: 1, Fields: []types.Field{
		{Name: "key", Type: types.FieldStringU8, IsKey: true, IsLocalised: true},
	}})

	def := &types.Definition{Fields: []types.Field{
		{Name: "faction", Type: types.FieldStringU8, IsReference: &types.Reference{Table: "factions", Column: "key"}},
	}}
	table := &types.Table{Name: "units_tables", Definition: def}

	locLookup := map[string]string{"factions_key_emp": "The Empire"}
	refs := store.TableReferenceData(schema, nil, table, locLookup)

	faction := refs[0]
	if faction == nil || !faction.ReferencedColumnIsLocalised {
		t.Fatal("localised reference column not detected")
	}

	if faction.LocKeyPrefix != "factions_key_" {
		t.Fatalf("unexpected loc key prefix %q", faction.LocKeyPrefix)
	}

	if faction.Data["emp"] != "The Empire" {
		t.Errorf("loc text not resolved, got %q", faction.Data["emp"])
	}

	if faction.Data["dwf"] != "" {
		t.Errorf("missing loc entry must resolve empty, got %q", faction.Data["dwf"])
	}
}

func TestTableReferenceDataMissingTable(t *testing.T) {
	t.Parallel()

	store := NewStore(testVanilla())

	def := &types.Definition{Fields: []types.Field{
		{Name: "mount", Type: types.FieldStringU8, IsReference: &types.Reference{Table: "mounts", Column: "key"}},
	}}
	table := &types.Table{Name: "units_tables", Definition: def}

	refs := store.TableReferenceData(types.NewSchema(nil), nil, table, nil)
	if _, ok := refs[0]; ok {
		t.Fatal("reference into an absent table must stay unresolved")
	}

	store.MarkAKOnly("mounts_tables")

	refs = store.TableReferenceData(types.NewSchema(nil), nil, table, nil)

	mount, ok := refs[0]
	if !ok || !mount.ReferencedTableIsAKOnly {
		t.Fatal("assembly-kit-only table must resolve with the flag set")
	}
}

func TestGenerateLocalTableReferences(t *testing.T) {
	t.Parallel()

	store := NewStore(testVanilla())

	pack := types.NewPack("mod.pack")
	pack.Insert(types.NewDecodedFile("db/factions_tables/my_factions", types.KindDB, &types.Table{
		Name:       "factions_tables",
		Definition: factionsDef(),
		Rows:       [][]string{{"vmp"}},
	}))

	if files := store.TableFiles(nil, "factions", true, true); len(files) != 1 {
		t.Fatalf("expected vanilla only before regeneration, got %d files", len(files))
	}

	store.GenerateLocalTableReferences(nil, pack, nil)

	files := store.TableFiles(nil, "factions", true, true)
	if len(files) != 2 {
		t.Fatalf("expected local and vanilla fragments, got %d", len(files))
	}

	if files[0].Path() != "db/factions_tables/my_factions" {
		t.Errorf("local fragments must come first, got %q", files[0].Path())
	}
}

func TestLookupValues(t *testing.T) {
	t.Parallel()

	store := NewStore(testVanilla())

	pack := types.NewPack("mod.pack")
	pack.Insert(types.NewDecodedFile("db/factions_tables/my_factions", types.KindDB, &types.Table{
		Name:       "factions_tables",
		Definition: factionsDef(),
		Rows:       [][]string{{"vmp"}, {""}},
	}))

	values := store.LookupValues(pack, "factions", "key", true, true)

	for _, want := range []string{"emp", "dwf", "vmp"} {
		if _, ok := values[want]; !ok {
			t.Errorf("expected %q in lookup values", want)
		}
	}

	if _, ok := values[""]; ok {
		t.Error("empty cells must not land in lookup values")
	}

	vanillaOnly := store.LookupValues(pack, "factions", "key", false, true)
	if _, ok := vanillaOnly["vmp"]; ok {
		t.Error("local value leaked into a vanilla-only lookup")
	}
}

func TestPathLookupsFoldCase(t *testing.T) {
	t.Parallel()

	store := NewStore(testVanilla())

	if !store.FileExists("ui/icons/emp.png") {
		t.Error("file lookups must be case-insensitive")
	}

	if !store.FolderExists("ui/icons") {
		t.Error("folder lookups must be case-insensitive")
	}

	if store.FileExists("ui/icons/missing.png") {
		t.Error("absent path reported as existing")
	}
}

func TestNeedsUpdating(t *testing.T) {
	t.Parallel()

	store := NewStore(testVanilla())

	outdated, err := store.NeedsUpdating(nil, "")
	if err != nil || outdated {
		t.Fatalf("fresh store must be up to date, got %v / %v", outdated, err)
	}

	store.MarkOutdated()

	if outdated, _ := store.NeedsUpdating(nil, ""); !outdated {
		t.Fatal("marked store must report stale")
	}

	fail := errors.New("disk gone")
	store.SetLoadError(fail)

	if _, err := store.NeedsUpdating(nil, ""); !errors.Is(err, fail) {
		t.Fatalf("load errors must surface, got %v", err)
	}
}

func TestVanillaDataFlags(t *testing.T) {
	t.Parallel()

	empty := NewStore(nil)
	if empty.IsVanillaDataLoaded() {
		t.Error("nil vanilla means no cache")
	}

	store := NewStore(testVanilla())
	if !store.IsVanillaDataLoaded() {
		t.Error("vanilla pack means the cache is loaded")
	}

	if store.IsAKDataLoaded() {
		t.Error("assembly kit data off by default")
	}

	store.SetAKDataLoaded()

	if !store.IsAKDataLoaded() {
		t.Error("assembly kit flag not retained")
	}
}
