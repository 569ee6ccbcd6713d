package script

import (
	"testing"

	"github.com/farcloser/scrutinium/internal/deps"
	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

func testEnv() *Env {
	pack := types.NewPack("mod.pack")
	pack.Insert(types.NewDecodedFile("db/units_tables/my_units", types.KindDB, &types.Table{
		Name: "units_tables",
		Definition: &types.Definition{Fields: []types.Field{
			{Name: "key", Type: types.FieldStringU8, IsKey: true},
		}},
		Rows: [][]string{{"spearmen"}, {"archers"}},
	}))

	return &Env{Pack: pack, Deps: deps.NewStore(nil)}
}

func scriptFile(contents string) *types.File {
	return types.NewDecodedFile("script/mod/setup.lua", types.KindText, &types.Text{Contents: contents})
}

func invalidKeys(diag *report.Diagnostic) []string {
	var out []string

	if diag == nil {
		return out
	}

	for _, finding := range diag.Findings {
		if finding.Code == report.CodeInvalidKey {
			out = append(out, finding.Message)
		}
	}

	return out
}

func TestSingleValue(t *testing.T) {
	t.Parallel()

	contents := "--@db units key\n" +
		`local unit = "spearmen"` + "\n" +
		"--@db units key\n" +
		`local bad = "ghost"` + "\n"

	keys := invalidKeys(Check(testEnv(), scriptFile(contents), ignore.Global{}, nil))

	if len(keys) != 1 {
		t.Fatalf("expected one invalid key, got %v", keys)
	}

	want := `Invalid Key: "ghost" is not in table "units_tables", column "key".`
	if keys[0] != want {
		t.Errorf("unexpected message %q", keys[0])
	}
}

func TestSingleLineTable(t *testing.T) {
	t.Parallel()

	contents := "--@db units key\n" +
		`local roster = { "spearmen", "phantom", "archers" }` + "\n"

	keys := invalidKeys(Check(testEnv(), scriptFile(contents), ignore.Global{}, nil))

	if len(keys) != 1 {
		t.Fatalf("expected only the unknown key, got %v", keys)
	}
}

func TestMultiLineKeyedTable(t *testing.T) {
	t.Parallel()

	contents := "--@db units key 0\n" +
		"local costs = {\n" +
		`    ["spearmen"] = 100,` + "\n" +
		`    ["wraith"] = 50,` + "\n" +
		"}\n"

	keys := invalidKeys(Check(testEnv(), scriptFile(contents), ignore.Global{}, nil))

	if len(keys) != 1 {
		t.Fatalf("expected only the unknown left-hand key, got %v", keys)
	}
}

func TestClosingLineCarriesEntry(t *testing.T) {
	t.Parallel()

	contents := "--@db units key\n" +
		"local roster = {\n" +
		`    "spearmen",` + "\n" +
		`    "revenant" }` + "\n"

	keys := invalidKeys(Check(testEnv(), scriptFile(contents), ignore.Global{}, nil))

	if len(keys) != 1 {
		t.Fatalf("expected the closing-line key to be checked, got %v", keys)
	}

	want := `Invalid Key: "revenant" is not in table "units_tables", column "key".`
	if keys[0] != want {
		t.Errorf("unexpected message %q", keys[0])
	}
}

func TestKeyedTableIndexSelection(t *testing.T) {
	t.Parallel()

	// Index 1 checks the right-hand side; the unknown left-hand key is not
	// selected and must pass.
	contents := "--@db units key 1\n" +
		"local upgrades = {\n" +
		`    ["anything"] = "spearmen",` + "\n" +
		`    ["whatever"] = "banshee",` + "\n" +
		"}\n"

	keys := invalidKeys(Check(testEnv(), scriptFile(contents), ignore.Global{}, nil))

	if len(keys) != 1 {
		t.Fatalf("expected only the unknown right-hand key, got %v", keys)
	}
}

func TestUnknownTableSkipped(t *testing.T) {
	t.Parallel()

	contents := "--@db ghosts key\n" +
		`local g = "anything"` + "\n"

	if diag := Check(testEnv(), scriptFile(contents), ignore.Global{}, nil); diag != nil {
		t.Fatalf("unknown tables must not produce findings, got %+v", diag.Findings)
	}
}

func TestAnnotationWithoutValueLine(t *testing.T) {
	t.Parallel()

	if diag := Check(testEnv(), scriptFile("--@db units key"), ignore.Global{}, nil); diag != nil {
		t.Fatalf("trailing annotation must be ignored, got %+v", diag.Findings)
	}
}

func TestTableSuffixNormalized(t *testing.T) {
	t.Parallel()

	contents := "--@db units_tables key\n" +
		`local unit = "spearmen"` + "\n"

	if diag := Check(testEnv(), scriptFile(contents), ignore.Global{}, nil); diag != nil {
		t.Fatalf("full table names must resolve too, got %+v", diag.Findings)
	}
}
