package types

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestGameFromKey(t *testing.T) {
	t.Parallel()

	game, ok := GameFromKey("warhammer_3")
	if !ok {
		t.Fatal("warhammer_3 must be registered")
	}

	if game.ExecutableName != "Warhammer3.exe" {
		t.Errorf("unexpected executable %q", game.ExecutableName)
	}

	if _, ok := GameFromKey("medieval_9"); ok {
		t.Fatal("unknown key reported as registered")
	}
}

func TestGameKeysSorted(t *testing.T) {
	t.Parallel()

	keys := GameKeys()
	if !slices.IsSorted(keys) {
		t.Fatalf("keys must come out sorted, got %v", keys)
	}

	if !slices.Contains(keys, "rome_2") {
		t.Fatalf("expected rome_2 in %v", keys)
	}
}

func TestExecutablePath(t *testing.T) {
	t.Parallel()

	game, _ := GameFromKey("troy")

	want := filepath.Join("/games/troy", "Troy.exe")
	if got := game.ExecutablePath("/games/troy"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestIsFileBanned(t *testing.T) {
	t.Parallel()

	game, _ := GameFromKey("warhammer_3")

	if !game.IsFileBanned("db/models_building_tables/my_models") {
		t.Error("banned family not detected")
	}

	if game.IsFileBanned("db/units_tables/my_units") {
		t.Error("regular family flagged as banned")
	}

	if game.IsFileBanned("models_building_tables") {
		t.Error("paths outside db/ are never banned")
	}
}
