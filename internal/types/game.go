package types

import (
	"path/filepath"
	"slices"
	"strings"
)

// GameInfo describes the game a pack targets: the executable used to verify
// the install path, the tables the game refuses to load from mods, and how
// vanilla names its table files (which decides the datacoring check).
type GameInfo struct {
	Key            string
	DisplayName    string
	ExecutableName string
	BannedTables   []string

	// DefaultTableName is the file name vanilla uses for every table
	// ("data__" era games). Empty means vanilla names the file after the
	// table folder instead.
	DefaultTableName string
}

// ExecutablePath returns the expected path of the game executable under the
// given install path.
func (g *GameInfo) ExecutablePath(gamePath string) string {
	return filepath.Join(gamePath, g.ExecutableName)
}

// IsFileBanned reports whether the path belongs to a table family the game
// refuses to load from mods.
func (g *GameInfo) IsFileBanned(path string) bool {
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] != "db" {
		return false
	}

	for _, banned := range g.BannedTables {
		if segments[1] == banned {
			return true
		}
	}

	return false
}

//nolint:gochecknoglobals // static game registry, effectively const
var supportedGames = map[string]*GameInfo{
	"warhammer_3": {
		Key:            "warhammer_3",
		DisplayName:    "Total War: Warhammer 3",
		ExecutableName: "Warhammer3.exe",
		BannedTables:   []string{"models_building_tables", "models_sieges_tables"},
	},
	"warhammer_2": {
		Key:            "warhammer_2",
		DisplayName:    "Total War: Warhammer 2",
		ExecutableName: "Warhammer2.exe",
		BannedTables:   []string{"models_building_tables", "models_sieges_tables"},
	},
	"three_kingdoms": {
		Key:            "three_kingdoms",
		DisplayName:    "Total War: Three Kingdoms",
		ExecutableName: "Three_Kingdoms.exe",
	},
	"troy": {
		Key:            "troy",
		DisplayName:    "Total War Saga: Troy",
		ExecutableName: "Troy.exe",
	},
	"rome_2": {
		Key:              "rome_2",
		DisplayName:      "Total War: Rome 2",
		ExecutableName:   "Rome2.exe",
		DefaultTableName: "data__",
	},
	"attila": {
		Key:              "attila",
		DisplayName:      "Total War: Attila",
		ExecutableName:   "Attila.exe",
		DefaultTableName: "data__",
	},
}

// GameFromKey returns the registered game for a key.
func GameFromKey(key string) (*GameInfo, bool) {
	game, ok := supportedGames[key]

	return game, ok
}

// GameKeys returns the registered game keys, for CLI help output.
func GameKeys() []string {
	keys := make([]string, 0, len(supportedGames))

	for key := range supportedGames {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
