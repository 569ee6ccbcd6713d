package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	scrutinium "github.com/farcloser/scrutinium"
	"github.com/farcloser/scrutinium/internal/types"
)

// sessionSettings is the TOML file a modder keeps next to their pack: the
// session-wide ignore lists, plus per-path rules merged into the pack's own.
type sessionSettings struct {
	FoldersIgnored []string           `toml:"folders_ignored"`
	FilesIgnored   []string           `toml:"files_ignored"`
	FieldsIgnored  []string           `toml:"fields_ignored"`
	CodesIgnored   []string           `toml:"codes_ignored"`
	IgnoreRules    []types.IgnoreRule `toml:"ignore_rules"`
}

func loadSettings(path string) (*sessionSettings, error) {
	settings := &sessionSettings{}

	if _, err := toml.DecodeFile(path, settings); err != nil {
		return nil, fmt.Errorf("cannot read settings %s: %w", path, err)
	}

	return settings, nil
}

func (s *sessionSettings) apply(diags *scrutinium.Diagnostics, pack *types.Pack) {
	diags.FoldersIgnored = append(diags.FoldersIgnored, s.FoldersIgnored...)
	diags.FilesIgnored = append(diags.FilesIgnored, s.FilesIgnored...)
	diags.FieldsIgnored = append(diags.FieldsIgnored, s.FieldsIgnored...)
	diags.CodesIgnored = append(diags.CodesIgnored, s.CodesIgnored...)

	packSettings := *pack.Settings()
	packSettings.IgnoreRules = append(packSettings.IgnoreRules, s.IgnoreRules...)
	pack.SetSettings(packSettings)
}
