// Package ignore resolves ignore rules into per-file suppression sets and
// answers, per finding, whether it must be dropped.
package ignore

import (
	"strings"

	"github.com/farcloser/scrutinium/internal/types"
)

// Global holds the session-wide suppression lists, shared by every file.
type Global struct {
	Fields map[string]struct{}
	Codes  map[string]struct{}
}

// NewGlobal builds the session-wide suppression sets from the configured
// lists.
func NewGlobal(fields, codes []string) Global {
	return Global{Fields: toSet(fields), Codes: toSet(codes)}
}

// Suppression is the resolved per-file suppression set.
type Suppression struct {
	// Fields suppressed for every code.
	Fields map[string]struct{}

	// Codes suppressed for every field.
	Codes map[string]struct{}

	// CodesByField suppresses specific codes on specific fields only.
	CodesByField map[string][]string
}

// ForFile resolves the rules that apply to one file path. The second return
// is the whole-file skip sentinel: a matching rule with neither fields nor
// codes suppresses the file entirely, which is distinct from "no
// suppressions" (an empty Suppression).
//
// Matching rules accumulate: fields, codes and field-code pairs from every
// matching rule are unioned.
func ForFile(path string, rules []types.IgnoreRule) (*Suppression, bool) {
	sup := &Suppression{
		Fields:       map[string]struct{}{},
		Codes:        map[string]struct{}{},
		CodesByField: map[string][]string{},
	}

	for i := range rules {
		rule := &rules[i]

		if rule.PathPrefix == "" || !strings.HasPrefix(path, rule.PathPrefix) {
			continue
		}

		switch {
		case len(rule.Fields) == 0 && len(rule.Codes) == 0:
			return nil, true

		case len(rule.Fields) > 0 && len(rule.Codes) > 0:
			for _, field := range rule.Fields {
				sup.CodesByField[field] = append(sup.CodesByField[field], rule.Codes...)
			}

		case len(rule.Fields) > 0:
			for _, field := range rule.Fields {
				sup.Fields[field] = struct{}{}
			}

		default:
			for _, code := range rule.Codes {
				sup.Codes[code] = struct{}{}
			}
		}
	}

	return sup, false
}

// Ignored reports whether a finding with the given field and code must be
// dropped: the code is suppressed session-wide, the field is suppressed
// (session-wide or for this file), the code is suppressed for this file, or
// the (field, code) pair is suppressed for this file. Either identifier may
// be empty when the finding has none.
func (s *Suppression) Ignored(global Global, field, code string) bool {
	if code != "" {
		if _, ok := global.Codes[code]; ok {
			return true
		}

		if _, ok := s.Codes[code]; ok {
			return true
		}
	}

	if field != "" {
		if _, ok := global.Fields[field]; ok {
			return true
		}

		if _, ok := s.Fields[field]; ok {
			return true
		}
	}

	if field != "" && code != "" {
		for _, suppressed := range s.CodesByField[field] {
			if suppressed == code {
				return true
			}
		}
	}

	return false
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))

	for _, value := range values {
		out[value] = struct{}{}
	}

	return out
}
