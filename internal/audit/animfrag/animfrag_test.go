package animfrag

import (
	"testing"

	"github.com/farcloser/scrutinium/internal/audit/shared"
	"github.com/farcloser/scrutinium/internal/deps"
	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

func testLookup() *shared.Lookup {
	vanilla := types.NewPack("vanilla.pack")
	vanilla.Insert(types.NewDecodedFile("animations/battle/attack.anm.meta", types.KindUnknown, nil))

	return shared.NewLookup(
		map[string]struct{}{"animations/battle/attack.anim": {}},
		map[string]struct{}{"animations/battle": {}, "animations": {}},
		deps.NewStore(vanilla),
	)
}

func fragmentFile(fragment *types.AnimFragmentBattle) *types.File {
	return types.NewDecodedFile("animations/database/battle/my_frag.frg", types.KindAnimFragmentBattle, fragment)
}

func findingCodes(diag *report.Diagnostic) map[string]int {
	out := map[string]int{}

	if diag == nil {
		return out
	}

	for _, finding := range diag.Findings {
		out[finding.Code]++
	}

	return out
}

func TestCleanFragment(t *testing.T) {
	t.Parallel()

	fragment := &types.AnimFragmentBattle{
		Skeleton: "humanoid01",
		Entries: []types.AnimFragmentEntry{
			{AnimRefs: []types.AnimRef{
				{FilePath: "animations/battle/attack.anim", MetaFilePath: "animations/battle/attack.anm.meta"},
			}},
		},
	}

	if diag := Check(testLookup(), fragmentFile(fragment), ignore.Global{}, nil); diag != nil {
		t.Fatalf("expected no findings, got %+v", diag.Findings)
	}
}

func TestMissingPaths(t *testing.T) {
	t.Parallel()

	fragment := &types.AnimFragmentBattle{
		LocomotionGraph: "animations/locomotion_graphs/missing.graph",
		Entries: []types.AnimFragmentEntry{
			{AnimRefs: []types.AnimRef{
				{
					FilePath:     "animations/battle/gone.anim",
					MetaFilePath: "animations/battle/attack.anm.meta",
					SndFilePath:  "animations/battle/gone.snd.meta",
				},
			}},
		},
	}

	diag := Check(testLookup(), fragmentFile(fragment), ignore.Global{}, nil)
	codes := findingCodes(diag)

	for _, want := range []string{
		report.CodeLocomotionGraphPathNotFound,
		report.CodeFilePathNotFound,
		report.CodeSndFilePathNotFound,
	} {
		if codes[want] != 1 {
			t.Errorf("expected one %s, got %v", want, codes)
		}
	}

	if codes[report.CodeMetaFilePathNotFound] != 0 {
		t.Errorf("resolved meta path flagged: %v", codes)
	}

	// The graph finding is file-level, the rest carry entry coordinates.
	for _, finding := range diag.Findings {
		if finding.Code == report.CodeLocomotionGraphPathNotFound && len(finding.Cells) != 0 {
			t.Errorf("graph finding must not carry cells, got %+v", finding.Cells)
		}

		if finding.Code == report.CodeFilePathNotFound &&
			(len(finding.Cells) != 1 || finding.Cells[0].Row != 0 || finding.Cells[0].Column != 0) {
			t.Errorf("unexpected cells %+v", finding.Cells)
		}
	}
}

func TestEmptyPathsSkipped(t *testing.T) {
	t.Parallel()

	fragment := &types.AnimFragmentBattle{
		Entries: []types.AnimFragmentEntry{
			{AnimRefs: []types.AnimRef{{}}},
		},
	}

	if diag := Check(testLookup(), fragmentFile(fragment), ignore.Global{}, nil); diag != nil {
		t.Fatalf("empty paths are not findings, got %+v", diag.Findings)
	}
}
