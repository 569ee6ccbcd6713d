package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/scrutinium/tests/testutils"
)

const emptySession = `{
  "pack": {"name": "mod.pack", "files": []},
  "vanilla": {"name": "vanilla.pack", "files": []}
}`

func TestCheckConfig(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "bad game path blocks every other check",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, `{
  "pack": {"name": "my mod.pack", "files": []},
  "vanilla": {"name": "vanilla.pack", "files": []}
}`))
				data.Labels().Set("game-path", t.TempDir())
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "warhammer_3",
					"--game-path", data.Labels().Get("game-path"),
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expectAll(
						expectFinding("IncorrectGamePath"),
						expectNoFinding("InvalidPackName"),
					),
				}
			},
		},
		{
			Description: "missing dependency cache reported",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, `{
  "pack": {"name": "mod.pack", "files": []}
}`))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "warhammer_3",
					"--game-path", data.Labels().Get("game-path"),
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectFinding("DependenciesCacheNotGenerated"),
				}
			},
		},
		{
			Description: "outdated dependency cache reported",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, `{
  "pack": {"name": "mod.pack", "files": []},
  "vanilla": {"name": "vanilla.pack", "files": []},
  "dependencies_outdated": true
}`))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "warhammer_3",
					"--game-path", data.Labels().Get("game-path"),
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectFinding("DependenciesCacheOutdated"),
				}
			},
		},
		{
			Description: "unknown game rejected",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, emptySession))
				data.Labels().Set("game-path", t.TempDir())
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "medieval_9",
					"--game-path", data.Labels().Get("game-path"),
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: 1,
				}
			},
		},
	}

	testCase.Run(t)
}

func TestCheckPackAndDependencies(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "pack name with a space reported",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, `{
  "pack": {"name": "my mod.pack", "files": []},
  "vanilla": {"name": "vanilla.pack", "files": []}
}`))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "warhammer_3",
					"--game-path", data.Labels().Get("game-path"),
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectFinding("InvalidPackName"),
				}
			},
		},
		{
			Description: "dependency without pack suffix reported",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, `{
  "pack": {"name": "mod.pack", "dependencies": ["base.pack", "extras"], "files": []},
  "vanilla": {"name": "vanilla.pack", "files": []}
}`))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "warhammer_3",
					"--game-path", data.Labels().Get("game-path"),
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectFinding("InvalidDependencyPackName"),
				}
			},
		},
		{
			Description: "fail-on-error exits non-zero",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, `{
  "pack": {"name": "my mod.pack", "files": []},
  "vanilla": {"name": "vanilla.pack", "files": []}
}`))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "warhammer_3",
					"--game-path", data.Labels().Get("game-path"),
					"--fail-on-error",
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: 1,
					Output:   expectFinding("InvalidPackName"),
				}
			},
		},
		{
			Description: "clean session produces no findings",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, emptySession))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"check",
					"--game", "warhammer_3",
					"--game-path", data.Labels().Get("game-path"),
					"--fail-on-error",
					data.Labels().Get("manifest"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectContains("0 errors"),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestGames(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "known games listed",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("games")
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expectAll(
						expectContains("warhammer_3"),
						expectContains("Total War: Warhammer 3"),
					),
				}
			},
		},
	}

	testCase.Run(t)
}
