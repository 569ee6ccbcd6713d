package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/scrutinium/tests/testutils"
)

const scriptSession = `{
  "pack": {"name": "mod.pack", "files": [
    {"path": "db/units_tables/my_units", "kind": "db", "table": {"rows": [
      ["spearmen"], ["archers"]
    ]}},
    {"path": "script/mod/setup.lua", "kind": "text", "text": "--@db units key\nlocal unit = \"spearmen\"\n--@db units key\nlocal bad = \"ghost\"\n--@db units key\nlocal roster = { \"spearmen\", \"archers\" }\n--@db units key 0\nlocal costs = {\n[\"spearmen\"] = 100,\n[\"phantom\"] = 50,\n}\n"}
  ]},
  "vanilla": {"name": "vanilla.pack", "files": []},
  "schema": {
    "units_tables": {"version": 1, "fields": [
      {"name": "key", "type": "string_u8", "is_key": true}
    ]}
  }
}`

func TestScriptChecks(t *testing.T) {
	testCase := testutils.Setup()

	run := func(data test.Data, helpers test.Helpers) test.TestableCommand {
		return helpers.Command(
			"check",
			"--game", "warhammer_3",
			"--game-path", data.Labels().Get("game-path"),
			data.Labels().Get("manifest"),
		)
	}

	testCase.SubTests = []*test.Case{
		{
			Description: "annotated keys validated against the table",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, scriptSession))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: run,
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expectAll(
						expectFinding("InvalidKey"),
						expectContains("ghost"),
						expectContains("phantom"),
						expectNoFinding("spearmen"),
						expectNoFinding("archers"),
					),
				}
			},
		},
		{
			Description: "unknown table skips validation",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("manifest", writeManifest(t, `{
  "pack": {"name": "mod.pack", "files": [
    {"path": "script/mod/setup.lua", "kind": "text", "text": "--@db ghosts key\nlocal g = \"anything\"\n"}
  ]},
  "vanilla": {"name": "vanilla.pack", "files": []}
}`))
				data.Labels().Set("game-path", gameDir(t, "Warhammer3.exe"))
			},
			Command: run,
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectNoFinding("InvalidKey"),
				}
			},
		},
	}

	testCase.Run(t)
}
