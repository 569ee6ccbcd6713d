package tests_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// writeManifest writes a session manifest into a temp dir and returns its path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// gameDir creates a fake game install containing the named executable and
// returns the install path.
func gameDir(t *testing.T, executable string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, executable), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	return dir
}

// expectFinding returns a comparator verifying that a finding with the given
// code appears in the output.
func expectFinding(code string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, code) {
			return
		}

		testing.Log(fmt.Sprintf("expected finding %q not found in output:\n%s", code, stdout))
		testing.Fail()
	}
}

// expectNoFinding returns a comparator verifying that no finding with the
// given code appears in the output.
func expectNoFinding(code string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, code) {
			return
		}

		testing.Log(fmt.Sprintf("expected no finding %q but it appears in output:\n%s", code, stdout))
		testing.Fail()
	}
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectAll combines comparators.
func expectAll(comparators ...test.Comparator) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		for _, comparator := range comparators {
			comparator(stdout, testing)
		}
	}
}
