// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "demo", "poisson", "main.cpp")
	MustWriteFile(t, path, "int main() {}\n")

	if got := MustReadFile(t, path); got != "int main() {}\n" {
		t.Errorf("MustReadFile() = %q", got)
	}
}

func TestWriteTree(t *testing.T) {
	t.Parallel()

	root := WriteTree(t, t.TempDir(), "demo/a/main.cpp", "demo/b/foo.c")
	for _, rel := range []string{"demo/a/main.cpp", "demo/b/foo.c"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

//nolint:paralleltest // mutates process environment
func TestMustSetenv_Restores(t *testing.T) {
	const key = "CMAKEGEN_TESTUTIL_PROBE"

	cleanupUnset := MustUnsetenv(t, key)
	restore := MustSetenv(t, key, "value")
	if got := os.Getenv(key); got != "value" {
		t.Fatalf("Getenv() = %q, want %q", got, "value")
	}
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Error("variable should be unset after restore")
	}
	cleanupUnset()
}
