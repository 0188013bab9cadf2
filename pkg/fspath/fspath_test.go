// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"path/filepath"
	"testing"

	"github.com/fenics/cmakegen/pkg/fspath"
	"github.com/fenics/cmakegen/pkg/types"
)

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("demo"), "poisson", "CMakeLists.txt")
	want := types.FilesystemPath(filepath.Join("demo", "poisson", "CMakeLists.txt"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestJoinSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base types.FilesystemPath
		rel  string
		want types.FilesystemPath
	}{
		{"nested", "root", "demo/poisson", types.FilesystemPath(filepath.Join("root", "demo", "poisson"))},
		{"dot", "root/", ".", "root"},
		{"empty", "root", "", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fspath.JoinSlash(tt.base, tt.rel); got != tt.want {
				t.Errorf("JoinSlash(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
			}
		})
	}
}

func TestAbs(t *testing.T) {
	t.Parallel()

	got, err := fspath.Abs(types.FilesystemPath("."))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	if !filepath.IsAbs(got.String()) {
		t.Errorf("Abs(\".\") = %q, want an absolute path", got)
	}
}
