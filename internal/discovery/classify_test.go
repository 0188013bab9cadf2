// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		files         []string
		wantPrimary   []string
		wantSecondary []string
	}{
		{
			name:          "mixed demo directory",
			files:         []string{"main.cpp", "helper.cpp", "foo.c", "bar.ufl"},
			wantPrimary:   []string{"helper.cpp", "main.cpp"},
			wantSecondary: []string{"bar.c", "foo.c"},
		},
		{
			name:          "literate source contributes primary",
			files:         []string{"main.cpp.rst", "poisson.py"},
			wantPrimary:   []string{"main.cpp"},
			wantSecondary: []string{},
		},
		{
			name:          "source and its documentation collapse",
			files:         []string{"main.cpp", "main.cpp.rst"},
			wantPrimary:   []string{"main.cpp"},
			wantSecondary: []string{},
		},
		{
			name:          "generated and hand written secondary collapse",
			files:         []string{"main.cpp", "forms.ufl", "forms.c"},
			wantPrimary:   []string{"main.cpp"},
			wantSecondary: []string{"forms.c"},
		},
		{
			name:          "suffixes are case sensitive",
			files:         []string{"MAIN.CPP", "foo.C", "bar.UFL"},
			wantPrimary:   []string{},
			wantSecondary: []string{},
		},
		{
			name:          "dot files have no extension",
			files:         []string{".cpp", ".ufl", ".c", "main.cpp"},
			wantPrimary:   []string{"main.cpp"},
			wantSecondary: []string{},
		},
		{
			name:          "no sources",
			files:         []string{"README.md", "CMakeLists.txt"},
			wantPrimary:   []string{},
			wantSecondary: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.files, DefaultRules())
			assert.Equal(t, tt.wantPrimary, got.Primary)
			assert.Equal(t, tt.wantSecondary, got.Secondary)
		})
	}
}

func TestClassification_HasEntry(t *testing.T) {
	t.Parallel()

	c := Classify([]string{"helper.cpp", "main.cpp"}, DefaultRules())
	assert.True(t, c.HasEntry([]string{"main.cpp"}))
	assert.True(t, c.HasEntry([]string{"app.cpp", "main.cpp"}))
	assert.False(t, c.HasEntry([]string{"app.cpp"}))
	assert.False(t, c.HasEntry(nil))

	onlyHelper := Classify([]string{"helper.cpp"}, DefaultRules())
	assert.False(t, onlyHelper.IsEmpty())
	assert.False(t, onlyHelper.HasEntry([]string{"main.cpp"}))
}

func TestClassification_Sources(t *testing.T) {
	t.Parallel()

	c := Classify([]string{"main.cpp", "helper.cpp", "foo.c", "bar.ufl"}, DefaultRules())
	assert.Equal(t, []string{"bar.c", "foo.c", "helper.cpp", "main.cpp"}, c.Sources())
}

func TestClassify_CustomRules(t *testing.T) {
	t.Parallel()

	rules := Rules{
		PrimarySuffixes:   []string{".cc"},
		SecondarySuffixes: []string{".h"},
		Generated:         []Translation{{From: ".proto", To: ".pb.cc"}},
	}
	c := Classify([]string{"main.cc", "util.h", "msg.proto", "main.cpp"}, rules)
	assert.Equal(t, []string{"main.cc"}, c.Primary)
	assert.Equal(t, []string{"msg.pb.cc", "util.h"}, c.Secondary)
}

func fileNameGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		stem := rapid.SampledFrom([]string{"main", "helper", "poisson", "forms", "a"}).Draw(t, "stem")
		ext := rapid.SampledFrom([]string{".cpp", ".c", ".ufl", ".cpp.rst", ".py", ".txt", ""}).Draw(t, "ext")
		return stem + ext
	})
}

func TestClassify_OrderIndependent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		files := rapid.SliceOf(fileNameGen()).Draw(t, "files")

		a := Classify(files, DefaultRules())
		b := Classify(rapid.Permutation(files).Draw(t, "shuffled"), DefaultRules())
		assert.Equal(t, a, b)
	})
}

func TestClassify_SortedAndUnique(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		files := rapid.SliceOf(fileNameGen()).Draw(t, "files")
		c := Classify(files, DefaultRules())

		for _, set := range [][]string{c.Primary, c.Secondary, c.Sources()} {
			if !slices.IsSorted(set) {
				t.Fatalf("set %v is not sorted", set)
			}
			if len(slices.Compact(slices.Clone(set))) != len(set) {
				t.Fatalf("set %v has duplicates", set)
			}
		}
		if c.IsEmpty() != (len(c.Primary) == 0) {
			t.Fatal("IsEmpty disagrees with Primary")
		}
	})
}
