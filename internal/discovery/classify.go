// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"slices"
	"strings"
)

type (
	// Translation maps a source suffix to the suffix of the file generated
	// from it at build time (e.g. a ".ufl" form compiled to ".c").
	Translation struct {
		From string
		To   string
	}

	// Rules decides which files of a directory become sources.
	// Suffix matching is case-sensitive.
	Rules struct {
		PrimarySuffixes   []string
		SecondarySuffixes []string
		Generated         []Translation
		// DocMarkers are substrings that identify literate documentation of
		// a primary source; "main.cpp.rst" contributes "main.cpp".
		DocMarkers []string
	}

	// Classification is the outcome of classifying one directory.
	Classification struct {
		// Primary holds the sorted, duplicate-free primary source names.
		Primary []string
		// Secondary holds the sorted, duplicate-free secondary source names.
		Secondary []string
	}
)

// DefaultRules returns the rules for C++ demo programs with UFL forms.
func DefaultRules() Rules {
	return Rules{
		PrimarySuffixes:   []string{".cpp"},
		SecondarySuffixes: []string{".c"},
		Generated:         []Translation{{From: ".ufl", To: ".c"}},
		DocMarkers:        []string{".cpp.rst"},
	}
}

// Classify partitions file names into primary and secondary sources.
func Classify(files []string, rules Rules) Classification {
	primary := make(map[string]struct{})
	secondary := make(map[string]struct{})

	for _, name := range files {
		ext := filepath.Ext(name)
		if ext == name {
			// Dot files such as ".cpp" have no extension.
			continue
		}
		switch {
		case slices.Contains(rules.PrimarySuffixes, ext):
			primary[name] = struct{}{}
		case slices.Contains(rules.SecondarySuffixes, ext):
			secondary[name] = struct{}{}
		default:
			for _, tr := range rules.Generated {
				if ext == tr.From {
					secondary[strings.TrimSuffix(name, ext)+tr.To] = struct{}{}
					break
				}
			}
		}

		for _, marker := range rules.DocMarkers {
			if strings.Contains(name, marker) {
				primary[strings.TrimSuffix(name, ext)] = struct{}{}
				break
			}
		}
	}

	return Classification{
		Primary:   sortedKeys(primary),
		Secondary: sortedKeys(secondary),
	}
}

// IsEmpty reports whether the directory has no primary sources and so
// produces no descriptor.
func (c Classification) IsEmpty() bool {
	return len(c.Primary) == 0
}

// HasEntry reports whether any of the entry file names is a primary source.
func (c Classification) HasEntry(entryFiles []string) bool {
	for _, entry := range entryFiles {
		if _, found := slices.BinarySearch(c.Primary, entry); found {
			return true
		}
	}
	return false
}

// Sources returns the sorted union of primary and secondary sources.
func (c Classification) Sources() []string {
	out := make([]string, 0, len(c.Primary)+len(c.Secondary))
	out = append(out, c.Primary...)
	out = append(out, c.Secondary...)
	slices.Sort(out)
	return slices.Compact(out)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
