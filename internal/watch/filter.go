// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIgnores are excluded from watching regardless of user patterns:
// VCS metadata, CMake build trees and editor swap files.
var defaultIgnores = []string{
	"**/.git/**",
	"**/CMakeFiles/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// filter decides which slash paths relative to the base directory matter.
type filter struct {
	patterns []string
	ignores  []string
}

func newFilter(patterns, ignore []string) (filter, error) {
	if err := validatePatterns(patterns, "watch"); err != nil {
		return filter{}, err
	}
	if err := validatePatterns(ignore, "ignore"); err != nil {
		return filter{}, err
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, ignore...)
	return filter{patterns: patterns, ignores: ignores}, nil
}

// ignored reports whether rel matches an ignore pattern.
func (f filter) ignored(rel string) bool {
	return matchAny(f.ignores, filepath.ToSlash(rel))
}

// ignoredDir reports whether the directory rel, or everything below it, is
// ignored. Patterns such as "**/.git/**" only match with a trailing element.
func (f filter) ignoredDir(rel string) bool {
	slash := filepath.ToSlash(rel)
	return matchAny(f.ignores, slash) || matchAny(f.ignores, slash+"/x")
}

// selected reports whether rel matches a watch pattern. With no patterns
// every path is selected.
func (f filter) selected(rel string) bool {
	if len(f.patterns) == 0 {
		return true
	}
	return matchAny(f.patterns, filepath.ToSlash(rel))
}

func matchAny(patterns []string, slash string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, slash); err == nil && matched {
			return true
		}
	}
	return false
}

// SourcePatterns returns "**/*<suffix>" for every suffix, the patterns that
// select source files of any directory depth.
func SourcePatterns(suffixes ...string) []string {
	out := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		out = append(out, "**/*"+suffix)
	}
	return out
}

// validatePatterns checks that every pattern in the slice is a valid doublestar
// glob. The label (e.g., "watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
