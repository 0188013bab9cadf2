// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the conversions between the
// slash-separated paths used with io/fs and native OS paths.
package fspath

import (
	"fmt"
	"path/filepath"

	"github.com/fenics/cmakegen/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as file names returned by fs.ReadDir.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// JoinSlash joins a native base path with a slash-separated path relative
// to it, as produced by walking an fs.FS rooted at base.
func JoinSlash(base types.FilesystemPath, rel string) types.FilesystemPath {
	if rel == "" || rel == "." {
		return Clean(base)
	}
	return types.FilesystemPath(filepath.Join(string(base), filepath.FromSlash(rel)))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}
