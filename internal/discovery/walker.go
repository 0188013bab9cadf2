// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"path"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fenics/cmakegen/pkg/fspath"
	"github.com/fenics/cmakegen/pkg/types"
)

// DefaultIgnore lists the directories that never hold program sources.
var DefaultIgnore = []string{"**/.git", "**/CMakeFiles"}

type (
	// Walker produces the directories of a tree in pre-order.
	Walker struct {
		// Root is the native path the walked fs.FS is rooted at. It is only
		// used to fill Directory.Path.
		Root types.FilesystemPath
		// Ignore holds doublestar patterns matched against the slash path
		// relative to the fs.FS root. Matching directories are pruned.
		Ignore []string
	}

	// Directory is one visited directory and its immediate file names.
	Directory struct {
		// Path is the native path of the directory.
		Path types.FilesystemPath
		// Rel is the slash-separated path relative to the fs.FS root.
		Rel string
		// Files are the names of regular files (and symlinks to non-directories)
		// directly inside the directory, in lexical order.
		Files []string
	}

	// UnreadableDirError is yielded when a directory cannot be listed. The
	// subtree below it is skipped.
	UnreadableDirError struct {
		Rel string
		Err error
	}
)

// Error implements the error interface.
func (e *UnreadableDirError) Error() string {
	return fmt.Sprintf("cannot read directory %s: %v", e.Rel, e.Err)
}

// Unwrap returns the underlying fs error.
func (e *UnreadableDirError) Unwrap() error { return e.Err }

// Base returns the last element of the relative path.
func (d Directory) Base() string {
	return path.Base(d.Rel)
}

// Directories walks fsys starting at dir. Each directory is yielded before
// its children, and children are visited in lexical order. A directory that
// cannot be read is reported as an *UnreadableDirError and not descended
// into; iteration then continues with its siblings.
func (w *Walker) Directories(fsys fs.FS, dir string) iter.Seq2[Directory, error] {
	return func(yield func(Directory, error) bool) {
		w.walk(fsys, path.Clean(dir), yield)
	}
}

// walk returns false once the consumer has stopped iterating.
func (w *Walker) walk(fsys fs.FS, rel string, yield func(Directory, error) bool) bool {
	entries, err := fs.ReadDir(fsys, rel)
	if err != nil {
		return yield(Directory{}, &UnreadableDirError{Rel: rel, Err: err})
	}

	var (
		files   []string
		subdirs []string
	)
	for _, entry := range entries {
		child := path.Join(rel, entry.Name())
		switch {
		case entry.IsDir():
			subdirs = append(subdirs, child)
		case entry.Type().IsRegular():
			files = append(files, entry.Name())
		case entry.Type()&fs.ModeSymlink != 0:
			info, statErr := fs.Stat(fsys, child)
			if statErr != nil {
				slog.Debug("skipping dangling symlink", "path", child, "error", statErr)
				continue
			}
			if !info.IsDir() {
				files = append(files, entry.Name())
			}
		}
	}
	slices.Sort(files)

	if !yield(Directory{Path: fspath.JoinSlash(w.Root, rel), Rel: rel, Files: files}, nil) {
		return false
	}

	for _, sub := range subdirs {
		if w.ignored(sub) {
			slog.Debug("pruning ignored directory", "path", sub)
			continue
		}
		if !w.walk(fsys, sub, yield) {
			return false
		}
	}
	return true
}

func (w *Walker) ignored(rel string) bool {
	for _, pattern := range w.Ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
