// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fenics/cmakegen/internal/report"
	"github.com/fenics/cmakegen/pkg/types"
)

// DescriptorWriteError is returned when a descriptor cannot be written.
// Descriptors written before the failure are kept.
type DescriptorWriteError struct {
	Path types.FilesystemPath
	Err  error
}

// Error implements the error interface.
func (e *DescriptorWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *DescriptorWriteError) Unwrap() error { return e.Err }

// Apply writes every planned entry, replacing existing files, and records
// each written path in rep. It stops at the first write error or when ctx
// is cancelled between writes.
func Apply(ctx context.Context, plan *Plan, rep *report.Report) error {
	for _, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.WriteFile(string(entry.Path), entry.Content, DescriptorMode); err != nil {
			return &DescriptorWriteError{Path: entry.Path, Err: err}
		}
		slog.Debug("wrote descriptor", "path", entry.Path, "bytes", len(entry.Content))
		rep.AddGenerated(entry.Path)
	}
	return nil
}

// Check compares every planned entry with the file found at its relative
// path in fsys, which must be rooted at the scan root. Missing or differing
// files are recorded in rep as stale. Nothing is written.
func Check(fsys fs.FS, plan *Plan, rep *report.Report) error {
	for _, entry := range plan.Entries {
		current, err := fs.ReadFile(fsys, entry.Rel)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("descriptor missing", "path", entry.Path)
			rep.AddStale(entry.Path)
		case err != nil:
			return fmt.Errorf("read %s: %w", entry.Path, err)
		case !bytes.Equal(current, entry.Content):
			slog.Debug("descriptor out of date", "path", entry.Path)
			rep.AddStale(entry.Path)
		}
	}
	return nil
}
