// SPDX-License-Identifier: MPL-2.0

// Package report accumulates the outcome of a generation run and prints it.
package report

import (
	"fmt"
	"io"

	"github.com/fenics/cmakegen/internal/discovery"
	"github.com/fenics/cmakegen/pkg/types"
)

// Banner precedes the list of generated files.
const Banner = "The following files were generated:"

// Report records generated and stale descriptors and the diagnostics of a run.
// The zero value is ready to use.
type Report struct {
	Generated   []types.FilesystemPath
	Stale       []types.FilesystemPath
	Diagnostics []discovery.Diagnostic
}

// AddGenerated records a written descriptor.
func (r *Report) AddGenerated(p types.FilesystemPath) {
	r.Generated = append(r.Generated, p)
}

// AddStale records a descriptor that is missing or out of date.
func (r *Report) AddStale(p types.FilesystemPath) {
	r.Stale = append(r.Stale, p)
}

// AddDiagnostics records diagnostics in order.
func (r *Report) AddDiagnostics(diags ...discovery.Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diags...)
}

// HasStale reports whether any descriptor was found out of date.
func (r *Report) HasStale() bool {
	return len(r.Stale) > 0
}

// Count returns the number of diagnostics with the given severity.
func (r *Report) Count(severity discovery.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			n++
		}
	}
	return n
}

// WriteText prints the banner followed by one generated path per line.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, Banner); err != nil {
		return err
	}
	for _, p := range r.Generated {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

// WriteStale prints the descriptors that differ from the generator output.
func (r *Report) WriteStale(w io.Writer) error {
	for _, p := range r.Stale {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
