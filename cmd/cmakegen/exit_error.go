// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/fenics/cmakegen/pkg/types"
)

// ExitError carries the process exit code out of a RunE handler. Commands
// return it once the failure has been printed: a missing entry file, a
// descriptor write error, an invalid configuration, or stale descriptors
// under --check. Execute exits with Code and handleError prints nothing.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap exposes the classified failure to errors.Is and errors.As.
func (e *ExitError) Unwrap() error { return e.Err }
