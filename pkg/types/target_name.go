// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidTargetName is the sentinel error wrapped by InvalidTargetNameError.
var ErrInvalidTargetName = errors.New("invalid target name")

type (
	// TargetName is the CMake project and executable name of a generated
	// descriptor: the category prefix followed by the directory base name.
	TargetName string

	// InvalidTargetNameError is returned when a TargetName is empty or
	// contains whitespace, which CMake would split into several arguments.
	InvalidTargetNameError struct {
		Value TargetName
	}
)

// NewTargetName joins a category prefix and a directory base name.
func NewTargetName(prefix, base string) TargetName {
	return TargetName(prefix + base)
}

// String returns the string representation of the TargetName.
func (n TargetName) String() string { return string(n) }

// Validate returns an error if the name is empty or contains whitespace.
func (n TargetName) Validate() error {
	if n == "" || strings.IndexFunc(string(n), unicode.IsSpace) >= 0 {
		return &InvalidTargetNameError{Value: n}
	}
	return nil
}

// Error implements the error interface for InvalidTargetNameError.
func (e *InvalidTargetNameError) Error() string {
	return fmt.Sprintf("invalid target name %q: must be non-empty and contain no whitespace", e.Value)
}

// Unwrap returns ErrInvalidTargetName for errors.Is() compatibility.
func (e *InvalidTargetNameError) Unwrap() error { return ErrInvalidTargetName }
