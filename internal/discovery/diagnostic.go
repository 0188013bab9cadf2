// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityInfo marks a diagnostic that records an expected skip.
	SeverityInfo Severity = "info"
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeExcludedDirectory is recorded for every visited directory whose
	// relative path matches an exclusion substring.
	CodeExcludedDirectory Code = "excluded_directory"
	// CodeDuplicateTarget is recorded once per repeated target name.
	CodeDuplicateTarget Code = "duplicate_target"
	// CodeInvalidTargetName is recorded when a target name contains
	// whitespace. The descriptor is still emitted.
	CodeInvalidTargetName Code = "invalid_target_name"
	// CodeDirectoryUnreadable is recorded when a directory cannot be listed.
	CodeDirectoryUnreadable Code = "directory_unreadable"
	// CodeCategoryMissing is recorded when a configured category root does not exist.
	CodeCategoryMissing Code = "category_missing"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Code is a machine-readable diagnostic identifier.
	Code string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "duplicate_target").
		Code Code
		// Message is the human-readable description.
		Message string
		// Path is the directory associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// NewDiagnostic builds a Diagnostic for the given directory.
func NewDiagnostic(severity Severity, code Code, message, path string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Path: path}
}

// WithCause returns a copy of the diagnostic carrying err.
func (d Diagnostic) WithCause(err error) Diagnostic {
	d.Cause = err
	return d
}
