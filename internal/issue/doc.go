// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing it. The Issue catalog holds longer Markdown guidance
// for the failures a user is expected to fix in their source tree or
// configuration; it is rendered in the terminal with glamour.
package issue
