// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the cmakegen packages.
// Each type carries its own validation; the package imports only the
// standard library and never imports domain packages.
package types
