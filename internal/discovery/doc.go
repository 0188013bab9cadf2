// SPDX-License-Identifier: MPL-2.0

// Package discovery walks a source tree and classifies the files of each
// directory into the source sets a build descriptor is generated from.
//
// File organization:
//   - walker.go: lazy pre-order traversal of an fs.FS (Walker, Directory)
//   - classify.go: suffix rules and source sets (Rules, Classification)
//   - diagnostic.go: structured non-fatal findings returned to callers
package discovery
