// SPDX-License-Identifier: MPL-2.0

// Package generate turns a classified source tree into CMake build
// descriptors.
//
// Generation is split in two phases. Planner.Plan reads the tree through an
// fs.FS, validates every qualifying directory and renders all descriptors in
// memory; it never writes. Apply then writes the planned entries to disk and
// Check compares them with what is already there. A plan that fails leaves
// the tree untouched.
package generate
