// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE schema validation used for cmakegen
// configuration files.
//
// Files are decoded in three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode to a Go map
//
// Errors carry the file name and a JSON-style path to the offending field,
// e.g. "cmakegen.cue: categories[0].entry_files: incompatible list lengths".
package cueutil
