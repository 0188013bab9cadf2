// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for cmakegen.
//
// The root command wires logging and configuration; generate walks the
// configured categories and writes, previews, checks or watches the build
// descriptors; config inspects and initializes configuration files.
package cmd
