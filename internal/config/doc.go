// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is looked up in order: the file passed with --config, cmakegen.cue in
// the scan root, then config.cue in the user configuration directory
// (~/.config/cmakegen on Linux, ~/Library/Application Support/cmakegen on macOS,
// %APPDATA%\cmakegen on Windows). The first file found is validated against the
// embedded CUE schema (config_schema.cue) and merged over the built-in defaults.
// A .env file in the working directory is loaded with godotenv, after which
// CMAKEGEN_* environment variables override scalar keys.
package config
