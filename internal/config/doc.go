// SPDX-License-Identifier: MPL-2.0

// Package config loads mcpacker settings using Viper with CUE as the file format.
//
// The config file is config.cue in the platform config directory
// (~/.config/mcpacker on Linux, ~/Library/Application Support/mcpacker on
// macOS, %APPDATA%\mcpacker on Windows), or ./config.cue when that directory
// has none. Files are validated against the embedded #Config schema
// (config_schema.cue) before being merged over the defaults. MCPACKER_*
// environment variables override both, e.g. MCPACKER_PACKS_DIR or
// MCPACKER_UI_OUTPUT.
package config
