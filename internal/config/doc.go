// SPDX-License-Identifier: MPL-2.0

// Package config handles packget configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from ~/.config/packget/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/packget/config.cue on
// macOS, %APPDATA%\packget\config.cue on Windows), falling back to
// ./config.cue. Every key can be overridden with a PACKGET_ environment
// variable, e.g. PACKGET_THREADS=8 or PACKGET_API_BASE_URL.
//
// Files are validated against an embedded CUE schema (config_schema.cue)
// before they reach Viper.
package config
