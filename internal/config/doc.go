// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the file named by --config, otherwise from
// ~/.config/shbundle/config.cue (XDG equivalent on Linux,
// ~/Library/Application Support/shbundle/config.cue on macOS,
// %APPDATA%\shbundle\config.cue on Windows), otherwise from ./shbundle.cue.
// Missing files are not an error: defaults apply.
//
// Files are validated against the embedded CUE schema (config_schema.cue)
// before being merged over the defaults. SHBUNDLE_* environment variables
// override file values.
package config
