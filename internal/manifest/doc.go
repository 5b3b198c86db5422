// SPDX-License-Identifier: MPL-2.0

// Package manifest writes and reads the TOML record of a bundle run: the
// root, the interpreter selector, the dependency order and a digest of every
// inlined file and frozen inline command.
package manifest
