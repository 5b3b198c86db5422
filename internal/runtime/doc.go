// SPDX-License-Identifier: MPL-2.0

// Package runtime executes the commands captured by inline-build substitutions.
//
// Two runtime implementations are available:
//   - native: runs the command through a host shell (`bash -c` by default)
//   - virtual: runs the command in the embedded mvdan/sh interpreter, so no
//     host shell is required
//
// Both implement Runtime and always capture stdout and stderr; the caller
// decides what a non-zero exit status or stderr output means.
package runtime
