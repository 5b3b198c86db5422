// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when scripts under a root directory change.
//
// Events are filtered through doublestar globs and coalesced over a debounce
// window, so one editor save produces one callback with every changed path.
package watch
