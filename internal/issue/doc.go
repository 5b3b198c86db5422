// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// An ActionableError records the failed operation and the resource involved,
// plus suggestions for the user. Errors may point at an entry of the issue
// catalog, a Markdown page rendered with glamour when output is verbose.
package issue
