// SPDX-License-Identifier: MPL-2.0

// Package syntree wraps the tree-sitter bash grammar behind a small read-only
// view of the concrete syntax tree.
//
// A Tree owns the source bytes it was parsed from; every Node handed out by
// the tree is only valid until Close is called. Node kinds are folded into a
// closed set (see Kind) so callers can switch exhaustively over the handful of
// constructs they care about, while Type still exposes the raw grammar name.
package syntree
