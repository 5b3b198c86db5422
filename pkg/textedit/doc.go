// SPDX-License-Identifier: MPL-2.0

// Package textedit applies batches of planned byte-range replacements to a
// source string in a single pass.
//
// Every Edit addresses the original, unmodified text. Apply sorts the batch,
// rejects overlapping ranges instead of guessing which edit should win, and
// then rewrites the text left to right while tracking how far earlier
// replacements have shifted the remaining offsets.
package textedit
