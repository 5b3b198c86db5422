// SPDX-License-Identifier: MPL-2.0

// Package bundler flattens a shell script and every file it sources into one
// self-contained script.
//
// A bundle run walks the syntax tree of each document looking for three
// constructs: the interpreter selector (`#!...` on the first line), include
// directives (`source FILE` / `. FILE`) and inline-build substitutions (a
// `$(...)` followed by the comment `# build: inline`). Each construct turns into
// a planned text edit; once a document has been walked its edits are applied
// in one pass (see pkg/textedit). Included files are bundled recursively and
// spliced in at most once per run; circular inclusion is an error.
//
// A Bundler only holds configuration. All per-run state (the selector, the
// stack of files being resolved, the set of files already inlined) lives in a
// value created by each Bundle or BundleFile call, so one Bundler can serve any
// number of independent runs.
package bundler
