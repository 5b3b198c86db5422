// SPDX-License-Identifier: MPL-2.0

package bundler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParseFailure is returned when the grammar rejects a document.
	ErrParseFailure = errors.New("parse failure")
	// ErrSelectorConflict is returned when two files declare different interpreter selectors.
	ErrSelectorConflict = errors.New("interpreter selector conflict")
	// ErrSelectorMisplaced is returned when an interpreter selector is not on the first line.
	ErrSelectorMisplaced = errors.New("interpreter selector must be on the first line")
	// ErrSelectorDuplicate is returned when a file declares more than one interpreter selector.
	ErrSelectorDuplicate = errors.New("only one interpreter selector per file is allowed")
	// ErrSelectorMissing is returned when no file of the inclusion graph declares a selector.
	ErrSelectorMissing = errors.New("interpreter selector (#!) is missing")
	// ErrCircularInclude is returned when a file sources itself, directly or transitively.
	ErrCircularInclude = errors.New("circular dependency")
	// ErrUnresolvableInclude is returned when an include argument is not a static path or
	// cannot be resolved to a file.
	ErrUnresolvableInclude = errors.New("unresolvable include")
	// ErrIncludeOutsideRoot is returned when an included file lies outside the bundle root.
	ErrIncludeOutsideRoot = errors.New("include outside root directory")
	// ErrSubcommandFailure is returned when an inline-build command fails.
	ErrSubcommandFailure = errors.New("inline command failed")

	errDynamicInclude  = errors.New("include path must be a literal word or quoted string")
	errMissingArgument = errors.New("source command missing its argument")
	errEmptyInclude    = errors.New("include path is empty")
	errSyntaxErrors    = errors.New("grammar reported syntax errors")
)

type (
	// ParseError reports a document the grammar could not parse.
	ParseError struct {
		File  string
		Cause error
	}

	// SelectorConflictError reports two different interpreter selectors in one run.
	// It wraps ErrSelectorConflict for errors.Is() compatibility.
	SelectorConflictError struct {
		// File declared Second.
		File   string
		First  string
		Second string
	}

	// SelectorPositionError reports a selector that does not start at byte 0 of its file.
	// It wraps ErrSelectorMisplaced for errors.Is() compatibility.
	SelectorPositionError struct {
		File string
		Row  int
	}

	// SelectorDuplicateError reports a second selector within one file.
	// It wraps ErrSelectorDuplicate for errors.Is() compatibility.
	SelectorDuplicateError struct {
		File string
		Row  int
	}

	// CircularIncludeError reports the chain of files that closed a cycle.
	// It wraps ErrCircularInclude for errors.Is() compatibility.
	CircularIncludeError struct {
		Chain []string
	}

	// IncludeError reports an include directive whose target cannot be resolved.
	IncludeError struct {
		// File contains the directive.
		File string
		// Target is the argument text as written.
		Target string
		Cause  error
	}

	// OutsideRootError reports an include that resolves outside the bundle root.
	// It wraps ErrIncludeOutsideRoot for errors.Is() compatibility.
	OutsideRootError struct {
		File   string
		Target string
		Path   string
		Root   string
	}

	// SubcommandError reports an inline-build command that did not exit cleanly.
	SubcommandError struct {
		File     string
		Command  string
		ExitCode int
		Cause    error
	}
)

func (e *ParseError) Error() string {
	return fmt.Sprintf("couldn't parse %s: %v", e.File, e.Cause)
}

// Is reports ErrParseFailure.
func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Cause }

func (e *SelectorConflictError) Error() string {
	return fmt.Sprintf("interpreter selectors across all files must match: found %q and %q (in %s)", e.First, e.Second, e.File)
}

// Unwrap returns ErrSelectorConflict.
func (e *SelectorConflictError) Unwrap() error { return ErrSelectorConflict }

func (e *SelectorPositionError) Error() string {
	return fmt.Sprintf("%s:%d: the interpreter selector must be at the top of the file", e.File, e.Row+1)
}

// Unwrap returns ErrSelectorMisplaced.
func (e *SelectorPositionError) Unwrap() error { return ErrSelectorMisplaced }

func (e *SelectorDuplicateError) Error() string {
	return fmt.Sprintf("%s:%d: only one interpreter selector per file is allowed", e.File, e.Row+1)
}

// Unwrap returns ErrSelectorDuplicate.
func (e *SelectorDuplicateError) Unwrap() error { return ErrSelectorDuplicate }

func (e *CircularIncludeError) Error() string {
	return fmt.Sprintf("circular dependencies are not supported: %s", strings.Join(e.Chain, " -> "))
}

// Unwrap returns ErrCircularInclude.
func (e *CircularIncludeError) Unwrap() error { return ErrCircularInclude }

func (e *IncludeError) Error() string {
	return fmt.Sprintf("%s: failed to get full path for source %q: %v", e.File, e.Target, e.Cause)
}

// Is reports ErrUnresolvableInclude.
func (e *IncludeError) Is(target error) bool { return target == ErrUnresolvableInclude }

// Unwrap returns the underlying cause.
func (e *IncludeError) Unwrap() error { return e.Cause }

func (e *OutsideRootError) Error() string {
	return fmt.Sprintf("%s: trying to access script outside of %s: %s", e.File, e.Root, e.Target)
}

// Unwrap returns ErrIncludeOutsideRoot.
func (e *OutsideRootError) Unwrap() error { return ErrIncludeOutsideRoot }

func (e *SubcommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %q could not be run: %v", e.File, e.Command, e.Cause)
	}
	return fmt.Sprintf("%s: %q returned with exit code %d", e.File, e.Command, e.ExitCode)
}

// Is reports ErrSubcommandFailure.
func (e *SubcommandError) Is(target error) bool { return target == ErrSubcommandFailure }

// Unwrap returns the underlying cause, if any.
func (e *SubcommandError) Unwrap() error { return e.Cause }
