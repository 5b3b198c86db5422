// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shbundle/shbundle/internal/bundler"
	"github.com/shbundle/shbundle/internal/issue"
	"github.com/shbundle/shbundle/internal/runtime"
	"github.com/shbundle/shbundle/pkg/textedit"
)

// classify maps an error to its catalog entry and the suggestions shown
// under the message. Bundler errors are checked before OS errors because an
// unreadable include wraps the underlying fs error.
func classify(err error) (issue.Id, []string) {
	switch {
	case errors.Is(err, bundler.ErrParseFailure):
		return issue.ParseFailureId, []string{
			"Check the script with 'bash -n FILE'",
			"Run 'shbundle inspect FILE' to see what was recognized",
		}
	case errors.Is(err, bundler.ErrSelectorConflict):
		return issue.SelectorConflictId, []string{"Use the same '#!' line in every file, or remove it from included files"}
	case errors.Is(err, bundler.ErrSelectorMisplaced), errors.Is(err, bundler.ErrSelectorDuplicate):
		return issue.SelectorPositionId, []string{"Keep exactly one '#!' line, on the first line of the file"}
	case errors.Is(err, bundler.ErrSelectorMissing):
		return issue.SelectorMissingId, []string{"Add a line such as '#!/usr/bin/env bash' to the top of the entry script"}
	case errors.Is(err, bundler.ErrCircularInclude):
		return issue.CircularIncludeId, []string{"Remove one of the source lines of the cycle"}
	case errors.Is(err, bundler.ErrIncludeOutsideRoot):
		return issue.IncludeOutsideRootId, []string{"Move the file under the bundle root, or widen it with --dir"}
	case errors.Is(err, bundler.ErrUnresolvableInclude):
		return issue.UnresolvableIncludeId, []string{
			"Use a literal path without variables or command substitutions",
			"Paths are resolved relative to the including file",
		}
	case errors.Is(err, bundler.ErrSubcommandFailure):
		return issue.InlineCommandFailedId, []string{"Run the command by hand from the script's directory to see why it fails"}
	case errors.Is(err, textedit.ErrEditsOverlap), errors.Is(err, textedit.ErrEditOutOfRange):
		return issue.OverlappingEditsId, nil
	case errors.Is(err, runtime.ErrInvalidMode):
		return issue.InvalidRuntimeModeId, []string{"Use --runtime native or --runtime virtual"}
	case errors.Is(err, runtime.ErrRuntimeNotAvailable):
		return issue.ShellNotFoundId, []string{
			"Install the shell or point --shell at it",
			"Use --runtime virtual to run inline commands without a host shell",
		}
	case errors.Is(err, os.ErrNotExist):
		return issue.FileNotFoundId, []string{"Check the path and the current directory"}
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId, []string{"Check the file permissions"}
	default:
		return 0, nil
	}
}

// actionable returns err as an ActionableError. Errors that already carry
// context are returned unchanged.
func actionable(err error, operation, resource string) *issue.ActionableError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae
	}
	id, suggestions := classify(err)
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithIssue(id).
		WithSuggestions(suggestions...).
		Wrap(err).
		Build()
}

// reportError prints err and, in verbose mode, its catalog entry.
func reportError(w io.Writer, err error, verbose bool) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	if !verbose {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	if entry := ae.CatalogIssue(); entry != nil {
		rendered, renderErr := entry.Render("dark")
		if renderErr != nil {
			fmt.Fprintln(w, WarningStyle.Render("Warning: ")+"failed to render issue help: "+renderErr.Error())
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// fail reports err on stderr and returns the ExitError ending the command.
func fail(cmd *cobra.Command, app *App, err error, verbose bool) error {
	reportError(app.stderr, err, verbose)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1}
}
