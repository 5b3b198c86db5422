// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shbundle/shbundle/internal/bundler"
)

// errNotClean is reported by inspect --check for scripts that still need bundling.
var errNotClean = errors.New("script still contains bundle directives")

func newInspectCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var check bool
	inspectCmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "List the selector, include and inline directives of a script",
		Long: `List the selector, include and inline directives of a script without
reading included files or running anything.

With --check the command fails unless the script is a finished bundle: one
selector on the first line and no include or inline directive left.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, app, rootFlags, args[0], check)
		},
	}
	inspectCmd.Flags().BoolVar(&check, "check", false, "fail unless the script is a finished bundle")
	return inspectCmd
}

func runInspect(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, path string, check bool) error {
	s, err := loadSettings(cmd, app, rootFlags, nil)
	if err != nil {
		return fail(cmd, app, err, rootFlags.verbose)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(cmd, app, actionable(err, "read script", path), s.verbose)
	}
	report, err := bundler.Inspect(cmd.Context(), string(data))
	if err != nil {
		return fail(cmd, app, actionable(err, "inspect script", path), s.verbose)
	}

	printReport(app.stdout, path, report)

	if check && !report.Clean() {
		return fail(cmd, app, actionable(errNotClean, "check script", path), s.verbose)
	}
	return nil
}

func printReport(w io.Writer, path string, report *bundler.Report) {
	fmt.Fprintln(w, TitleStyle.Render("Directives of ")+CmdStyle.Render(path))
	printDirectives(w, "Selectors", report.Selectors)
	printDirectives(w, "Includes", report.Includes)
	printDirectives(w, "Inline commands", report.Inlines)
	if len(report.Markers) != len(report.Inlines) {
		fmt.Fprintf(w, "%s %d marker comment(s), %d paired with a substitution\n",
			WarningStyle.Render("!"), len(report.Markers), len(report.Inlines))
	}
	if report.SyntaxErrors {
		fmt.Fprintf(w, "%s the script has syntax errors\n", WarningStyle.Render("!"))
	}
	if report.Clean() {
		fmt.Fprintf(w, "%s finished bundle\n", SuccessStyle.Render("✓"))
	}
}

func printDirectives(w io.Writer, title string, ds []bundler.Directive) {
	fmt.Fprintf(w, "\n%s (%d)\n", SubtitleStyle.Render(title), len(ds))
	for _, d := range ds {
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render(fmt.Sprintf("%d:", d.Row+1)), d.Text)
	}
}
