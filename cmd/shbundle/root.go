// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/shbundle/shbundle/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		verbose    bool
		configPath string
	}

	// bundleFlagValues holds the flags of the commands that produce a bundle.
	bundleFlagValues struct {
		dir      string
		out      string
		manifest string
		runtime  string
		shell    string
		strict   bool
		verify   bool
	}
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootFlags := &rootFlagValues{}
	bundleFlags := &bundleFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "shbundle [FILE]",
		Short: "Bundle a bash script and everything it sources into one file",
		Long: TitleStyle.Render("shbundle") + SubtitleStyle.Render(" - Bundle a bash script and everything it sources") + `

shbundle follows every 'source FILE' and '. FILE' with a literal path, replaces
it with the file's contents and removes repeated includes. Command
substitutions marked with '# build: inline' run once at build time and are
frozen into the bundle. The first line of the entry script selects the
interpreter and must agree with any selector in the included files.

` + SubtitleStyle.Render("Examples:") + `
  shbundle main.sh                  Print the bundle of main.sh
  shbundle main.sh -o dist/main.sh  Write the bundle to a file
  cat main.sh | shbundle -d lib     Bundle stdin, resolving includes in lib
  shbundle inspect main.sh          List directives without running anything
  shbundle watch main.sh -o out.sh  Re-bundle whenever a script changes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd, app, rootFlags, bundleFlags, args)
		},
	}
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging and detailed error help")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/shbundle/config.cue)")
	addBundleFlags(rootCmd, bundleFlags)

	rootCmd.AddCommand(newInspectCommand(app, rootFlags))
	rootCmd.AddCommand(newWatchCommand(app, rootFlags))
	rootCmd.AddCommand(newConfigCommand(app, rootFlags))

	return rootCmd
}

func addBundleFlags(cmd *cobra.Command, v *bundleFlagValues) {
	cmd.Flags().StringVarP(&v.dir, "dir", "d", "", "bundle root that includes must stay under (default: FILE's directory); FILE's own includes still resolve from FILE's directory")
	cmd.Flags().StringVarP(&v.out, "out", "o", "", "write the bundle to this file instead of stdout")
	cmd.Flags().StringVar(&v.manifest, "manifest", "", "write a TOML manifest of the bundle to this file")
	cmd.Flags().StringVar(&v.runtime, "runtime", "", "runtime for inline commands: native or virtual")
	cmd.Flags().StringVar(&v.shell, "shell", "", "shell of the native runtime")
	cmd.Flags().BoolVar(&v.strict, "strict", false, "reject scripts with syntax errors")
	cmd.Flags().BoolVar(&v.verify, "verify", false, "re-parse the bundle before writing it")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors list their suggestions, and in verbose mode the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
