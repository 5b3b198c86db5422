// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shbundle/shbundle/internal/config"
)

// newConfigCommand creates the `shbundle config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shbundle configuration",
		Long: `Manage shbundle configuration.

The configuration is read from, in order:
  - the file given with --config
  - config.cue in the user config directory (e.g. ~/.config/shbundle/config.cue)
  - shbundle.cue in the working directory
SHBUNDLE_* environment variables override file values, and flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, rootFlags)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, rootFlags *rootFlagValues) error {
	s, err := loadSettings(cmd, app, rootFlags, nil)
	if err != nil {
		return fail(cmd, app, err, rootFlags.verbose)
	}

	source := SubtitleStyle.Render("(using defaults)")
	if s.configPath != "" {
		source = s.configPath
	}
	fmt.Fprintf(app.stderr, "%s: %s\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
	return nil
}

func initConfig(cmd *cobra.Command, app *App, rootFlags *rootFlagValues) error {
	path, err := config.CreateDefaultConfig("")
	if err != nil {
		return fail(cmd, app, actionable(err, "create config file", path), rootFlags.verbose)
	}
	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
