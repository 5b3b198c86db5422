// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shbundle/shbundle/internal/config"
)

// settings is the effective configuration of one command invocation.
type settings struct {
	cfg        *config.Config
	configPath string
	verbose    bool
	logger     *log.Logger
}

// loadSettings loads the configuration and applies the flags the user set
// explicitly. bundleFlags may be nil for commands without bundle flags.
func loadSettings(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, bundleFlags *bundleFlagValues) (*settings, error) {
	cfg, path, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
	if err != nil {
		return nil, err
	}

	if bundleFlags != nil {
		flags := cmd.Flags()
		if flags.Changed("runtime") {
			cfg.Runtime = config.RuntimeMode(bundleFlags.runtime)
		}
		if flags.Changed("shell") {
			cfg.Shell = bundleFlags.shell
		}
		if flags.Changed("strict") {
			cfg.StrictParse = bundleFlags.strict
		}
		if flags.Changed("verify") {
			cfg.VerifyOutput = bundleFlags.verify
		}
	}

	verbose := rootFlags.verbose || cfg.UI.Verbose
	return &settings{
		cfg:        cfg,
		configPath: path,
		verbose:    verbose,
		logger:     newLogger(app.stderr, verbose),
	}, nil
}

// newLogger returns the logger handed to the bundler and the watcher.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "shbundle",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
