// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/shbundle/shbundle/internal/bundler"
	"github.com/shbundle/shbundle/internal/issue"
	"github.com/shbundle/shbundle/internal/manifest"
	"github.com/shbundle/shbundle/internal/watch"
)

// errWatchNeedsOutput is returned when watch is started without --out.
var errWatchNeedsOutput = errors.New("watch requires --out")

// watchSession re-bundles one job on every relevant change.
type watchSession struct {
	app *App
	s   *settings
	job *bundleJob
	b   *bundler.Bundler
	// last describes the most recent successful bundle, nil before the first.
	last *manifest.Manifest
}

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	bundleFlags := &bundleFlagValues{}
	watchCmd := &cobra.Command{
		Use:   "watch FILE -o OUT",
		Short: "Re-bundle a script whenever a file under the bundle root changes",
		Long: `Bundle FILE once, then watch the bundle root and bundle again after every
change to a file matching watch.patterns. Changes that leave every bundled file
byte-identical are skipped. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, app, rootFlags, bundleFlags, args)
		},
	}
	addBundleFlags(watchCmd, bundleFlags)
	return watchCmd
}

func runWatch(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, bundleFlags *bundleFlagValues, args []string) error {
	s, err := loadSettings(cmd, app, rootFlags, bundleFlags)
	if err != nil {
		return fail(cmd, app, err, rootFlags.verbose)
	}
	if bundleFlags.out == "" {
		return fail(cmd, app, issue.NewErrorContext().
			WithOperation("start watch").
			WithSuggestion("Pass the output file with -o/--out").
			Wrap(errWatchNeedsOutput).
			BuildError(), s.verbose)
	}

	job, err := newBundleJob(args, bundleFlags)
	if err != nil {
		return fail(cmd, app, err, s.verbose)
	}
	b, err := newBundler(s, job)
	if err != nil {
		return fail(cmd, app, actionable(err, "prepare bundler", job.dir), s.verbose)
	}

	session := &watchSession{app: app, s: s, job: job, b: b}

	fmt.Fprintf(app.stdout, "%s Initial bundle of %s\n", CmdStyle.Render("→"), job.input)
	session.rebuild(cmd.Context())

	w, err := watch.New(watch.Config{
		Root:     job.dir,
		Patterns: s.cfg.Watch.Patterns,
		Ignore:   s.cfg.Watch.Ignore,
		Exclude:  session.excluded(),
		Debounce: s.cfg.Watch.Debounce,
		OnChange: session.onChange,
		Logger:   s.logger,
	})
	if err != nil {
		return fail(cmd, app, actionable(err, "start watcher", job.dir), s.verbose)
	}

	fmt.Fprintf(app.stdout, "%s Watching %s for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"), w.Root())
	if err := w.Run(cmd.Context()); err != nil {
		return fail(cmd, app, actionable(err, "watch files", w.Root()), s.verbose)
	}
	return nil
}

// excluded lists the files written by the session, which must not retrigger it.
func (ws *watchSession) excluded() []string {
	var paths []string
	for _, p := range []string{ws.job.out, ws.job.manifest} {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			paths = append(paths, abs)
		}
	}
	return paths
}

func (ws *watchSession) onChange(ctx context.Context, changed []string) error {
	if ws.unchanged(changed) {
		ws.s.logger.Debug("bundled files unchanged, skipping", "changed", changed)
		return nil
	}
	fmt.Fprintf(ws.app.stdout, "%s Detected %d change(s), re-bundling %s\n",
		CmdStyle.Render("→"), len(changed), ws.job.input)
	ws.rebuild(ctx)
	return nil
}

// unchanged reports whether every changed path is a bundled file whose
// content still matches the last bundle.
func (ws *watchSession) unchanged(changed []string) bool {
	if ws.last == nil {
		return false
	}
	recorded := make([]string, 0, len(ws.last.Files))
	for _, f := range ws.last.Files {
		recorded = append(recorded, f.Path)
	}
	for _, p := range changed {
		if !slices.Contains(recorded, filepath.ToSlash(p)) {
			return false
		}
	}
	stale, err := ws.last.Changed(ws.b.Root())
	return err == nil && len(stale) == 0
}

// rebuild bundles once. Failures are reported and the session keeps watching.
func (ws *watchSession) rebuild(ctx context.Context) {
	art, err := ws.job.run(ctx, ws.b, ws.s, ws.app.stdin, ws.app.stdout)
	if err != nil {
		reportError(ws.app.stderr, actionable(err, "bundle script", ws.job.displayInput()), ws.s.verbose)
		return
	}
	ws.last = manifest.FromArtifact(art, ws.job.out)
	fmt.Fprintf(ws.app.stdout, "%s Wrote %s (%d file(s))\n",
		SuccessStyle.Render("✓"), ws.job.out, len(art.Files))
}
