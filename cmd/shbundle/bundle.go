// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shbundle/shbundle/internal/bundler"
	"github.com/shbundle/shbundle/internal/issue"
	"github.com/shbundle/shbundle/internal/manifest"
	"github.com/shbundle/shbundle/internal/runtime"
)

// bundleJob is one bundle produced by the root or the watch command.
type bundleJob struct {
	// input is the entry script. Empty reads the script from stdin.
	input string
	// dir is the bundle root.
	dir string
	// out is the output file. Empty prints to stdout.
	out string
	// manifest is the manifest file. Empty skips the manifest.
	manifest string
}

func runBundle(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, bundleFlags *bundleFlagValues, args []string) error {
	s, err := loadSettings(cmd, app, rootFlags, bundleFlags)
	if err != nil {
		return fail(cmd, app, err, rootFlags.verbose)
	}

	job, err := newBundleJob(args, bundleFlags)
	if err != nil {
		return fail(cmd, app, err, s.verbose)
	}

	b, err := newBundler(s, job)
	if err != nil {
		return fail(cmd, app, actionable(err, "prepare bundler", job.dir), s.verbose)
	}

	if _, err := job.run(cmd.Context(), b, s, app.stdin, app.stdout); err != nil {
		return fail(cmd, app, actionable(err, "bundle script", job.displayInput()), s.verbose)
	}
	return nil
}

func newBundleJob(args []string, bundleFlags *bundleFlagValues) (*bundleJob, error) {
	job := &bundleJob{
		dir:      bundleFlags.dir,
		out:      bundleFlags.out,
		manifest: bundleFlags.manifest,
	}
	if len(args) > 0 {
		job.input = args[0]
	}

	if job.dir == "" {
		if job.input != "" {
			job.dir = filepath.Dir(job.input)
		} else {
			wd, err := os.Getwd()
			if err != nil {
				return nil, issue.NewErrorContext().
					WithOperation("determine working directory").
					Wrap(err).
					BuildError()
			}
			job.dir = wd
		}
	}
	return job, nil
}

func newBundler(s *settings, job *bundleJob) (*bundler.Bundler, error) {
	rt, err := runtime.New(runtime.Mode(s.cfg.Runtime), s.cfg.Shell)
	if err != nil {
		return nil, actionable(err, "select runtime", s.cfg.Runtime.String())
	}
	return bundler.New(job.dir,
		bundler.WithRuntime(rt),
		bundler.WithLogger(s.logger),
		bundler.WithStrictParse(s.cfg.StrictParse),
	)
}

func (job *bundleJob) displayInput() string {
	if job.input == "" {
		return bundler.DefaultInputName
	}
	return job.input
}

// run bundles the input and writes the bundle and the manifest.
func (job *bundleJob) run(ctx context.Context, b *bundler.Bundler, s *settings, stdin io.Reader, stdout io.Writer) (*bundler.Artifact, error) {
	var (
		art *bundler.Artifact
		err error
	)
	if job.input == "" {
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return nil, fmt.Errorf("read stdin: %w", readErr)
		}
		art, err = b.Bundle(ctx, string(data), b.Root())
	} else {
		art, err = b.BundleFile(ctx, job.input)
	}
	if err != nil {
		return nil, err
	}

	if s.cfg.VerifyOutput {
		if err := bundler.Verify(art.Text, job.displayInput()); err != nil {
			return nil, err
		}
	}

	if err := job.writeOutput(art, stdout); err != nil {
		return nil, err
	}

	if job.manifest != "" {
		if err := manifest.WriteFile(job.manifest, manifest.FromArtifact(art, job.out)); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("write manifest").
				WithResource(job.manifest).
				WithIssue(issue.OutputWriteFailedId).
				Wrap(err).
				BuildError()
		}
	}
	return art, nil
}

func (job *bundleJob) writeOutput(art *bundler.Artifact, stdout io.Writer) error {
	if job.out == "" {
		if _, err := fmt.Fprintln(stdout, art.Text); err != nil {
			return issue.NewErrorContext().
				WithOperation("write bundle").
				WithResource("<stdout>").
				WithIssue(issue.OutputWriteFailedId).
				Wrap(err).
				BuildError()
		}
		return nil
	}

	err := os.MkdirAll(filepath.Dir(job.out), 0o755)
	if err == nil {
		err = os.WriteFile(job.out, []byte(art.Text), 0o644)
	}
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("write bundle").
			WithResource(job.out).
			WithIssue(issue.OutputWriteFailedId).
			WithSuggestion("Check that the output directory is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}
