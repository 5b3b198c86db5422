// SPDX-License-Identifier: MPL-2.0

package bundler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shbundle/shbundle/internal/runtime"
	"github.com/shbundle/shbundle/internal/testutil"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	src := "#!/bin/bash\nsource lib.sh\nx=$(date) # build: inline\n# build: inline\n"
	report, err := Inspect(context.Background(), src)
	if err != nil {
		t.Fatalf("Inspect() unexpected error: %v", err)
	}

	want := &Report{
		Selectors: []Directive{{Text: "#!/bin/bash", Row: 0, Start: 0}},
		Includes:  []Directive{{Text: "source lib.sh", Row: 1, Start: 12}},
		Inlines:   []Directive{{Text: "$(date)", Row: 2, Start: 28}},
		Markers: []Directive{
			{Text: "# build: inline", Row: 2, Start: 36},
			{Text: "# build: inline", Row: 3, Start: 52},
		},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
	}
	if report.Clean() {
		t.Error("Clean() = true for a script with pending directives")
	}
}

func TestInspect_BundleOutputIsClean(t *testing.T) {
	t.Parallel()

	root := testutil.ScriptTree(t, map[string]string{
		"main.sh":        "#!/usr/bin/env bash\nset -eu\n. ./lib/log.sh\nsource lib/version.sh\nlog \"$VERSION\"\n",
		"lib/log.sh":     "#!/usr/bin/env bash\nsource ./version.sh\nlog() { printf '%s\\n' \"$*\"; }\n",
		"lib/version.sh": "VERSION=$(printf 1.0) # build: inline\n",
	})

	rt := &fakeRuntime{results: map[string]*runtime.Result{"printf 1.0": {Stdout: []byte("1.0")}}}
	art := bundleFile(t, newTestBundler(t, root, WithRuntime(rt)), filepath.Join(root, "main.sh"))

	report, err := Inspect(context.Background(), art.Text)
	if err != nil {
		t.Fatalf("Inspect() unexpected error: %v", err)
	}
	if !report.Clean() {
		t.Errorf("bundle output is not clean: %+v\n%s", report, art.Text)
	}
	if report.SyntaxErrors {
		t.Errorf("bundle output has syntax errors:\n%s", art.Text)
	}
	if err := Verify(art.Text, "bundle.sh"); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	if err := Verify("#!/bin/bash\nif true; then echo ok; fi\n", "ok.sh"); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}

	err := Verify("#!/bin/bash\nif true; then\n", "broken.sh")
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("Verify() error = %v, want ErrParseFailure", err)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.File != "broken.sh" {
		t.Errorf("error = %#v", err)
	}
}
