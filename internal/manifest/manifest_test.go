// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shbundle/shbundle/internal/bundler"
	"github.com/shbundle/shbundle/internal/testutil"
)

func testArtifact(root string) *bundler.Artifact {
	return &bundler.Artifact{
		Text:     "#!/bin/bash\n\necho hi\n",
		Selector: "#!/bin/bash",
		Root:     root,
		Files: []bundler.FileRecord{
			{Path: "lib/log.sh", SHA256: bundler.Digest([]byte("log() { :; }\n"))},
			{Path: "main.sh", SHA256: bundler.Digest([]byte("#!/bin/bash\nsource lib/log.sh\n"))},
		},
		Inlines: []bundler.InlineRecord{
			{File: "main.sh", Command: "git describe --tags", Bytes: 6, SHA256: bundler.Digest([]byte("v1.2.3"))},
		},
		Order: []string{"lib/log.sh", "main.sh"},
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FromArtifact(testArtifact("/src/project"), "dist/main.sh")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"version = 1",
		"root = '/src/project'",
		"selector = '#!/bin/bash'",
		"output = 'dist/main.sh'",
		"[[file]]",
		"path = 'lib/log.sh'",
		"[[inline]]",
		"command = 'git describe --tags'",
		"bytes = 6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("manifest missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "[[file]]") > strings.Index(out, "[[inline]]") {
		t.Errorf("file tables should precede inline tables:\n%s", out)
	}
}

func TestWriteThenDecode(t *testing.T) {
	t.Parallel()

	want := FromArtifact(testArtifact("/src/project"), "")
	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "output") {
		t.Errorf("empty output should be omitted:\n%s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_HandWritten(t *testing.T) {
	t.Parallel()

	src := `
version = 1
root = "/work"
selector = "#!/bin/sh"
order = ["a.sh"]

[[file]]
path = "a.sh"
sha256 = "00"
`
	got, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	want := &Manifest{
		Version:  1,
		Root:     "/work",
		Selector: "#!/bin/sh",
		Order:    []string{"a.sh"},
		Files:    []File{{Path: "a.sh", SHA256: "00"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr error
		wantMsg string
	}{
		{name: "syntax", src: "version = \n", wantMsg: "line 1"},
		{name: "unknown key", src: "version = 1\ncolour = 'red'\n", wantMsg: "colour"},
		{name: "other version", src: "version = 2\n", wantErr: ErrUnsupportedVersion},
		{name: "missing version", src: "root = '/x'\n", wantErr: ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("Decode() expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Decode() error = %q, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestWriteFileAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "nested", "bundle.toml")
	want := FromArtifact(testArtifact("/src"), "bundle.sh")
	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestChanged(t *testing.T) {
	t.Parallel()

	root := testutil.ScriptTree(t, map[string]string{
		"lib/log.sh": "log() { :; }\n",
		"main.sh":    "#!/bin/bash\nsource lib/log.sh\n",
	})
	m := FromArtifact(testArtifact(root), "")

	changed, err := m.Changed(root)
	if err != nil {
		t.Fatalf("Changed() unexpected error: %v", err)
	}
	if len(changed) != 0 {
		t.Errorf("Changed() = %v, want none", changed)
	}

	testutil.MustWriteFile(t, filepath.Join(root, "lib", "log.sh"), "log() { echo; }\n")
	if err := os.Remove(filepath.Join(root, "main.sh")); err != nil {
		t.Fatal(err)
	}
	changed, err = m.Changed(root)
	if err != nil {
		t.Fatalf("Changed() unexpected error: %v", err)
	}
	if !slices.Equal(changed, []string{"lib/log.sh", "main.sh"}) {
		t.Errorf("Changed() = %v", changed)
	}
}
