// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/shbundle/shbundle/internal/bundler"
)

// Version is the manifest format version written by this package.
const Version = 1

// ErrUnsupportedVersion is returned when decoding a manifest of another format version.
var ErrUnsupportedVersion = errors.New("unsupported manifest version")

type (
	// Manifest describes one bundle.
	Manifest struct {
		Version  int      `toml:"version"`
		Root     string   `toml:"root"`
		Selector string   `toml:"selector"`
		Output   string   `toml:"output,omitempty"`
		Order    []string `toml:"order"`
		Files    []File   `toml:"file,omitempty"`
		Inlines  []Inline `toml:"inline,omitempty"`
	}

	// File is one inlined script.
	File struct {
		Path   string `toml:"path"`
		SHA256 string `toml:"sha256"`
	}

	// Inline is one frozen inline-build command.
	Inline struct {
		File    string `toml:"file"`
		Command string `toml:"command"`
		Bytes   int    `toml:"bytes"`
		SHA256  string `toml:"sha256"`
	}
)

// FromArtifact builds the manifest of art. output names the written bundle, if any.
func FromArtifact(art *bundler.Artifact, output string) *Manifest {
	m := &Manifest{
		Version:  Version,
		Root:     filepath.ToSlash(art.Root),
		Selector: art.Selector,
		Output:   output,
		Order:    art.Order,
	}
	for _, f := range art.Files {
		m.Files = append(m.Files, File{Path: f.Path, SHA256: f.SHA256})
	}
	for _, in := range art.Inlines {
		m.Inlines = append(m.Inlines, Inline{File: in.File, Command: in.Command, Bytes: in.Bytes, SHA256: in.SHA256})
	}
	return m
}

// Write encodes m as TOML.
func Write(w io.Writer, m *Manifest) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// WriteFile writes m to path, creating parent directories.
func WriteFile(path string, m *Manifest) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return Write(f, m)
}

// Decode reads a manifest. Unknown keys are rejected.
func Decode(r io.Reader) (*Manifest, error) {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("decode manifest: line %d, column %d: %w", row, col, err)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("decode manifest: %w\n%s", err, serr.String())
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	return &m, nil
}

// Load decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Changed returns the recorded files under root whose content no longer
// matches their digest, including deleted files.
func (m *Manifest) Changed(root string) ([]string, error) {
	var changed []string
	for _, f := range m.Files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
		if errors.Is(err, os.ErrNotExist) {
			changed = append(changed, f.Path)
			continue
		}
		if err != nil {
			return nil, err
		}
		if bundler.Digest(data) != f.SHA256 {
			changed = append(changed, f.Path)
		}
	}
	return changed, nil
}
