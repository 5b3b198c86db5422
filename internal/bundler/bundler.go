// SPDX-License-Identifier: MPL-2.0

package bundler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/shbundle/shbundle/internal/dag"
	"github.com/shbundle/shbundle/internal/runtime"
	"github.com/shbundle/shbundle/internal/syntree"
	"github.com/shbundle/shbundle/pkg/textedit"
)

// DefaultInputName names the top-level document of a text bundle in
// diagnostics and in the inclusion graph.
const DefaultInputName = "<stdin>"

type (
	// Bundler holds the configuration shared by bundle runs.
	Bundler struct {
		root      string
		runtime   runtime.Runtime
		logger    *log.Logger
		strict    bool
		inputName string
	}

	// Option configures a Bundler.
	Option func(*Bundler)

	// Artifact is the result of one bundle run.
	Artifact struct {
		// Text is the bundled script, selector line first.
		Text string
		// Selector is the interpreter selector shared by the inclusion graph.
		Selector string
		// Root is the canonical bundle root.
		Root string
		// Files lists every inlined file in the order its body was first inlined.
		Files []FileRecord
		// Inlines lists every frozen inline-build command in execution order.
		Inlines []InlineRecord
		// Order lists all documents with each file before the files that source it.
		Order []string
	}

	// FileRecord identifies an inlined file.
	FileRecord struct {
		// Path is relative to the bundle root, slash separated.
		Path   string
		SHA256 string
	}

	// InlineRecord describes one frozen inline-build command.
	InlineRecord struct {
		File    string
		Command string
		Bytes   int
		SHA256  string
	}

	// document is one script being bundled.
	document struct {
		text string
		// dir resolves relative include paths and is the inline command working directory.
		dir  string
		name string
	}

	// run is the state of a single bundle invocation.
	run struct {
		b           *Bundler
		selector    string
		hasSelector bool
		// visiting is the stack of canonical paths currently being resolved.
		visiting []string
		// visited holds canonical paths whose body has been inlined.
		visited map[string]struct{}
		graph   *dag.Graph
		files   []FileRecord
		inlines []InlineRecord
	}
)

// WithRuntime sets the runtime executing inline-build commands.
func WithRuntime(rt runtime.Runtime) Option {
	return func(b *Bundler) { b.runtime = rt }
}

// WithLogger sets the logger for progress and diagnostic messages.
func WithLogger(l *log.Logger) Option {
	return func(b *Bundler) { b.logger = l }
}

// WithStrictParse makes documents containing grammar errors fail with ErrParseFailure.
func WithStrictParse(strict bool) Option {
	return func(b *Bundler) { b.strict = strict }
}

// WithInputName sets the name of the top-level document for text bundles.
func WithInputName(name string) Option {
	return func(b *Bundler) { b.inputName = name }
}

// New creates a Bundler rooted at root. Included files must live under root.
func New(root string, opts ...Option) (*Bundler, error) {
	canonRoot, err := canonicalize(root)
	if err != nil {
		return nil, fmt.Errorf("root directory can't be canonicalized: %w", err)
	}

	b := &Bundler{
		root:      canonRoot,
		inputName: DefaultInputName,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.runtime == nil {
		b.runtime = runtime.NewNativeRuntime("")
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b, nil
}

// Root returns the canonical bundle root.
func (b *Bundler) Root() string {
	return b.root
}

// Bundle bundles text whose relative includes resolve against dir.
func (b *Bundler) Bundle(ctx context.Context, text, dir string) (*Artifact, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory %q: %w", dir, err)
	}

	r := b.newRun()
	r.graph.AddNode(b.inputName)

	body, err := r.bundleText(ctx, document{text: text, dir: absDir, name: b.inputName})
	if err != nil {
		return nil, err
	}
	return r.finish(body)
}

// BundleFile bundles the script at path. The file counts as being resolved for
// the whole run, so sourcing it again from anywhere in the graph is circular.
func (b *Bundler) BundleFile(ctx context.Context, path string) (*Artifact, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return nil, fmt.Errorf("resolve input %q: %w", path, err)
	}

	r := b.newRun()
	name := r.displayName(canon)
	r.graph.AddNode(name)

	body, err := r.bundlePath(ctx, canon, name)
	if err != nil {
		return nil, err
	}
	return r.finish(body)
}

func (b *Bundler) newRun() *run {
	return &run{
		b:       b,
		visited: make(map[string]struct{}),
		graph:   dag.New(),
	}
}

func (r *run) finish(body string) (*Artifact, error) {
	if !r.hasSelector {
		return nil, ErrSelectorMissing
	}

	order, err := r.graph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	r.b.logger.Debug("bundle complete", "files", r.graph.Len(), "selector", r.selector)

	return &Artifact{
		Text:     r.selector + "\n\n" + body,
		Selector: r.selector,
		Root:     r.b.root,
		Files:    r.files,
		Inlines:  r.inlines,
		Order:    order,
	}, nil
}

// bundlePath bundles the file at the canonical path.
func (r *run) bundlePath(ctx context.Context, path, name string) (string, error) {
	if slices.Contains(r.visiting, path) {
		chain := make([]string, 0, len(r.visiting)+1)
		for _, p := range r.visiting {
			chain = append(chain, r.displayName(p))
		}
		return "", &CircularIncludeError{Chain: append(chain, name)}
	}

	r.visiting = append(r.visiting, path)
	defer func() { r.visiting = r.visiting[:len(r.visiting)-1] }()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	out, err := r.bundleText(ctx, document{text: string(data), dir: filepath.Dir(path), name: name})
	if err != nil {
		return "", err
	}

	r.visited[path] = struct{}{}
	r.files = append(r.files, FileRecord{Path: name, SHA256: Digest(data)})
	return out, nil
}

// bundleText walks one document, recursing into includes, and applies its edits.
func (r *run) bundleText(ctx context.Context, doc document) (string, error) {
	tree, err := syntree.Parse(ctx, doc.text)
	if err != nil {
		return "", &ParseError{File: doc.name, Cause: err}
	}
	defer tree.Close()

	if r.b.strict && tree.HasError() {
		return "", &ParseError{File: doc.name, Cause: errSyntaxErrors}
	}

	rec := &recognizer{run: r, doc: doc}
	if err := syntree.Walk(tree.Root(), func(n syntree.Node) error {
		return rec.visit(ctx, n)
	}); err != nil {
		return "", err
	}

	out, err := textedit.Apply(doc.text, rec.edits)
	if err != nil {
		return "", fmt.Errorf("%s: %w", doc.name, err)
	}
	return out, nil
}

// relative expresses path relative to the root, failing for paths outside it.
func (r *run) relative(path string) (string, bool) {
	rel, err := filepath.Rel(r.b.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// displayName is the root-relative name of path, or the path itself outside the root.
func (r *run) displayName(path string) string {
	if rel, ok := r.relative(path); ok {
		return rel
	}
	return filepath.ToSlash(path)
}

// canonicalize returns the absolute, symlink-free form of path.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Digest returns the hex SHA-256 of data, as recorded in Artifact.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
