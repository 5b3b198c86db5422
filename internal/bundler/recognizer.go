// SPDX-License-Identifier: MPL-2.0

package bundler

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shbundle/shbundle/internal/runtime"
	"github.com/shbundle/shbundle/internal/syntree"
	"github.com/shbundle/shbundle/pkg/textedit"
)

const (
	// SelectorMarker starts an interpreter selector comment.
	SelectorMarker = "#!"
	// InlineMarker is the comment that freezes the preceding command substitution.
	InlineMarker = "# build: inline"

	// includeTrailer closes the block an include directive expands to.
	includeTrailer = "#########"
)

const (
	directiveNone directiveKind = iota
	directiveSelector
	directiveInclude
	directiveInline
)

type (
	directiveKind int

	// recognizer turns the significant nodes of one document into edits.
	recognizer struct {
		run           *run
		doc           document
		foundSelector bool
		edits         []textedit.Edit
	}
)

// classify maps a node to the directive it starts. For inline substitutions the
// marker comment is returned as well.
func classify(n syntree.Node) (directiveKind, syntree.Node) {
	switch n.Kind() {
	case syntree.KindComment:
		if strings.HasPrefix(n.Text(), SelectorMarker) {
			return directiveSelector, syntree.Node{}
		}
	case syntree.KindCommand:
		if name := n.Child(0).Text(); name == "source" || name == "." {
			return directiveInclude, syntree.Node{}
		}
	case syntree.KindCommandSubstitution:
		if marker := inlineMarkerFor(n); !marker.IsZero() {
			return directiveInline, marker
		}
	}
	return directiveNone, syntree.Node{}
}

// inlineMarkerFor returns the marker comment following a substitution. When
// the substitution is the last token of its statement the comment is a
// sibling of the enclosing node instead.
func inlineMarkerFor(n syntree.Node) syntree.Node {
	sib := n.NextNamedSibling()
	if sib.IsZero() {
		sib = n.Parent().NextNamedSibling()
	}
	if sib.Kind() == syntree.KindComment && sib.Text() == InlineMarker {
		return sib
	}
	return syntree.Node{}
}

func (rc *recognizer) visit(ctx context.Context, n syntree.Node) error {
	kind, marker := classify(n)
	switch kind {
	case directiveSelector:
		return rc.selector(n)
	case directiveInclude:
		return rc.include(ctx, n)
	case directiveInline:
		return rc.inline(ctx, n, marker)
	case directiveNone:
	}
	return nil
}

// selector validates the interpreter selector and removes it together with
// the whitespace up to the next statement.
func (rc *recognizer) selector(n syntree.Node) error {
	if rc.foundSelector {
		return &SelectorDuplicateError{File: rc.doc.name, Row: n.Row()}
	}
	if n.Row() != 0 || n.StartByte() != 0 {
		return &SelectorPositionError{File: rc.doc.name, Row: n.Row()}
	}

	text := n.Text()
	r := rc.run
	if r.hasSelector {
		if r.selector != text {
			return &SelectorConflictError{File: rc.doc.name, First: r.selector, Second: text}
		}
	} else {
		r.selector = text
		r.hasSelector = true
	}
	rc.foundSelector = true

	end := n.EndByte()
	if next := n.NextSibling(); !next.IsZero() {
		end = next.StartByte()
	}
	rc.edits = append(rc.edits, textedit.Delete(n.StartByte(), end))
	return nil
}

// include replaces a source directive with the bundled body of its target, or
// with nothing when that body is already part of the bundle.
func (rc *recognizer) include(ctx context.Context, n syntree.Node) error {
	r := rc.run
	arg := n.Child(1)

	target, err := includeTarget(arg)
	if err != nil {
		return &IncludeError{File: rc.doc.name, Target: arg.Text(), Cause: err}
	}

	joined := target
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(rc.doc.dir, target)
	}
	path, err := canonicalize(joined)
	if err != nil {
		return &IncludeError{File: rc.doc.name, Target: target, Cause: err}
	}

	if _, done := r.visited[path]; done {
		name := r.displayName(path)
		r.graph.AddEdge(name, rc.doc.name)
		r.b.logger.Debug("script already inlined", "path", name, "sourced_by", r.graph.Dependents(name))
		rc.edits = append(rc.edits, textedit.Delete(n.StartByte(), n.EndByte()))
		return nil
	}

	name, ok := r.relative(path)
	if !ok {
		return &OutsideRootError{File: rc.doc.name, Target: target, Path: path, Root: r.b.root}
	}
	r.graph.AddEdge(name, rc.doc.name)

	r.b.logger.Debug("inlining script", "path", name, "from", rc.doc.name)
	body, err := r.bundlePath(ctx, path, name)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("# source %s\n\n%s\n\n%s", name, body, includeTrailer)
	rc.edits = append(rc.edits, textedit.Replace(n.StartByte(), n.EndByte(), content))
	return nil
}

// includeTarget extracts the static path of an include argument.
func includeTarget(arg syntree.Node) (string, error) {
	var target string
	switch arg.Kind() {
	case syntree.KindWord:
		target = arg.Text()
	case syntree.KindString:
		for i := range arg.NamedChildCount() {
			if arg.NamedChild(i).Type() != "string_content" {
				return "", errDynamicInclude
			}
		}
		target = unquote(arg.Text())
	case syntree.KindRawString:
		target = unquote(arg.Text())
	default:
		if arg.IsZero() {
			return "", errMissingArgument
		}
		return "", errDynamicInclude
	}

	if target == "" {
		return "", errEmptyInclude
	}
	return target, nil
}

func unquote(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

// inline runs the substitution's command now and replaces the substitution
// with one that decodes the captured output.
func (rc *recognizer) inline(ctx context.Context, n, marker syntree.Node) error {
	r := rc.run
	command := substitutionBody(n.Text())

	r.b.logger.Debug("running inline command", "file", rc.doc.name, "command", command, "runtime", r.b.runtime.Name())
	res := r.b.runtime.Capture(ctx, runtime.Request{Command: command, Dir: rc.doc.dir})
	if !res.Success() {
		return &SubcommandError{File: rc.doc.name, Command: command, ExitCode: int(res.ExitCode), Cause: res.Error}
	}
	if len(res.Stderr) > 0 {
		r.b.logger.Warn("inline command wrote to stderr",
			"file", rc.doc.name, "command", command, "stderr", strings.TrimRight(string(res.Stderr), "\n"))
	}

	encoded := base64.StdEncoding.EncodeToString(res.Stdout)
	rc.edits = append(rc.edits,
		textedit.Replace(n.StartByte(), n.EndByte(), fmt.Sprintf("$(echo '%s' | base64 -d)", encoded)),
		textedit.Delete(marker.StartByte(), marker.EndByte()),
	)
	r.inlines = append(r.inlines, InlineRecord{
		File:    rc.doc.name,
		Command: command,
		Bytes:   len(res.Stdout),
		SHA256:  Digest(res.Stdout),
	})
	return nil
}

// substitutionBody strips the `$(`/`)` or backtick delimiters.
func substitutionBody(text string) string {
	switch {
	case strings.HasPrefix(text, "$(") && strings.HasSuffix(text, ")"):
		return text[2 : len(text)-1]
	case strings.HasPrefix(text, "`") && strings.HasSuffix(text, "`") && len(text) >= 2:
		return text[1 : len(text)-1]
	default:
		return text
	}
}
