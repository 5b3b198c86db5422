// SPDX-License-Identifier: MPL-2.0

package bundler

import (
	"context"
	"strings"

	"github.com/shbundle/shbundle/internal/syntree"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// Report lists the directives found in a script without acting on them.
	Report struct {
		Selectors []Directive
		Includes  []Directive
		// Inlines are substitutions paired with a marker comment.
		Inlines []Directive
		// Markers are all marker comments, paired or not.
		Markers []Directive
		// SyntaxErrors is true when the grammar inserted ERROR or MISSING nodes.
		SyntaxErrors bool
	}

	// Directive locates one construct in the inspected text.
	Directive struct {
		Text  string
		Row   int
		Start int
	}
)

// Clean reports whether the script carries exactly one selector, on the first
// line, and no unresolved include or inline directive.
func (r *Report) Clean() bool {
	return len(r.Selectors) == 1 && r.Selectors[0].Row == 0 && r.Selectors[0].Start == 0 &&
		len(r.Includes) == 0 && len(r.Inlines) == 0 && len(r.Markers) == 0
}

// Inspect classifies every node of text. Nothing is executed or read from disk.
func Inspect(ctx context.Context, text string) (*Report, error) {
	tree, err := syntree.Parse(ctx, text)
	if err != nil {
		return nil, &ParseError{File: DefaultInputName, Cause: err}
	}
	defer tree.Close()

	report := &Report{SyntaxErrors: tree.HasError()}
	err = syntree.Walk(tree.Root(), func(n syntree.Node) error {
		at := Directive{Text: n.Text(), Row: n.Row(), Start: n.StartByte()}

		kind, _ := classify(n)
		switch kind {
		case directiveSelector:
			report.Selectors = append(report.Selectors, at)
		case directiveInclude:
			report.Includes = append(report.Includes, at)
		case directiveInline:
			report.Inlines = append(report.Inlines, at)
		case directiveNone:
		}
		if n.Kind() == syntree.KindComment && n.Text() == InlineMarker {
			report.Markers = append(report.Markers, at)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Verify parses text with the mvdan/sh bash parser, independently of the
// grammar used for bundling.
func Verify(text, name string) error {
	_, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(text), name)
	if err != nil {
		return &ParseError{File: name, Cause: err}
	}
	return nil
}
