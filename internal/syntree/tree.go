// SPDX-License-Identifier: MPL-2.0

package syntree

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
)

// Grammar node type names the adapter classifies.
const (
	typeComment             = "comment"
	typeCommand             = "command"
	typeCommandSubstitution = "command_substitution"
	typeWord                = "word"
	typeString              = "string"
	typeRawString           = "raw_string"
)

// Node kinds.
const (
	KindOther Kind = iota
	KindComment
	KindCommand
	KindCommandSubstitution
	KindWord
	KindString
	KindRawString
)

// ErrNoTree is returned when the grammar produced no tree at all.
var ErrNoTree = errors.New("parser returned no syntax tree")

type (
	// Kind is the closed classification of grammar node types.
	Kind int

	// Tree is a parsed script together with the bytes it was parsed from.
	Tree struct {
		src  []byte
		tree *sitter.Tree
	}

	// Node is a read-only view of a single syntax node. The zero Node stands
	// for "no node" and is returned wherever tree-sitter yields a null node.
	Node struct {
		n   *sitter.Node
		src []byte
	}
)

var kindNames = map[Kind]string{
	KindOther:               "other",
	KindComment:             "comment",
	KindCommand:             "command",
	KindCommandSubstitution: "command-substitution",
	KindWord:                "word",
	KindString:              "string",
	KindRawString:           "raw-string",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func kindOf(nodeType string) Kind {
	switch nodeType {
	case typeComment:
		return KindComment
	case typeCommand:
		return KindCommand
	case typeCommandSubstitution:
		return KindCommandSubstitution
	case typeWord:
		return KindWord
	case typeString:
		return KindString
	case typeRawString:
		return KindRawString
	default:
		return KindOther
	}
}

// Parse parses text with the bash grammar.
func Parse(ctx context.Context, text string) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(bash.GetLanguage())

	src := []byte(text)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if tree == nil {
		return nil, ErrNoTree
	}

	return &Tree{src: src, tree: tree}, nil
}

// Root returns the program node.
func (t *Tree) Root() Node {
	return wrap(t.tree.RootNode(), t.src)
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() string {
	return string(t.src)
}

// HasError reports whether the grammar had to insert ERROR or MISSING nodes.
func (t *Tree) HasError() bool {
	return t.tree.RootNode().HasError()
}

// Close releases the native tree. Nodes must not be used afterwards.
func (t *Tree) Close() {
	t.tree.Close()
}

func wrap(n *sitter.Node, src []byte) Node {
	if n == nil || n.IsNull() {
		return Node{}
	}
	return Node{n: n, src: src}
}

// IsZero reports whether this is the absent node.
func (n Node) IsZero() bool { return n.n == nil }

// Kind returns the classified kind, KindOther for the zero Node.
func (n Node) Kind() Kind {
	if n.IsZero() {
		return KindOther
	}
	return kindOf(n.n.Type())
}

// Type returns the raw grammar node type.
func (n Node) Type() string {
	if n.IsZero() {
		return ""
	}
	return n.n.Type()
}

// StartByte returns the inclusive start offset in the source.
func (n Node) StartByte() int { return int(n.n.StartByte()) }

// EndByte returns the exclusive end offset in the source.
func (n Node) EndByte() int { return int(n.n.EndByte()) }

// Row returns the zero-based line the node starts on.
func (n Node) Row() int { return int(n.n.StartPoint().Row) }

// Text returns the source covered by the node.
func (n Node) Text() string {
	if n.IsZero() {
		return ""
	}
	return string(n.src[n.StartByte():n.EndByte()])
}

// ChildCount returns the number of children, anonymous tokens included.
func (n Node) ChildCount() int {
	if n.IsZero() {
		return 0
	}
	return int(n.n.ChildCount())
}

// Child returns the i-th child or the zero Node.
func (n Node) Child(i int) Node {
	if n.IsZero() || i < 0 || i >= n.ChildCount() {
		return Node{}
	}
	return wrap(n.n.Child(i), n.src)
}

// NamedChildCount returns the number of named children.
func (n Node) NamedChildCount() int {
	if n.IsZero() {
		return 0
	}
	return int(n.n.NamedChildCount())
}

// NamedChild returns the i-th named child or the zero Node.
func (n Node) NamedChild(i int) Node {
	if n.IsZero() || i < 0 || i >= n.NamedChildCount() {
		return Node{}
	}
	return wrap(n.n.NamedChild(i), n.src)
}

// NextSibling returns the following sibling, anonymous tokens included.
func (n Node) NextSibling() Node {
	if n.IsZero() {
		return Node{}
	}
	return wrap(n.n.NextSibling(), n.src)
}

// NextNamedSibling returns the following named sibling.
func (n Node) NextNamedSibling() Node {
	if n.IsZero() {
		return Node{}
	}
	return wrap(n.n.NextNamedSibling(), n.src)
}

// Parent returns the enclosing node, or the zero Node for the root.
func (n Node) Parent() Node {
	if n.IsZero() {
		return Node{}
	}
	return wrap(n.n.Parent(), n.src)
}
