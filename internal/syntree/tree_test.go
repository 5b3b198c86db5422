// SPDX-License-Identifier: MPL-2.0

package syntree

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func mustParse(t *testing.T, text string) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), text)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

func collect(t *testing.T, root Node, kind Kind) []string {
	t.Helper()
	var out []string
	err := Walk(root, func(n Node) error {
		if n.Kind() == kind {
			out = append(out, n.Text())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() unexpected error: %v", err)
	}
	return out
}

func TestParse_Kinds(t *testing.T) {
	t.Parallel()

	src := "#!/bin/bash\n# note\nsource ./lib.sh\n. \"other.sh\"\nx=$(date) # build: inline\necho 'raw'\n"
	tree := mustParse(t, src)
	root := tree.Root()

	if tree.HasError() {
		t.Fatal("HasError() = true for a valid script")
	}
	if !root.Parent().IsZero() {
		t.Error("root node should have no parent")
	}
	if got := tree.Source(); got != src {
		t.Errorf("Source() = %q", got)
	}

	comments := collect(t, root, KindComment)
	if !slices.Equal(comments, []string{"#!/bin/bash", "# note", "# build: inline"}) {
		t.Errorf("comments = %q", comments)
	}

	substitutions := collect(t, root, KindCommandSubstitution)
	if !slices.Equal(substitutions, []string{"$(date)"}) {
		t.Errorf("command substitutions = %q", substitutions)
	}

	if got := collect(t, root, KindRawString); !slices.Equal(got, []string{"'raw'"}) {
		t.Errorf("raw strings = %q", got)
	}
	if got := collect(t, root, KindString); !slices.Equal(got, []string{`"other.sh"`}) {
		t.Errorf("strings = %q", got)
	}

	var commands []Node
	_ = Walk(root, func(n Node) error {
		if n.Kind() == KindCommand {
			commands = append(commands, n)
		}
		return nil
	})
	if len(commands) < 3 {
		t.Fatalf("expected at least 3 commands, got %d", len(commands))
	}
	first := commands[0]
	if got := first.Child(0).Text(); got != "source" {
		t.Errorf("first command name = %q, want source", got)
	}
	if arg := first.Child(1); arg.Kind() != KindWord || arg.Text() != "./lib.sh" {
		t.Errorf("first command argument = %s %q", arg.Kind(), arg.Text())
	}
	if got := commands[1].Child(0).Text(); got != "." {
		t.Errorf("second command name = %q, want .", got)
	}
}

func TestNode_Positions(t *testing.T) {
	t.Parallel()

	src := "#!/bin/sh\n\necho hi\n"
	root := mustParse(t, src).Root()

	shebang := root.NamedChild(0)
	if shebang.Kind() != KindComment {
		t.Fatalf("first child kind = %s, want comment", shebang.Kind())
	}
	if shebang.Row() != 0 || shebang.StartByte() != 0 || shebang.EndByte() != len("#!/bin/sh") {
		t.Errorf("shebang span = row %d [%d,%d)", shebang.Row(), shebang.StartByte(), shebang.EndByte())
	}

	next := shebang.NextNamedSibling()
	if next.Kind() != KindCommand || next.Row() != 2 {
		t.Errorf("next sibling = %s on row %d", next.Kind(), next.Row())
	}
	if !next.NextNamedSibling().IsZero() {
		t.Error("last statement should have no next named sibling")
	}
}

func TestNode_ZeroValue(t *testing.T) {
	t.Parallel()

	var n Node
	if !n.IsZero() || n.Kind() != KindOther || n.Text() != "" || n.Type() != "" {
		t.Error("zero Node should be absent, KindOther and empty")
	}
	if !n.Child(0).IsZero() || !n.NextNamedSibling().IsZero() || !n.Parent().IsZero() {
		t.Error("relatives of the zero Node should be zero")
	}
	if err := Walk(n, func(Node) error { return errors.New("called") }); err != nil {
		t.Errorf("Walk(zero) = %v, want nil", err)
	}
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "echo a\necho b\n").Root()

	var order []string
	_ = Walk(root, func(n Node) error {
		if n.Kind() == KindCommand || n.Kind() == KindWord {
			order = append(order, n.Kind().String()+":"+n.Text())
		}
		return nil
	})

	want := []string{"command:echo a", "word:echo", "word:a", "command:echo b", "word:echo", "word:b"}
	if !slices.Equal(order, want) {
		t.Errorf("visit order = %q, want %q", order, want)
	}
}

func TestWalk_StopsOnFirstError(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "echo a\necho b\necho c\n").Root()
	stop := errors.New("stop")

	var seen []string
	err := Walk(root, func(n Node) error {
		if n.Kind() != KindCommand {
			return nil
		}
		seen = append(seen, n.Text())
		if n.Text() == "echo b" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Walk() error = %v, want stop", err)
	}
	if !slices.Equal(seen, []string{"echo a", "echo b"}) {
		t.Errorf("visited %q after error", seen)
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	if KindCommandSubstitution.String() != "command-substitution" {
		t.Errorf("KindCommandSubstitution.String() = %q", KindCommandSubstitution.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
