// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_SingleScript(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("main.sh")
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"main.sh"}) {
		t.Errorf("expected [main.sh], got %v", order)
	}
}

func TestTopologicalSort_SourceChain(t *testing.T) {
	t.Parallel()
	g := New()
	// main.sh sources lib/a.sh which sources lib/b.sh
	g.AddNode("main.sh")
	g.AddEdge("lib/a.sh", "main.sh")
	g.AddEdge("lib/b.sh", "lib/a.sh")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"lib/b.sh", "lib/a.sh", "main.sh"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestTopologicalSort_SharedLibrary(t *testing.T) {
	t.Parallel()
	g := New()
	// main.sh sources a.sh and b.sh, both source common.sh
	g.AddEdge("a.sh", "main.sh")
	g.AddEdge("b.sh", "main.sh")
	g.AddEdge("common.sh", "a.sh")
	g.AddEdge("common.sh", "b.sh")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[0] != "common.sh" {
		t.Errorf("expected common.sh first, got %v", order)
	}
	if order[len(order)-1] != "main.sh" {
		t.Errorf("expected main.sh last, got %v", order)
	}
	if len(order) != 4 {
		t.Errorf("expected 4 nodes, got %d: %v", len(order), order)
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edges   [][2]string
		minSize int
	}{
		{name: "self", edges: [][2]string{{"a.sh", "a.sh"}}, minSize: 1},
		{name: "mutual", edges: [][2]string{{"a.sh", "b.sh"}, {"b.sh", "a.sh"}}, minSize: 2},
		{name: "three", edges: [][2]string{{"a.sh", "b.sh"}, {"b.sh", "c.sh"}, {"c.sh", "a.sh"}}, minSize: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			_, err := g.TopologicalSort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if len(cycleErr.Cycle) < tt.minSize {
				t.Errorf("expected at least %d nodes in cycle, got %v", tt.minSize, cycleErr.Cycle)
			}
		})
	}
}

func TestAddEdge_Duplicates(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("lib.sh", "main.sh")
	g.AddEdge("lib.sh", "main.sh")

	if got := g.Dependents("lib.sh"); !slices.Equal(got, []string{"main.sh"}) {
		t.Errorf("Dependents(lib.sh) = %v", got)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"lib.sh", "main.sh"}) {
		t.Errorf("expected [lib.sh main.sh], got %v", order)
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"a.sh", "b.sh"}}
	expected := "inclusion cycle detected: a.sh -> b.sh"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
