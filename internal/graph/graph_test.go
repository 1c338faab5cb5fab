package graph

import (
	"slices"
	"testing"
)

func TestGraphBasic(t *testing.T) {
	g := New()

	g.AddNode("./a")
	g.AddNode("./b")
	g.AddEdge("./a", "./b")

	if !g.HasNode("./a") {
		t.Error("graph should have node ./a")
	}
	if !g.HasNode("./b") {
		t.Error("graph should have node ./b")
	}
	if len(g.Dependencies("./a")) != 1 {
		t.Errorf("./a dependencies = %d, want 1", len(g.Dependencies("./a")))
	}
	if g.Dependencies("./a")[0] != "./b" {
		t.Errorf("./a depends on %v, want ./b", g.Dependencies("./a")[0])
	}
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	g := New()

	// No AddNode calls, only AddEdge.
	g.AddEdge("a", "b")

	if !g.HasNode("a") {
		t.Error("AddEdge should create 'from' node")
	}
	if !g.HasNode("b") {
		t.Error("AddEdge should create 'to' node")
	}
}

func TestDuplicateEdges(t *testing.T) {
	g := New()

	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	if len(g.Dependencies("a")) != 1 {
		t.Errorf("dependencies = %d, want 1 (duplicate edges deduplicated)", len(g.Dependencies("a")))
	}

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 0 {
		t.Errorf("cycles = %d, want 0", len(cycles))
	}
	if len(order) != 2 {
		t.Errorf("order = %d, want 2", len(order))
	}
}

func TestResolutionOrderEmpty(t *testing.T) {
	g := New()
	order, cycles := g.ResolutionOrder()
	if len(order) != 0 {
		t.Errorf("order = %d, want 0", len(order))
	}
	if len(cycles) != 0 {
		t.Errorf("cycles = %d, want 0", len(cycles))
	}
}

func TestResolutionOrderChain(t *testing.T) {
	g := New()

	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 0 {
		t.Errorf("cycles = %d, want 0", len(cycles))
	}

	want := []string{"c", "b", "a"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestResolutionOrderDiamond(t *testing.T) {
	g := New()

	// a imports b and c, both import d.
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "d")
	g.AddEdge("c", "d")

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 0 {
		t.Errorf("cycles = %d, want 0", len(cycles))
	}
	if len(order) != 4 {
		t.Fatalf("order = %d, want 4", len(order))
	}

	indexOf := func(s string) int { return slices.Index(order, s) }

	if indexOf("d") >= indexOf("b") || indexOf("d") >= indexOf("c") {
		t.Error("d should come before b and c")
	}
	if indexOf("b") >= indexOf("a") || indexOf("c") >= indexOf("a") {
		t.Error("b and c should come before a")
	}
}

func TestResolutionOrderCycle(t *testing.T) {
	g := New()

	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("c", "a")

	order, cycles := g.ResolutionOrder()
	if !slices.Equal(order, []string{"c"}) {
		t.Errorf("order = %v, want [c]", order)
	}
	if len(cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(cycles))
	}
	if !slices.Equal(cycles[0], []string{"a", "b"}) {
		t.Errorf("cycle = %v, want [a b]", cycles[0])
	}
}

func TestSelfLoop(t *testing.T) {
	g := New()
	g.AddEdge("a", "a")

	if !g.HasCycles() {
		t.Error("self-import should be a cycle")
	}
	cycles := g.FindCycles()
	if len(cycles) != 1 || len(cycles[0]) != 1 {
		t.Errorf("cycles = %v, want [[a]]", cycles)
	}
}

func TestNodesSorted(t *testing.T) {
	g := New()
	g.AddNode("z")
	g.AddEdge("m", "a")

	if got := g.Nodes(); !slices.Equal(got, []string{"a", "m", "z"}) {
		t.Errorf("Nodes() = %v", got)
	}
}
