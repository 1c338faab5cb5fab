// Package graph orders module specifiers by their imports. The realm uses it
// to instantiate a module only after everything it re-exports from, and Load
// uses it to find the modules reachable from a requested name.
package graph

import (
	"slices"
)

// Graph maps each module specifier to the specifiers it imports.
type Graph struct {
	nodes map[string]struct{}
	edges map[string][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

// AddNode adds a specifier with no imports yet.
func (g *Graph) AddNode(spec string) {
	g.nodes[spec] = struct{}{}
}

// AddEdge records that module from imports module to. Either specifier is
// added if unseen, and repeating an import is a no-op.
func (g *Graph) AddEdge(from, to string) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the specifiers spec imports, in the order added.
func (g *Graph) Dependencies(spec string) []string {
	return g.edges[spec]
}

// HasNode reports whether spec was added as a module or an import target.
func (g *Graph) HasNode(spec string) bool {
	_, ok := g.nodes[spec]
	return ok
}

// Nodes returns every specifier, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for spec := range g.nodes {
		out = append(out, spec)
	}
	slices.Sort(out)
	return out
}

// ResolutionOrder returns the instantiation order: every module after the
// modules it imports. Modules that import each other, directly or through a
// chain, or a module importing itself, come back as cycles and are left out
// of the order. Walks start from sorted specifiers, so equal graphs give
// equal orders.
func (g *Graph) ResolutionOrder() (order []string, cycles [][]string) {
	var (
		index    int
		stack    []string
		onStack  = make(map[string]bool)
		indices  = make(map[string]int)
		lowlinks = make(map[string]int)
	)

	var strongConnect func(spec string)
	strongConnect = func(spec string) {
		indices[spec] = index
		lowlinks[spec] = index
		index++
		stack = append(stack, spec)
		onStack[spec] = true

		for _, dep := range g.edges[spec] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[spec] = min(lowlinks[spec], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[spec] = min(lowlinks[spec], indices[dep])
			}
		}

		if lowlinks[spec] == indices[spec] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == spec {
					break
				}
			}
			if len(scc) > 1 {
				slices.Sort(scc)
				cycles = append(cycles, scc)
			} else if slices.Contains(g.edges[scc[0]], scc[0]) {
				cycles = append(cycles, scc)
			} else {
				order = append(order, scc[0])
			}
		}
	}

	for _, spec := range g.Nodes() {
		if _, visited := indices[spec]; !visited {
			strongConnect(spec)
		}
	}

	return order, cycles
}

// FindCycles returns each group of mutually importing modules.
func (g *Graph) FindCycles() [][]string {
	_, cycles := g.ResolutionOrder()
	return cycles
}

// HasCycles reports whether any module imports itself, directly or not.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}
