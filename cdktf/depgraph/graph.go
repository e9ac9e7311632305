// Package depgraph implements a small directed graph used both for the
// stack dependency graph (cycle detection, topological synthesis order,
// spec §5) and for reporting the full cycle when one is found.
package depgraph

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

// Graph is a directed graph over string node ids, insertion-ordered so
// topological sort ties break by insertion order (spec §5: "among equal
// ranks, insertion order breaks ties").
type Graph struct {
	order []string
	seen  map[string]bool
	edges map[string][]string // from -> to (from depends on to)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{seen: make(map[string]bool), edges: make(map[string][]string)}
}

// AddNode registers a node if it is not already present.
func (g *Graph) AddNode(id string) {
	if g.seen[id] {
		return
	}
	g.seen[id] = true
	g.order = append(g.order, id)
}

// HasPath reports whether there is a directed path from -> to (from
// depends, transitively, on to).
func (g *Graph) HasPath(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{}
	var dfs func(n string) bool
	dfs = func(n string) bool {
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, next := range g.edges[n] {
			if next == to || dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(from)
}

// AddEdge records that `from` depends on `to`. It fails with
// CircularDependency if `to` already (transitively) depends on `from`,
// per spec §4.E / §8 scenario 5.
func (g *Graph) AddEdge(from, to string) error {
	g.AddNode(from)
	g.AddNode(to)
	if g.HasPath(to, from) {
		return cdktferrors.Newf(cdktferrors.CircularDependency,
			"%q cannot depend on %q: %q already depends on %q", from, to, to, from)
	}
	for _, existing := range g.edges[from] {
		if existing == to {
			return nil
		}
	}
	g.edges[from] = append(g.edges[from], to)
	return nil
}

// Edges returns the dependencies of node id, in insertion order.
func (g *Graph) Edges(id string) []string {
	out := make([]string, len(g.edges[id]))
	copy(out, g.edges[id])
	return out
}

// Nodes returns every node, in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// TopoSort returns nodes ordered so that every node appears after all the
// nodes it depends on, breaking ties by insertion order. If the graph is
// not a DAG it returns a CircularDependency error for the first cycle
// found, carrying the depth-first path that closes it (a full-graph scan,
// independent of the
// AddEdge-time check, since aspects/prepare may have introduced edges out
// of order).
func (g *Graph) TopoSort() ([]string, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.order))
	var result []string
	var cycleErrs *multierror.Error

	var visit func(n string, stack []string) bool
	visit = func(n string, stack []string) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, dep := range g.edges[n] {
			switch color[dep] {
			case white:
				if visit(dep, stack) {
					return true
				}
			case gray:
				cycleErrs = multierror.Append(cycleErrs, fmt.Errorf("cycle: %v -> %s", stack, dep))
				return true
			}
		}
		color[n] = black
		result = append(result, n)
		return false
	}

	for _, n := range g.order {
		if color[n] == white {
			if visit(n, nil) {
				return nil, cdktferrors.Wrap(cdktferrors.CircularDependency, "dependency graph contains a cycle", cycleErrs.ErrorOrNil())
			}
		}
	}
	return result, nil
}
