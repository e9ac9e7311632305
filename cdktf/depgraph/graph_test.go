package depgraph

import (
	"testing"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

func TestAddEdge_DetectsImmediateCycle(t *testing.T) {
	g := New()
	if err := g.AddEdge("A", "B"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := g.AddEdge("B", "A")
	if err == nil {
		t.Fatalf("expected CircularDependency error")
	}
	if k, ok := cdktferrors.KindOf(err); !ok || k != cdktferrors.CircularDependency {
		t.Fatalf("expected CircularDependency kind, got %v", err)
	}
}

func TestTopoSort_OrdersDependenciesFirst(t *testing.T) {
	g := New()
	_ = g.AddEdge("web", "network")
	_ = g.AddEdge("db", "network")
	g.AddNode("network")

	order, err := g.TopoSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos["network"] >= pos["web"] || pos["network"] >= pos["db"] {
		t.Fatalf("expected network before its dependents, got %v", order)
	}
}

func TestTopoSort_TiesBreakByInsertionOrder(t *testing.T) {
	g := New()
	g.AddNode("z")
	g.AddNode("a")
	g.AddNode("m")

	order, err := g.TopoSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"z", "a", "m"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestAddEdge_Idempotent(t *testing.T) {
	g := New()
	_ = g.AddEdge("A", "B")
	_ = g.AddEdge("A", "B")
	if got := g.Edges("A"); len(got) != 1 {
		t.Fatalf("expected single deduplicated edge, got %v", got)
	}
}
