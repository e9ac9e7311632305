package construct

import (
	"testing"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

func TestNew_DuplicateIDFails(t *testing.T) {
	root := NewRoot("app")
	if _, err := New(root, "child"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := New(root, "child")
	if err == nil {
		t.Fatalf("expected DuplicateId error")
	}
	if k, ok := cdktferrors.KindOf(err); !ok || k != cdktferrors.DuplicateId {
		t.Fatalf("expected DuplicateId kind, got %v", err)
	}
}

func TestNew_RejectsSeparatorInID(t *testing.T) {
	root := NewRoot("app")
	if _, err := New(root, "a/b"); err == nil {
		t.Fatalf("expected error for id containing path separator")
	}
}

func TestPath_JoinsAncestorIDs(t *testing.T) {
	root := NewRoot("app")
	stack, _ := New(root, "stack")
	thing, _ := New(stack, "thing")
	if got := thing.Path(); got != "stack/thing" {
		t.Fatalf("unexpected path: %q", got)
	}
	if got := root.Path(); got != "" {
		t.Fatalf("unexpected root path: %q", got)
	}
}

func TestFindAll_DepthFirstSelfFirst(t *testing.T) {
	root := NewRoot("app")
	a, _ := New(root, "a")
	b, _ := New(root, "b")
	a1, _ := New(a, "a1")

	all := root.FindAll()
	var ids []string
	for _, n := range all {
		ids = append(ids, n.LocalID())
	}
	want := []string{"app", "a", "a1", "b"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
	_ = b
	_ = a1
}

func TestScopes_RootToSelfInclusive(t *testing.T) {
	root := NewRoot("app")
	stack, _ := New(root, "stack")
	thing, _ := New(stack, "thing")

	scopes := thing.Scopes()
	if len(scopes) != 3 || scopes[0] != root || scopes[2] != thing {
		t.Fatalf("unexpected scopes chain: %v", scopes)
	}
}

type recordingAspect struct {
	label   string
	visited *[]string
}

func (r recordingAspect) Visit(n *Node) { *r.visited = append(*r.visited, r.label) }

func TestApplyAspects_AncestorsBeforeLocal(t *testing.T) {
	root := NewRoot("app")
	var order []string
	root.AddAspect(recordingAspect{label: "app", visited: &order})

	stack, _ := New(root, "stack")
	stack.AddAspect(recordingAspect{label: "stack", visited: &order})
	thing, _ := New(stack, "thing")
	thing.AddAspect(recordingAspect{label: "thing", visited: &order})

	thing.ApplyAspects()
	if len(order) != 3 || order[0] != "app" || order[1] != "stack" || order[2] != "thing" {
		t.Fatalf("expected ancestor-before-local order, got %v", order)
	}
}
