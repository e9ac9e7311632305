package idutil

import (
	"strings"
	"testing"
)

// LogicalID's contract is that callers already trimmed the path down to
// the portion relative to the owning stack (cdktf/elements does this via
// stackRelativePathComponents); these tests exercise it at that level,
// the same way it is actually invoked.

func TestLogicalID_SingleComponentPassesThroughUnhashed(t *testing.T) {
	if got := LogicalID([]string{"resource1"}); got != "resource1" {
		t.Fatalf("expected %q, got %q", "resource1", got)
	}
}

func TestLogicalID_DropsDefault(t *testing.T) {
	got := LogicalID([]string{"Default", "ThingResource"})
	if got != "ThingResource" {
		t.Fatalf("expected %q, got %q", "ThingResource", got)
	}
}

func TestLogicalID_Empty(t *testing.T) {
	if got := LogicalID([]string{}); got != "" {
		t.Fatalf("expected empty logical id for empty path, got %q", got)
	}
	if got := LogicalID(nil); got != "" {
		t.Fatalf("expected empty logical id for nil path, got %q", got)
	}
	if got := LogicalID([]string{"Default"}); got != "" {
		t.Fatalf("expected empty logical id when only Default remains, got %q", got)
	}
}

func TestLogicalID_LongPathHashesAndBounds(t *testing.T) {
	path := []string{"a-very-long-construct-name-that-keeps-going", "NestedThing", "Resource"}
	got := LogicalID(path)
	if len(got) > 255 {
		t.Fatalf("logical id too long: %d", len(got))
	}
	if !strings.Contains(got, "_") {
		t.Fatalf("expected human_hash shape, got %q", got)
	}
	for _, r := range got {
		if !isIDChar(r) {
			t.Fatalf("logical id contains disallowed rune %q in %q", r, got)
		}
	}
}

func TestLogicalID_DropsResourceSentinelComponent(t *testing.T) {
	got := LogicalID([]string{"a-reasonably-long-group-name-here", "Resource"})
	if strings.Contains(got, "Resource") {
		t.Fatalf("expected literal Resource component to be dropped from human part, got %q", got)
	}
}

func TestLogicalID_StableAcrossCalls(t *testing.T) {
	path := []string{"thing-one", "thing-two"}
	a := LogicalID(path)
	b := LogicalID(path)
	if a != b {
		t.Fatalf("logical id not stable: %q vs %q", a, b)
	}
}

func TestLogicalID_DistinctPathsDiffer(t *testing.T) {
	p1 := []string{"group-one", "a-reasonably-long-resource-name-here"}
	p2 := []string{"group-two", "a-reasonably-long-resource-name-here"}
	if LogicalID(p1) == LogicalID(p2) {
		t.Fatalf("expected distinct logical ids for distinct paths")
	}
}

func TestLogicalID_CollapsesSuffixDuplication(t *testing.T) {
	path := []string{"Bucket", "MyBucket", "a-long-enough-tail-to-force-hashing-path"}
	got := LogicalID(path)
	if strings.Contains(got, "Bucket_MyBucket") {
		t.Fatalf("expected adjacent suffix collapse, got %q", got)
	}
}
