package stack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestDeepMerge_ObjectsRecurseArraysConcatenateScalarsLastWriterWins checks
// the three branches of the Open Question resolution documented in
// DESIGN.md: objects at the same path merge key by key, arrays at the same
// path concatenate, and everything else is last-writer-wins.
func TestDeepMerge_ObjectsRecurseArraysConcatenateScalarsLastWriterWins(t *testing.T) {
	a := map[string]interface{}{
		"resource": map[string]interface{}{
			"null_resource": map[string]interface{}{
				"one": map[string]interface{}{"triggers": map[string]interface{}{"a": "1"}},
			},
		},
		"provider": map[string]interface{}{
			"aws": []interface{}{map[string]interface{}{"alias": "east"}},
		},
		"scalar": "first",
	}
	b := map[string]interface{}{
		"resource": map[string]interface{}{
			"null_resource": map[string]interface{}{
				"two": map[string]interface{}{"triggers": map[string]interface{}{"b": "2"}},
			},
		},
		"provider": map[string]interface{}{
			"aws": []interface{}{map[string]interface{}{"alias": "west"}},
		},
		"scalar": "second",
	}

	got := deepMerge(a, b)

	want := map[string]interface{}{
		"resource": map[string]interface{}{
			"null_resource": map[string]interface{}{
				"one": map[string]interface{}{"triggers": map[string]interface{}{"a": "1"}},
				"two": map[string]interface{}{"triggers": map[string]interface{}{"b": "2"}},
			},
		},
		"provider": map[string]interface{}{
			"aws": []interface{}{
				map[string]interface{}{"alias": "east"},
				map[string]interface{}{"alias": "west"},
			},
		},
		"scalar": "second",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("deepMerge mismatch (-want +got):\n%s", diff)
	}
}

// TestMergeAll_IsAssociative verifies spec §8's determinism property: the
// final merged document does not depend on how fragments are grouped
// during the fold, only on their left-to-right order. (ab)c must equal
// a(bc) for every triple of fragments actually produced by element
// ToTerraform() calls.
func TestMergeAll_IsAssociative(t *testing.T) {
	fragA := map[string]interface{}{"resource": map[string]interface{}{"null_resource": map[string]interface{}{"a": map[string]interface{}{"x": 1.0}}}}
	fragB := map[string]interface{}{"output": map[string]interface{}{"b": map[string]interface{}{"value": "b"}}}
	fragC := map[string]interface{}{"variable": map[string]interface{}{"c": map[string]interface{}{"type": "string"}}}

	leftAssociated := deepMerge(deepMerge(fragA, fragB), fragC)
	rightAssociated := deepMerge(fragA, deepMerge(fragB, fragC))

	if diff := cmp.Diff(leftAssociated, rightAssociated); diff != "" {
		t.Fatalf("deepMerge is not associative (-left +right):\n%s", diff)
	}

	foldedOnce := mergeAll([]map[string]interface{}{fragA, fragB, fragC})
	if diff := cmp.Diff(foldedOnce, leftAssociated); diff != "" {
		t.Fatalf("mergeAll disagrees with an explicit left fold (-mergeAll +left):\n%s", diff)
	}
}

// TestDeepMerge_ArrayConcatenationIsOrderSensitive documents that, unlike
// the object/scalar branches, array concatenation order follows fragment
// order exactly -- two providers of the same type synthesize in the order
// their elements were visited.
func TestDeepMerge_ArrayConcatenationIsOrderSensitive(t *testing.T) {
	first := map[string]interface{}{"provider": map[string]interface{}{"aws": []interface{}{"east"}}}
	second := map[string]interface{}{"provider": map[string]interface{}{"aws": []interface{}{"west"}}}

	merged := mergeAll([]map[string]interface{}{first, second})
	reversed := mergeAll([]map[string]interface{}{second, first})

	if cmp.Equal(merged, reversed) {
		t.Fatalf("expected array concatenation order to be fragment-order sensitive")
	}
}
