package stack

// deepMerge combines two JSON-shaped fragments the way stack synthesis
// combines every element's ToTerraform() contribution into one document
// (spec §3 deep-merge invariant): objects merge key by key, recursing into
// nested objects; scalars and mismatched types are last-writer-wins (b
// wins over a); arrays concatenate rather than overwrite.
//
// Array concatenation is an Open Question resolution (see DESIGN.md):
// Terraform allows repeated blocks of the same kind (most visibly
// multiple `provider "aws" { alias = ... }` blocks, each emitted by a
// distinct Provider element as a single-element array under
// provider.aws). Last-writer-wins on arrays would silently drop every
// provider alias but the last merged in; concatenation preserves all of
// them and keeps deepMerge associative, which spec §8's determinism
// property requires regardless of traversal order.
func deepMerge(a, b interface{}) interface{} {
	switch bv := b.(type) {
	case map[string]interface{}:
		av, ok := a.(map[string]interface{})
		if !ok {
			return cloneValue(bv)
		}
		out := make(map[string]interface{}, len(av)+len(bv))
		for k, v := range av {
			out[k] = v
		}
		for k, v := range bv {
			if existing, ok := out[k]; ok {
				out[k] = deepMerge(existing, v)
			} else {
				out[k] = v
			}
		}
		return out
	case []interface{}:
		av, ok := a.([]interface{})
		if !ok {
			return cloneValue(bv)
		}
		out := make([]interface{}, 0, len(av)+len(bv))
		out = append(out, av...)
		out = append(out, bv...)
		return out
	default:
		return b
	}
}

// mergeAll folds deepMerge left to right over fragments, starting from an
// empty document. Associative and order-sensitive only in the
// last-writer-wins sense documented on deepMerge.
func mergeAll(fragments []map[string]interface{}) map[string]interface{} {
	result := map[string]interface{}{}
	for _, f := range fragments {
		result = deepMerge(result, f).(map[string]interface{})
	}
	return result
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			out[k] = cloneValue(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}
