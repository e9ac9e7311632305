package tokens

import "strconv"

// CollectRefs walks value (typically an unresolved element fragment, as
// returned by Element.ToTerraform before Table.Resolve runs) and returns
// every Ref token reachable from it, including Refs nested inside an Fn's
// Args or a Raw's Expression. It does not call into Lazy producers: a lazy
// chain is only forced at final-resolve time, so a lazy token that itself
// produces a cross-stack Ref is handled by the snapshot+tail-append pass
// in cdktf/stack rather than by this eager discovery walk.
//
// Used by stack preparation to insert the paired Output/DataSource
// elements a cross-stack reference needs before any stack takes its
// synthesis snapshot (spec §4.F), so the normal snapshot already contains
// them instead of relying solely on the tail-append fallback.
func (t *Table) CollectRefs(value interface{}) []Ref {
	var refs []Ref
	seen := make(map[uint64]bool)

	var walkValue func(v interface{})
	var walkToken func(id uint64)

	walkToken = func(id uint64) {
		if seen[id] {
			return
		}
		seen[id] = true
		tok, ok := t.Lookup(id)
		if !ok {
			return
		}
		switch v := tok.(type) {
		case Ref:
			refs = append(refs, v)
		case Fn:
			walkValue(v.Args)
		case Raw:
			walkValue(v.Expression)
		}
	}

	walkValue = func(v interface{}) {
		switch val := v.(type) {
		case string:
			for _, m := range handlePattern.FindAllStringSubmatch(val, -1) {
				if id, err := strconv.ParseUint(m[1], 10, 64); err == nil {
					walkToken(id)
				}
			}
		case float64:
			if id, ok := decodeNumberHandle(val); ok {
				walkToken(id)
			}
		case map[string]interface{}:
			for _, vv := range val {
				walkValue(vv)
			}
		case []interface{}:
			for _, vv := range val {
				walkValue(vv)
			}
		}
	}

	walkValue(value)
	return refs
}
