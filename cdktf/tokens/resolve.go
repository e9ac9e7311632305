package tokens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

// maxLazyChain bounds lazy-producer chains; exceeding it is treated as a
// cycle (spec §9: "a cycle guard limit (fail with UnresolvedToken if a
// lazy returns itself, direct or indirect)").
const maxLazyChain = 100

// ConcreteResolver resolves a non-lazy Token (Ref, Fn, or Raw) to its
// final value. Implementations typically call TokenToString, optionally
// routed through the cross-stack rewriter for Ref tokens.
type ConcreteResolver func(tok Token) (interface{}, error)

// Resolve is the inverse of CreateToken/CreateNumberToken: it walks value
// and replaces every token handle with resolver's answer for the token it
// encodes, per spec §4.B.
func (t *Table) Resolve(value interface{}, resolve ConcreteResolver) (interface{}, error) {
	return t.resolveValue(value, resolve, 0)
}

func (t *Table) resolveValue(value interface{}, resolve ConcreteResolver, depth int) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return t.resolveString(v, resolve, depth)
	case float64:
		if id, ok := decodeNumberHandle(v); ok {
			return t.resolveTokenByID(id, resolve, depth+1)
		}
		return v, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, vv := range v {
			rv, err := t.resolveValue(vv, resolve, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, vv := range v {
			rv, err := t.resolveValue(vv, resolve, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return value, nil
	}
}

func (t *Table) resolveString(s string, resolve ConcreteResolver, depth int) (interface{}, error) {
	matches := handlePattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	// Whole string is a single handle: preserve the resolved value's type.
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		id, err := parseTokenID(s[matches[0][2]:matches[0][3]])
		if err != nil {
			return nil, err
		}
		return t.resolveTokenByID(id, resolve, depth+1)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		id, err := parseTokenID(s[m[2]:m[3]])
		if err != nil {
			return nil, err
		}
		resolved, err := t.resolveTokenByID(id, resolve, depth+1)
		if err != nil {
			return nil, err
		}
		b.WriteString(stringifyInline(resolved))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

func parseTokenID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, cdktferrors.Wrap(cdktferrors.UnresolvedToken, "malformed token handle id", err)
	}
	return id, nil
}

// resolveTokenByID looks up id and resolves it. An unknown id degrades
// gracefully: the handle is left textually intact (spec §4.B failure
// modes).
func (t *Table) resolveTokenByID(id uint64, resolve ConcreteResolver, depth int) (interface{}, error) {
	tok, ok := t.Lookup(id)
	if !ok {
		return fmt.Sprintf("${TfToken[%d]}", id), nil
	}
	return t.resolveToken(tok, resolve, depth)
}

func (t *Table) resolveToken(tok Token, resolve ConcreteResolver, depth int) (interface{}, error) {
	if depth > maxLazyChain {
		return nil, cdktferrors.New(cdktferrors.UnresolvedToken, "lazy token chain did not terminate (possible cycle)")
	}
	cur := tok
	for i := 0; i < maxLazyChain; i++ {
		lazy, ok := cur.(Lazy)
		if !ok {
			return resolve(cur)
		}
		result, err := lazy.Producer()
		if err != nil {
			return nil, cdktferrors.Wrap(cdktferrors.UnresolvedToken, "lazy token producer failed", err)
		}
		if nextTok, ok := result.(Token); ok {
			cur = nextTok
			continue
		}
		// A concrete, non-Token result may itself be a string/number/
		// container holding further handles (e.g. it returned another
		// element's attribute value); resolve it fully before returning.
		return t.resolveValue(result, resolve, depth+1)
	}
	return nil, cdktferrors.New(cdktferrors.UnresolvedToken, "lazy token chain did not terminate (possible cycle)")
}

func stringifyInline(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
