package tokens

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

// fullyWrappedExpr matches a string that is exactly "${<inner>}", letting
// a resolved reference be un-wrapped back to its bare expression text when
// it is embedded as a function argument (spec §4.B: "args recursively
// stringified"; nested references inside a Terraform function call use
// the bare "var.x" form, not "${var.x}" — an Open Question spec.md leaves
// to the implementer, resolved here; see DESIGN.md).
var fullyWrappedExpr = regexp.MustCompile(`^\$\{(.*)\}$`)

// TokenToString yields the canonical Terraform expression text for a
// concrete (non-Lazy) token: "${fqn.attr}", "${name(a, b)}", or the raw
// expression, per spec §4.B. resolve is used to resolve any token handles
// nested inside Fn arguments before they are formatted.
func (t *Table) TokenToString(tok Token, resolve ConcreteResolver) (string, error) {
	switch v := tok.(type) {
	case Ref:
		if v.Attribute == "" {
			return fmt.Sprintf("${%s}", v.FQN), nil
		}
		return fmt.Sprintf("${%s.%s}", v.FQN, v.Attribute), nil
	case Fn:
		parts := make([]string, len(v.Args))
		for i, arg := range v.Args {
			resolved, err := t.Resolve(arg, resolve)
			if err != nil {
				return "", err
			}
			s, err := stringifyFnArg(resolved)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("${%s(%s)}", v.Name, strings.Join(parts, ", ")), nil
	case Raw:
		return v.Expression, nil
	default:
		return "", cdktferrors.Newf(cdktferrors.UnresolvedToken, "unknown token variant %T", tok)
	}
}

func stringifyFnArg(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case string:
		if m := fullyWrappedExpr.FindStringSubmatch(val); m != nil {
			return m[1], nil
		}
		return quoteHCLString(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return formatCtyNumber(val), nil
	case int:
		return formatCtyNumber(float64(val)), nil
	case []interface{}:
		parts := make([]string, len(val))
		for i, e := range val {
			s, err := stringifyFnArg(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			s, err := stringifyFnArg(val[k])
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s = %s", k, s))
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", cdktferrors.Newf(cdktferrors.UnresolvedToken, "cannot stringify function argument of type %T", v)
	}
}

// formatCtyNumber renders f using go-cty's arbitrary-precision number
// representation, so large integral attribute values (account ids, byte
// counts) never pick up Go's default float formatting quirks (scientific
// notation, trailing ".0" ambiguity).
func formatCtyNumber(f float64) string {
	v := cty.NumberFloatVal(f)
	return v.AsBigFloat().Text('f', -1)
}

// quoteHCLString renders s as a double-quoted Terraform string literal,
// escaping backslashes, quotes, control characters, and literal "${"/"%{"
// sequences so they are not mistaken for interpolation sigils.
func quoteHCLString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	out = strings.ReplaceAll(out, "${", "$${")
	out = strings.ReplaceAll(out, "%{", "%%{")
	return out + `"`
}
