// Package elements implements the Terraform element variants that make
// up a stack: Resource, DataSource, Provider, Backend, Variable, Output,
// Local, Module, and the supplemented Asset element (spec §3, §4.D).
//
// The original source models these as a class hierarchy; per §9 this
// port uses a tagged union instead: each concrete struct embeds *NodeCore
// for the behavior they share (logical id, overrides, metadata) and is
// told apart by a type switch or its Kind() method rather than dynamic
// dispatch through a base class.
package elements

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/idutil"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// Element is the common surface every Terraform element variant exposes
// to stack synthesis.
type Element interface {
	Node() *construct.Node
	FriendlyUniqueID() string
	Kind() string
	ToTerraform() (map[string]interface{}, error)
	ToMetadata() map[string]interface{}
}

// TokenTableProvider is implemented by the app root's Payload so elements
// anywhere in the tree can reach the process-owned token table without
// elements importing the synth package (which would cycle back here).
type TokenTableProvider interface {
	TokenTable() *tokens.Table
}

func tableFor(n *construct.Node) *tokens.Table {
	root := n.Root()
	if p, ok := root.Payload.(TokenTableProvider); ok {
		return p.TokenTable()
	}
	return nil
}

// stackNamer is implemented by *stack.Stack; elements cannot import the
// stack package (stack imports elements), so the dependency runs through
// this narrow structural interface instead.
type stackNamer interface {
	StackName() string
}

// ownerStackName walks n's ancestor chain to find the nearest Stack
// construct and returns its name, or "" if n is not (yet) inside a stack.
func ownerStackName(n *construct.Node) string {
	for cur := n; cur != nil; cur = cur.Parent() {
		if sn, ok := cur.Payload.(stackNamer); ok {
			return sn.StackName()
		}
	}
	return ""
}

// stackRelativePathComponents returns n's path components with every
// ancestor up to and including the owning stack dropped, so logical id
// derivation (spec §4.A) operates on the path *within* the stack the way
// real cdktf does (scopes.slice(stackIndex+1)) rather than on the path
// from the app root. A construct with no enclosing stack (not expected
// in practice, but not invalid either) falls back to dropping only the
// app root.
func stackRelativePathComponents(n *construct.Node) []string {
	full := n.PathComponents()
	if len(full) == 0 {
		return nil
	}
	cut := 1
	for i, scope := range n.Scopes() {
		if _, ok := scope.Payload.(stackNamer); ok {
			cut = i + 1
		}
	}
	if cut > len(full) {
		cut = len(full)
	}
	return full[cut:]
}

type overrideEntry struct {
	Path  string
	Value interface{}
}

// NodeCore is embedded by every element variant and implements the
// behavior common to all of them: friendly unique id, raw overrides,
// metadata passthrough to the underlying construct node.
type NodeCore struct {
	node      *construct.Node
	overrides []overrideEntry
}

// NewNodeCore attaches a new construct node named id under scope and
// wraps it for element use.
func NewNodeCore(scope *construct.Node, id string) (*NodeCore, error) {
	n, err := construct.New(scope, id)
	if err != nil {
		return nil, err
	}
	return &NodeCore{node: n}, nil
}

func (c *NodeCore) Node() *construct.Node { return c.node }

// FriendlyUniqueID is the logical id derived from this element's
// construct path, relative to the owning stack (spec §4.A).
func (c *NodeCore) FriendlyUniqueID() string {
	return idutil.LogicalID(stackRelativePathComponents(c.node))
}

// AddOverride records a dotted-path override to be spliced into the
// element's synthesized attributes last, overriding or adding fields;
// setting a non-leaf path creates intermediate objects (spec §4.D).
func (c *NodeCore) AddOverride(path string, value interface{}) {
	c.overrides = append(c.overrides, overrideEntry{Path: path, Value: value})
}

// ApplyOverrides splices every recorded override into attrs, in the
// order they were added.
func (c *NodeCore) ApplyOverrides(attrs map[string]interface{}) {
	for _, o := range c.overrides {
		setDotted(attrs, o.Path, o.Value)
	}
}

// AddMetadata forwards to the underlying construct node.
func (c *NodeCore) AddMetadata(key string, value interface{}) { c.node.AddMetadata(key, value) }

// AddValidation forwards to the underlying construct node.
func (c *NodeCore) AddValidation(v construct.Validation) { c.node.AddValidation(v) }

func (c *NodeCore) table() *tokens.Table { return tableFor(c.node) }

// Token allocates a handle for an arbitrary token (typically Fn or Raw)
// created in this element's construct tree, e.g. a Terraform function call
// built from this element's own attributes.
func (c *NodeCore) Token(tok tokens.Token) string {
	return c.createToken(tok)
}

// createToken allocates a handle for tok via the owning app's token
// table. If this element's tree has no table wired in (e.g. in isolated
// unit tests), the handle comes from a fresh throwaway table, so no other
// table can resolve it.
func (c *NodeCore) createToken(tok tokens.Token) string {
	if ref, ok := tok.(tokens.Ref); ok && ref.SourceStack == "" {
		ref.SourceStack = ownerStackName(c.node)
		tok = ref
	}
	if t := c.table(); t != nil {
		return t.CreateToken(tok)
	}
	scratch := tokens.NewTable()
	return scratch.CreateToken(tok)
}

func setDotted(root map[string]interface{}, path string, value interface{}) {
	segments := strings.Split(path, ".")
	cur := root
	for i, seg := range segments {
		if i == len(segments)-1 {
			cur[seg] = value
			return
		}
		next, ok := cur[seg].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[seg] = next
		}
		cur = next
	}
}

// NormalizeAttributes converts an element's camelCase in-memory attribute
// tree into the snake_case, JSON-ready shape Terraform expects, and
// guards plain (non-token) numeric leaves against float64 precision loss
// (spec §4.D key normalization; SPEC_FULL domain stack numeric handling).
func NormalizeAttributes(attrs map[string]interface{}) map[string]interface{} {
	if attrs == nil {
		return map[string]interface{}{}
	}
	out := normalizeValue(attrs)
	return out.(map[string]interface{})
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			out[normalizeKey(k)] = normalizeValue(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = normalizeValue(vv)
		}
		return out
	case float64:
		return normalizeNumber(val)
	default:
		return v
	}
}

// normalizeKey lower-snakes a capitalized camelCase key, leaving it
// untouched if it already contains a token marker or Terraform
// interpolation, since those are not ordinary identifiers (spec §4.D).
func normalizeKey(key string) string {
	if strings.Contains(key, "${") || strings.Contains(key, "TfToken[") {
		return key
	}
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeNumber re-renders a plain (non-handle) float64 through
// decimal.Decimal so large or precise integral attribute values (account
// ids, byte counts) survive JSON round-tripping exactly, instead of
// picking up float64 rounding or Go's default scientific-notation
// formatting. Token number handles are passed through untouched: decimal
// parsing is arithmetic on the float and would corrupt the encoded id.
func normalizeNumber(f float64) interface{} {
	if tokens.IsNumberHandle(f) {
		return f
	}
	d := decimal.NewFromFloat(f)
	return json.Number(d.String())
}
