// Package construct implements the construct tree: named, parented,
// uniquely-identified nodes carrying application metadata (spec §3, §4.C).
package construct

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

// PathSeparator joins path components into a full construct path.
const PathSeparator = "/"

// Validation is run against a node during the prepare/validate phase.
type Validation interface {
	// Validate returns zero or more human-readable problem descriptions.
	Validate() []string
}

// Aspect is a visitor invoked once per node during the depth-first prepare
// phase; ancestor aspects run before aspects registered directly on a node.
type Aspect interface {
	Visit(node *Node)
}

// Node is a construct tree node: identity is (parent, localID); local ids
// must be non-empty, must not contain PathSeparator, and must be unique
// among siblings.
type Node struct {
	parent   *Node
	localID  string
	children []*Node
	byID     map[string]*Node

	path    string
	hasPath bool

	metadata    []metadataEntry
	validations []Validation
	aspects     []Aspect

	// Payload is the application-supplied kind-specific data (e.g. an
	// element). Stored as interface{} so construct stays domain-agnostic;
	// elements embed *Node and set this to themselves.
	Payload interface{}
}

type metadataEntry struct {
	Key   string
	Value interface{}
}

// NewRoot creates the application root. Its local id is conventionally
// the app name but is never part of any emitted path (spec §4.A: "the
// app root is dropped").
func NewRoot(localID string) *Node {
	return &Node{localID: localID, byID: make(map[string]*Node)}
}

// New attaches a new child named localID under scope. It fails with
// DuplicateId if scope already has a child of that name, or if localID is
// empty or contains PathSeparator.
func New(scope *Node, localID string) (*Node, error) {
	if localID == "" {
		return nil, cdktferrors.New(cdktferrors.DuplicateId, "construct id must not be empty")
	}
	if strings.Contains(localID, PathSeparator) {
		return nil, cdktferrors.Newf(cdktferrors.DuplicateId, "construct id %q must not contain %q", localID, PathSeparator)
	}
	if scope == nil {
		return nil, cdktferrors.New(cdktferrors.DuplicateId, "construct scope must not be nil")
	}
	if existing, ok := scope.byID[localID]; ok {
		_ = existing
		err := cdktferrors.Newf(cdktferrors.DuplicateId, "scope %q already has a child named %q", scope.Path(), localID)
		if suggestion := scope.suggestSibling(localID); suggestion != "" {
			err = err.WithContext("suggestion", suggestion)
		}
		return nil, err
	}

	n := &Node{parent: scope, localID: localID, byID: make(map[string]*Node)}
	scope.children = append(scope.children, n)
	scope.byID[localID] = n
	return n, nil
}

// suggestSibling offers the closest existing sibling name by edit
// distance, to help diagnose a DuplicateId typo.
func (n *Node) suggestSibling(attempted string) string {
	best := ""
	bestDist := -1
	params := levenshtein.NewParams()
	for id := range n.byID {
		d := params.Distance(id, attempted)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best
}

// LocalID returns this node's id among its siblings.
func (n *Node) LocalID() string { return n.localID }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Path returns the full path: ancestor ids joined by "/", root path is
// empty. The result is cached on first computation.
func (n *Node) Path() string {
	if n.hasPath {
		return n.path
	}
	// The app root's id is not part of any path.
	segments := n.pathSegments()[1:]
	n.path = strings.Join(segments, PathSeparator)
	n.hasPath = true
	return n.path
}

// PathComponents returns the ancestor chain of local ids, root-first,
// including this node's own id. The app root's id is included here;
// callers deriving logical ids drop it per spec §4.A.
func (n *Node) PathComponents() []string {
	return n.pathSegments()
}

func (n *Node) pathSegments() []string {
	var segs []string
	for cur := n; cur != nil; cur = cur.parent {
		segs = append(segs, cur.localID)
	}
	// reverse
	for i, j := 0, len(segs)-1; i < j; i, j = j, i {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs
}

// Scopes returns the ancestor chain from root to self, inclusive.
func (n *Node) Scopes() []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = j, i {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// FindAll returns this node and all descendants, depth-first, self-first,
// visiting children in insertion order.
func (n *Node) FindAll() []*Node {
	out := []*Node{n}
	for _, c := range n.children {
		out = append(out, c.FindAll()...)
	}
	return out
}

// AddMetadata records a key/value pair on this node.
func (n *Node) AddMetadata(key string, value interface{}) {
	n.metadata = append(n.metadata, metadataEntry{Key: key, Value: value})
}

// Metadata returns the recorded metadata entries, in insertion order, as
// a JSON-friendly slice of {key,value} maps for the element's
// to-metadata() contribution.
func (n *Node) Metadata() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(n.metadata))
	for _, m := range n.metadata {
		out = append(out, map[string]interface{}{"key": m.Key, "value": m.Value})
	}
	return out
}

// AddValidation registers a validation to run in the prepare/validate
// phase.
func (n *Node) AddValidation(v Validation) {
	n.validations = append(n.validations, v)
}

// Validations returns the registered validations.
func (n *Node) Validations() []Validation {
	out := make([]Validation, len(n.validations))
	copy(out, n.validations)
	return out
}

// AddAspect registers an aspect that applies to this node and, during
// depth-first prepare, to all its descendants.
func (n *Node) AddAspect(a Aspect) {
	n.aspects = append(n.aspects, a)
}

// ApplyAspects invokes every aspect inherited from ancestors (root-first)
// followed by aspects registered directly on this node, per spec §4.G
// step 1 ("ancestor aspects apply before local").
func (n *Node) ApplyAspects() {
	for _, scope := range n.Scopes() {
		if scope == n {
			continue
		}
		for _, a := range scope.aspects {
			a.Visit(n)
		}
	}
	for _, a := range n.aspects {
		a.Visit(n)
	}
}

// Root returns the root of this construct's tree.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
