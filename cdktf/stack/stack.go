// Package stack implements the Stack construct: a top-level node whose
// subtree synthesizes to one Terraform JSON configuration file (spec §4.E).
package stack

import (
	"sort"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/depgraph"
	"github.com/cdktf-core/synth/cdktf/elements"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// lifecycleState is the forward-only state machine of spec §4.G:
// Constructed -> Prepared -> Validated -> Written.
type lifecycleState int

const (
	stateConstructed lifecycleState = iota
	statePrepared
	stateValidated
	stateWritten
)

const manifestVersion = "1.0"

// DependencyGraph is the shared, app-wide stack dependency graph. Every
// Stack registers itself on it at construction so add_dependency can
// detect cycles across the whole app, not just between two stacks.
type DependencyGraph = depgraph.Graph

// Stack is the Terraform-configuration-producing top-level construct.
type Stack struct {
	node    *construct.Node
	name    string
	deps    *depgraph.Graph
	backend *elements.Backend

	state lifecycleState

	// snapshot is the pre-synthesis element list taken at the start
	// of ToTerraform, per spec §5's "snapshot, then rewrite" rule: the
	// cross-stack rewriter may append new Output elements to the tree
	// after this point, and those are merged in a second pass.
	snapshot []elements.Element
}

// New attaches a new stack named id under scope (normally the app root)
// and registers it on the shared dependency graph.
func New(scope *construct.Node, id string, deps *depgraph.Graph) (*Stack, error) {
	n, err := construct.New(scope, id)
	if err != nil {
		return nil, err
	}
	s := &Stack{node: n, name: id, deps: deps}
	n.Payload = s
	n.AddValidation(s)
	deps.AddNode(id)
	return s, nil
}

func (s *Stack) Node() *construct.Node { return s.node }
func (s *Stack) Name() string          { return s.name }

// StackName implements the narrow interface cdktf/elements uses to tag a
// Ref token with the name of the stack it was created in, without
// elements importing this package (spec §4.F cross-stack detection).
func (s *Stack) StackName() string { return s.name }

// AddDependency records that s depends on other, failing with
// CircularDependency if other already (transitively) depends on s
// (spec §4.E).
func (s *Stack) AddDependency(other *Stack) error {
	return s.deps.AddEdge(s.name, other.name)
}

// Dependencies returns the names of stacks this stack depends on.
func (s *Stack) Dependencies() []string {
	return s.deps.Edges(s.name)
}

// elementNodes returns every construct in this stack's subtree whose
// Payload is an elements.Element, self excluded, in construct-insertion
// (depth-first, self-first) order.
func (s *Stack) elementNodes() []elements.Element {
	var out []elements.Element
	for _, n := range s.node.FindAll() {
		if n == s.node {
			continue
		}
		if el, ok := n.Payload.(elements.Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Elements returns every element in this stack's subtree, self excluded,
// in construct-insertion order. Used by the synthesizer's cross-stack
// discovery pass to scan each stack's unresolved attributes before any
// stack takes its synthesis snapshot.
func (s *Stack) Elements() []elements.Element {
	return s.elementNodes()
}

// findBackend returns the single Backend element in this stack's subtree,
// if any. More than one is not an error here; the first encountered in
// traversal order wins, matching to_terraform's left-to-right merge.
func (s *Stack) findBackend() *elements.Backend {
	for _, n := range s.node.FindAll() {
		if b, ok := n.Payload.(*elements.Backend); ok {
			return b
		}
	}
	return nil
}

// EnsureBackendExists locates the single backend element in the subtree or
// inserts a default local backend (spec §4.E). Safe to call more than
// once; it is a no-op once a backend is present.
func (s *Stack) EnsureBackendExists() error {
	if existing := s.findBackend(); existing != nil {
		s.backend = existing
		return nil
	}
	b, err := elements.NewBackend(elements.BackendLocal, map[string]interface{}{
		"path": "terraform.tfstate",
	})
	if err != nil {
		return err
	}
	s.backend = b
	backendNode, err := construct.New(s.node, "Default-Backend")
	if err != nil {
		return err
	}
	backendNode.Payload = b
	return nil
}

// Backend returns the backend selected by the last EnsureBackendExists
// call, or nil before prepare has run.
func (s *Stack) Backend() *elements.Backend { return s.backend }

// childByID returns the direct child of the stack's node with local id
// id, if any.
func (s *Stack) childByID(id string) *construct.Node {
	for _, c := range s.node.Children() {
		if c.LocalID() == id {
			return c
		}
	}
	return nil
}

// EnsureOutput looks up an existing Output construct named id under this
// stack, or creates one with the given value. Implements the cross-stack
// rewriter's idempotency requirement: repeated rewrites of the same
// reference reuse the same synthetic output instead of duplicating it
// (spec §4.F).
func (s *Stack) EnsureOutput(id string, value interface{}) (*elements.Output, error) {
	if existing := s.childByID(id); existing != nil {
		if out, ok := existing.Payload.(*elements.Output); ok {
			return out, nil
		}
	}
	out, err := elements.NewOutput(s.node, id, value)
	if err != nil {
		return nil, err
	}
	out.Sensitive = true
	out.IsSynthetic = true
	return out, nil
}

// EnsureRemoteStateDataSource looks up an existing terraform_remote_state
// data source named id under this stack, or creates one with the given
// backend config. Implements the same idempotency requirement as
// EnsureOutput, keyed by source stack so multiple references into the
// same source stack share one data source (spec §4.F).
func (s *Stack) EnsureRemoteStateDataSource(id string, config map[string]interface{}) (*elements.DataSource, error) {
	if existing := s.childByID(id); existing != nil {
		if ds, ok := existing.Payload.(*elements.DataSource); ok {
			return ds, nil
		}
	}
	return elements.NewDataSource(s.node, id, "terraform_remote_state", config)
}

// PrepareStack implements the per-stack portion of spec §4.G step 1.
func (s *Stack) PrepareStack() error {
	if s.state >= statePrepared {
		return nil
	}
	if err := s.EnsureBackendExists(); err != nil {
		return err
	}
	s.state = statePrepared
	return nil
}

// Validate implements construct.Validation: an automatic provider-presence
// check (spec §4.E "adds an automatic provider-presence validation").
func (s *Stack) Validate() []string {
	for _, n := range s.node.FindAll() {
		if _, ok := n.Payload.(*elements.Provider); ok {
			return nil
		}
	}
	return []string{"stack " + s.name + " declares no provider"}
}

// ToTerraform produces the stack's Terraform JSON document (spec §4.E
// step by step): the element list is snapshotted first, fragments are
// deep-merged left to right starting from the seed metadata block, tokens
// in the merged document are resolved last via resolve.
func (s *Stack) ToTerraform(resolver tokens.ConcreteResolver, table *tokens.Table) (map[string]interface{}, error) {
	if s.state < stateValidated {
		return nil, cdktferrors.New(cdktferrors.ValidationFailed, "stack "+s.name+" synthesized before validation")
	}
	if s.state >= stateWritten {
		return nil, cdktferrors.Newf(cdktferrors.IOError, "stack %q already synthesized", s.name)
	}

	s.snapshot = s.elementNodes()

	seed := map[string]interface{}{
		"//": map[string]interface{}{
			"metadata": map[string]interface{}{
				"version":   manifestVersion,
				"stackName": s.name,
				"backend":   string(s.backend.Kind),
			},
		},
	}

	fragments := []map[string]interface{}{seed}
	if s.backend != nil {
		backendFrag, err := s.backend.ToTerraform()
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, backendFrag)
	}
	for _, el := range s.snapshot {
		frag, err := el.ToTerraform()
		if err != nil {
			return nil, err
		}
		if len(frag) > 0 {
			fragments = append(fragments, frag)
		}
	}

	merged := mergeAll(fragments)

	// The resolver may be a cross-stack rewriter that mutates the tree
	// (inserting Output/DataSource elements) as a side effect of
	// resolving a Ref token. Per spec §5, the original element list was
	// already snapshotted above; any elements that appear only after this
	// resolve pass are merged in a second, tail-appended pass rather than
	// racing the first snapshot.
	resolved, err := table.Resolve(merged, resolver)
	if err != nil {
		return nil, err
	}
	merged = resolved.(map[string]interface{})

	tail := s.newElementsSince(s.snapshot)
	if len(tail) > 0 {
		tailFragments := make([]map[string]interface{}, 0, len(tail)+1)
		tailFragments = append(tailFragments, merged)
		for _, el := range tail {
			frag, err := el.ToTerraform()
			if err != nil {
				return nil, err
			}
			if len(frag) > 0 {
				tailFragments = append(tailFragments, frag)
			}
		}
		merged = mergeAll(tailFragments)
		resolved, err = table.Resolve(merged, resolver)
		if err != nil {
			return nil, err
		}
		merged = resolved.(map[string]interface{})
	}

	s.state = stateWritten
	return merged, nil
}

// newElementsSince returns the elements found in the tree now that were
// not present in before, in traversal order.
func (s *Stack) newElementsSince(before []elements.Element) []elements.Element {
	seen := make(map[elements.Element]bool, len(before))
	for _, el := range before {
		seen[el] = true
	}
	var out []elements.Element
	for _, el := range s.elementNodes() {
		if !seen[el] {
			out = append(out, el)
		}
	}
	return out
}

// MarkValidated transitions the stack past the Validated state once the
// synthesizer's validate phase has run clean for the whole app.
func (s *Stack) MarkValidated() {
	if s.state < stateValidated {
		s.state = stateValidated
	}
}

// SortedStackNames returns the names of stacks sorted alphabetically, for
// deterministic iteration when no topological ordering applies.
func SortedStackNames(stacks map[string]*Stack) []string {
	names := make([]string, 0, len(stacks))
	for n := range stacks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
