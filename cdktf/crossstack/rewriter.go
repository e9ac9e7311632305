// Package crossstack implements the cross-stack reference rewriter
// (spec §4.F): when a resolved Ref token's defining stack differs from
// the stack currently being synthesized, the reference is replaced by a
// remote-state data source lookup, with a paired sensitive output created
// in the source stack and a depends_on edge wired between the stacks.
package crossstack

import (
	"fmt"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
	"github.com/cdktf-core/synth/cdktf/depgraph"
	"github.com/cdktf-core/synth/cdktf/elements"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// ElementScope is the narrow surface each stack exposes to the rewriter:
// its backend (to build the remote-state config) and the ability to
// idempotently insert the paired Output/DataSource elements spec §4.F
// needs. Implemented by *cdktf/stack.Stack; kept as an interface here so
// crossstack need not import stack (stack already imports elements, and
// the synthesizer wires both together).
type ElementScope interface {
	Name() string
	Backend() *elements.Backend
	EnsureOutput(id string, value interface{}) (*elements.Output, error)
	EnsureRemoteStateDataSource(id string, config map[string]interface{}) (*elements.DataSource, error)
}

// Rewriter resolves references for one target stack, intercepting any
// Ref token whose SourceStack differs from the target and rewriting it to
// a remote-state data source lookup. Scopes maps every stack name in the
// app to its ElementScope so the rewriter can reach the source stack to
// insert the paired output.
type Rewriter struct {
	targetStack string
	scopes      map[string]ElementScope
	deps        *depgraph.Graph
	table       *tokens.Table
	inner       tokens.ConcreteResolver

	// outputsByKey and dataSourceByStack implement the idempotency
	// requirement: repeated references to the same fqn+attribute, or
	// multiple references into the same source stack, reuse the already
	// created Output/DataSource rather than duplicating it.
	outputsByKey      map[string]string
	dataSourceByStack map[string]string
}

// New creates a Rewriter that resolves references for targetStack.
// inner handles same-stack (and non-Ref) token resolution.
func New(targetStack string, scopes map[string]ElementScope, deps *depgraph.Graph, table *tokens.Table, inner tokens.ConcreteResolver) *Rewriter {
	return &Rewriter{
		targetStack:       targetStack,
		scopes:            scopes,
		deps:              deps,
		table:             table,
		inner:             inner,
		outputsByKey:      map[string]string{},
		dataSourceByStack: map[string]string{},
	}
}

// outputName derives the stable, deterministic construct id of the
// cross-stack output for a given source fqn+attribute (spec §4.F: "a
// stable function of the source fqn+attribute"). The output is emitted
// under the logical id derived from it.
func outputName(fqn, attribute string) string {
	return fmt.Sprintf("cross-stack-output-%s.%s", fqn, attribute)
}

// dataSourceName derives the stable name of the remote-state data source
// keyed by source-stack name, so every reference to the same source
// stack shares one data source (spec §4.F).
func dataSourceName(sourceStack string) string {
	return fmt.Sprintf("cross-stack-reference-%s", sourceStack)
}

// Resolve is a tokens.ConcreteResolver: non-Ref tokens and same-stack Refs
// defer to inner; a Ref crossing into a different stack is rewritten per
// spec §4.F steps 1-4.
func (rw *Rewriter) Resolve(tok tokens.Token) (interface{}, error) {
	ref, ok := tok.(tokens.Ref)
	if !ok || ref.SourceStack == "" || ref.SourceStack == rw.targetStack {
		return rw.inner(tok)
	}
	return rw.rewriteRef(ref)
}

func (rw *Rewriter) rewriteRef(ref tokens.Ref) (string, error) {
	sourceScope, ok := rw.scopes[ref.SourceStack]
	if !ok {
		return "", cdktferrors.Newf(cdktferrors.UnresolvedToken, "reference to unknown stack %q", ref.SourceStack)
	}
	targetScope, ok := rw.scopes[rw.targetStack]
	if !ok {
		return "", cdktferrors.Newf(cdktferrors.UnresolvedToken, "unknown target stack %q", rw.targetStack)
	}

	sourceBackend := sourceScope.Backend()
	if sourceBackend == nil {
		return "", cdktferrors.Newf(cdktferrors.UnsupportedCrossStack, "stack %q has no backend to rewrite a reference from", ref.SourceStack)
	}
	if !sourceBackend.SupportsCrossStackDataSource() {
		return "", cdktferrors.Newf(cdktferrors.UnsupportedCrossStack,
			"stack %q uses a tagged-workspace cloud backend and cannot be referenced cross-stack", ref.SourceStack)
	}

	outID, err := rw.ensureOutput(sourceScope, ref)
	if err != nil {
		return "", err
	}
	dsID, err := rw.ensureDataSource(targetScope, sourceBackend, ref.SourceStack)
	if err != nil {
		return "", err
	}

	if err := rw.deps.AddEdge(rw.targetStack, ref.SourceStack); err != nil {
		return "", err
	}

	return fmt.Sprintf("${data.terraform_remote_state.%s.outputs.%s}", dsID, outID), nil
}

func (rw *Rewriter) ensureOutput(sourceScope ElementScope, ref tokens.Ref) (string, error) {
	key := ref.SourceStack + "|" + ref.FQN + "." + ref.Attribute
	if outID, ok := rw.outputsByKey[key]; ok {
		return outID, nil
	}
	outID := outputName(ref.FQN, ref.Attribute)
	original, err := rw.table.TokenToString(tokens.Ref{FQN: ref.FQN, Attribute: ref.Attribute}, rw.inner)
	if err != nil {
		return "", err
	}
	out, err := sourceScope.EnsureOutput(outID, original)
	if err != nil {
		return "", err
	}
	// The output is emitted under its logical id, not its construct id.
	name := out.FriendlyUniqueID()
	rw.outputsByKey[key] = name
	return name, nil
}

func (rw *Rewriter) ensureDataSource(targetScope ElementScope, sourceBackend *elements.Backend, sourceStack string) (string, error) {
	if dsID, ok := rw.dataSourceByStack[sourceStack]; ok {
		return dsID, nil
	}
	dsID := dataSourceName(sourceStack)
	remoteCfg, err := sourceBackend.GetRemoteStateDataSource()
	if err != nil {
		return "", err
	}
	ds, err := targetScope.EnsureRemoteStateDataSource(dsID, remoteCfg)
	if err != nil {
		return "", err
	}
	name := ds.FriendlyUniqueID()
	rw.dataSourceByStack[sourceStack] = name
	return name, nil
}
