package elements

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Lifecycle models a resource's lifecycle meta-argument block.
type Lifecycle struct {
	CreateBeforeDestroy bool
	PreventDestroy      bool
	IgnoreChanges       []string
}

// MetaArgs holds the Terraform meta-arguments common to resources, data
// sources, and modules: count, for_each, depends_on, provider, lifecycle
// (spec §4.D meta-arguments). count and for_each are mutually exclusive.
type MetaArgs struct {
	Count     interface{} // number literal or token handle; nil if unset
	ForEach   interface{} // map/set expression or token handle; nil if unset
	DependsOn []string
	Provider  string
	Lifecycle *Lifecycle
}

// Validate enforces the count/for_each exclusivity invariant (spec §4.D,
// §4.G step 2).
func (m MetaArgs) Validate() []string {
	var problems []string
	if m.Count != nil && m.ForEach != nil {
		problems = append(problems, "count and for_each are mutually exclusive")
	}
	for _, dep := range m.DependsOn {
		if err := validateTraversal(dep); err != nil {
			problems = append(problems, fmt.Sprintf("depends_on entry %q is not a valid reference: %s", dep, err))
		}
	}
	if m.Provider != "" {
		if err := validateTraversal(m.Provider); err != nil {
			problems = append(problems, fmt.Sprintf("provider reference %q is not a valid reference: %s", m.Provider, err))
		}
	}
	return problems
}

// validateTraversal parses s as an HCL absolute traversal (e.g.
// "aws_instance.web", "aws.east"), catching malformed fqn/alias references
// at validate time instead of letting them through into broken JSON. Token
// handle placeholders ("${TfToken[...]}") are not traversals and are
// skipped rather than rejected; they resolve to real text during synthesis.
func validateTraversal(s string) error {
	if s == "" {
		return nil
	}
	if looksLikeTokenPlaceholder(s) {
		return nil
	}
	_, diags := hclsyntax.ParseTraversalAbs([]byte(s), "<meta-argument>", hcl.InitialPos)
	if diags.HasErrors() {
		return diags
	}
	return nil
}

// looksLikeTokenPlaceholder reports whether s is an unresolved token
// handle ("${TfToken[3]}") rather than a literal fqn/alias string.
func looksLikeTokenPlaceholder(s string) bool {
	return len(s) > 2 && s[0] == '$' && s[1] == '{' && s[len(s)-1] == '}'
}

// ApplyTo splices this element's meta-arguments into its synthesized
// attribute map under their reserved Terraform keys, last, after ordinary
// attributes and before overrides.
func (m MetaArgs) ApplyTo(attrs map[string]interface{}) {
	if m.Count != nil {
		attrs["count"] = m.Count
	}
	if m.ForEach != nil {
		attrs["for_each"] = m.ForEach
	}
	if len(m.DependsOn) > 0 {
		deps := make([]interface{}, len(m.DependsOn))
		for i, d := range m.DependsOn {
			deps[i] = d
		}
		attrs["depends_on"] = deps
	}
	if m.Provider != "" {
		attrs["provider"] = m.Provider
	}
	if m.Lifecycle != nil {
		lc := map[string]interface{}{}
		if m.Lifecycle.CreateBeforeDestroy {
			lc["create_before_destroy"] = true
		}
		if m.Lifecycle.PreventDestroy {
			lc["prevent_destroy"] = true
		}
		if len(m.Lifecycle.IgnoreChanges) > 0 {
			ic := make([]interface{}, len(m.Lifecycle.IgnoreChanges))
			for i, v := range m.Lifecycle.IgnoreChanges {
				ic[i] = v
			}
			lc["ignore_changes"] = ic
		}
		if len(lc) > 0 {
			attrs["lifecycle"] = lc
		}
	}
}
