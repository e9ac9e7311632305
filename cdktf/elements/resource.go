package elements

import (
	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// Resource is a managed Terraform resource block: resource.<type>.<name>.
type Resource struct {
	*NodeCore
	Type       string
	Attributes map[string]interface{}
	Meta       MetaArgs
}

// NewResource attaches a new resource of the given Terraform type under
// scope. The supplied id becomes the construct's local id; the Terraform
// resource name is the logical id derived from the resource's path within
// its stack, which for a direct child of the stack is id itself with
// characters outside [A-Za-z0-9_-] removed.
func NewResource(scope *construct.Node, id string, resourceType string, attrs map[string]interface{}) (*Resource, error) {
	core, err := NewNodeCore(scope, id)
	if err != nil {
		return nil, err
	}
	r := &Resource{NodeCore: core, Type: resourceType, Attributes: attrs}
	core.Node().Payload = r
	core.AddValidation(r)
	return r, nil
}

func (r *Resource) Kind() string { return "resource" }

// Fqn returns the resource's fully qualified Terraform reference, e.g.
// "aws_instance.web" (spec §4.B Ref construction).
func (r *Resource) Fqn() string {
	return r.Type + "." + r.FriendlyUniqueID()
}

// GetStringAttribute returns a Ref token handle for attribute on this
// resource, e.g. referencing aws_instance.web.id from another element.
func (r *Resource) GetStringAttribute(attribute string) string {
	return r.createToken(tokens.Ref{FQN: r.Fqn(), Attribute: attribute})
}

// GetNumberAttribute returns a number-token handle for a numeric attribute
// reference, bit-cast into a float64 rather than literal arithmetic
// (spec §4.B / §9).
func (r *Resource) GetNumberAttribute(attribute string) float64 {
	t := r.table()
	if t == nil {
		t = tokens.NewTable()
	}
	ref := tokens.Ref{FQN: r.Fqn(), Attribute: attribute, SourceStack: ownerStackName(r.Node())}
	return t.CreateNumberToken(ref)
}

func (r *Resource) ToTerraform() (map[string]interface{}, error) {
	attrs := NormalizeAttributes(r.Attributes)
	r.Meta.ApplyTo(attrs)
	r.ApplyOverrides(attrs)
	return map[string]interface{}{
		"resource": map[string]interface{}{
			r.Type: map[string]interface{}{
				r.FriendlyUniqueID(): attrs,
			},
		},
	}, nil
}

func (r *Resource) ToMetadata() map[string]interface{} {
	return map[string]interface{}{
		"path":    r.Node().Path(),
		"uniqueId": r.FriendlyUniqueID(),
	}
}

// Validate implements construct.Validation: a resource must name a
// Terraform type and must not combine count with for_each (spec §4.G
// structural validation, step 2).
func (r *Resource) Validate() []string {
	var problems []string
	if r.Type == "" {
		problems = append(problems, "resource "+r.Node().Path()+" has no Terraform resource type")
	}
	problems = append(problems, r.Meta.Validate()...)
	return problems
}
