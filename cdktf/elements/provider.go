package elements

import (
	"github.com/hashicorp/go-version"

	"github.com/cdktf-core/synth/cdktf/construct"
)

// Provider is a Terraform provider block. Terraform allows multiple
// provider blocks of the same type distinguished by `alias`, so the stack
// merge step concatenates same-type provider arrays rather than
// overwriting (spec §3 deep-merge invariant; see cdktf/stack/merge.go).
type Provider struct {
	*NodeCore
	Type       string
	Alias      string
	Version    string
	Attributes map[string]interface{}
}

func NewProvider(scope *construct.Node, id string, providerType string, attrs map[string]interface{}) (*Provider, error) {
	core, err := NewNodeCore(scope, id)
	if err != nil {
		return nil, err
	}
	p := &Provider{NodeCore: core, Type: providerType, Attributes: attrs}
	core.Node().Payload = p
	core.AddValidation(p)
	return p, nil
}

func (p *Provider) Kind() string { return "provider" }

func (p *Provider) ToTerraform() (map[string]interface{}, error) {
	attrs := NormalizeAttributes(p.Attributes)
	if p.Alias != "" {
		attrs["alias"] = p.Alias
	}
	p.ApplyOverrides(attrs)
	return map[string]interface{}{
		"provider": map[string]interface{}{
			p.Type: []interface{}{attrs},
		},
	}, nil
}

func (p *Provider) ToMetadata() map[string]interface{} {
	return map[string]interface{}{
		"path":     p.Node().Path(),
		"uniqueId": p.FriendlyUniqueID(),
	}
}

func (p *Provider) Validate() []string {
	var problems []string
	if p.Type == "" {
		problems = append(problems, "provider "+p.Node().Path()+" has no Terraform provider source/type")
	}
	if p.Version != "" {
		if _, err := version.NewConstraint(p.Version); err != nil {
			problems = append(problems, "provider "+p.Node().Path()+" has invalid version constraint: "+err.Error())
		}
	}
	return problems
}
