package elements

import (
	"github.com/hashicorp/go-version"

	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// Module is a call to a Terraform module: module.<name> { source = ... }.
type Module struct {
	*NodeCore
	Source     string
	Version    string
	Attributes map[string]interface{}
	Meta       MetaArgs
}

func NewModule(scope *construct.Node, id string, source string, attrs map[string]interface{}) (*Module, error) {
	core, err := NewNodeCore(scope, id)
	if err != nil {
		return nil, err
	}
	m := &Module{NodeCore: core, Source: source, Attributes: attrs}
	core.Node().Payload = m
	core.AddValidation(m)
	return m, nil
}

func (m *Module) Kind() string { return "module" }

// Get returns a Ref token handle for one of this module's declared
// outputs: module.<name>.<output>.
func (m *Module) Get(output string) string {
	return m.createToken(tokens.Ref{FQN: "module." + m.FriendlyUniqueID(), Attribute: output})
}

func (m *Module) ToTerraform() (map[string]interface{}, error) {
	attrs := NormalizeAttributes(m.Attributes)
	attrs["source"] = m.Source
	if m.Version != "" {
		attrs["version"] = m.Version
	}
	m.Meta.ApplyTo(attrs)
	m.ApplyOverrides(attrs)
	return map[string]interface{}{
		"module": map[string]interface{}{
			m.FriendlyUniqueID(): attrs,
		},
	}, nil
}

func (m *Module) ToMetadata() map[string]interface{} {
	return map[string]interface{}{"path": m.Node().Path(), "uniqueId": m.FriendlyUniqueID()}
}

// Validate requires a source and, when set, a parseable version
// constraint string (spec §4.G step 2 structural validation).
func (m *Module) Validate() []string {
	var problems []string
	if m.Source == "" {
		problems = append(problems, "module "+m.Node().Path()+" has no source")
	}
	if m.Version != "" {
		if _, err := version.NewConstraint(m.Version); err != nil {
			problems = append(problems, "module "+m.Node().Path()+" has invalid version constraint: "+err.Error())
		}
	}
	problems = append(problems, m.Meta.Validate()...)
	return problems
}
