package elements

import (
	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// Variable is a Terraform input variable block.
type Variable struct {
	*NodeCore
	Type        string
	Default     interface{}
	Description string
	Sensitive   bool
	Nullable    *bool
}

func NewVariable(scope *construct.Node, id string) (*Variable, error) {
	core, err := NewNodeCore(scope, id)
	if err != nil {
		return nil, err
	}
	v := &Variable{NodeCore: core}
	core.Node().Payload = v
	return v, nil
}

func (v *Variable) Kind() string { return "variable" }

// Value returns a Ref token handle for var.<name>.
func (v *Variable) Value() string {
	return v.createToken(tokens.Ref{FQN: "var." + v.FriendlyUniqueID()})
}

func (v *Variable) ToTerraform() (map[string]interface{}, error) {
	attrs := map[string]interface{}{}
	if v.Type != "" {
		attrs["type"] = v.Type
	}
	if v.Default != nil {
		attrs["default"] = v.Default
	}
	if v.Description != "" {
		attrs["description"] = v.Description
	}
	if v.Sensitive {
		attrs["sensitive"] = true
	}
	if v.Nullable != nil {
		attrs["nullable"] = *v.Nullable
	}
	v.ApplyOverrides(attrs)
	return map[string]interface{}{
		"variable": map[string]interface{}{
			v.FriendlyUniqueID(): attrs,
		},
	}, nil
}

func (v *Variable) ToMetadata() map[string]interface{} {
	return map[string]interface{}{"path": v.Node().Path(), "uniqueId": v.FriendlyUniqueID()}
}
