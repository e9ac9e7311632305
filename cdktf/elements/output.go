package elements

import (
	"github.com/cdktf-core/synth/cdktf/construct"
)

// Output is a Terraform output block. The cross-stack rewriter (spec §4.F)
// inserts synthetic Outputs of its own into a stack's tree and tags them
// with IsSynthetic. Repeated references reuse an existing synthetic output
// by looking it up by construct id (stack.EnsureOutput), not by this flag.
type Output struct {
	*NodeCore
	Value       interface{}
	Description string
	Sensitive   bool
	IsSynthetic bool
}

func NewOutput(scope *construct.Node, id string, value interface{}) (*Output, error) {
	core, err := NewNodeCore(scope, id)
	if err != nil {
		return nil, err
	}
	o := &Output{NodeCore: core, Value: value}
	core.Node().Payload = o
	core.AddValidation(o)
	return o, nil
}

func (o *Output) Kind() string { return "output" }

func (o *Output) ToTerraform() (map[string]interface{}, error) {
	attrs := map[string]interface{}{"value": o.Value}
	if o.Description != "" {
		attrs["description"] = o.Description
	}
	if o.Sensitive {
		attrs["sensitive"] = true
	}
	o.ApplyOverrides(attrs)
	return map[string]interface{}{
		"output": map[string]interface{}{
			o.FriendlyUniqueID(): attrs,
		},
	}, nil
}

func (o *Output) ToMetadata() map[string]interface{} {
	return map[string]interface{}{"path": o.Node().Path(), "uniqueId": o.FriendlyUniqueID()}
}

// Validate requires that an output always name a value (spec §4.D, §4.G
// step 2).
func (o *Output) Validate() []string {
	if o.Value == nil {
		return []string{"output " + o.Node().Path() + " has no value"}
	}
	return nil
}
