package elements

import (
	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// DataSource is a Terraform data block: data.<type>.<name>.
type DataSource struct {
	*NodeCore
	Type       string
	Attributes map[string]interface{}
	Meta       MetaArgs
}

func NewDataSource(scope *construct.Node, id string, dataType string, attrs map[string]interface{}) (*DataSource, error) {
	core, err := NewNodeCore(scope, id)
	if err != nil {
		return nil, err
	}
	d := &DataSource{NodeCore: core, Type: dataType, Attributes: attrs}
	core.Node().Payload = d
	core.AddValidation(d)
	return d, nil
}

func (d *DataSource) Kind() string { return "data" }

func (d *DataSource) Fqn() string {
	return "data." + d.Type + "." + d.FriendlyUniqueID()
}

func (d *DataSource) GetStringAttribute(attribute string) string {
	return d.createToken(tokens.Ref{FQN: d.Fqn(), Attribute: attribute})
}

func (d *DataSource) ToTerraform() (map[string]interface{}, error) {
	attrs := NormalizeAttributes(d.Attributes)
	d.Meta.ApplyTo(attrs)
	d.ApplyOverrides(attrs)
	return map[string]interface{}{
		"data": map[string]interface{}{
			d.Type: map[string]interface{}{
				d.FriendlyUniqueID(): attrs,
			},
		},
	}, nil
}

func (d *DataSource) ToMetadata() map[string]interface{} {
	return map[string]interface{}{
		"path":     d.Node().Path(),
		"uniqueId": d.FriendlyUniqueID(),
	}
}

func (d *DataSource) Validate() []string {
	var problems []string
	if d.Type == "" {
		problems = append(problems, "data source "+d.Node().Path()+" has no Terraform data type")
	}
	problems = append(problems, d.Meta.Validate()...)
	return problems
}
