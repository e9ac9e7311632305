package elements

import (
	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// Local is a Terraform local value: locals { <name> = <expression> }.
type Local struct {
	*NodeCore
	Expression interface{}
}

func NewLocal(scope *construct.Node, id string, expression interface{}) (*Local, error) {
	core, err := NewNodeCore(scope, id)
	if err != nil {
		return nil, err
	}
	l := &Local{NodeCore: core, Expression: expression}
	core.Node().Payload = l
	return l, nil
}

func (l *Local) Kind() string { return "local" }

// AsReference returns a Ref token handle for local.<name>.
func (l *Local) AsReference() string {
	return l.createToken(tokens.Ref{FQN: "local." + l.FriendlyUniqueID()})
}

func (l *Local) ToTerraform() (map[string]interface{}, error) {
	return map[string]interface{}{
		"locals": map[string]interface{}{
			l.FriendlyUniqueID(): l.Expression,
		},
	}, nil
}

func (l *Local) ToMetadata() map[string]interface{} {
	return map[string]interface{}{"path": l.Node().Path(), "uniqueId": l.FriendlyUniqueID()}
}
