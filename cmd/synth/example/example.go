// Package example builds the canned demonstration app the synth driver
// synthesizes: one stack, a null provider, a variable, two resources
// threading a reference between them, and one output, a reduced form of
// the library's own end-to-end test scenario.
package example

import (
	"github.com/cdktf-core/synth/cdktf/config"
	"github.com/cdktf-core/synth/cdktf/elements"
	"github.com/cdktf-core/synth/cdktf/synth"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

// Build constructs the example app under cfg and returns it, ready for
// Synth().
func Build(cfg config.Config) (*synth.App, error) {
	app := synth.NewApp(cfg)

	stack, err := app.NewStack("hello-terra")
	if err != nil {
		return nil, err
	}

	if _, err := elements.NewProvider(stack.Node(), "null", "null", nil); err != nil {
		return nil, err
	}

	v, err := elements.NewVariable(stack.Node(), "my_var")
	if err != nil {
		return nil, err
	}
	v.Type = "string"
	v.Default = "hello"

	first, err := elements.NewResource(stack.Node(), "resource1", "null_resource", map[string]interface{}{
		"triggers": map[string]interface{}{
			"foo":      "bar",
			"variable": v.Value(),
		},
	})
	if err != nil {
		return nil, err
	}
	first.AddOverride("lifecycle.create_before_destroy", true)

	if _, err := elements.NewResource(stack.Node(), "resource2", "null_resource", map[string]interface{}{
		"triggers": map[string]interface{}{
			"ref": first.GetStringAttribute("id"),
		},
	}); err != nil {
		return nil, err
	}

	joined := first.Token(tokens.Fn{Name: "join", Args: []interface{}{"-", []interface{}{"hello", "world"}}})
	if _, err := elements.NewOutput(stack.Node(), "joined-value", joined); err != nil {
		return nil, err
	}

	return app, nil
}
