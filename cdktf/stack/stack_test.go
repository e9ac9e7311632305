package stack

import (
	"testing"

	"github.com/cdktf-core/synth/cdktf/construct"
	"github.com/cdktf-core/synth/cdktf/depgraph"
	"github.com/cdktf-core/synth/cdktf/elements"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

type testApp struct {
	root  *construct.Node
	table *tokens.Table
}

func newTestApp() *testApp {
	a := &testApp{root: construct.NewRoot("app"), table: tokens.NewTable()}
	a.root.Payload = a
	return a
}

func (a *testApp) TokenTable() *tokens.Table { return a.table }

func newPreparedStack(t *testing.T, app *testApp, name string, deps *depgraph.Graph) *Stack {
	t.Helper()
	s, err := New(app.root, name, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := elements.NewProvider(s.Node(), "aws", "aws", map[string]interface{}{"Region": "us-east-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.PrepareStack(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.MarkValidated()
	return s
}

func TestStack_EnsureBackendExists_DefaultsToLocal(t *testing.T) {
	app := newTestApp()
	s := newPreparedStack(t, app, "mystack", depgraph.New())
	if s.Backend() == nil || s.Backend().Kind != elements.BackendLocal {
		t.Fatalf("expected default local backend, got %v", s.Backend())
	}
}

func TestStack_ToTerraform_MergesElementsAndSeed(t *testing.T) {
	app := newTestApp()
	s := newPreparedStack(t, app, "mystack", depgraph.New())
	if _, err := elements.NewResource(s.Node(), "web", "aws_instance", map[string]interface{}{"InstanceType": "t3.micro"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := s.ToTerraform(app.table.DefaultResolver(), app.table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out["//"]; !ok {
		t.Fatalf("expected seed metadata block, got %v", out)
	}
	if _, ok := out["provider"]; !ok {
		t.Fatalf("expected provider block, got %v", out)
	}
	if _, ok := out["resource"]; !ok {
		t.Fatalf("expected resource block, got %v", out)
	}
	if _, ok := out["terraform"]; !ok {
		t.Fatalf("expected terraform.backend block, got %v", out)
	}
}

func TestStack_ToTerraform_FailsBeforeValidation(t *testing.T) {
	app := newTestApp()
	s, err := New(app.root, "mystack", depgraph.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.ToTerraform(app.table.DefaultResolver(), app.table); err == nil {
		t.Fatalf("expected error synthesizing before validation")
	}
}

func TestStack_AddDependency_DetectsCycle(t *testing.T) {
	app := newTestApp()
	deps := depgraph.New()
	a := newPreparedStack(t, app, "a", deps)
	b := newPreparedStack(t, app, "b", deps)

	if err := a.AddDependency(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.AddDependency(a); err == nil {
		t.Fatalf("expected CircularDependency error")
	}
}

func TestStack_TwoProvidersOfSameType_ConcatenateInArray(t *testing.T) {
	app := newTestApp()
	s := newPreparedStack(t, app, "mystack", depgraph.New())
	p2, err := elements.NewProvider(s.Node(), "aws-west", "aws", map[string]interface{}{"Region": "us-west-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2.Alias = "west"

	out, err := s.ToTerraform(app.table.DefaultResolver(), app.table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := out["provider"].(map[string]interface{})["aws"].([]interface{})
	if len(arr) != 2 {
		t.Fatalf("expected both provider configurations to survive merge, got %v", arr)
	}
}
