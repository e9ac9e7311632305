package synth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
	"github.com/cdktf-core/synth/cdktf/config"
	"github.com/cdktf-core/synth/cdktf/elements"
	"github.com/cdktf-core/synth/cdktf/tokens"
)

func readStackJSON(t *testing.T, outDir, stackName string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, "stacks", stackName, "cdk.tf.json"))
	if err != nil {
		t.Fatalf("reading synthesized stack: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing synthesized stack: %v", err)
	}
	return doc
}

func digString(t *testing.T, doc map[string]interface{}, path ...string) string {
	t.Helper()
	var cur interface{} = doc
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			t.Fatalf("path %v: %v is not an object", path, cur)
		}
		cur, ok = m[p]
		if !ok {
			t.Fatalf("path %v: missing key %q in %v", path, p, m)
		}
	}
	s, ok := cur.(string)
	if !ok {
		t.Fatalf("path %v: %v is not a string", path, cur)
	}
	return s
}

// TestSynth_HelloTerraScenario covers spec §8 end-to-end scenario 1.
func TestSynth_HelloTerraScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutDir = t.TempDir()
	app := NewApp(cfg)

	st, err := app.NewStack("hello-terra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := elements.NewProvider(st.Node(), "null", "null", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := elements.NewVariable(st.Node(), "my_var")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v.Type = "string"
	v.Default = "default-value"

	r1, err := elements.NewResource(st.Node(), "resource1", "null_resource", map[string]interface{}{
		"triggers": map[string]interface{}{
			"foo":      "bar",
			"variable": v.Value(),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r1.AddOverride("triggers.overridden", "true")
	r1.AddOverride("lifecycle.create_before_destroy", true)

	if _, err := elements.NewResource(st.Node(), "resource2", "null_resource", map[string]interface{}{
		"triggers": map[string]interface{}{
			"ref": r1.GetStringAttribute("id"),
		},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := r1.Token(tokens.Fn{Name: "join", Args: []interface{}{"-", []interface{}{"hello", "world"}}})
	if _, err := elements.NewOutput(st.Node(), "joined-value", joined); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := elements.NewOutput(st.Node(), "out2", "static"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := elements.NewOutput(st.Node(), "out3", r1.GetStringAttribute("id")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := app.Synth(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := readStackJSON(t, cfg.OutDir, "hello-terra")

	if got := digString(t, doc, "terraform", "backend", "local", "path"); got != "terraform.tfstate" {
		t.Fatalf("backend path = %q", got)
	}
	if got := digString(t, doc, "resource", "null_resource", "resource1", "triggers", "variable"); got != "${var.my_var}" {
		t.Fatalf("triggers.variable = %q", got)
	}
	if got := digString(t, doc, "resource", "null_resource", "resource1", "triggers", "overridden"); got != "true" {
		t.Fatalf("triggers.overridden = %q", got)
	}
	lc := doc["resource"].(map[string]interface{})["null_resource"].(map[string]interface{})["resource1"].(map[string]interface{})["lifecycle"].(map[string]interface{})
	if lc["create_before_destroy"] != true {
		t.Fatalf("lifecycle.create_before_destroy = %v", lc["create_before_destroy"])
	}
	if got := digString(t, doc, "resource", "null_resource", "resource2", "triggers", "ref"); got != "${null_resource.resource1.id}" {
		t.Fatalf("triggers.ref = %q", got)
	}
	if got := digString(t, doc, "output", "joined-value", "value"); got != `${join("-", ["hello", "world"])}` {
		t.Fatalf("joined-value = %q", got)
	}

	raw, _ := os.ReadFile(filepath.Join(cfg.OutDir, "stacks", "hello-terra", "cdk.tf.json"))
	if strings.Contains(string(raw), "TfToken[") {
		t.Fatalf("emitted file still contains an unresolved token handle: %s", raw)
	}
}

// TestSynth_CrossStackReference covers spec §8 end-to-end scenario 2.
func TestSynth_CrossStackReference(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutDir = t.TempDir()
	app := NewApp(cfg)

	source, err := app.NewStack("source-stack")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := elements.NewProvider(source.Node(), "null", "null", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srcResource, err := elements.NewResource(source.Node(), "source-resource", "null_resource", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	consumer, err := app.NewStack("consumer-stack")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := elements.NewProvider(consumer.Node(), "null", "null", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := elements.NewResource(consumer.Node(), "consumer-resource", "null_resource", map[string]interface{}{
		"triggers": map[string]interface{}{
			"ref": srcResource.GetStringAttribute("id"),
		},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := app.Synth(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	consumerDoc := readStackJSON(t, cfg.OutDir, "consumer-stack")
	ref := digString(t, consumerDoc, "resource", "null_resource", "consumer-resource", "triggers", "ref")
	if !strings.Contains(ref, "data.terraform_remote_state.") {
		t.Fatalf("expected consumer-stack reference to be rewritten to a remote-state lookup, got %q", ref)
	}

	sourceDoc := readStackJSON(t, cfg.OutDir, "source-stack")
	outputs, ok := sourceDoc["output"].(map[string]interface{})
	if !ok || len(outputs) != 1 {
		t.Fatalf("expected exactly one synthetic output in source-stack, got %v", sourceDoc["output"])
	}

	if got := consumer.Dependencies(); len(got) != 1 || got[0] != "source-stack" {
		t.Fatalf("expected consumer-stack to depend on source-stack, got %v", got)
	}
}

// TestSynth_CycleDetection covers spec §8 end-to-end scenario 5.
func TestSynth_CycleDetection(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutDir = t.TempDir()
	app := NewApp(cfg)

	a, err := app.NewStack("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := app.NewStack("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.AddDependency(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = b.AddDependency(a)
	if err == nil {
		t.Fatalf("expected CircularDependency error on the second add_dependency call")
	}
	if k, ok := cdktferrors.KindOf(err); !ok || k != cdktferrors.CircularDependency {
		t.Fatalf("expected CircularDependency kind, got %v", err)
	}
}

// TestSynth_ProviderPresenceValidation covers spec §8 end-to-end scenario 6.
func TestSynth_ProviderPresenceValidation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutDir = t.TempDir()
	app := NewApp(cfg)

	if _, err := app.NewStack("no-provider-stack"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := app.Synth()
	if err == nil {
		t.Fatalf("expected ValidationFailed error naming the stack")
	}
	if k, ok := cdktferrors.KindOf(err); !ok || k != cdktferrors.ValidationFailed {
		t.Fatalf("expected ValidationFailed kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "no-provider-stack") {
		t.Fatalf("expected error to name the stack, got %v", err)
	}
}
