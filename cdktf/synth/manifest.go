package synth

import (
	"encoding/json"
	"os"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

const schemaVersion = "1.0"

// manifestStack is one entry of manifest.json's "stacks" map (spec §6).
type manifestStack struct {
	Name                 string   `json:"name"`
	ConstructPath        string   `json:"constructPath"`
	SynthesizedStackPath string   `json:"synthesizedStackPath"`
	WorkingDirectory     string   `json:"workingDirectory"`
	Annotations          []string `json:"annotations"`
	Dependencies         []string `json:"dependencies"`
}

// manifest is the top-level shape of <outdir>/manifest.json (spec §6).
type manifest struct {
	Version string                   `json:"version"`
	Stacks  map[string]manifestStack `json:"stacks"`
}

func newManifest() *manifest {
	return &manifest{Version: schemaVersion, Stacks: map[string]manifestStack{}}
}

// writeJSON pretty-prints v to path with a trailing newline, matching the
// "pretty-printed, stable key order" requirement of spec §4.G step 3
// (Go's encoding/json already emits map keys in sorted order).
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cdktferrors.Wrap(cdktferrors.IOError, "encoding "+path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cdktferrors.Wrap(cdktferrors.IOError, "writing "+path, err)
	}
	return nil
}
