package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
	"github.com/cdktf-core/synth/cdktf/config"
	"github.com/cdktf-core/synth/cmd/synth/example"
)

var debugManifestYAML bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and synthesize the example app",
	RunE:  runSynth,
}

func init() {
	runCmd.Flags().BoolVar(&debugManifestYAML, "debug-manifest-yaml", false, "also print manifest.json rendered as YAML, for local debugging")
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	app, err := example.Build(cfg)
	if err != nil {
		return err
	}

	if err := app.Synth(); err != nil {
		printSynthError(err)
		return err
	}

	fmt.Printf("synthesized %d stack(s) to %s\n", len(app.Stacks()), cfg.OutDir)

	if debugManifestYAML {
		if err := printManifestAsYAML(cfg.OutDir); err != nil {
			return err
		}
	}
	return nil
}

// printSynthError reports a synthesis error, headed by its kind when it
// has one, as a single message wrapped to 100 columns. The accumulated
// messages of a ValidationFailed error appear in that one message.
func printSynthError(err error) {
	kind, ok := cdktferrors.KindOf(err)
	if !ok {
		fmt.Fprintln(os.Stderr, wordwrap.WrapString(err.Error(), 100))
		return
	}
	fmt.Fprintf(os.Stderr, "synthesis failed [%s]:\n", kind)
	fmt.Fprintln(os.Stderr, wordwrap.WrapString(err.Error(), 100))
}

// printManifestAsYAML renders <outdir>/manifest.json as YAML on stdout.
// The canonical manifest artifact on disk stays pure JSON; this is a
// debugging convenience only.
func printManifestAsYAML(outDir string) error {
	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		return cdktferrors.Wrap(cdktferrors.IOError, "reading manifest for --debug-manifest-yaml", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return cdktferrors.Wrap(cdktferrors.IOError, "parsing manifest for --debug-manifest-yaml", err)
	}
	rendered, err := yaml.Marshal(doc)
	if err != nil {
		return cdktferrors.Wrap(cdktferrors.IOError, "rendering manifest as yaml", err)
	}
	fmt.Println("--- manifest.json (yaml) ---")
	fmt.Print(string(rendered))
	return nil
}
