// Package cmd provides the CLI commands for the synth example driver.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cdktf-core/synth/cdktf/config"
	"github.com/cdktf-core/synth/cdktf/logging"
)

var (
	cfgFile string
	verbose bool
	outDir  string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize a cdktf-core app to Terraform JSON",
	Long: `synth is an example driver built on the cdktf-core synthesis engine.

It constructs one canned example application (a single stack with a null
provider, a variable, two resources, and one output) and
synthesizes it to a Terraform JSON configuration plus a manifest.

Examples:
  synth run
  synth run --outdir ./out --debug-manifest-yaml
  synth list`,
}

// Execute runs the CLI and returns the error from whichever subcommand ran,
// so main can map it to an exit code via cdktferrors.ExitCode without the
// library itself ever calling os.Exit.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVar(&outDir, "outdir", "", "synthesis output directory (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

func initConfig() {
	cfg := config.DefaultConfig()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logging: %v\n", err)
	}
}
