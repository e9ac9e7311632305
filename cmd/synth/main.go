// Command synth is a minimal example driver for the synthesis engine,
// demonstrating the App/Synthesizer library boundary end to end. It is not
// a full cdktf CLI (get/diff/output are out of scope); it builds one
// canned example app and synthesizes it.
package main

import (
	"os"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
	"github.com/cdktf-core/synth/cmd/synth/cmd"
)

func main() {
	err := cmd.Execute()
	os.Exit(cdktferrors.ExitCode(err))
}
