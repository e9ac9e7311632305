package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdktf-core/synth/cdktf/config"
	"github.com/cdktf-core/synth/cmd/synth/example"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stacks the example app would synthesize",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := example.Build(config.Get())
	if err != nil {
		return err
	}
	for _, name := range app.Order() {
		s, _ := app.Stack(name)
		fmt.Printf("%s\t%s\n", name, s.Node().Path())
	}
	return nil
}
