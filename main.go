package main

import (
	"fmt"
	"os"

	"fjacquet/transfer-assistant/cmd/batch"
	"fjacquet/transfer-assistant/cmd/examples"
	"fjacquet/transfer-assistant/cmd/process"
	"fjacquet/transfer-assistant/cmd/root"
	"fjacquet/transfer-assistant/cmd/rules"
	"fjacquet/transfer-assistant/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(examples.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
