package main

import (
	"os"
	"strings"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/vm"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a .lox source file or a .loxc compiled chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(newVM(), args[0])
	},
}

func runFile(v *vm.VM, path string) error {
	if flagDebug {
		d := vm.NewDebugger(v, os.Stdin, os.Stdout)
		d.Enable()
		d.SetStepMode(true)
		v.AttachDebugger(d)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ioError{err}
	}

	if strings.HasSuffix(path, ".loxc") {
		c, err := chunk.Decode(data)
		if err != nil {
			return ioError{err}
		}
		return v.InterpretChunk(c)
	}
	return v.Interpret(string(data))
}
