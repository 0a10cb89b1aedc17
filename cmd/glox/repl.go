package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kristofer/glox/pkg/vm"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Lox session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(newVM())
	},
}

// runREPL reads one line at a time and feeds each to the same persistent
// VM, so globals and heap state carry over across inputs for the whole
// session (spec §7) — the same persistent-VM-across-inputs pattern the
// teacher's cmd/smog REPL used.
func runREPL(v *vm.VM) error {
	if flagDebug {
		d := vm.NewDebugger(v, os.Stdin, os.Stdout)
		d.Enable()
		d.SetStepMode(true)
		v.AttachDebugger(d)
	}

	fmt.Println("glox REPL — empty line to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		line := scanner.Text()
		if line == "" {
			return nil
		}
		if err := v.Interpret(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
