// Command glox is the CLI entry point for the Lox compiler and VM: a
// REPL, a file runner, and the compile/disassemble conveniences carried
// over from the teacher's cmd/smog (spec §6, non-core).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
