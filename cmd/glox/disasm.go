package main

import (
	"os"
	"strings"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm FILE",
	Short: "Print a human-readable instruction listing for a .loxc chunk or .lox source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return ioError{err}
		}

		var c *chunk.Chunk
		if strings.HasSuffix(args[0], ".loxc") {
			c, err = chunk.Decode(data)
			if err != nil {
				return ioError{err}
			}
		} else {
			v := newVM()
			c, err = v.CompileOnly(string(data))
			if err != nil {
				return err
			}
		}
		cmd.Print(chunk.Disassemble(c, args[0]))
		return nil
	},
}
