package main

import (
	"os"
	"strings"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build FILE [out.loxc]",
	Short: "Compile a .lox source file to a .loxc chunk without running it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return ioError{err}
		}
		v := newVM()
		c, err := v.CompileOnly(string(src))
		if err != nil {
			return err
		}
		out := strings.TrimSuffix(args[0], ".lox") + ".loxc"
		if len(args) == 2 {
			out = args[1]
		}
		data, err := chunk.Encode(c)
		if err != nil {
			return ioError{err}
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return ioError{err}
		}
		cmd.Printf("wrote %s\n", out)
		return nil
	},
}
