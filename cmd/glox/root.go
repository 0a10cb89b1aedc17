package main

import (
	"fmt"

	"github.com/kristofer/glox/internal/clox"
	"github.com/kristofer/glox/pkg/vm"
	"github.com/spf13/cobra"
)

var (
	flagStressGC bool
	flagGCLog    bool
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "glox [script]",
	Short: "glox compiles and runs Lox programs",
	Long: `glox is a single-pass compiler and bytecode virtual machine for the
Lox scripting language. Run it with no arguments for a REPL, or pass a
.lox source file (or a .loxc compiled chunk) to run it directly.`,
	// Wraps errUsage (rather than cobra.MaximumNArgs(1)'s own error) so
	// exitCodeFor can route "too many args" to exit 64 like every other
	// usage mistake (spec §6).
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return fmt.Errorf("%w: accepts at most 1 arg(s), received %d", errUsage, len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runREPL(newVM())
		}
		return runFile(newVM(), args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagStressGC, "stress-gc", false, "collect garbage on every allocation (clox's DEBUG_STRESS_GC)")
	rootCmd.PersistentFlags().BoolVar(&flagGCLog, "gc-log", false, "log every collection to stderr (clox's DEBUG_LOG_GC)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "attach an interactive debugger, paused from the first instruction")

	rootCmd.AddCommand(replCmd, runCmd, buildCmd, disasmCmd)
}

// newVM constructs a VM with the persistent flags applied, shared by every
// subcommand.
func newVM() *vm.VM {
	v := vm.New()
	v.Collector().SetStressMode(flagStressGC)
	if flagGCLog {
		v.Collector().SetLogger(clox.NewLogger(true))
	}
	return v
}
