package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/table"
	"github.com/kristofer/glox/pkg/value"
)

// Debugger is an optional interactive stepper over a VM's execution,
// adapted from the teacher's selector/instruction-index debugger into one
// that understands call frames and chunk.Instruction rather than
// Smalltalk message sends. It is attached via VM.AttachDebugger and
// consulted once per dispatch-loop iteration.
type Debugger struct {
	vm          *VM
	breakpoints map[int]bool // instruction index within the current frame where execution should pause
	stepMode    bool
	enabled     bool
	in          *bufio.Scanner
	out         io.Writer
}

// NewDebugger wires a debugger to read commands from in and write to out.
func NewDebugger(vm *VM, in io.Reader, out io.Writer) *Debugger {
	return &Debugger{vm: vm, breakpoints: make(map[int]bool), in: bufio.NewScanner(in), out: out}
}

func (d *Debugger) Enable()              { d.enabled = true }
func (d *Debugger) Disable()             { d.enabled = false }
func (d *Debugger) SetStepMode(on bool)  { d.stepMode = on }
func (d *Debugger) AddBreakpoint(ip int) { d.breakpoints[ip] = true }

// ShouldPause is polled by the dispatch loop before executing the
// instruction at the current frame's ip.
func (d *Debugger) ShouldPause() bool {
	if !d.enabled {
		return false
	}
	if d.stepMode {
		return true
	}
	return d.breakpoints[d.vm.currentFrame().ip]
}

// Prompt pauses for interactive commands; it returns once the user asks
// execution to continue or single-step.
func (d *Debugger) Prompt() {
	f := d.vm.currentFrame()
	c := f.closure.Function.Chunk
	fmt.Fprintln(d.out, "\n=== paused ===")
	fmt.Fprintln(d.out, chunk.DisassembleInstruction(c, f.ip))

	for {
		fmt.Fprint(d.out, "debug> ")
		if !d.in.Scan() {
			d.enabled = false
			return
		}
		fields := strings.Fields(strings.TrimSpace(d.in.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "continue", "c":
			d.stepMode = false
			return
		case "step", "s":
			d.stepMode = true
			return
		case "stack", "st":
			d.showStack()
		case "locals", "l":
			d.showLocals()
		case "globals", "g":
			d.showGlobals()
		case "callstack", "cs":
			d.showCallStack()
		case "break", "b":
			if len(fields) < 2 {
				fmt.Fprintln(d.out, "usage: break <ip>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintln(d.out, "invalid instruction index")
				continue
			}
			d.AddBreakpoint(n)
		case "quit", "q":
			d.enabled = false
			return
		default:
			fmt.Fprintln(d.out, "commands: continue(c) step(s) stack(st) locals(l) globals(g) callstack(cs) break(b) <ip> quit(q)")
		}
	}
}

func (d *Debugger) showStack() {
	fmt.Fprintln(d.out, "stack (top to bottom):")
	for i := d.vm.sp - 1; i >= 0; i-- {
		fmt.Fprintf(d.out, "  [%d] %s\n", i, d.vm.stack[i].String())
	}
}

func (d *Debugger) showLocals() {
	f := d.vm.currentFrame()
	fmt.Fprintln(d.out, "locals:")
	for i := f.slotsBase; i < d.vm.sp; i++ {
		fmt.Fprintf(d.out, "  [%d] %s\n", i-f.slotsBase, d.vm.stack[i].String())
	}
}

func (d *Debugger) showGlobals() {
	fmt.Fprintln(d.out, "globals:")
	d.vm.globals.Each(func(k table.Key, v value.Value) {
		if name, ok := k.(interface{ String() string }); ok {
			fmt.Fprintf(d.out, "  %s = %s\n", name.String(), v.String())
		}
	})
}

func (d *Debugger) showCallStack() {
	fmt.Fprintln(d.out, "call stack (top to bottom):")
	for i := len(d.vm.frames) - 1; i >= 0; i-- {
		fr := d.vm.frames[i]
		name := "script"
		if fr.closure.Function.Name != nil {
			name = fr.closure.Function.Name.Chars
		}
		fmt.Fprintf(d.out, "  %s (ip=%d)\n", name, fr.ip)
	}
}
