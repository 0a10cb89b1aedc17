package chunk

import (
	"fmt"
	"strings"
)

// Disassemble renders every instruction in c as a human-readable listing,
// in the style of the teacher's pkg/bytecode/format.go disassembler,
// retargeted at this package's Instruction shape.
func Disassemble(c *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	for i := range c.Code {
		b.WriteString(DisassembleInstruction(c, i))
		b.WriteByte('\n')
	}
	return b.String()
}

// DisassembleInstruction renders the single instruction at ip.
func DisassembleInstruction(c *Chunk, ip int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d ", ip)
	if ip > 0 && c.Lines[ip] == c.Lines[ip-1] {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(&b, "%4d ", c.Lines[ip])
	}

	inst := c.Code[ip]
	switch inst.Op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal, OpClass, OpMethod, OpGetProperty, OpSetProperty, OpGetSuper:
		fmt.Fprintf(&b, "%-16s %4d '%s'", inst.Op, inst.A, constantString(c, inst.A))
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		fmt.Fprintf(&b, "%-16s %4d", inst.Op, inst.A)
	case OpInvoke, OpSuperInvoke:
		fmt.Fprintf(&b, "%-16s (%d args) %4d '%s'", inst.Op, inst.B, inst.A, constantString(c, inst.A))
	case OpJump, OpJumpIfFalse:
		fmt.Fprintf(&b, "%-16s %4d -> %d", inst.Op, ip, ip+1+inst.A)
	case OpLoop:
		fmt.Fprintf(&b, "%-16s %4d -> %d", inst.Op, ip, ip+1-inst.A)
	case OpClosure:
		fmt.Fprintf(&b, "%-16s %4d '%s'", inst.Op, inst.A, constantString(c, inst.A))
		for _, uv := range inst.Upvalues {
			kind := "upvalue"
			if uv.IsLocal {
				kind = "local"
			}
			fmt.Fprintf(&b, "\n      |                     %s %d", kind, uv.Index)
		}
	default:
		fmt.Fprintf(&b, "%-16s", inst.Op)
	}
	return b.String()
}

func constantString(c *Chunk, idx int) string {
	if idx < 0 || idx >= len(c.Constants) {
		return "?"
	}
	return c.Constants[idx].String()
}
