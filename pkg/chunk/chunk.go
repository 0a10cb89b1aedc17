// Package chunk implements the compiled bytecode unit: a flat instruction
// sequence, its constant pool, and the line-number table used to report
// runtime errors (spec §3, §4.1).
//
// Instructions are kept as a typed Go slice (Op + resolved operands)
// rather than a raw byte stream — see DESIGN.md's Open Question #1. The
// two invariants spec.md actually tests for, a 256-entry constant pool
// ceiling and a 65535-instruction jump range, are enforced regardless of
// the underlying representation.
package chunk

import (
	"fmt"

	"github.com/kristofer/glox/pkg/value"
)

const (
	// MaxConstants mirrors clox's single-byte constant operand: a chunk
	// may not hold more than 256 distinct constants.
	MaxConstants = 256
	// MaxJump mirrors clox's 16-bit jump offset operand.
	MaxJump = 65535
)

// UpvalueRef describes one upvalue captured by an OP_CLOSURE instruction:
// either the enclosing function's local slot Index, or its own upvalue
// slot Index, selected by IsLocal (spec §4.3's upvalue-capture rule).
type UpvalueRef struct {
	IsLocal bool
	Index   int
}

// Instruction is one bytecode op plus up to two resolved operands. Most
// opcodes use only A (OP_GET_LOCAL's slot, OP_JUMP's offset, OP_CONSTANT's
// pool index); OP_INVOKE/OP_SUPER_INVOKE use A for the method-name
// constant and B for the argument count; OP_CLOSURE uses A for the
// function constant and Upvalues for its capture list.
type Instruction struct {
	Op       Op
	A        int
	B        int
	Upvalues []UpvalueRef
}

// Chunk is a compiled sequence of instructions together with the constant
// pool and per-instruction source lines it references.
type Chunk struct {
	Code      []Instruction
	Lines     []int
	Constants []value.Value
}

// New returns an empty chunk.
func New() *Chunk {
	return &Chunk{}
}

// Write appends an instruction at the given source line and returns its
// index (used by the compiler for back-patching jump targets).
func (c *Chunk) Write(op Op, a, b int, line int) int {
	c.Code = append(c.Code, Instruction{Op: op, A: a, B: b})
	c.Lines = append(c.Lines, line)
	return len(c.Code) - 1
}

// WriteClosure appends an OP_CLOSURE instruction carrying its upvalue
// capture list.
func (c *Chunk) WriteClosure(functionConstant int, upvalues []UpvalueRef, line int) int {
	c.Code = append(c.Code, Instruction{Op: OpClosure, A: functionConstant, Upvalues: upvalues})
	c.Lines = append(c.Lines, line)
	return len(c.Code) - 1
}

// AddConstant appends v to the constant pool and returns its index, or
// an error if doing so would exceed MaxConstants — the exact diagnostic
// spec.md requires ("Too many constants in one chunk.").
func (c *Chunk) AddConstant(v value.Value) (int, error) {
	if len(c.Constants) >= MaxConstants {
		return 0, fmt.Errorf("Too many constants in one chunk.")
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}

// LineOf returns the source line the instruction at ip was compiled from.
func (c *Chunk) LineOf(ip int) int {
	if ip < 0 || ip >= len(c.Lines) {
		return -1
	}
	return c.Lines[ip]
}

// PatchJump back-fills the operand of a previously emitted OP_JUMP or
// OP_JUMP_IF_FALSE at index so that it lands at the current end of the
// instruction stream, or returns an error if the distance exceeds MaxJump
// ("Too much code to jump over.").
func (c *Chunk) PatchJump(index int) error {
	offset := len(c.Code) - index - 1
	if offset > MaxJump {
		return fmt.Errorf("Too much code to jump over.")
	}
	c.Code[index].A = offset
	return nil
}

// EmitLoop writes an OP_LOOP instruction jumping back to loopStart.
func (c *Chunk) EmitLoop(loopStart int, line int) error {
	offset := len(c.Code) - loopStart + 1
	if offset > MaxJump {
		return fmt.Errorf("Too much code to jump over.")
	}
	c.Write(OpLoop, offset, 0, line)
	return nil
}

// Len reports how many instructions the chunk currently holds.
func (c *Chunk) Len() int { return len(c.Code) }
