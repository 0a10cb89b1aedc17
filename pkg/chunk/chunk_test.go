package chunk_test

import (
	"strings"
	"testing"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/value"
)

func TestAddConstantCeiling(t *testing.T) {
	c := chunk.New()
	for i := 0; i < chunk.MaxConstants; i++ {
		if _, err := c.AddConstant(value.NumberValue(float64(i))); err != nil {
			t.Fatalf("constant %d: unexpected error %v", i, err)
		}
	}
	if _, err := c.AddConstant(value.NumberValue(999)); err == nil {
		t.Fatal("expected error adding past MaxConstants")
	} else if !strings.Contains(err.Error(), "Too many constants") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestPatchJumpTooFar(t *testing.T) {
	c := chunk.New()
	idx := c.Write(chunk.OpJumpIfFalse, 0, 0, 1)
	for i := 0; i < chunk.MaxJump+2; i++ {
		c.Write(chunk.OpPop, 0, 0, 1)
	}
	if err := c.PatchJump(idx); err == nil {
		t.Fatal("expected error patching a jump further than MaxJump")
	} else if !strings.Contains(err.Error(), "Too much code to jump over") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestLineOf(t *testing.T) {
	c := chunk.New()
	c.Write(chunk.OpNil, 0, 0, 3)
	c.Write(chunk.OpPop, 0, 0, 4)
	if got := c.LineOf(0); got != 3 {
		t.Errorf("LineOf(0) = %d, want 3", got)
	}
	if got := c.LineOf(1); got != 4 {
		t.Errorf("LineOf(1) = %d, want 4", got)
	}
}

func TestDisassembleDoesNotPanic(t *testing.T) {
	c := chunk.New()
	idx, _ := c.AddConstant(value.NumberValue(1))
	c.Write(chunk.OpConstant, idx, 0, 1)
	c.Write(chunk.OpReturn, 0, 0, 1)
	out := chunk.Disassemble(c, "test")
	if !strings.Contains(out, "OP_CONSTANT") || !strings.Contains(out, "OP_RETURN") {
		t.Errorf("disassembly missing expected opcodes: %s", out)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := chunk.New()
	idx, _ := c.AddConstant(value.NumberValue(42))
	c.Write(chunk.OpConstant, idx, 0, 1)
	c.Write(chunk.OpReturn, 0, 0, 1)

	data, err := chunk.Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := chunk.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Code) != len(c.Code) {
		t.Fatalf("decoded %d instructions, want %d", len(decoded.Code), len(c.Code))
	}
	if decoded.Constants[0].AsNumber() != 42 {
		t.Errorf("decoded constant = %v, want 42", decoded.Constants[0])
	}
}
