package object

import (
	"fmt"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/value"
)

// Function is a compiled Lox function or method body: a name, an arity,
// the number of upvalues its closures must capture, and its bytecode
// (spec §3, §4.3).
type Function struct {
	Header
	Name         *String
	Arity        int
	UpvalueCount int
	Chunk        *chunk.Chunk
}

// NewFunction returns an empty function ready for the compiler to emit
// into via Chunk.
func NewFunction(name *String) *Function {
	return &Function{Name: name, Chunk: chunk.New()}
}

func (f *Function) ObjType() value.ObjType { return value.ObjFunction }

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is the Go implementation backing a Native object.
type NativeFn func(args []value.Value) (value.Value, error)

// Native wraps a Go function exposed to Lox code as a callable, e.g.
// clock() (spec §4.4, §6).
type Native struct {
	Header
	Name string
	Fn   NativeFn
}

func NewNative(name string, fn NativeFn) *Native {
	return &Native{Name: name, Fn: fn}
}

func (n *Native) ObjType() value.ObjType { return value.ObjNative }
func (n *Native) String() string         { return "<native fn>" }
