package chunk

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/kristofer/glox/pkg/value"
)

// wireConstant is the gob-friendly projection of a value.Value: the tagged
// union's interface-typed Obj field can't be gob-encoded directly, so
// constants are restricted to numbers, booleans, nil, and strings. Encode
// returns an error for any other constant, including the function objects
// OP_CLOSURE refers to, so a chunk that declares a function, method or
// class cannot be encoded.
type wireConstant struct {
	Kind byte // 0=nil 1=bool 2=number 3=string
	Bool bool
	Num  float64
	Str  string
}

type wireChunk struct {
	Code      []Instruction
	Lines     []int
	Constants []wireConstant
}

// Encode serializes c into the glox compiled-chunk wire format used by
// `glox build`/`glox disasm` (spec §6's CLI, non-core).
func Encode(c *Chunk) ([]byte, error) {
	w := wireChunk{Code: c.Code, Lines: c.Lines}
	for _, v := range c.Constants {
		wc, err := toWireConstant(v)
		if err != nil {
			return nil, err
		}
		w.Constants = append(w.Constants, wc)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, fmt.Errorf("chunk: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode rebuilds a Chunk from bytes produced by Encode.
func Decode(data []byte) (*Chunk, error) {
	var w wireChunk
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, fmt.Errorf("chunk: decode: %w", err)
	}
	c := &Chunk{Code: w.Code, Lines: w.Lines}
	for _, wc := range w.Constants {
		c.Constants = append(c.Constants, fromWireConstant(wc))
	}
	return c, nil
}

func toWireConstant(v value.Value) (wireConstant, error) {
	switch {
	case v.IsNil():
		return wireConstant{Kind: 0}, nil
	case v.IsBool():
		return wireConstant{Kind: 1, Bool: v.AsBool()}, nil
	case v.IsNumber():
		return wireConstant{Kind: 2, Num: v.AsNumber()}, nil
	case v.IsObjType(value.ObjString):
		return wireConstant{Kind: 3, Str: v.String()}, nil
	default:
		return wireConstant{}, fmt.Errorf("chunk: cannot encode non-literal constant %v", v)
	}
}

// NewStringValue builds a string Value; the string is not interned. It is
// installed by
// pkg/object's init (this package cannot import pkg/object directly:
// object.Function embeds a *Chunk, so the dependency must run the other
// way).
var NewStringValue func(string) value.Value

func fromWireConstant(wc wireConstant) value.Value {
	switch wc.Kind {
	case 1:
		return value.BoolValue(wc.Bool)
	case 2:
		return value.NumberValue(wc.Num)
	case 3:
		if NewStringValue == nil {
			return value.NilValue
		}
		return NewStringValue(wc.Str)
	default:
		return value.NilValue
	}
}
