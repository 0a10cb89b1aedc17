package object

import "github.com/kristofer/glox/pkg/value"

// Closure pairs a compiled Function with the live Upvalues it captured at
// creation time (spec §4.3, §4.4).
type Closure struct {
	Header
	Function *Function
	Upvalues []*Upvalue
}

func NewClosure(fn *Function) *Closure {
	return &Closure{Function: fn, Upvalues: make([]*Upvalue, fn.UpvalueCount)}
}

func (c *Closure) ObjType() value.ObjType { return value.ObjClosure }
func (c *Closure) String() string         { return c.Function.String() }
