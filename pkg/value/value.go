// Package value implements the tagged-union runtime Value representation.
//
// A second representation (NaN-boxed, a single uint64 word) lives in
// value_nanbox.go behind the "nanbox" build tag and exposes the identical
// exported surface, so callers never need to know which build they're
// linked against.
//
//go:build !nanbox

package value

import (
	"fmt"
	"math"
	"strconv"
)

// Type discriminates the variants a Value can hold.
type Type int

const (
	Bool Type = iota
	Nil
	Number
	Object
)

// Obj is the interface every heap-allocated object implements. It lives
// here, not in package object, so that Value can reference it without
// pkg/object needing to import pkg/value (which stores Values in object
// fields, upvalues, and closures) — breaking what would otherwise be an
// import cycle.
type Obj interface {
	// ObjType reports which concrete object variant this is.
	ObjType() ObjType
	// IsMarked reports the GC mark bit.
	IsMarked() bool
	// SetMarked sets the GC mark bit.
	SetMarked(bool)
	// Next returns the next node in the VM's intrusive allocation list.
	Next() Obj
	// SetNext links this node into the VM's intrusive allocation list.
	SetNext(Obj)
	// String renders the object the way Lox's print statement would.
	String() string
}

// ObjType discriminates the heap object variants (spec §3).
type ObjType int

const (
	ObjString ObjType = iota
	ObjFunction
	ObjNative
	ObjClosure
	ObjUpvalue
	ObjClass
	ObjInstance
	ObjBoundMethod
)

// Value is a tagged union: exactly one of num/obj is meaningful, selected
// by typ.
type Value struct {
	typ Type
	num float64
	obj Obj
}

// NilValue is the canonical nil value.
var NilValue = Value{typ: Nil}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	n := 0.0
	if b {
		n = 1.0
	}
	return Value{typ: Bool, num: n}
}

// NumberValue wraps a float64.
func NumberValue(n float64) Value {
	return Value{typ: Number, num: n}
}

// ObjValue wraps a heap object.
func ObjValue(o Obj) Value {
	return Value{typ: Object, obj: o}
}

func (v Value) IsBool() bool   { return v.typ == Bool }
func (v Value) IsNil() bool    { return v.typ == Nil }
func (v Value) IsNumber() bool { return v.typ == Number }
func (v Value) IsObj() bool    { return v.typ == Object }

// AsBool returns the boolean payload; callers must check IsBool first.
func (v Value) AsBool() bool { return v.num != 0 }

// AsNumber returns the float64 payload; callers must check IsNumber first.
func (v Value) AsNumber() float64 { return v.num }

// AsObj returns the object payload; callers must check IsObj first.
func (v Value) AsObj() Obj { return v.obj }

// IsObjType reports whether v holds a heap object of the given variant.
func (v Value) IsObjType(t ObjType) bool {
	return v.typ == Object && v.obj.ObjType() == t
}

// Truthy implements Lox's truthiness rule: nil and false are falsey,
// everything else — including 0 and "" — is truthy.
func (v Value) Truthy() bool {
	if v.IsNil() {
		return false
	}
	if v.IsBool() {
		return v.AsBool()
	}
	return true
}

// Equal implements Lox's == operator: values of different types are never
// equal, numbers compare by IEEE-754 equality, objects compare by identity
// except strings, which compare by content (though interning makes pointer
// equality sufficient in practice — spec.md requires content equality as
// the observable contract).
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case Nil:
		return true
	case Bool:
		return a.AsBool() == b.AsBool()
	case Number:
		return a.AsNumber() == b.AsNumber()
	case Object:
		if a.obj.ObjType() == ObjString && b.obj.ObjType() == ObjString {
			return a.obj == b.obj || a.obj.String() == b.obj.String()
		}
		return a.obj == b.obj
	default:
		return false
	}
}

// String renders v the way Lox's print statement does.
func (v Value) String() string {
	switch v.typ {
	case Bool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case Nil:
		return "nil"
	case Number:
		return formatNumber(v.AsNumber())
	case Object:
		return v.obj.String()
	default:
		return fmt.Sprintf("<invalid value type %d>", v.typ)
	}
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
