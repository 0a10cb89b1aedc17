package object

import (
	"fmt"

	"github.com/kristofer/glox/pkg/table"
	"github.com/kristofer/glox/pkg/value"
)

// Class is a Lox class: a name and a method table mapping method name to
// the Closure implementing it. Inheritance is implemented by copying the
// superclass's method table into the subclass's when OP_INHERIT executes,
// before the subclass's own methods are added, exactly as
// original_source's vm.c does, so method lookup never needs to walk a
// superclass chain at call time.
type Class struct {
	Header
	Name    *String
	Methods *table.Table
}

func NewClass(name *String) *Class {
	return &Class{Name: name, Methods: table.New()}
}

func (c *Class) ObjType() value.ObjType { return value.ObjClass }
func (c *Class) String() string         { return c.Name.Chars }

// FindMethod looks up a method by name, returning the Closure and whether
// it was found.
func (c *Class) FindMethod(name *String) (*Closure, bool) {
	v, ok := c.Methods.Get(name)
	if !ok {
		return nil, false
	}
	closure, ok := v.AsObj().(*Closure)
	return closure, ok
}

// Instance is a live object of some Class, with its own per-instance
// field table (spec §4.4's GET_PROPERTY/SET_PROPERTY).
type Instance struct {
	Header
	Class  *Class
	Fields *table.Table
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: table.New()}
}

func (i *Instance) ObjType() value.ObjType { return value.ObjInstance }
func (i *Instance) String() string         { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }

// BoundMethod pairs a receiver with one of its class's methods, the value
// produced by `obj.method` when used as a first-class value rather than
// called immediately (spec §4.4).
type BoundMethod struct {
	Header
	Receiver value.Value
	Method   *Closure
}

func NewBoundMethod(receiver value.Value, method *Closure) *BoundMethod {
	return &BoundMethod{Receiver: receiver, Method: method}
}

func (b *BoundMethod) ObjType() value.ObjType { return value.ObjBoundMethod }
func (b *BoundMethod) String() string         { return b.Method.String() }
