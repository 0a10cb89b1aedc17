//go:build nanbox

package object

import (
	"unsafe"

	"github.com/kristofer/glox/pkg/value"
)

// Installs the pointer -> Obj reconstructors the NaN-boxed Value build
// needs (see pkg/value/value_nanbox.go's RegisterObjKind doc comment).
// Every concrete type here is a pointer type, so reconstructing one from
// its raw data word is a direct unsafe.Pointer conversion.
func init() {
	value.RegisterObjKind(value.ObjString, func(p unsafe.Pointer) value.Obj { return (*String)(p) })
	value.RegisterObjKind(value.ObjFunction, func(p unsafe.Pointer) value.Obj { return (*Function)(p) })
	value.RegisterObjKind(value.ObjNative, func(p unsafe.Pointer) value.Obj { return (*Native)(p) })
	value.RegisterObjKind(value.ObjClosure, func(p unsafe.Pointer) value.Obj { return (*Closure)(p) })
	value.RegisterObjKind(value.ObjUpvalue, func(p unsafe.Pointer) value.Obj { return (*Upvalue)(p) })
	value.RegisterObjKind(value.ObjClass, func(p unsafe.Pointer) value.Obj { return (*Class)(p) })
	value.RegisterObjKind(value.ObjInstance, func(p unsafe.Pointer) value.Obj { return (*Instance)(p) })
	value.RegisterObjKind(value.ObjBoundMethod, func(p unsafe.Pointer) value.Obj { return (*BoundMethod)(p) })
}
