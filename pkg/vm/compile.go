package vm

import (
	"github.com/kristofer/glox/pkg/compiler"
	"github.com/kristofer/glox/pkg/gc"
	"github.com/kristofer/glox/pkg/object"
)

// compile is a thin indirection so vm.go's Interpret doesn't need to name
// the compiler package inline; it exists purely to keep the import list
// at the top of vm.go readable given how many packages a dispatch loop
// this size touches.
func compile(source string, interner compiler.Interner, collector *gc.Collector) (*object.Function, error) {
	return compiler.Compile(source, interner, collector)
}
