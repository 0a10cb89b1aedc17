package vm

import (
	"time"

	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/value"
)

// defineNative registers a Go function as a global Lox callable, the same
// extension point original_source's vm.c's defineNative offers (spec §6's
// required clock() native lives here, the only one this build ships).
func (vm *VM) defineNative(name string, fn object.NativeFn) {
	native := object.NewNative(name, fn)
	vm.gcol.Track(native)
	vm.globals.Set(vm.Intern(name), value.ObjValue(native))
}

func (vm *VM) defineNatives() {
	start := time.Now()
	vm.defineNative("clock", func(args []value.Value) (value.Value, error) {
		return value.NumberValue(time.Since(start).Seconds()), nil
	})
}
