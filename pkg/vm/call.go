package vm

import (
	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/value"
)

func (vm *VM) callValue(callee value.Value, argCount int) error {
	if !callee.IsObj() {
		return wrapf("Can only call functions and classes.")
	}
	switch o := callee.AsObj().(type) {
	case *object.BoundMethod:
		vm.stack[vm.sp-argCount-1] = o.Receiver
		return vm.call(o.Method, argCount)
	case *object.Class:
		inst := object.NewInstance(o)
		vm.gcol.Track(inst)
		vm.stack[vm.sp-argCount-1] = value.ObjValue(inst)
		if initializer, ok := o.FindMethod(vm.initString); ok {
			return vm.call(initializer, argCount)
		} else if argCount != 0 {
			return wrapf("Expected 0 arguments but got %d.", argCount)
		}
		return nil
	case *object.Closure:
		return vm.call(o, argCount)
	case *object.Native:
		args := vm.stack[vm.sp-argCount : vm.sp]
		result, err := o.Fn(args)
		if err != nil {
			return err
		}
		vm.sp -= argCount + 1
		vm.push(result)
		return nil
	default:
		return wrapf("Can only call functions and classes.")
	}
}

func (vm *VM) call(closure *object.Closure, argCount int) error {
	if argCount != closure.Function.Arity {
		return wrapf("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if len(vm.frames) >= framesMax {
		return wrapf("Stack overflow.")
	}
	vm.frames = append(vm.frames, frame{closure: closure, slotsBase: vm.sp - argCount - 1})
	return nil
}

func (vm *VM) invoke(name *object.String, argCount int) error {
	receiver := vm.stack[vm.sp-argCount-1]
	if !receiver.IsObjType(value.ObjInstance) {
		return wrapf("Only instances have methods.")
	}
	inst := receiver.AsObj().(*object.Instance)

	if field, ok := inst.Fields.Get(name); ok {
		vm.stack[vm.sp-argCount-1] = field
		return vm.callValue(field, argCount)
	}

	method, ok := inst.Class.FindMethod(name)
	if !ok {
		return wrapf("Undefined property '%s'.", name.Chars)
	}
	return vm.call(method, argCount)
}

func (vm *VM) invokeFromClass(class *object.Class, name *object.String, argCount int) error {
	method, ok := class.FindMethod(name)
	if !ok {
		return wrapf("Undefined property '%s'.", name.Chars)
	}
	return vm.call(method, argCount)
}

func (vm *VM) bindMethod(class *object.Class, name *object.String) error {
	method, ok := class.FindMethod(name)
	if !ok {
		return wrapf("Undefined property '%s'.", name.Chars)
	}
	bound := object.NewBoundMethod(vm.peek(0), method)
	vm.gcol.Track(bound)
	vm.pop()
	vm.push(value.ObjValue(bound))
	return nil
}

// captureUpvalue returns the open upvalue for stack slot index, reusing
// one already open for that slot (so two closures capturing the same
// local share state), inserting a new one into the descending-slot-order
// open list otherwise (spec §4.3, §4.4). vm.stack is a fixed-size array
// embedded in the VM (never reallocated), so &vm.stack[index] stays valid
// for the VM's whole lifetime.
func (vm *VM) captureUpvalue(index int) *object.Upvalue {
	var prev *object.Upvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Slot > index {
		prev = cur
		cur = cur.NextOpen
	}
	if cur != nil && cur.Slot == index {
		return cur
	}

	created := object.NewUpvalue(index, &vm.stack[index])
	vm.gcol.Track(created)
	created.NextOpen = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	return created
}

func (vm *VM) closeUpvalues(from int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= from {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.NextOpen
	}
}
