// Package vm implements the stack-based bytecode interpreter (spec §4.4).
// It is grounded on the teacher's pkg/vm/vm.go for its overall shape (a
// struct carrying a value stack and a call-frame list, a dispatch loop
// switching on the current instruction) and on original_source's vm.c for
// the actual Lox call/class/closure/upvalue semantics, which the
// teacher's Smalltalk-flavored `send` dispatch never implemented.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/gc"
	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/table"
	"github.com/kristofer/glox/pkg/value"
)

// StackMax bounds the value stack exactly as clox's FRAMES_MAX *
// UINT8_COUNT does.
const StackMax = framesMax * 256

// VM is the Lox bytecode interpreter: a fixed-capacity value stack (never
// reallocated, so upvalues may hold raw pointers into it for their
// lifetime), a call-frame list, globals, and the shared heap state
// (string intern table + collector) it hands to the compiler too.
type VM struct {
	stack [StackMax]value.Value
	sp    int

	frames []frame

	globals *table.Table
	strings *table.Table

	openUpvalues *object.Upvalue

	gcol       *gc.Collector
	initString *object.String

	Stdout   io.Writer
	debugger *Debugger
}

// AttachDebugger wires an interactive debugger into the dispatch loop
// (spec §1's "a debugger" out-of-core collaborator).
func (vm *VM) AttachDebugger(d *Debugger) { vm.debugger = d }

// New returns a ready VM with its native functions installed.
func New() *VM {
	vm := &VM{
		globals: table.New(),
		strings: table.New(),
		Stdout:  os.Stdout,
	}
	vm.gcol = gc.New(vm.strings)
	vm.gcol.AddRootProvider(vm)
	vm.initString = vm.Intern("init")
	vm.defineNatives()
	return vm
}

// Collector exposes the VM's collector so cmd/glox can wire -stress-gc /
// -gc-log onto it.
func (vm *VM) Collector() *gc.Collector { return vm.gcol }

// Intern implements compiler.Interner over the VM's own string table, so
// compile-time and run-time strings share one canonical pointer per
// distinct character sequence (spec §4.5).
func (vm *VM) Intern(s string) *object.String {
	h := object.HashString(s)
	if k, ok := vm.strings.FindString(s, h, func(k table.Key) bool {
		so, ok := k.(*object.String)
		return ok && so.Chars == s
	}); ok {
		return k.(*object.String)
	}
	str := object.NewString(s)
	vm.gcol.Track(str)
	vm.strings.Set(str, value.NilValue)
	return str
}

// MarkRoots implements gc.RootProvider: the value stack, every frame's
// closure, the open-upvalue chain, globals, and the cached "init" string
// are all roots for as long as the VM is alive (spec §4.6).
func (vm *VM) MarkRoots(c *gc.Collector) {
	for i := 0; i < vm.sp; i++ {
		c.MarkValue(vm.stack[i])
	}
	for _, f := range vm.frames {
		c.MarkObject(f.closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.NextOpen {
		c.MarkObject(uv)
	}
	vm.globals.Each(func(k table.Key, v value.Value) {
		c.MarkKey(k)
		c.MarkValue(v)
	})
	if vm.initString != nil {
		c.MarkObject(vm.initString)
	}
}

func (vm *VM) push(v value.Value) { vm.stack[vm.sp] = v; vm.sp++ }
func (vm *VM) pop() value.Value   { vm.sp--; return vm.stack[vm.sp] }
func (vm *VM) peek(distance int) value.Value { return vm.stack[vm.sp-1-distance] }

func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frames = vm.frames[:0]
	vm.openUpvalues = nil
}

// Interpret compiles and runs source in this VM, reusing its globals and
// heap across calls within one REPL session (spec §7's persistence
// contract).
func (vm *VM) Interpret(source string) error {
	fn, err := compile(source, vm, vm.gcol)
	if err != nil {
		return err
	}
	closure := object.NewClosure(fn)
	vm.gcol.Track(closure)
	vm.push(value.ObjValue(closure))
	vm.frames = append(vm.frames, frame{closure: closure, slotsBase: 0})
	return vm.run()
}

// InterpretChunk runs an already-compiled chunk (the `glox run FILE.loxc`
// path, spec §6's CLI, non-core) as the top-level script.
func (vm *VM) InterpretChunk(c *chunk.Chunk) error {
	fn := object.NewFunction(nil)
	fn.Chunk = c
	vm.gcol.Track(fn)
	closure := object.NewClosure(fn)
	vm.gcol.Track(closure)
	vm.push(value.ObjValue(closure))
	vm.frames = append(vm.frames, frame{closure: closure, slotsBase: 0})
	return vm.run()
}

// CompileOnly compiles source without running it, for `glox build`.
func (vm *VM) CompileOnly(source string) (*chunk.Chunk, error) {
	fn, err := compile(source, vm, vm.gcol)
	if err != nil {
		return nil, err
	}
	return fn.Chunk, nil
}

func (vm *VM) currentFrame() *frame { return &vm.frames[len(vm.frames)-1] }

func (vm *VM) runtimeError(cause error) error {
	stack := make([]CallFrame, 0, len(vm.frames))
	for _, f := range vm.frames {
		name := "script"
		if f.closure.Function.Name != nil {
			name = f.closure.Function.Name.Chars + "()"
		}
		line := -1
		if f.ip-1 >= 0 {
			line = f.closure.Function.Chunk.LineOf(f.ip - 1)
		}
		stack = append(stack, CallFrame{Name: name, Line: line})
	}
	vm.resetStack()
	return newRuntimeError(cause, stack)
}

func (vm *VM) run() error {
	for {
		f := vm.currentFrame()
		c := f.closure.Function.Chunk
		if f.ip >= c.Len() {
			return vm.runtimeError(wrapf("ran off the end of the chunk"))
		}
		if vm.debugger != nil && vm.debugger.ShouldPause() {
			vm.debugger.Prompt()
		}
		inst := c.Code[f.ip]
		f.ip++

		switch inst.Op {
		case chunk.OpConstant:
			vm.push(c.Constants[inst.A])
		case chunk.OpNil:
			vm.push(value.NilValue)
		case chunk.OpTrue:
			vm.push(value.BoolValue(true))
		case chunk.OpFalse:
			vm.push(value.BoolValue(false))
		case chunk.OpPop:
			vm.pop()
		case chunk.OpGetLocal:
			vm.push(vm.stack[f.slotsBase+inst.A])
		case chunk.OpSetLocal:
			vm.stack[f.slotsBase+inst.A] = vm.peek(0)
		case chunk.OpGetGlobal:
			name := c.Constants[inst.A].AsObj().(*object.String)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError(wrapf("Undefined variable '%s'.", name.Chars))
			}
			vm.push(v)
		case chunk.OpDefineGlobal:
			name := c.Constants[inst.A].AsObj().(*object.String)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case chunk.OpSetGlobal:
			name := c.Constants[inst.A].AsObj().(*object.String)
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError(wrapf("Undefined variable '%s'.", name.Chars))
			}
		case chunk.OpGetUpvalue:
			vm.push(f.closure.Upvalues[inst.A].Get())
		case chunk.OpSetUpvalue:
			f.closure.Upvalues[inst.A].Set(vm.peek(0))
		case chunk.OpGetProperty:
			if !vm.peek(0).IsObjType(value.ObjInstance) {
				return vm.runtimeError(wrapf("Only instances have properties."))
			}
			inst0 := vm.peek(0).AsObj().(*object.Instance)
			name := c.Constants[inst.A].AsObj().(*object.String)
			if v, ok := inst0.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if err := vm.bindMethod(inst0.Class, name); err != nil {
				return vm.runtimeError(err)
			}
		case chunk.OpSetProperty:
			if !vm.peek(1).IsObjType(value.ObjInstance) {
				return vm.runtimeError(wrapf("Only instances have fields."))
			}
			inst0 := vm.peek(1).AsObj().(*object.Instance)
			name := c.Constants[inst.A].AsObj().(*object.String)
			inst0.Fields.Set(name, vm.peek(0))
			v := vm.pop()
			vm.pop()
			vm.push(v)
		case chunk.OpGetSuper:
			name := c.Constants[inst.A].AsObj().(*object.String)
			superclass := vm.pop().AsObj().(*object.Class)
			if err := vm.bindMethod(superclass, name); err != nil {
				return vm.runtimeError(err)
			}
		case chunk.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.BoolValue(value.Equal(a, b)))
		case chunk.OpGreater, chunk.OpLess:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				return vm.runtimeError(wrapf("Operands must be numbers."))
			}
			b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
			if inst.Op == chunk.OpGreater {
				vm.push(value.BoolValue(a > b))
			} else {
				vm.push(value.BoolValue(a < b))
			}
		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return vm.runtimeError(err)
			}
		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				return vm.runtimeError(wrapf("Operands must be numbers."))
			}
			b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
			switch inst.Op {
			case chunk.OpSubtract:
				vm.push(value.NumberValue(a - b))
			case chunk.OpMultiply:
				vm.push(value.NumberValue(a * b))
			case chunk.OpDivide:
				vm.push(value.NumberValue(a / b))
			}
		case chunk.OpNot:
			vm.push(value.BoolValue(!vm.pop().Truthy()))
		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError(wrapf("Operand must be a number."))
			}
			vm.push(value.NumberValue(-vm.pop().AsNumber()))
		case chunk.OpPrint:
			fmt.Fprintln(vm.Stdout, vm.pop().String())
		case chunk.OpJump:
			f.ip += inst.A
		case chunk.OpJumpIfFalse:
			if !vm.peek(0).Truthy() {
				f.ip += inst.A
			}
		case chunk.OpLoop:
			f.ip -= inst.A
		case chunk.OpCall:
			argCount := inst.A
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return vm.runtimeError(err)
			}
		case chunk.OpInvoke:
			name := c.Constants[inst.A].AsObj().(*object.String)
			if err := vm.invoke(name, inst.B); err != nil {
				return vm.runtimeError(err)
			}
		case chunk.OpSuperInvoke:
			name := c.Constants[inst.A].AsObj().(*object.String)
			superclass := vm.pop().AsObj().(*object.Class)
			if err := vm.invokeFromClass(superclass, name, inst.B); err != nil {
				return vm.runtimeError(err)
			}
		case chunk.OpClosure:
			fn := c.Constants[inst.A].AsObj().(*object.Function)
			closure := object.NewClosure(fn)
			vm.gcol.Track(closure)
			for i, uv := range inst.Upvalues {
				if uv.IsLocal {
					closure.Upvalues[i] = vm.captureUpvalue(f.slotsBase + uv.Index)
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[uv.Index]
				}
			}
			vm.push(value.ObjValue(closure))
		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()
		case chunk.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(f.slotsBase)
			returnedFrame := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.pop()
				return nil
			}
			vm.sp = returnedFrame.slotsBase
			vm.push(result)
		case chunk.OpClass:
			name := c.Constants[inst.A].AsObj().(*object.String)
			class := object.NewClass(name)
			vm.gcol.Track(class)
			vm.push(value.ObjValue(class))
		case chunk.OpInherit:
			superVal := vm.peek(1)
			if !superVal.IsObjType(value.ObjClass) {
				return vm.runtimeError(wrapf("Superclass must be a class."))
			}
			subclass := vm.peek(0).AsObj().(*object.Class)
			subclass.Methods.AddAll(superVal.AsObj().(*object.Class).Methods)
			vm.pop()
		case chunk.OpMethod:
			name := c.Constants[inst.A].AsObj().(*object.String)
			method := vm.peek(0)
			class := vm.peek(1).AsObj().(*object.Class)
			class.Methods.Set(name, method)
			vm.pop()
		default:
			return vm.runtimeError(wrapf("unknown opcode %v", inst.Op))
		}
	}
}

func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(value.NumberValue(a.AsNumber() + b.AsNumber()))
		return nil
	case a.IsObjType(value.ObjString) && b.IsObjType(value.ObjString):
		vm.pop()
		vm.pop()
		as := a.AsObj().(*object.String).Chars
		bs := b.AsObj().(*object.String).Chars
		vm.push(value.ObjValue(vm.Intern(as + bs)))
		return nil
	default:
		return wrapf("Operands must be two numbers or two strings.")
	}
}
