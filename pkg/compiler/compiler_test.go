package compiler_test

import (
	"strings"
	"testing"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/compiler"
	"github.com/kristofer/glox/pkg/gc"
	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/table"
)

// mapInterner is a minimal compiler.Interner for tests that don't need a
// full VM: it interns by Go-string identity via a plain map, which is
// enough to exercise the compiler's own logic in isolation.
type mapInterner struct {
	strings map[string]*object.String
	gcol    *gc.Collector
}

func newMapInterner(gcol *gc.Collector) *mapInterner {
	return &mapInterner{strings: map[string]*object.String{}, gcol: gcol}
}

func (m *mapInterner) Intern(s string) *object.String {
	if existing, ok := m.strings[s]; ok {
		return existing
	}
	str := object.NewString(s)
	m.gcol.Track(str)
	m.strings[s] = str
	return str
}

func compileSource(t *testing.T, source string) *object.Function {
	t.Helper()
	gcol := gc.New(table.New())
	fn, err := compiler.Compile(source, newMapInterner(gcol), gcol)
	if err != nil {
		t.Fatalf("Compile(%q) returned error: %v", source, err)
	}
	return fn
}

func TestCompileSimpleExpressionStatement(t *testing.T) {
	fn := compileSource(t, `print 1 + 2;`)
	dis := chunk.Disassemble(fn.Chunk, "test")
	if !strings.Contains(dis, "OP_ADD") || !strings.Contains(dis, "OP_PRINT") {
		t.Errorf("expected ADD and PRINT in disassembly, got:\n%s", dis)
	}
}

func TestCompilePrecedence(t *testing.T) {
	// Multiplication must bind tighter than addition: 1 + 2 * 3 compiles to
	// push 1, push 2, push 3, multiply, add — not the other order.
	fn := compileSource(t, `print 1 + 2 * 3;`)
	var ops []chunk.Op
	for _, inst := range fn.Chunk.Code {
		ops = append(ops, inst.Op)
	}
	foundMul, foundAdd := -1, -1
	for i, op := range ops {
		if op == chunk.OpMultiply {
			foundMul = i
		}
		if op == chunk.OpAdd {
			foundAdd = i
		}
	}
	if foundMul == -1 || foundAdd == -1 || foundMul > foundAdd {
		t.Fatalf("expected OpMultiply before OpAdd, got ops %v", ops)
	}
}

func TestCompileErrorOnUnterminatedBlock(t *testing.T) {
	gcol := gc.New(table.New())
	_, err := compiler.Compile(`{ var x = 1;`, newMapInterner(gcol), gcol)
	if err == nil {
		t.Fatal("expected a compile error for an unterminated block")
	}
}

func TestCompileSynchronizesAfterError(t *testing.T) {
	// A bogus statement followed by a valid one and then a second bogus
	// one should report both errors, confirming panic-mode recovery
	// resumes parsing rather than aborting outright.
	gcol := gc.New(table.New())
	_, err := compiler.Compile(`var ; print "after"; var ;`, newMapInterner(gcol), gcol)
	if err == nil {
		t.Fatal("expected a compile error for a malformed var declaration")
	}
	if n := strings.Count(err.Error(), "Expect variable name."); n != 2 {
		t.Errorf("expected both malformed declarations reported, got %d in: %v", n, err)
	}
}

func TestCompileClassWithMethodAndInheritance(t *testing.T) {
	fn := compileSource(t, `
class Base {
  greet() { print "hi"; }
}
class Derived < Base {}
var d = Derived();
d.greet();
`)
	dis := chunk.Disassemble(fn.Chunk, "test")
	for _, want := range []string{"OP_CLASS", "OP_INHERIT", "OP_METHOD"} {
		if !strings.Contains(dis, want) {
			t.Errorf("expected %s in disassembly, got:\n%s", want, dis)
		}
	}
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	fn := compileSource(t, `
fun outer() {
  var x = 1;
  fun inner() { return x; }
  return inner;
}
`)
	dis := chunk.Disassemble(fn.Chunk, "test")
	if !strings.Contains(dis, "OP_CLOSURE") {
		t.Errorf("expected OP_CLOSURE in disassembly, got:\n%s", dis)
	}

	// inner's OP_CLOSURE, inside outer's chunk, captures outer's local x
	// (slot 1; slot 0 is reserved).
	var outer *object.Function
	for _, k := range fn.Chunk.Constants {
		if !k.IsObj() {
			continue
		}
		if f, ok := k.AsObj().(*object.Function); ok && f.Name != nil && f.Name.Chars == "outer" {
			outer = f
		}
	}
	if outer == nil {
		t.Fatal("expected outer's function in the script's constant pool")
	}
	if inner := chunk.Disassemble(outer.Chunk, "outer"); !strings.Contains(inner, "local 1") {
		t.Errorf("expected inner to capture local slot 1, got:\n%s", inner)
	}
}
