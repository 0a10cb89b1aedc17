// Package compiler implements the single-pass Pratt compiler spec §4.3
// describes: Lox source text compiles directly to a chunk.Chunk, with no
// intermediate AST. It is grounded on the teacher's pkg/parser.go (the
// token-stream plumbing: two-token lookahead, accumulated error
// reporting) and original_source's compiler.c (the precedence table,
// compiler-context stack, and locals/upvalues bookkeeping that the
// teacher's own stub compiler never implemented).
package compiler

import (
	"fmt"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/gc"
	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/scanner"
	"github.com/kristofer/glox/pkg/value"
	"github.com/pkg/errors"
)

// Interner deduplicates string objects so that runtime string equality
// (spec §4.5) can rely on pointer identity. The VM implements this over
// its own intern table; the compiler uses it for every identifier and
// string-literal constant it emits.
type Interner interface {
	Intern(s string) *object.String
}

// FunctionType distinguishes the kind of callable a Compiler is currently
// building, which changes how `return`, implicit returns, and `this` are
// compiled (spec §4.3).
type FunctionType int

const (
	TypeFunction FunctionType = iota
	TypeInitializer
	TypeMethod
	TypeScript
)

type local struct {
	name       string
	depth      int // -1 while the declaration's own initializer is being compiled
	isCaptured bool
}

// classCompiler tracks nested class bodies for `this`/`super` resolution
// and for rejecting `super` when a class has no superclass.
type classCompiler struct {
	enclosing      *classCompiler
	hasSuperclass  bool
}

// Compiler holds one function body's compile-time state. Compiling a
// nested function/method pushes a new Compiler with enclosing set to the
// one already in progress, mirroring clox's compiler-stack-via-C-stack
// approach with an explicit Go struct instead.
type Compiler struct {
	enclosing *Compiler

	function *object.Function
	funcType FunctionType

	locals     []local
	upvalues   []chunk.UpvalueRef
	scopeDepth int

	class *classCompiler

	// shared across every Compiler in the enclosing chain for one
	// top-level Compile call:
	p        *parserState
	interner Interner
	gc       *gc.Collector
}

type parserState struct {
	scanner    *scanner.Scanner
	current    scanner.Token
	previous   scanner.Token
	hadError   bool
	panicMode  bool
	lastErr    error
}

// Compile compiles source into a top-level script function, or returns an
// error describing every syntax error found (panic-mode synchronization
// keeps the compiler from cascading a single mistake into hundreds of
// reports — spec §4.3, §7). interner and collector are shared with the VM
// so that compile-time and run-time strings/objects belong to the same
// heap and intern set.
func Compile(source string, interner Interner, collector *gc.Collector) (*object.Function, error) {
	p := &parserState{scanner: scanner.New(source)}
	c := newCompiler(nil, TypeScript, p, interner, collector)
	c.function.Name = nil

	collector.AddRootProvider(c)
	defer collector.RemoveRootProvider(c)

	c.advance()
	for !c.match(scannerTokenEOF) {
		c.declaration()
	}
	c.consume(scannerTokenEOF, "Expect end of expression.")
	fn := c.endCompiler()

	if p.hadError {
		if p.lastErr != nil {
			return nil, p.lastErr
		}
		return nil, errors.New("compile error")
	}
	return fn, nil
}

const scannerTokenEOF = scanner.TokenEOF

func newCompiler(enclosing *Compiler, ft FunctionType, p *parserState, interner Interner, collector *gc.Collector) *Compiler {
	c := &Compiler{
		enclosing: enclosing,
		function:  object.NewFunction(nil),
		funcType:  ft,
		p:         p,
		interner:  interner,
		gc:        collector,
	}
	if enclosing != nil {
		c.class = enclosing.class
	}
	collector.Track(c.function)
	// Slot 0 of every frame is reserved: `this` for methods/initializers,
	// an unnamed sentinel for plain functions/scripts (spec §4.3/§4.4).
	slotName := ""
	if ft == TypeMethod || ft == TypeInitializer {
		slotName = "this"
	}
	c.locals = append(c.locals, local{name: slotName, depth: 0})
	return c
}

// MarkRoots implements gc.RootProvider: the function under construction,
// its constants so far, and every enclosing Compiler in the chain are all
// roots while compilation is in progress (spec §4.6's requirement that the
// GC see compiler state, not just the VM's).
func (c *Compiler) MarkRoots(gcol *gc.Collector) {
	for cur := c; cur != nil; cur = cur.enclosing {
		gcol.MarkObject(cur.function)
	}
}

func (c *Compiler) currentChunk() *chunk.Chunk { return c.function.Chunk }

// --- token stream -----------------------------------------------------

func (c *Compiler) advance() {
	c.p.previous = c.p.current
	for {
		c.p.current = c.p.scanner.Next()
		if c.p.current.Type != scanner.TokenError {
			break
		}
		c.errorAtCurrent(c.p.current.Lexeme)
	}
}

func (c *Compiler) check(t scanner.TokenType) bool { return c.p.current.Type == t }

func (c *Compiler) match(t scanner.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t scanner.TokenType, msg string) {
	if c.p.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.p.current, msg) }
func (c *Compiler) error(msg string)          { c.errorAt(c.p.previous, msg) }

func (c *Compiler) errorAt(tok scanner.Token, msg string) {
	if c.p.panicMode {
		return
	}
	c.p.panicMode = true
	where := ""
	switch tok.Type {
	case scanner.TokenEOF:
		where = " at end"
	case scanner.TokenError:
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	err := fmt.Errorf("[line %d] Error%s: %s", tok.Line, where, msg)
	if c.p.lastErr == nil {
		c.p.lastErr = err
	} else {
		c.p.lastErr = errors.Wrap(c.p.lastErr, err.Error())
	}
	c.p.hadError = true
}

// --- emission helpers ---------------------------------------------------

func (c *Compiler) emit(op chunk.Op, a, b int) int {
	return c.currentChunk().Write(op, a, b, c.p.previous.Line)
}

func (c *Compiler) emitReturn() {
	if c.funcType == TypeInitializer {
		c.emit(chunk.OpGetLocal, 0, 0)
	} else {
		c.emit(chunk.OpNil, 0, 0)
	}
	c.emit(chunk.OpReturn, 0, 0)
}

func (c *Compiler) makeConstant(v value.Value) int {
	idx, err := c.currentChunk().AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return 0
	}
	return idx
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emit(chunk.OpConstant, c.makeConstant(v), 0)
}

func (c *Compiler) emitJump(op chunk.Op) int {
	return c.emit(op, 0, 0)
}

func (c *Compiler) patchJump(offset int) {
	if err := c.currentChunk().PatchJump(offset); err != nil {
		c.error(err.Error())
	}
}

func (c *Compiler) emitLoop(loopStart int) {
	if err := c.currentChunk().EmitLoop(loopStart, c.p.previous.Line); err != nil {
		c.error(err.Error())
	}
}

func (c *Compiler) endCompiler() *object.Function {
	c.emitReturn()
	fn := c.function
	return fn
}

// --- identifier / string helpers ---------------------------------------

func (c *Compiler) identifierConstant(name string) int {
	return c.makeConstant(value.ObjValue(c.interner.Intern(name)))
}
