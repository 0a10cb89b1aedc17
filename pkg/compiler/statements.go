package compiler

import (
	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/scanner"
	"github.com/kristofer/glox/pkg/value"
)

func (c *Compiler) declaration() {
	switch {
	case c.match(scanner.TokenClass):
		c.classDeclaration()
	case c.match(scanner.TokenFun):
		c.funDeclaration()
	case c.match(scanner.TokenVar):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.p.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(scanner.TokenPrint):
		c.printStatement()
	case c.match(scanner.TokenFor):
		c.forStatement()
	case c.match(scanner.TokenIf):
		c.ifStatement()
	case c.match(scanner.TokenReturn):
		c.returnStatement()
	case c.match(scanner.TokenWhile):
		c.whileStatement()
	case c.match(scanner.TokenLeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) synchronize() {
	c.p.panicMode = false
	for c.p.current.Type != scanner.TokenEOF {
		if c.p.previous.Type == scanner.TokenSemicolon {
			return
		}
		switch c.p.current.Type {
		case scanner.TokenClass, scanner.TokenFun, scanner.TokenVar, scanner.TokenFor,
			scanner.TokenIf, scanner.TokenWhile, scanner.TokenPrint, scanner.TokenReturn:
			return
		}
		c.advance()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(scanner.TokenSemicolon, "Expect ';' after value.")
	c.emit(chunk.OpPrint, 0, 0)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(scanner.TokenSemicolon, "Expect ';' after expression.")
	c.emit(chunk.OpPop, 0, 0)
}

func (c *Compiler) block() {
	for !c.check(scanner.TokenRightBrace) && !c.check(scanner.TokenEOF) {
		c.declaration()
	}
	c.consume(scanner.TokenRightBrace, "Expect '}' after block.")
}

func (c *Compiler) ifStatement() {
	c.consume(scanner.TokenLeftParen, "Expect '(' after 'if'.")
	c.expression()
	c.consume(scanner.TokenRightParen, "Expect ')' after condition.")

	thenJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emit(chunk.OpPop, 0, 0)
	c.statement()

	elseJump := c.emitJump(chunk.OpJump)
	c.patchJump(thenJump)
	c.emit(chunk.OpPop, 0, 0)

	if c.match(scanner.TokenElse) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.currentChunk().Len()
	c.consume(scanner.TokenLeftParen, "Expect '(' after 'while'.")
	c.expression()
	c.consume(scanner.TokenRightParen, "Expect ')' after condition.")

	exitJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emit(chunk.OpPop, 0, 0)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emit(chunk.OpPop, 0, 0)
}

func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(scanner.TokenLeftParen, "Expect '(' after 'for'.")

	switch {
	case c.match(scanner.TokenSemicolon):
		// no initializer
	case c.match(scanner.TokenVar):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.currentChunk().Len()
	exitJump := -1
	if !c.match(scanner.TokenSemicolon) {
		c.expression()
		c.consume(scanner.TokenSemicolon, "Expect ';' after loop condition.")
		exitJump = c.emitJump(chunk.OpJumpIfFalse)
		c.emit(chunk.OpPop, 0, 0)
	}

	if !c.match(scanner.TokenRightParen) {
		bodyJump := c.emitJump(chunk.OpJump)
		incrementStart := c.currentChunk().Len()
		c.expression()
		c.emit(chunk.OpPop, 0, 0)
		c.consume(scanner.TokenRightParen, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emit(chunk.OpPop, 0, 0)
	}

	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.funcType == TypeScript {
		c.error("Can't return from top-level code.")
	}
	if c.match(scanner.TokenSemicolon) {
		c.emitReturn()
		return
	}
	if c.funcType == TypeInitializer {
		c.error("Can't return a value from an initializer.")
	}
	c.expression()
	c.consume(scanner.TokenSemicolon, "Expect ';' after return value.")
	c.emit(chunk.OpReturn, 0, 0)
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(scanner.TokenEqual) {
		c.expression()
	} else {
		c.emit(chunk.OpNil, 0, 0)
	}
	c.consume(scanner.TokenSemicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) parseVariable(errMsg string) int {
	c.consume(scanner.TokenIdentifier, errMsg)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.p.previous.Lexeme)
}

func (c *Compiler) defineVariable(global int) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emit(chunk.OpDefineGlobal, global, 0)
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function_(TypeFunction)
	c.defineVariable(global)
}

// function_ compiles a function body (named differently from the Go
// builtin-looking "function" to stay readable) as a fresh nested
// Compiler, then emits OP_CLOSURE with its capture list in the enclosing
// chunk (spec §4.3).
func (c *Compiler) function_(ft FunctionType) {
	inner := newCompiler(c, ft, c.p, c.interner, c.gc)
	inner.function.Name = c.interner.Intern(c.p.previous.Lexeme)
	c.gc.AddRootProvider(inner)

	inner.beginScope()
	inner.consume(scanner.TokenLeftParen, "Expect '(' after function name.")
	if !inner.check(scanner.TokenRightParen) {
		for {
			inner.function.Arity++
			if inner.function.Arity > 255 {
				inner.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConst := inner.parseVariable("Expect parameter name.")
			inner.defineVariable(paramConst)
			if !inner.match(scanner.TokenComma) {
				break
			}
		}
	}
	inner.consume(scanner.TokenRightParen, "Expect ')' after parameters.")
	inner.consume(scanner.TokenLeftBrace, "Expect '{' before function body.")
	inner.block()

	fn := inner.endCompiler()
	c.gc.RemoveRootProvider(inner)

	constIdx := c.makeConstant(value.ObjValue(fn))
	c.currentChunk().WriteClosure(constIdx, append([]chunk.UpvalueRef(nil), inner.upvalues...), c.p.previous.Line)
}

func (c *Compiler) method() {
	c.consume(scanner.TokenIdentifier, "Expect method name.")
	name := c.p.previous.Lexeme
	nameConst := c.identifierConstant(name)

	ft := TypeMethod
	if name == "init" {
		ft = TypeInitializer
	}
	c.function_(ft)
	c.emit(chunk.OpMethod, nameConst, 0)
}

func (c *Compiler) classDeclaration() {
	c.consume(scanner.TokenIdentifier, "Expect class name.")
	className := c.p.previous.Lexeme
	nameConst := c.identifierConstant(className)
	c.declareVariable()

	c.emit(chunk.OpClass, nameConst, 0)
	c.defineVariable(nameConst)

	cc := &classCompiler{enclosing: c.class}
	c.class = cc

	if c.match(scanner.TokenLess) {
		c.consume(scanner.TokenIdentifier, "Expect superclass name.")
		c.variable(false)
		if c.p.previous.Lexeme == className {
			c.error("A class can't inherit from itself.")
		}

		c.beginScope()
		c.addLocal("super")
		c.defineVariable(0)

		c.namedVariable(className, false)
		c.emit(chunk.OpInherit, 0, 0)
		cc.hasSuperclass = true
	}

	c.namedVariable(className, false)
	c.consume(scanner.TokenLeftBrace, "Expect '{' before class body.")
	for !c.check(scanner.TokenRightBrace) && !c.check(scanner.TokenEOF) {
		c.method()
	}
	c.consume(scanner.TokenRightBrace, "Expect '}' after class body.")
	c.emit(chunk.OpPop, 0, 0)

	if cc.hasSuperclass {
		c.endScope()
	}
	c.class = c.class.enclosing
}
