package compiler

import (
	"strconv"

	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/scanner"
	"github.com/kristofer/glox/pkg/value"
)

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the heart of the Pratt compiler: it compiles
// whatever prefix expression starts the next token, then keeps folding in
// infix operators as long as their precedence binds at least as tightly
// as the precedence floor it was called with (spec §4.3).
func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefixRule := getRule(c.p.previous.Type).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	prefixRule(c, canAssign)

	for prec <= getRule(c.p.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.p.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(scanner.TokenEqual) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) number(canAssign bool) {
	n, _ := strconv.ParseFloat(c.p.previous.Lexeme, 64)
	c.emitConstant(value.NumberValue(n))
}

func (c *Compiler) string(canAssign bool) {
	lex := c.p.previous.Lexeme
	s := lex[1 : len(lex)-1] // strip surrounding quotes
	c.emitConstant(value.ObjValue(c.interner.Intern(s)))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.p.previous.Type {
	case scanner.TokenFalse:
		c.emit(chunk.OpFalse, 0, 0)
	case scanner.TokenTrue:
		c.emit(chunk.OpTrue, 0, 0)
	case scanner.TokenNil:
		c.emit(chunk.OpNil, 0, 0)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(scanner.TokenRightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(canAssign bool) {
	opType := c.p.previous.Type
	c.parsePrecedence(PrecUnary)
	switch opType {
	case scanner.TokenBang:
		c.emit(chunk.OpNot, 0, 0)
	case scanner.TokenMinus:
		c.emit(chunk.OpNegate, 0, 0)
	}
}

func (c *Compiler) binary(canAssign bool) {
	opType := c.p.previous.Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case scanner.TokenBangEqual:
		c.emit(chunk.OpEqual, 0, 0)
		c.emit(chunk.OpNot, 0, 0)
	case scanner.TokenEqualEqual:
		c.emit(chunk.OpEqual, 0, 0)
	case scanner.TokenGreater:
		c.emit(chunk.OpGreater, 0, 0)
	case scanner.TokenGreaterEqual:
		c.emit(chunk.OpLess, 0, 0)
		c.emit(chunk.OpNot, 0, 0)
	case scanner.TokenLess:
		c.emit(chunk.OpLess, 0, 0)
	case scanner.TokenLessEqual:
		c.emit(chunk.OpGreater, 0, 0)
		c.emit(chunk.OpNot, 0, 0)
	case scanner.TokenPlus:
		c.emit(chunk.OpAdd, 0, 0)
	case scanner.TokenMinus:
		c.emit(chunk.OpSubtract, 0, 0)
	case scanner.TokenStar:
		c.emit(chunk.OpMultiply, 0, 0)
	case scanner.TokenSlash:
		c.emit(chunk.OpDivide, 0, 0)
	}
}

func (c *Compiler) call(canAssign bool) {
	argCount := c.argumentList()
	c.emit(chunk.OpCall, argCount, 0)
}

func (c *Compiler) argumentList() int {
	count := 0
	if !c.check(scanner.TokenRightParen) {
		for {
			c.expression()
			if count == 255 {
				c.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.match(scanner.TokenComma) {
				break
			}
		}
	}
	c.consume(scanner.TokenRightParen, "Expect ')' after arguments.")
	return count
}

func (c *Compiler) dot(canAssign bool) {
	c.consume(scanner.TokenIdentifier, "Expect property name after '.'.")
	name := c.identifierConstant(c.p.previous.Lexeme)

	switch {
	case canAssign && c.match(scanner.TokenEqual):
		c.expression()
		c.emit(chunk.OpSetProperty, name, 0)
	case c.match(scanner.TokenLeftParen):
		argCount := c.argumentList()
		c.emit(chunk.OpInvoke, name, argCount)
	default:
		c.emit(chunk.OpGetProperty, name, 0)
	}
}

func (c *Compiler) and(canAssign bool) {
	endJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emit(chunk.OpPop, 0, 0)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or(canAssign bool) {
	elseJump := c.emitJump(chunk.OpJumpIfFalse)
	endJump := c.emitJump(chunk.OpJump)
	c.patchJump(elseJump)
	c.emit(chunk.OpPop, 0, 0)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.p.previous.Lexeme, canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp chunk.Op
	slot := c.resolveLocal(name)
	if slot != -1 {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else if slot = c.resolveUpvalue(name); slot != -1 {
		getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
	} else {
		slot = c.identifierConstant(name)
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && c.match(scanner.TokenEqual) {
		c.expression()
		c.emit(setOp, slot, 0)
	} else {
		c.emit(getOp, slot, 0)
	}
}

func (c *Compiler) this(canAssign bool) {
	if c.class == nil {
		c.error("Can't use 'this' outside of a class.")
		return
	}
	c.variable(false)
}

func (c *Compiler) super(canAssign bool) {
	if c.class == nil {
		c.error("Can't use 'super' outside of a class.")
	} else if !c.class.hasSuperclass {
		c.error("Can't use 'super' in a class with no superclass.")
	}
	c.consume(scanner.TokenDot, "Expect '.' after 'super'.")
	c.consume(scanner.TokenIdentifier, "Expect superclass method name.")
	name := c.identifierConstant(c.p.previous.Lexeme)

	c.namedVariable("this", false)
	if c.match(scanner.TokenLeftParen) {
		argCount := c.argumentList()
		c.namedVariable("super", false)
		c.emit(chunk.OpSuperInvoke, name, argCount)
	} else {
		c.namedVariable("super", false)
		c.emit(chunk.OpGetSuper, name, 0)
	}
}
