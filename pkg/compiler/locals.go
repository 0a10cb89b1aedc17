package compiler

import "github.com/kristofer/glox/pkg/chunk"

const maxLocals = 256
const maxUpvalues = 256

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		if c.locals[len(c.locals)-1].isCaptured {
			c.emit(chunk.OpCloseUpvalue, 0, 0)
		} else {
			c.emit(chunk.OpPop, 0, 0)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) addLocal(name string) {
	if len(c.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.p.previous.Lexeme
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// resolveLocal returns the slot index of name in this function's locals,
// or -1 if it isn't declared locally.
func (c *Compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue recursively resolves name against enclosing compilers,
// adding an upvalue entry at each level it must pass through (spec §4.3's
// upvalue-capture chain).
func (c *Compiler) resolveUpvalue(name string) int {
	if c.enclosing == nil {
		return -1
	}
	if slot := c.enclosing.resolveLocal(name); slot != -1 {
		c.enclosing.locals[slot].isCaptured = true
		return c.addUpvalue(slot, true)
	}
	if up := c.enclosing.resolveUpvalue(name); up != -1 {
		return c.addUpvalue(up, false)
	}
	return -1
}

func (c *Compiler) addUpvalue(index int, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxUpvalues {
		c.error("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, chunk.UpvalueRef{IsLocal: isLocal, Index: index})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}
