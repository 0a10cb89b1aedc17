package compiler

import "github.com/kristofer/glox/pkg/scanner"

// Precedence mirrors clox's precedence ladder exactly (spec §4.3).
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[scanner.TokenType]parseRule

func init() {
	rules = map[scanner.TokenType]parseRule{
		scanner.TokenLeftParen:    {(*Compiler).grouping, (*Compiler).call, PrecCall},
		scanner.TokenDot:          {nil, (*Compiler).dot, PrecCall},
		scanner.TokenMinus:        {(*Compiler).unary, (*Compiler).binary, PrecTerm},
		scanner.TokenPlus:         {nil, (*Compiler).binary, PrecTerm},
		scanner.TokenSlash:        {nil, (*Compiler).binary, PrecFactor},
		scanner.TokenStar:         {nil, (*Compiler).binary, PrecFactor},
		scanner.TokenBang:         {(*Compiler).unary, nil, PrecNone},
		scanner.TokenBangEqual:    {nil, (*Compiler).binary, PrecEquality},
		scanner.TokenEqualEqual:   {nil, (*Compiler).binary, PrecEquality},
		scanner.TokenGreater:      {nil, (*Compiler).binary, PrecComparison},
		scanner.TokenGreaterEqual: {nil, (*Compiler).binary, PrecComparison},
		scanner.TokenLess:         {nil, (*Compiler).binary, PrecComparison},
		scanner.TokenLessEqual:    {nil, (*Compiler).binary, PrecComparison},
		scanner.TokenIdentifier:   {(*Compiler).variable, nil, PrecNone},
		scanner.TokenString:       {(*Compiler).string, nil, PrecNone},
		scanner.TokenNumber:       {(*Compiler).number, nil, PrecNone},
		scanner.TokenAnd:          {nil, (*Compiler).and, PrecAnd},
		scanner.TokenOr:           {nil, (*Compiler).or, PrecOr},
		scanner.TokenFalse:        {(*Compiler).literal, nil, PrecNone},
		scanner.TokenTrue:         {(*Compiler).literal, nil, PrecNone},
		scanner.TokenNil:          {(*Compiler).literal, nil, PrecNone},
		scanner.TokenThis:         {(*Compiler).this, nil, PrecNone},
		scanner.TokenSuper:        {(*Compiler).super, nil, PrecNone},
	}
}

func getRule(t scanner.TokenType) parseRule {
	if r, ok := rules[t]; ok {
		return r
	}
	return parseRule{nil, nil, PrecNone}
}
