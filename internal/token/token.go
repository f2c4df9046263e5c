// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines calculator token kinds and the operator table.
package token

import "strconv"

// Kind represents a token kind.
type Kind int

const (
	EOF Kind = iota
	NUMBER
	OPERATOR
	FUNCTION
	CONSTANT
	LPAREN
	RPAREN
	COMMA
)

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case OPERATOR:
		return "OPERATOR"
	case FUNCTION:
		return "FUNCTION"
	case CONSTANT:
		return "CONSTANT"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case COMMA:
		return "COMMA"
	}
	return "UNKNOWN"
}

// Op identifies an arithmetic operator.
type Op int

const (
	ADD     Op = iota // +
	SUB               // - (binary)
	MUL               // *
	DIV               // /
	PERCENT           // % (postfix, divides by 100)
	NEG               // - (unary)
)

// Precedence returns the binding strength of the operator. Higher binds tighter.
func (o Op) Precedence() int {
	switch o {
	case ADD, SUB:
		return 2
	case MUL, DIV:
		return 3
	case PERCENT:
		return 4
	case NEG:
		return 5
	}
	return 0
}

// LeftAssoc reports whether the operator groups left-to-right.
func (o Op) LeftAssoc() bool {
	return o != NEG
}

// String returns the operator symbol. Unary minus prints as '~'.
func (o Op) String() string {
	switch o {
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	case PERCENT:
		return "%"
	case NEG:
		return "~"
	}
	return "?"
}

// Known function and constant names.
const (
	FuncSin  = "sin"
	FuncCos  = "cos"
	FuncTan  = "tan"
	FuncLog  = "log"
	FuncSqrt = "sqrt"
	FuncPow  = "pow"

	ConstPi = "pi"
	ConstE  = "e"
)

// IsFunction returns true if name is a known function.
func IsFunction(name string) bool {
	switch name {
	case FuncSin, FuncCos, FuncTan, FuncLog, FuncSqrt, FuncPow:
		return true
	}
	return false
}

// IsConstant returns true if name is a known constant.
func IsConstant(name string) bool {
	return name == ConstPi || name == ConstE
}

// IsOperatorRune returns true if r maps directly to an operator token.
// '-' is excluded because its meaning depends on the preceding token.
func IsOperatorRune(r rune) bool {
	switch r {
	case '+', '*', '/', '%':
		return true
	}
	return false
}

// OpFromRune returns the operator for r. Only valid if IsOperatorRune(r).
func OpFromRune(r rune) Op {
	switch r {
	case '+':
		return ADD
	case '*':
		return MUL
	case '/':
		return DIV
	case '%':
		return PERCENT
	}
	return SUB
}

// Token is a single lexical unit. Which fields are meaningful depends on Kind:
// Value for NUMBER, Op for OPERATOR, Name for FUNCTION and CONSTANT.
type Token struct {
	Kind  Kind
	Value float64
	Op    Op
	Name  string
}

// Number returns a NUMBER token.
func Number(v float64) Token { return Token{Kind: NUMBER, Value: v} }

// Operator returns an OPERATOR token.
func Operator(op Op) Token { return Token{Kind: OPERATOR, Op: op} }

// Function returns a FUNCTION token.
func Function(name string) Token { return Token{Kind: FUNCTION, Name: name} }

// Constant returns a CONSTANT token.
func Constant(name string) Token { return Token{Kind: CONSTANT, Name: name} }

// Punctuation tokens.
var (
	LeftParen  = Token{Kind: LPAREN}
	RightParen = Token{Kind: RPAREN}
	Comma      = Token{Kind: COMMA}
)

// String returns a compact textual form, used in traces and test failures.
func (t Token) String() string {
	switch t.Kind {
	case NUMBER:
		return strconv.FormatFloat(t.Value, 'g', -1, 64)
	case OPERATOR:
		return t.Op.String()
	case FUNCTION, CONSTANT:
		return t.Name
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case COMMA:
		return ","
	}
	return t.Kind.String()
}
