// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"

	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/token"
)

// TraceFunc is called after each postfix token is applied, with the stack
// contents at that point (bottom first).
type TraceFunc func(tok token.Token, stack []float64)

// Evaluator runs postfix token sequences on an operand stack.
type Evaluator struct {
	trace TraceFunc
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTrace sets a callback invoked after every applied token.
func WithTrace(fn TraceFunc) Option {
	return func(e *Evaluator) { e.trace = fn }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the value of a postfix token sequence. Exactly one value
// must remain once all tokens are applied, and it must be finite.
func (e *Evaluator) Evaluate(postfix []token.Token) (float64, error) {
	var stack Stack

	for _, tok := range postfix {
		if err := apply(&stack, tok); err != nil {
			return 0, err
		}
		if e.trace != nil {
			e.trace(tok, stack.Values())
		}
	}

	switch stack.Len() {
	case 1:
	case 0:
		return 0, expr.Errorf(expr.InvalidSyntax, "nothing to evaluate")
	default:
		return 0, expr.Errorf(expr.InvalidSyntax, "missing operator: %d values left over", stack.Len())
	}

	result, _ := stack.Pop()
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, expr.Errorf(expr.DomainError, "result is not a finite number")
	}
	return result, nil
}

func apply(s *Stack, tok token.Token) error {
	switch tok.Kind {
	case token.NUMBER:
		s.Push(tok.Value)
		return nil

	case token.CONSTANT:
		v, err := constant(tok.Name)
		if err != nil {
			return err
		}
		s.Push(v)
		return nil

	case token.OPERATOR:
		return applyOperator(s, tok.Op)

	case token.FUNCTION:
		fn := getBuiltin(tok.Name)
		if fn == nil {
			return expr.Errorf(expr.InvalidSyntax, "unknown function %q", tok.Name)
		}
		return fn(s)
	}

	// Parentheses and commas never survive conversion.
	return expr.Errorf(expr.InvalidSyntax, "unexpected token %s in postfix input", tok)
}

func applyOperator(s *Stack, op token.Op) error {
	switch op {
	case token.NEG:
		a, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(-a)
		return nil

	case token.PERCENT:
		a, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(a / 100)
		return nil
	}

	left, right, err := s.Pop2()
	if err != nil {
		return err
	}
	switch op {
	case token.ADD:
		s.Push(left + right)
	case token.SUB:
		s.Push(left - right)
	case token.MUL:
		s.Push(left * right)
	case token.DIV:
		if right == 0 {
			return expr.Errorf(expr.DivideByZero, "cannot divide by zero")
		}
		s.Push(left / right)
	default:
		return expr.Errorf(expr.InvalidSyntax, "unknown operator %s", op)
	}
	return nil
}
