// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"

	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/token"
)

// BuiltinFunc applies a function to the operand stack.
type BuiltinFunc func(s *Stack) error

// getBuiltin returns the builtin function for the given name, or nil if not found.
func getBuiltin(name string) BuiltinFunc {
	switch name {
	case token.FuncSin:
		return unary(math.Sin)
	case token.FuncCos:
		return unary(math.Cos)
	case token.FuncTan:
		return unary(math.Tan)
	case token.FuncLog:
		return builtinLog
	case token.FuncSqrt:
		return builtinSqrt
	case token.FuncPow:
		return builtinPow
	}
	return nil
}

func unary(fn func(float64) float64) BuiltinFunc {
	return func(s *Stack) error {
		a, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(fn(a))
		return nil
	}
}

// builtinLog is the natural logarithm.
func builtinLog(s *Stack) error {
	a, err := s.Pop()
	if err != nil {
		return err
	}
	if a <= 0 {
		return expr.Errorf(expr.DomainError, "logarithm argument must be positive")
	}
	s.Push(math.Log(a))
	return nil
}

func builtinSqrt(s *Stack) error {
	a, err := s.Pop()
	if err != nil {
		return err
	}
	if a < 0 {
		return expr.Errorf(expr.DomainError, "square root argument must be non-negative")
	}
	s.Push(math.Sqrt(a))
	return nil
}

// builtinPow takes the base from below the exponent.
func builtinPow(s *Stack) error {
	base, exp, err := s.Pop2()
	if err != nil {
		return err
	}
	s.Push(math.Pow(base, exp))
	return nil
}

// constant resolves a constant name.
func constant(name string) (float64, error) {
	switch name {
	case token.ConstPi:
		return math.Pi, nil
	case token.ConstE:
		return math.E, nil
	}
	return 0, expr.Errorf(expr.InvalidSyntax, "unknown constant %q", name)
}
