// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the postfix evaluator.
package eval

import "nickandperla.net/calc/internal/expr"

// Stack is a LIFO operand stack.
type Stack struct {
	items []float64
}

// Push adds v to the top of the stack.
func (s *Stack) Push(v float64) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value. Popping an empty stack fails with
// StackUnderflow.
func (s *Stack) Pop() (float64, error) {
	if len(s.items) == 0 {
		return 0, expr.Errorf(expr.StackUnderflow, "not enough operands")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

// Pop2 pops the right operand then the left one and returns them in
// (left, right) order.
func (s *Stack) Pop2() (left, right float64, err error) {
	right, err = s.Pop()
	if err != nil {
		return 0, 0, err
	}
	left, err = s.Pop()
	if err != nil {
		return 0, 0, err
	}
	return left, right, nil
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// Values returns a copy of the stack contents, bottom first.
func (s *Stack) Values() []float64 {
	return append([]float64(nil), s.items...)
}
