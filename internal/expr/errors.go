// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package expr

import (
	"errors"
	"fmt"
)

// Kind classifies a failed evaluation.
type Kind int

const (
	InvalidSyntax Kind = iota
	DivideByZero
	DomainError
	StackUnderflow
	MismatchedParentheses
	UnknownToken
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case InvalidSyntax:
		return "InvalidSyntax"
	case DivideByZero:
		return "DivideByZero"
	case DomainError:
		return "DomainError"
	case StackUnderflow:
		return "StackUnderflow"
	case MismatchedParentheses:
		return "MismatchedParentheses"
	case UnknownToken:
		return "UnknownToken"
	}
	return "Unknown"
}

// ParseKind parses a taxonomy name into a Kind.
func ParseKind(s string) (Kind, bool) {
	for k := InvalidSyntax; k <= UnknownToken; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return InvalidSyntax, false
}

// Error is returned by the tokenizer, converter and evaluator stages.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Errorf creates an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind of err. Errors that did not originate in an
// evaluation stage are reported as InvalidSyntax.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return InvalidSyntax
}
