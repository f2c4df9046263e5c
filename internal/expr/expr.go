// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines evaluation results and the evaluation error taxonomy.
package expr

// Result is the outcome of evaluating one expression. It is either a
// Success or a Failure, never both.
type Result interface {
	// String returns the display form of the result.
	String() string
	// OK returns true for Success.
	OK() bool
}

// Success is a finished computation.
type Success struct {
	Value     float64
	Formatted string // display form, e.g. "4" or "0.25"
}

func (s Success) String() string { return s.Formatted }
func (s Success) OK() bool       { return true }

// Failure is an evaluation that stopped at its first error.
type Failure struct {
	Kind    Kind
	Message string
}

func (f Failure) String() string { return f.Kind.String() + ": " + f.Message }
func (f Failure) OK() bool       { return false }

// NewFailure creates a Failure from a kind and message.
func NewFailure(kind Kind, msg string) Failure {
	return Failure{Kind: kind, Message: msg}
}

// Formatted returns the formatted value of r if it is a Success.
func Formatted(r Result) (string, bool) {
	s, ok := r.(Success)
	if !ok {
		return "", false
	}
	return s.Formatted, true
}
