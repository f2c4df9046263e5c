// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package engine turns expression text into display-ready results by running
// the scanner, the postfix converter and the postfix evaluator in sequence.
package engine

import (
	"log/slog"
	"strings"

	"nickandperla.net/calc/internal/eval"
	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/postfix"
	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/token"
)

// Engine evaluates arithmetic expressions.
type Engine struct {
	log  *slog.Logger
	eval *eval.Evaluator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-evaluation debug records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:  slog.New(slog.DiscardHandler),
		eval: eval.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile tokenizes text and converts it to postfix order.
func (e *Engine) Compile(text string) ([]token.Token, error) {
	tokens, err := scanner.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return postfix.Convert(tokens)
}

// Evaluate computes text. The first failing stage determines the error kind
// of the returned Failure.
func (e *Engine) Evaluate(text string) expr.Result {
	return e.run(text, e.eval)
}

// Trace evaluates text like Evaluate, calling fn with the operand stack
// after each postfix token is applied.
func (e *Engine) Trace(text string, fn eval.TraceFunc) expr.Result {
	return e.run(text, eval.New(eval.WithTrace(fn)))
}

func (e *Engine) run(text string, ev *eval.Evaluator) expr.Result {
	if strings.TrimSpace(text) == "" {
		return expr.NewFailure(expr.InvalidSyntax, "expression is empty")
	}

	rpn, err := e.Compile(text)
	if err != nil {
		return e.fail(text, err)
	}

	v, err := ev.Evaluate(rpn)
	if err != nil {
		return e.fail(text, err)
	}

	formatted := Format(v)
	e.log.Debug("evaluated", "expr", text, "value", formatted)
	return expr.Success{Value: v, Formatted: formatted}
}

func (e *Engine) fail(text string, err error) expr.Result {
	kind := expr.KindOf(err)
	e.log.Debug("evaluation failed", "expr", text, "kind", kind.String(), "err", err)
	return expr.NewFailure(kind, message(kind, err))
}

// message returns the user-facing text for a failure.
func message(kind expr.Kind, err error) string {
	switch kind {
	case expr.DivideByZero:
		return "Cannot divide by zero"
	case expr.MismatchedParentheses:
		return "Mismatched parentheses"
	case expr.StackUnderflow:
		return "Not enough operands"
	}
	msg := err.Error()
	if msg == "" {
		return kind.String()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

var defaultEngine = New()

// Evaluate computes text with a default Engine.
func Evaluate(text string) expr.Result {
	return defaultEngine.Evaluate(text)
}
