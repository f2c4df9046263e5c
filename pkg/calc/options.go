// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package calc provides the public API for the calculator.
package calc

import (
	"log/slog"
	"time"

	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/state"
	"nickandperla.net/calc/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithMemoryStore configures an in-memory evaluation log.
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.setStore(store.NewMemory())
	}
}

// WithSQLiteStore configures an evaluation log held in an in-memory SQLite
// database. If the database cannot be opened the runtime falls back to
// WithMemoryStore and logs a warning.
func WithSQLiteStore() Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite()
		if err != nil {
			r.setStore(nil)
			r.storeErr = err
			return
		}
		r.setStore(s)
	}
}

// WithStore sets a custom evaluation log.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.setStore(s)
	}
}

// setStore replaces the evaluation log, closing the one it replaces.
func (r *Runtime) setStore(s store.Store) {
	if r.store != nil && r.store != s {
		if err := r.store.Close(); err != nil {
			r.log.Warn("failed to close replaced store", "err", err)
		}
	}
	r.store = s
	r.storeErr = nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock sets the clock used to timestamp history entries.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) {
		r.now = now
	}
}

// WithIDGenerator sets the generator for history entry ids.
func WithIDGenerator(newID func() string) Option {
	return func(r *Runtime) {
		r.newID = newID
	}
}

// WithEvaluator replaces the expression engine used by Evaluate intents.
func WithEvaluator(fn func(text string) Result) Option {
	return func(r *Runtime) {
		r.evaluate = fn
	}
}

// Store interface for custom evaluation logs.
type Store = store.Store

// Record is one logged evaluation.
type Record = store.Record

// Result is the outcome of one evaluation.
type Result = expr.Result

// Success is a finished computation.
type Success = expr.Success

// Failure is a failed evaluation.
type Failure = expr.Failure

// Kind classifies a Failure.
type Kind = expr.Kind

// Failure kinds.
const (
	InvalidSyntax         = expr.InvalidSyntax
	DivideByZero          = expr.DivideByZero
	DomainError           = expr.DomainError
	StackUnderflow        = expr.StackUnderflow
	MismatchedParentheses = expr.MismatchedParentheses
	UnknownToken          = expr.UnknownToken
)

// State is the calculator UI state.
type State = state.State

// HistoryEntry records one evaluation attempt.
type HistoryEntry = state.HistoryEntry

// Destination names a screen.
type Destination = state.Destination

// Screens.
const (
	ScreenCalculator = state.Calculator
	ScreenHistory    = state.History
)

// Intent is a user action.
type Intent = state.Intent

// Intents.
type (
	Append            = state.Append
	Delete            = state.Delete
	Clear             = state.Clear
	Evaluate          = state.Evaluate
	ClearHistory      = state.ClearHistory
	SwitchDestination = state.SwitchDestination
	UseHistoryEntry   = state.UseHistoryEntry
)

// Reduce is the pure state transition function. evaluate is called for
// Evaluate intents.
func Reduce(s State, in Intent, evaluate func(text string) Result) State {
	return state.Reduce(s, in, evaluate)
}
