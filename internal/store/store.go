// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides the session log of evaluation attempts. Logs live
// for the lifetime of the process only.
package store

import "nickandperla.net/calc/internal/expr"

// Record is one logged evaluation attempt.
type Record struct {
	ID          string
	TimestampMs int64
	Expression  string
	OK          bool
	Value       float64 // set when OK
	Formatted   string  // set when OK
	Kind        string  // error kind name, set when !OK
	Message     string  // error message, set when !OK
}

// Result rebuilds the evaluation outcome of the record. An unrecognized
// kind name is reported as InvalidSyntax.
func (r Record) Result() expr.Result {
	if r.OK {
		return expr.Success{Value: r.Value, Formatted: r.Formatted}
	}
	kind, _ := expr.ParseKind(r.Kind)
	return expr.NewFailure(kind, r.Message)
}

// Store is the interface for the session log.
type Store interface {
	// Append adds a record. Records with an existing ID are ignored.
	Append(r Record) error
	// Get retrieves a record by ID. Returns nil if not found.
	Get(id string) (*Record, error)
	// List returns records newest first. A limit of 0 returns all of them.
	List(limit int) ([]Record, error)
	// Search returns records whose expression contains substr, newest first.
	Search(substr string, limit int) ([]Record, error)
	// Clear removes all records.
	Clear() error
	// Close releases resources.
	Close() error
}
