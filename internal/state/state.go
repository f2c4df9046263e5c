// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package state holds the calculator UI state and the pure reducer that
// folds user intents into it.
package state

import "nickandperla.net/calc/internal/expr"

// Destination names a screen.
type Destination string

const (
	Calculator Destination = "calculator"
	History    Destination = "history"
)

// ParseDestination accepts only the known screen names.
func ParseDestination(name string) (Destination, bool) {
	switch d := Destination(name); d {
	case Calculator, History:
		return d, true
	}
	return "", false
}

// HistoryEntry records one evaluation attempt. Entries are never modified
// after creation.
type HistoryEntry struct {
	ID          string
	TimestampMs int64
	Expression  string
	Result      expr.Result
}

// State is the single source of truth for the calculator UI. LastResult and
// ErrorMessage are empty when absent.
type State struct {
	CurrentExpression string
	LastResult        string // "= <formatted>" of the last success
	ErrorMessage      string
	History           []HistoryEntry // newest first
	Destination       Destination
}

// Initial returns the state shown at startup.
func Initial() State {
	return State{Destination: Calculator}
}

// HasError returns true if an error message is showing.
func (s State) HasError() bool {
	return s.ErrorMessage != ""
}

// ResultOnDisplay returns true if the buffer holds the last computed result.
func (s State) ResultOnDisplay() bool {
	return s.LastResult != "" && s.LastResult == resultPrefix+s.CurrentExpression
}

// FindEntry returns the history entry with the given id.
func (s State) FindEntry(id string) (HistoryEntry, bool) {
	for _, e := range s.History {
		if e.ID == id {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

const resultPrefix = "= "
